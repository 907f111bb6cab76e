// Package chart holds the persisted chart configuration that the axis editor
// reads from and writes back to. It is the external source of truth for a
// drag session: sessions never keep their own copy past a reload.
package chart

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ChartType selects which axis block and which zones a chart uses.
type ChartType string

const (
	Bar     ChartType = "bar"
	Line    ChartType = "line"
	Scatter ChartType = "scatter"
	Pie     ChartType = "pie"
	Combo   ChartType = "combo"
	Metric  ChartType = "metric"
	Table   ChartType = "table"
)

// ChartTypes lists every supported chart type in display order.
var ChartTypes = []ChartType{Bar, Line, Scatter, Pie, Combo, Metric, Table}

// Valid reports whether c is one of ChartTypes.
func (c ChartType) Valid() bool {
	return slices.Contains(ChartTypes, c)
}

// ParseChartType converts user input into a ChartType.
func ParseChartType(s string) (ChartType, error) {
	c := ChartType(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown chart type %q", s)
	}
	return c, nil
}

// AxisConfig is the per-chart-type column assignment. Each field is an
// ordered list of column names.
type AxisConfig struct {
	X        []string `json:"x" yaml:"x"`
	Y        []string `json:"y" yaml:"y"`
	Y2       []string `json:"y2,omitempty" yaml:"y2,omitempty"`
	Category []string `json:"category,omitempty" yaml:"category,omitempty"`
	Size     []string `json:"size,omitempty" yaml:"size,omitempty"`
	Tooltip  []string `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
}

// Clone returns a deep copy of a.
func (a AxisConfig) Clone() AxisConfig {
	return AxisConfig{
		X:        slices.Clone(a.X),
		Y:        slices.Clone(a.Y),
		Y2:       slices.Clone(a.Y2),
		Category: slices.Clone(a.Category),
		Size:     slices.Clone(a.Size),
		Tooltip:  slices.Clone(a.Tooltip),
	}
}

// Columns returns every column referenced by a, in field order.
func (a AxisConfig) Columns() []string {
	var out []string
	for _, list := range [][]string{a.X, a.Y, a.Y2, a.Category, a.Size, a.Tooltip} {
		out = append(out, list...)
	}
	return out
}

// Config is the persisted chart configuration. Bar and line charts share
// BarAndLineAxis; switching chart type keeps each type's own assignment.
type Config struct {
	ID                 string                       `json:"id" yaml:"id"`
	SelectedChartType  ChartType                    `json:"selectedChartType" yaml:"selectedChartType"`
	BarAndLineAxis     AxisConfig                   `json:"barAndLineAxis" yaml:"barAndLineAxis"`
	ScatterAxis        AxisConfig                   `json:"scatterAxis" yaml:"scatterAxis"`
	PieChartAxis       AxisConfig                   `json:"pieChartAxis" yaml:"pieChartAxis"`
	ComboChartAxis     AxisConfig                   `json:"comboChartAxis" yaml:"comboChartAxis"`
	Columns            []string                     `json:"columns" yaml:"columns"`
	ColumnLabelFormats map[string]ColumnLabelFormat `json:"columnLabelFormats,omitempty" yaml:"columnLabelFormats,omitempty"`
	Revision           int64                        `json:"revision" yaml:"revision"`
}

// ErrNoAxis is returned when a chart type carries no draggable axes.
var ErrNoAxis = errors.New("chart type has no axis configuration")

// Axis returns the axis block used by chart type t. Metric and table charts
// have none and yield a zero AxisConfig.
func (c *Config) Axis(t ChartType) AxisConfig {
	switch t {
	case Bar, Line:
		return c.BarAndLineAxis
	case Scatter:
		return c.ScatterAxis
	case Pie:
		return c.PieChartAxis
	case Combo:
		return c.ComboChartAxis
	default:
		return AxisConfig{}
	}
}

// SetAxis replaces the axis block for chart type t wholesale.
func (c *Config) SetAxis(t ChartType, axis AxisConfig) error {
	switch t {
	case Bar, Line:
		c.BarAndLineAxis = axis
	case Scatter:
		c.ScatterAxis = axis
	case Pie:
		c.PieChartAxis = axis
	case Combo:
		c.ComboChartAxis = axis
	default:
		return fmt.Errorf("%s: %w", t, ErrNoAxis)
	}
	return nil
}

// SelectedAxis is shorthand for c.Axis(c.SelectedChartType).
func (c *Config) SelectedAxis() AxisConfig {
	return c.Axis(c.SelectedChartType)
}

// ColumnMetas returns metadata for every known column, in Columns order.
func (c *Config) ColumnMetas() []ColumnMeta {
	out := make([]ColumnMeta, 0, len(c.Columns))
	for _, name := range c.Columns {
		out = append(out, c.ColumnMeta(name))
	}
	return out
}

// ColumnMeta resolves the label format for column name. A column without a
// stored format is treated as a plain string column.
func (c *Config) ColumnMeta(name string) ColumnMeta {
	f, ok := c.ColumnLabelFormats[name]
	if !ok {
		return ColumnMeta{Name: name, Type: TypeString, Style: StyleString}
	}
	return ColumnMeta{Name: name, Type: f.ColumnType, Style: f.Style}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.BarAndLineAxis = c.BarAndLineAxis.Clone()
	out.ScatterAxis = c.ScatterAxis.Clone()
	out.PieChartAxis = c.PieChartAxis.Clone()
	out.ComboChartAxis = c.ComboChartAxis.Clone()
	out.Columns = slices.Clone(c.Columns)
	if c.ColumnLabelFormats != nil {
		out.ColumnLabelFormats = make(map[string]ColumnLabelFormat, len(c.ColumnLabelFormats))
		for k, v := range c.ColumnLabelFormats {
			out.ColumnLabelFormats[k] = v
		}
	}
	return &out
}

// Validate checks that the chart type is known and that every axis member
// names a column of the chart.
func (c *Config) Validate() error {
	if c.ID == "" {
		return errors.New("chart id is required")
	}
	if !c.SelectedChartType.Valid() {
		return fmt.Errorf("chart %s: unknown chart type %q", c.ID, c.SelectedChartType)
	}
	known := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		if known[col] {
			return fmt.Errorf("chart %s: duplicate column %q", c.ID, col)
		}
		known[col] = true
	}
	for _, axis := range []AxisConfig{c.BarAndLineAxis, c.ScatterAxis, c.PieChartAxis, c.ComboChartAxis} {
		for _, col := range axis.Columns() {
			if !known[col] {
				return fmt.Errorf("chart %s: axis references unknown column %q", c.ID, col)
			}
		}
	}
	return nil
}
