// Package zone maps a chart's axis configuration onto typed drop zones and
// decides whether a column may enter a zone.
package zone

import (
	"slices"

	"github.com/dusk-indust/chartaxis/internal/chart"
)

// Kind identifies a zone. A chart never has two zones of the same kind.
type Kind string

const (
	KindXAxis        Kind = "xAxis"
	KindYAxis        Kind = "yAxis"
	KindY2Axis       Kind = "y2Axis"
	KindCategoryAxis Kind = "categoryAxis"
	KindSizeAxis     Kind = "sizeAxis"
	KindTooltip      Kind = "tooltip"
	KindAvailable    Kind = "available"
	KindMetric       Kind = "metric"
)

// Titles maps each kind to its default display title.
var Titles = map[Kind]string{
	KindXAxis:        "X-Axis",
	KindYAxis:        "Y-Axis",
	KindY2Axis:       "Right Y-Axis",
	KindCategoryAxis: "Category",
	KindSizeAxis:     "Size",
	KindTooltip:      "Tooltip",
	KindAvailable:    "Available",
	KindMetric:       "Metric",
}

// Zone is the external shape of a zone: column names only.
type Zone struct {
	ID    Kind     `json:"id"`
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// emptyItems is shared by every zone built from an absent axis array.
var emptyItems = []string{}

// chartKinds is the ordered zone layout of each chart type. Metric and table
// charts have no draggable zones.
var chartKinds = map[chart.ChartType][]Kind{
	chart.Bar:     {KindXAxis, KindYAxis, KindCategoryAxis, KindTooltip},
	chart.Line:    {KindXAxis, KindYAxis, KindCategoryAxis, KindTooltip},
	chart.Scatter: {KindXAxis, KindYAxis, KindCategoryAxis, KindSizeAxis, KindTooltip},
	chart.Pie:     {KindXAxis, KindYAxis, KindTooltip},
	chart.Combo:   {KindXAxis, KindYAxis, KindY2Axis, KindCategoryAxis, KindTooltip},
}

// Kinds returns the zone kinds chart type t supports, in display order.
func Kinds(t chart.ChartType) []Kind {
	return slices.Clone(chartKinds[t])
}

// Supports reports whether chart type t has a zone of kind k.
func Supports(t chart.ChartType, k Kind) bool {
	return slices.Contains(chartKinds[t], k)
}

// Build derives the zones for chart type t from axis. Kinds the chart type
// does not use are omitted. The result aliases axis's slices; callers must
// compare zones by content.
func Build(t chart.ChartType, axis chart.AxisConfig) []Zone {
	kinds := chartKinds[t]
	zones := make([]Zone, 0, len(kinds))
	for _, k := range kinds {
		zones = append(zones, Zone{
			ID:    k,
			Title: title(t, k),
			Items: orEmpty(field(axis, k)),
		})
	}
	return zones
}

// Apply writes zones back into a copy of base, replacing each zone's axis
// field wholesale. Fields without a matching zone keep base's value.
func Apply(base chart.AxisConfig, zones []Zone) chart.AxisConfig {
	out := base.Clone()
	for _, z := range zones {
		items := slices.Clone(z.Items)
		switch z.ID {
		case KindXAxis:
			out.X = items
		case KindYAxis:
			out.Y = items
		case KindY2Axis:
			out.Y2 = items
		case KindCategoryAxis:
			out.Category = items
		case KindSizeAxis:
			out.Size = items
		case KindTooltip:
			out.Tooltip = items
		}
	}
	return out
}

func title(t chart.ChartType, k Kind) string {
	if t == chart.Combo && k == KindYAxis {
		return "Left Y-Axis"
	}
	return Titles[k]
}

func field(axis chart.AxisConfig, k Kind) []string {
	switch k {
	case KindXAxis:
		return axis.X
	case KindYAxis:
		return axis.Y
	case KindY2Axis:
		return axis.Y2
	case KindCategoryAxis:
		return axis.Category
	case KindSizeAxis:
		return axis.Size
	case KindTooltip:
		return axis.Tooltip
	}
	return nil
}

func orEmpty(items []string) []string {
	if len(items) == 0 {
		return emptyItems
	}
	return items
}
