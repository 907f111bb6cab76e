// Package export renders a chart's axis assignment as a JSON document or a
// Mermaid diagram.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/chartstore"
	"github.com/dusk-indust/chartaxis/internal/zone"
)

// ChartExport is the top-level JSON export structure.
type ChartExport struct {
	ChartID    string          `json:"chartId"`
	ChartType  chart.ChartType `json:"chartType"`
	Revision   int64           `json:"revision"`
	ExportedAt string          `json:"exportedAt,omitempty"`
	Zones      []ZoneExport    `json:"zones"`
	Available  []ColumnExport  `json:"available"`
}

// ZoneExport describes one zone of the selected chart type.
type ZoneExport struct {
	ID      zone.Kind      `json:"id"`
	Title   string         `json:"title"`
	Columns []ColumnExport `json:"columns"`
}

// ColumnExport is a column with its resolved label format.
type ColumnExport struct {
	Name  string            `json:"name"`
	Type  chart.ColumnType  `json:"type"`
	Style chart.ColumnStyle `json:"style"`
}

// ExportChart loads chartID from store and builds its export.
func ExportChart(ctx context.Context, store chartstore.Store, chartID string) (*ChartExport, error) {
	cfg, err := store.Get(ctx, chartID)
	if err != nil {
		return nil, fmt.Errorf("get chart %s: %w", chartID, err)
	}
	export := ExportConfig(cfg)
	export.ExportedAt = time.Now().UTC().Format(time.RFC3339)
	return export, nil
}

// ExportConfig builds the export of cfg's selected chart type. Available
// lists the chart's columns that no zone holds, in column order.
func ExportConfig(cfg *chart.Config) *ChartExport {
	zones := zone.Build(cfg.SelectedChartType, cfg.SelectedAxis())

	export := &ChartExport{
		ChartID:   cfg.ID,
		ChartType: cfg.SelectedChartType,
		Revision:  cfg.Revision,
		Zones:     make([]ZoneExport, 0, len(zones)),
		Available: []ColumnExport{},
	}

	assigned := make(map[string]bool)
	for _, z := range zones {
		cols := make([]ColumnExport, 0, len(z.Items))
		for _, name := range z.Items {
			assigned[name] = true
			cols = append(cols, column(cfg, name))
		}
		export.Zones = append(export.Zones, ZoneExport{ID: z.ID, Title: z.Title, Columns: cols})
	}
	for _, name := range cfg.Columns {
		if !assigned[name] {
			export.Available = append(export.Available, column(cfg, name))
		}
	}
	return export
}

func column(cfg *chart.Config, name string) ColumnExport {
	meta := cfg.ColumnMeta(name)
	return ColumnExport{Name: name, Type: meta.Type, Style: meta.Style}
}
