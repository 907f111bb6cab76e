package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/dusk-indust/chartaxis/internal/chart"
	"github.com/dusk-indust/chartaxis/internal/chartstore"
)

// GenerateMermaid produces a Mermaid flowchart of chartID's selected chart
// type: one node per zone, one node per assigned column with an arrow into
// its zone labelled by position, and unassigned columns grouped in an
// Available subgraph.
func GenerateMermaid(ctx context.Context, store chartstore.Store, chartID string) (string, error) {
	cfg, err := store.Get(ctx, chartID)
	if err != nil {
		return "", fmt.Errorf("get chart %s: %w", chartID, err)
	}
	return MermaidConfig(cfg), nil
}

// MermaidConfig renders cfg as a Mermaid flowchart.
func MermaidConfig(cfg *chart.Config) string {
	export := ExportConfig(cfg)

	// Node ids are alphanumeric; labels carry the real names.
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")
	fmt.Fprintf(&sb, "  %%%% %s (%s)\n", label(cfg.ID), cfg.SelectedChartType)

	for _, z := range export.Zones {
		fmt.Fprintf(&sb, "  %s{{\"%s\"}}\n", getID("zone:"+string(z.ID)), label(z.Title))
	}
	for _, z := range export.Zones {
		for i, c := range z.Columns {
			col := getID("col:" + c.Name)
			fmt.Fprintf(&sb, "  %s[\"%s\"] -->|%d| %s\n", col, columnLabel(c), i+1, getID("zone:"+string(z.ID)))
		}
	}

	if len(export.Available) > 0 {
		fmt.Fprintf(&sb, "  subgraph %s[\"Available\"]\n", getID("available"))
		for _, c := range export.Available {
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", getID("col:"+c.Name), columnLabel(c))
		}
		sb.WriteString("  end\n")
	}
	return sb.String()
}

func columnLabel(c ColumnExport) string {
	return fmt.Sprintf("%s: %s", label(c.Name), c.Type)
}

// label makes s safe inside a quoted Mermaid label.
func label(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
