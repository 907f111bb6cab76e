package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dusk-indust/chartaxis/internal/export"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			ids, err := store.List(ctx)
			if err != nil {
				return err
			}
			for _, id := range ids {
				cfg, err := store.Get(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\trev %d\n", id, cfg.SelectedChartType, cfg.Revision)
			}
			return nil
		},
	}
}

func newZonesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "zones <chart-id>",
		Short: "Print a chart's zones and available columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			doc, err := export.ExportChart(ctx, store, args[0])
			if err != nil {
				return err
			}
			return printZones(cmd.OutOrStdout(), doc)
		},
	}
}

func printZones(w io.Writer, doc *export.ChartExport) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", doc.ChartID, doc.ChartType); err != nil {
		return err
	}
	if len(doc.Zones) == 0 {
		fmt.Fprintf(w, "  %s charts have no axis zones\n", doc.ChartType)
	}
	for _, z := range doc.Zones {
		fmt.Fprintf(w, "  %-12s %s\n", z.Title, joinColumns(z.Columns))
	}
	_, err := fmt.Fprintf(w, "  %-12s %s\n", "Available", joinColumns(doc.Available))
	return err
}

func joinColumns(cols []export.ColumnExport) string {
	if len(cols) == 0 {
		return "-"
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
