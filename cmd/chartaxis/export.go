package main

import (
	"encoding/json"
	"fmt"

	"github.com/dusk-indust/chartaxis/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export <chart-id>",
		Short: "Export a chart's axis assignment as JSON or Mermaid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := export.ExportChart(ctx, store, args[0])
				if err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
				raw, err := json.MarshalIndent(data, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal JSON: %w", err)
				}
				_, err = out.Write(append(raw, '\n'))
				return err
			case "mermaid":
				diagram, err := export.GenerateMermaid(ctx, store, args[0])
				if err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
				_, err = fmt.Fprint(out, diagram)
				return err
			default:
				return fmt.Errorf("unknown format %q (json or mermaid)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or mermaid")
	return cmd
}
