package main

import (
	"github.com/dusk-indust/chartaxis/internal/mcptools"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the axis editing tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			ed := a.newEditor(store, a.logger)
			defer ed.Shutdown()
			return mcptools.RunStdio(ctx, mcptools.NewAxisMCPServer(ed))
		},
	}
}
