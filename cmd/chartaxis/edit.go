package main

import (
	"github.com/dusk-indust/chartaxis/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <chart-id>",
		Short: "Edit a chart's axes in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			// The terminal belongs to the editor; logs would corrupt it.
			ed := a.newEditor(store, zap.NewNop())
			defer ed.Shutdown()

			v, err := ed.Open(ctx, args[0])
			if err != nil {
				return err
			}
			return tui.Run(ctx, ed, v.SessionID)
		},
	}
}
