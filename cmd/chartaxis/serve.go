package main

import (
	"context"
	"errors"

	"github.com/dusk-indust/chartaxis/internal/chartstore"
	"github.com/dusk-indust/chartaxis/internal/mcptools"
	"github.com/dusk-indust/chartaxis/internal/rpc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	var listen, mcpAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor over JSON-RPC, with optional MCP over HTTP",
		Long: `Serve runs the JSON-RPC endpoint (POST /rpc) and per-session event
streams (GET /sessions/{id}/events). With --mcp-addr it also serves the MCP
tools over streamable HTTP. For the file store, chart files edited on disk
are reloaded into open sessions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				a.cfg.ListenAddr = listen
			}
			if mcpAddr != "" {
				a.cfg.MCPAddr = mcpAddr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "JSON-RPC listen address (default from config)")
	cmd.Flags().StringVar(&mcpAddr, "mcp-addr", "", "also serve MCP over streamable HTTP on this address")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	ed := a.newEditor(store, a.logger)
	defer ed.Shutdown()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return rpc.NewServer(ed, rpc.WithLogger(a.logger)).Serve(ctx, a.cfg.ListenAddr)
	})

	if a.cfg.MCPAddr != "" {
		g.Go(func() error {
			return mcptools.RunHTTP(ctx, mcptools.NewAxisMCPServer(ed), a.cfg.MCPAddr, a.logger)
		})
	}

	if fs, ok := store.(*chartstore.FileStore); ok {
		w, err := chartstore.NewWatcher(fs.Dir(), func(ctx context.Context, id string) {
			if err := ed.Reload(ctx, id); err != nil {
				a.logger.Warn("reload chart", zap.String("chart", id), zap.Error(err))
			}
		},
			chartstore.WithWatchLogger(a.logger),
			chartstore.WithDebounce(a.cfg.WatchDebounce.Duration()),
		)
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
