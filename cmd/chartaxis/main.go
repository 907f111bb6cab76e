package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/chartaxis/internal/chartstore"
	"github.com/dusk-indust/chartaxis/internal/config"
	"github.com/dusk-indust/chartaxis/internal/editor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set by goreleaser at build time.
var version = "dev"

// app carries what every subcommand shares.
type app struct {
	dir     string
	verbose bool
	logger  *zap.Logger
	cfg     *config.ProjectConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "chartaxis",
		Short: "Assign dataset columns to chart axes",
		Long: `chartaxis edits which dataset columns feed which chart axis.

Charts live in a store (YAML files by default). Sessions pick columns up and
drop them onto axis zones; numeric axes refuse non-numeric columns and the
size axis holds a single column. Every accepted drop is written back to the
chart.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.dir)
			if err != nil {
				return err
			}
			a.cfg = cfg

			zc := zap.NewProductionConfig()
			if a.verbose || cfg.Verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			a.logger, err = zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.dir, "dir", ".", "project directory holding chartaxis.yml")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newInitCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newEditCmd(a),
		newListCmd(a),
		newZonesCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)
	return root
}

// openStore opens the configured chart store.
func (a *app) openStore(ctx context.Context) (chartstore.Store, error) {
	store, err := chartstore.Open(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Store, err)
	}
	return store, nil
}

// newEditor builds an editor over store with the configured session
// settings.
func (a *app) newEditor(store chartstore.Store, logger *zap.Logger) *editor.Editor {
	return editor.New(store,
		editor.WithLogger(logger),
		editor.WithSettleDelay(a.cfg.Settle()),
		editor.WithSyncDispatch(a.cfg.SyncDispatch),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}
