package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sparx-api/internal/bootstrap"
	"github.com/noah-isme/sparx-api/pkg/config"
	"github.com/noah-isme/sparx-api/pkg/logger"
)

// App holds the lazily wired dependencies of a CLI run.
type App struct {
	ctx       context.Context
	cfg       *config.Config
	logger    *zap.Logger
	container *bootstrap.Container
	output    string
}

var app = &App{}

func main() {
	rootCmd := &cobra.Command{
		Use:           "schedulectl",
		Short:         "Operate semester timetables from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&app.output, "output", "o", formatJSON, "Output format (json or yaml)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(reoptimizeCmd())
	rootCmd.AddCommand(publishCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *App) init(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a.ctx = ctx

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	a.logger, err = logger.New(cfg, "schedulectl")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

// services connects to the stores on first use so commands like token stay offline.
// Workers are not started, so cache invalidation after publish runs inline.
func (a *App) services() (*bootstrap.Container, error) {
	if a.container != nil {
		return a.container, nil
	}
	c, err := bootstrap.New(a.ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.container = c
	return c, nil
}

func (a *App) close() {
	if a.container != nil {
		a.container.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
