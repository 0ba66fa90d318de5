package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/config"
	"github.com/Adedunmol/stresspulse/database"
	"github.com/Adedunmol/stresspulse/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stresspulse",
		Short: "Workplace stress survey API",
		Long: `StressPulse serves the survey form, collects responses and reports
aggregate statistics to administrators.

Running without a subcommand starts the HTTP server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env is what every command needs before it can do anything useful.
type env struct {
	cfg  config.Config
	log  *zap.Logger
	pool *pgxpool.Pool
}

func (e *env) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
	_ = e.log.Sync()
}

func setup(ctx context.Context, requireServerConfig bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if requireServerConfig {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	return &env{cfg: cfg, log: log, pool: pool}, nil
}
