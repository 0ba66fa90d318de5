package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Adedunmol/stresspulse/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			return migrateUp(e)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := database.MigrateDown(stdlib.OpenDBFromPool(e.pool), steps); err != nil {
				return err
			}
			e.log.Info("rolled back migrations", zap.Int("steps", steps))
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func migrateUp(e *env) error {
	changed, err := database.MigrateUp(stdlib.OpenDBFromPool(e.pool))
	if err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}
	if changed {
		e.log.Info("database migrated")
	} else {
		e.log.Debug("database schema up to date")
	}
	return nil
}

