package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m3rciful/quizbot/core/config"
	"github.com/m3rciful/quizbot/core/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations for the postgres or sqlite store",
	RunE: func(c *cobra.Command, _ []string) error {
		switch cfg.Store.Backend {
		case config.BackendPostgres, config.BackendSQLite:
		default:
			return fmt.Errorf("store backend %q has no migrations", cfg.Store.Backend)
		}
		target, err := database.TargetFor(cfg)
		if err != nil {
			return err
		}
		return database.RunMigrations(c.Context(), target)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
