package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/totegamma/fantalega/internal/infra/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db, err := database.NewPostgres(cfg.Server.PostgresDsn)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}

		err = database.MigratePostgres(db)
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		slog.Info("database migrated", slog.String("module", "migrate"))
		return nil
	},
}
