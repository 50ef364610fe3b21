package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlibekovAA/account-service/backend/internal/common/bootstrap"
	"github.com/AlibekovAA/account-service/backend/internal/common/db"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the account database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *db.Migrator) error {
			if err := m.Up(cmd.Context()); err != nil {
				return err
			}
			return printVersion(cmd, m)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: withMigrator(func(cmd *cobra.Command, m *db.Migrator) error {
			if err := m.Down(cmd.Context()); err != nil {
				return err
			}
			return printVersion(cmd, m)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *db.Migrator) error {
			return m.Status(cmd.Context())
		}),
	})

	return cmd
}

func withMigrator(fn func(cmd *cobra.Command, m *db.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		log, cfg, err := bootstrap.Load("account-migrate")
		if err != nil {
			return err
		}

		m, err := db.NewMigrator(cfg.DatabaseURL, log)
		if err != nil {
			return fmt.Errorf("open migrator: %w", err)
		}
		defer m.Close()

		return fn(cmd, m)
	}
}

func printVersion(cmd *cobra.Command, m *db.Migrator) error {
	v, err := m.Version(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("schema version: %d\n", v)
	return nil
}
