package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/staydesk/staydesk/database/seeders"
	"github.com/staydesk/staydesk/pkg/app"
	"github.com/staydesk/staydesk/pkg/migration"
)

// staydesk migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.BootDB(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return migration.New(db, cmd.OutOrStdout()).Run(cmd.Context())
	},
}

// staydesk migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.BootDB(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return migration.New(db, cmd.OutOrStdout()).Rollback(cmd.Context())
	},
}

// staydesk migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.BootDB(cmd.Context())
		if err != nil {
			return err
		}
		return migration.New(db, cmd.OutOrStdout()).Status(cmd.Context())
	},
}

// staydesk seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := app.BootDB(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(cmd.Context(), db, cmd.OutOrStdout())
	},
}
