package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/podwatch/internal/bootstrap"
	"github.com/creamcroissant/podwatch/internal/config"
	"github.com/creamcroissant/podwatch/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Manage the SQLite cache schema",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := bootstrap.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	direction := "up"
	if len(args) > 0 {
		direction = args[0]
	}

	switch direction {
	case "up":
		return migrations.Up(db)
	case "down":
		return migrations.Down(db)
	case "status":
		return migrations.Status(db)
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}
}
