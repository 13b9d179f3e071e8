package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/zaika/config"
	"github.com/shashiranjanraj/zaika/database/migrations"
	"github.com/shashiranjanraj/zaika/database/seeders"
	"github.com/shashiranjanraj/zaika/pkg/database"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

func dbContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// zaika migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Disconnect()

		ctx, cancel := dbContext()
		defer cancel()

		fmt.Println("Running migrations…")
		return migrations.Run(ctx, database.DB)
	},
}

// zaika migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Disconnect()

		ctx, cancel := dbContext()
		defer cancel()

		names, applied, err := migrations.Status(ctx, database.DB)
		if err != nil {
			return err
		}
		for _, name := range names {
			state := "pending"
			if applied[name] {
				state = "applied"
			}
			fmt.Printf("  %-50s %s\n", name, state)
		}
		return nil
	},
}

// zaika seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Disconnect()

		ctx, cancel := dbContext()
		defer cancel()

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, database.DB)
	},
}
