// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package main

import (
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/natour/natour/internal/config"
	"github.com/natour/natour/internal/store"
)

// migrateDeps contains injectable dependencies for the migrate commands.
type migrateDeps struct {
	// MigratorFactory creates a migrator from a database URL.
	// Default: store.NewMigrator
	MigratorFactory func(url string) (Migrator, error)

	// DatabaseURLGetter resolves the database URL.
	// Default: config file, then DATABASE_URL environment variable.
	DatabaseURLGetter func() (string, error)
}

func (d *migrateDeps) applyDefaults() {
	if d.MigratorFactory == nil {
		d.MigratorFactory = func(url string) (Migrator, error) {
			return store.NewMigrator(url)
		}
	}
	if d.DatabaseURLGetter == nil {
		d.DatabaseURLGetter = getDatabaseURL
	}
}

// NewMigrateCmd creates the migrate subcommand with up/down/status/force.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long:  `Apply, roll back and inspect schema migrations against the PostgreSQL database.`,
	}

	cmd.AddCommand(newMigrateUpCmd(nil))
	cmd.AddCommand(newMigrateDownCmd(nil))
	cmd.AddCommand(newMigrateStatusCmd(nil))
	cmd.AddCommand(newMigrateForceCmd(nil))

	return cmd
}

func newMigrateUpCmd(deps *migrateDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(deps, func(m Migrator) error {
				pending, err := m.PendingMigrations()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					cmd.Println("Database schema is up to date")
					return nil
				}
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Printf("Applied %d migration(s)\n", len(pending))
				return nil
			})
		},
	}
}

func newMigrateDownCmd(deps *migrateDeps) *cobra.Command {
	cfg := struct{ yes bool }{}

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Long:  `Roll back all migrations to version 0. This drops every table and all data.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cfg.yes {
				return oops.Code("CONFIRM_REQUIRED").
					Errorf("migrate down drops all data; re-run with --yes to confirm")
			}
			return withMigrator(deps, func(m Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Rolled back all migrations")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&cfg.yes, "yes", false, "confirm the destructive rollback")

	return cmd
}

func newMigrateStatusCmd(deps *migrateDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current migration version and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(deps, func(m Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}

				if version == 0 {
					cmd.Println("Version: none (no migrations applied)")
				} else {
					name, err := store.MigrationName(version)
					if err != nil {
						return err
					}
					cmd.Printf("Version: %d (%s)\n", version, name)
				}
				if dirty {
					cmd.Println("State: DIRTY - manual intervention required")
				}

				pending, err := m.PendingMigrations()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					cmd.Println("Pending: none")
					return nil
				}
				for _, v := range pending {
					name, err := store.MigrationName(v)
					if err != nil {
						return err
					}
					cmd.Printf("Pending: %06d %s\n", v, name)
				}
				return nil
			})
		},
	}
}

func newMigrateForceCmd(deps *migrateDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the migration version without running migrations",
		Long: `Set the recorded migration version without running any SQL. Use only to
recover from a dirty state after manually fixing the database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseForceVersion(args[0])
			if err != nil {
				return err
			}
			if version < 0 {
				return oops.Code("INVALID_VERSION").
					Errorf("version must be non-negative, got %d", version)
			}
			return withMigrator(deps, func(m Migrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				cmd.Printf("Forced version to %d\n", version)
				return nil
			})
		},
	}
}

// withMigrator resolves the database URL, opens a migrator and ensures it is
// closed after fn runs.
func withMigrator(deps *migrateDeps, fn func(Migrator) error) error {
	if deps == nil {
		deps = &migrateDeps{}
	}
	deps.applyDefaults()

	databaseURL, err := deps.DatabaseURLGetter()
	if err != nil {
		return err
	}

	m, err := deps.MigratorFactory(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }() //nolint:errcheck // best-effort close after fn result

	return fn(m)
}

// parseForceVersion parses a version argument for migrate force.
func parseForceVersion(s string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(s, "%d", &version); err != nil {
		return 0, oops.Code("INVALID_VERSION").
			With("input", s).
			Errorf("version must be an integer")
	}
	return version, nil
}

// getDatabaseURL resolves the database URL from the config file, falling
// back to the DATABASE_URL environment variable.
func getDatabaseURL() (string, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile, nil)
		if err != nil {
			return "", err
		}
		if cfg.Database.URL != "" {
			return cfg.Database.URL, nil
		}
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	return "", oops.Code("CONFIG_INVALID").Errorf("database.url or DATABASE_URL is required")
}
