// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/natour/natour/internal/auth"
	"github.com/natour/natour/internal/config"
	"github.com/natour/natour/internal/member"
	memberpg "github.com/natour/natour/internal/member/postgres"
	"github.com/natour/natour/internal/store"
)

// Default timeout for one-shot database commands.
const defaultCommandTimeout = 30 * time.Second

// NewMemberCmd creates the member subcommand with its actions.
func NewMemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage members",
	}

	cmd.AddCommand(newMemberCreateCmd())
	cmd.AddCommand(newMemberUpdateCmd())
	cmd.AddCommand(newMemberListCmd())
	cmd.AddCommand(newMemberDeactivateCmd())
	cmd.AddCommand(newMemberActivateCmd())

	return cmd
}

// memberCreateConfig holds flags for member create.
type memberCreateConfig struct {
	email     string
	firstName string
	lastName  string
	password  string
}

func newMemberCreateCmd() *cobra.Command {
	cfg := &memberCreateConfig{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a member with a password credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, appCfg *config.Config) error {
				svc, err := buildAuthService(pool, appCfg)
				if err != nil {
					return err
				}

				m, err := svc.CreateMember(ctx, member.Candidate{
					Email:     cfg.email,
					FirstName: cfg.firstName,
					LastName:  cfg.lastName,
					Password:  cfg.password,
				})
				if err != nil {
					return err
				}

				cmd.Printf("Created member %s (%s)\n", m.ID, m.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.email, "email", "", "member email address")
	cmd.Flags().StringVar(&cfg.firstName, "first-name", "", "member first name")
	cmd.Flags().StringVar(&cfg.lastName, "last-name", "", "member last name")
	cmd.Flags().StringVar(&cfg.password, "password", "", "member password")
	_ = cmd.MarkFlagRequired("email")    //nolint:errcheck // flag is registered above
	_ = cmd.MarkFlagRequired("password") //nolint:errcheck // flag is registered above

	return cmd
}

func newMemberUpdateCmd() *cobra.Command {
	var firstName, lastName string

	cmd := &cobra.Command{
		Use:   "update <member-id>",
		Short: "Update a member's name",
		Long:  `Update a member's profile. Only the name fields are updatable; email and roles are managed separately.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ulid.Parse(args[0])
			if err != nil {
				return oops.Code("INVALID_MEMBER_ID").
					With("id", args[0]).
					Wrap(err)
			}

			update := member.ProfileUpdate{}
			if cmd.Flags().Changed("first-name") {
				update.FirstName = &firstName
			}
			if cmd.Flags().Changed("last-name") {
				update.LastName = &lastName
			}
			if update.FirstName == nil && update.LastName == nil {
				return oops.Code("NOTHING_TO_UPDATE").
					Errorf("pass --first-name and/or --last-name")
			}

			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
				repo := memberpg.NewMemberRepository(pool)
				m, err := repo.GetByID(ctx, id)
				if err != nil {
					return err
				}
				if !m.ApplyProfile(update) {
					cmd.Printf("Member %s unchanged\n", id)
					return nil
				}
				if err := repo.Update(ctx, m); err != nil {
					return err
				}
				cmd.Printf("Updated member %s (%s)\n", m.ID, m.DisplayName())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "new first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "new last name")

	return cmd
}

func newMemberListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
				members, err := memberpg.NewMemberRepository(pool).List(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLES\tACTIVE")
				for i := range members {
					m := &members[i]
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
						m.ID, m.Email, m.DisplayName(), strings.Join(m.Roles, ","), m.Active)
				}
				return w.Flush()
			})
		},
	}
}

func newMemberDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <member-id>",
		Short: "Deactivate a member (soft delete)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setMemberActive(cmd, args[0], false)
		},
	}
}

func newMemberActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <member-id>",
		Short: "Reactivate a previously deactivated member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setMemberActive(cmd, args[0], true)
		},
	}
}

func setMemberActive(cmd *cobra.Command, rawID string, active bool) error {
	id, err := ulid.Parse(rawID)
	if err != nil {
		return oops.Code("INVALID_MEMBER_ID").
			With("id", rawID).
			Wrap(err)
	}

	return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
		if err := memberpg.NewMemberRepository(pool).SetActive(ctx, id, active); err != nil {
			return err
		}
		if active {
			cmd.Printf("Activated member %s\n", id)
		} else {
			cmd.Printf("Deactivated member %s\n", id)
		}
		return nil
	})
}

// buildAuthService wires the auth service for CLI use.
func buildAuthService(pool *pgxpool.Pool, cfg *config.Config) (*auth.Service, error) {
	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}

	if cfg.Auth.TokenSecret == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("auth.token_secret is required")
	}
	tokens, err := auth.NewJWTIssuer(
		[]byte(cfg.Auth.TokenSecret),
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)
	if err != nil {
		return nil, err
	}

	return auth.NewService(
		memberpg.NewMemberRepository(pool),
		memberpg.NewCredentialRepository(pool),
		hasher,
		tokens,
	)
}

// withPool loads configuration, opens a pool with a bounded lifetime and
// runs fn against it.
func withPool(parent context.Context, fn func(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config) error) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	databaseURL := cfg.Database.URL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url or DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(parent, defaultCommandTimeout)
	defer cancel()

	pool, err := store.NewPool(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, pool, cfg)
}
