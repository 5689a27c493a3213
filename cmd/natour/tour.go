// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/natour/natour/internal/config"
	"github.com/natour/natour/internal/member"
	memberpg "github.com/natour/natour/internal/member/postgres"
	"github.com/natour/natour/internal/observability"
)

// NewTourCmd creates the tour subcommand with its actions.
func NewTourCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tour",
		Short: "Manage tours",
	}

	cmd.AddCommand(newTourCreateCmd())
	cmd.AddCommand(newTourListCmd())
	cmd.AddCommand(newTourDeleteCmd())

	return cmd
}

// tourCreateConfig holds flags for tour create.
type tourCreateConfig struct {
	name         string
	duration     int
	maxGroupSize int
	difficulty   string
	price        float64
	summary      string
	description  string
	imageCover   string
}

func newTourCreateCmd() *cobra.Command {
	cfg := &tourCreateConfig{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tour",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			tour := &member.Tour{
				ID:           ulid.Make(),
				Name:         cfg.name,
				Duration:     cfg.duration,
				MaxGroupSize: cfg.maxGroupSize,
				Difficulty:   cfg.difficulty,
				Price:        cfg.price,
				Summary:      cfg.summary,
				Description:  cfg.description,
				ImageCover:   cfg.imageCover,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if tour.Difficulty == "" {
				tour.Difficulty = member.DefaultDifficulty
			}
			if err := tour.Validate(); err != nil {
				return err
			}

			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
				if err := memberpg.NewTourRepository(pool).Create(ctx, tour); err != nil {
					return err
				}
				observability.RecordTourOperation("create")
				cmd.Printf("Created tour %s (%s)\n", tour.ID, tour.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cfg.name, "name", "", "tour name")
	cmd.Flags().IntVar(&cfg.duration, "duration", 1, "tour duration in days")
	cmd.Flags().IntVar(&cfg.maxGroupSize, "max-group-size", 10, "maximum group size")
	cmd.Flags().StringVar(&cfg.difficulty, "difficulty", "", "difficulty (easy, medium, difficult)")
	cmd.Flags().Float64Var(&cfg.price, "price", 0, "price per person")
	cmd.Flags().StringVar(&cfg.summary, "summary", "", "one-line summary")
	cmd.Flags().StringVar(&cfg.description, "description", "", "full description")
	cmd.Flags().StringVar(&cfg.imageCover, "image-cover", "", "cover image file name")
	_ = cmd.MarkFlagRequired("name")    //nolint:errcheck // flag is registered above
	_ = cmd.MarkFlagRequired("summary") //nolint:errcheck // flag is registered above

	return cmd
}

func newTourListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tours",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
				tours, err := memberpg.NewTourRepository(pool).List(ctx)
				if err != nil {
					return err
				}
				observability.RecordTourOperation("list")

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tDAYS\tDIFFICULTY\tPRICE\tRATING")
				for i := range tours {
					t := &tours[i]
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.2f\t%.1f\n",
						t.ID, t.Name, t.Duration, t.Difficulty, t.Price, t.RatingsAverage)
				}
				return w.Flush()
			})
		},
	}
}

func newTourDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tour-id>",
		Short: "Delete a tour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ulid.Parse(args[0])
			if err != nil {
				return oops.Code("INVALID_TOUR_ID").
					With("id", args[0]).
					Wrap(err)
			}

			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
				if err := memberpg.NewTourRepository(pool).Delete(ctx, id); err != nil {
					return err
				}
				observability.RecordTourOperation("delete")
				cmd.Printf("Deleted tour %s\n", id)
				return nil
			})
		},
	}
}
