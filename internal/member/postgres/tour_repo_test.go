// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natour/natour/internal/member"
)

func testTour() *member.Tour {
	now := time.Now()
	return &member.Tour{
		ID:             ulid.Make(),
		Name:           "The Forest Hiker",
		Duration:       5,
		MaxGroupSize:   25,
		Difficulty:     "easy",
		Price:          397,
		Summary:        "Breathtaking hike through the Canadian Banff National Park",
		RatingsAverage: 4.7,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestTourRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tour", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		tour := testTour()
		mock.ExpectQuery("FROM tours").
			WithArgs(tour.ID.String()).
			WillReturnRows(mock.NewRows([]string{
				"id", "name", "duration", "max_group_size", "difficulty", "price",
				"summary", "description", "image_cover", "ratings_average",
				"created_at", "updated_at",
			}).AddRow(
				tour.ID.String(), tour.Name, tour.Duration, tour.MaxGroupSize,
				tour.Difficulty, tour.Price, tour.Summary, tour.Description,
				tour.ImageCover, tour.RatingsAverage, tour.CreatedAt, tour.UpdatedAt,
			))

		repo := NewTourRepository(mock)
		got, err := repo.GetByID(ctx, tour.ID)
		require.NoError(t, err)
		assert.Equal(t, tour.Name, got.Name)
		assert.Equal(t, tour.Price, got.Price)
	})

	t.Run("wraps ErrNotFound for missing tour", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectQuery("FROM tours").
			WithArgs(id.String()).
			WillReturnError(pgx.ErrNoRows)

		repo := NewTourRepository(mock)
		_, err = repo.GetByID(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, member.ErrNotFound)
	})
}

func TestTourRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("reports not found for unknown tour", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec("DELETE FROM tours").
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewTourRepository(mock)
		err = repo.Delete(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, member.ErrNotFound)
	})
}
