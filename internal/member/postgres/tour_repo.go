// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/natour/natour/internal/member"
)

// TourRepository implements member.TourRepository using PostgreSQL.
type TourRepository struct {
	pool poolIface
}

// NewTourRepository creates a new TourRepository.
func NewTourRepository(pool poolIface) *TourRepository {
	return &TourRepository{pool: pool}
}

const tourColumns = `id, name, duration, max_group_size, difficulty, price,
	       summary, description, image_cover, ratings_average, created_at, updated_at`

// Create stores a new tour.
func (r *TourRepository) Create(ctx context.Context, tour *member.Tour) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tours (
			id, name, duration, max_group_size, difficulty, price,
			summary, description, image_cover, ratings_average, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		tour.ID.String(),
		tour.Name,
		tour.Duration,
		tour.MaxGroupSize,
		tour.Difficulty,
		tour.Price,
		tour.Summary,
		tour.Description,
		tour.ImageCover,
		tour.RatingsAverage,
		tour.CreatedAt,
		tour.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TOUR_CREATE_FAILED").
			With("operation", "insert tour").
			With("name", tour.Name).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a tour by ID.
func (r *TourRepository) GetByID(ctx context.Context, id ulid.ULID) (*member.Tour, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+tourColumns+`
		FROM tours
		WHERE id = $1
	`, id.String())

	tour, err := scanTour(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TOUR_NOT_FOUND").
			With("id", id.String()).
			Wrap(member.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("TOUR_GET_BY_ID_FAILED").
			With("operation", "get tour by id").
			With("id", id.String()).
			Wrap(err)
	}
	return tour, nil
}

// List returns all tours ordered by creation.
func (r *TourRepository) List(ctx context.Context) ([]member.Tour, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tourColumns+`
		FROM tours
		ORDER BY id
	`)
	if err != nil {
		return nil, oops.Code("TOUR_LIST_FAILED").
			With("operation", "list tours").
			Wrap(err)
	}
	defer rows.Close()

	var tours []member.Tour
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, oops.Code("TOUR_LIST_FAILED").
				With("operation", "scan tour row").
				Wrap(err)
		}
		tours = append(tours, *tour)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("TOUR_LIST_FAILED").
			With("operation", "iterate tours").
			Wrap(err)
	}
	return tours, nil
}

// Update updates an existing tour.
func (r *TourRepository) Update(ctx context.Context, tour *member.Tour) error {
	tour.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, `
		UPDATE tours SET
			name = $2,
			duration = $3,
			max_group_size = $4,
			difficulty = $5,
			price = $6,
			summary = $7,
			description = $8,
			image_cover = $9,
			ratings_average = $10,
			updated_at = $11
		WHERE id = $1
	`,
		tour.ID.String(),
		tour.Name,
		tour.Duration,
		tour.MaxGroupSize,
		tour.Difficulty,
		tour.Price,
		tour.Summary,
		tour.Description,
		tour.ImageCover,
		tour.RatingsAverage,
		tour.UpdatedAt,
	)
	if err != nil {
		return oops.Code("TOUR_UPDATE_FAILED").
			With("operation", "update tour").
			With("id", tour.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TOUR_NOT_FOUND").
			With("id", tour.ID.String()).
			Wrap(member.ErrNotFound)
	}
	return nil
}

// Delete removes a tour.
func (r *TourRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM tours WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("TOUR_DELETE_FAILED").
			With("operation", "delete tour").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TOUR_NOT_FOUND").
			With("id", id.String()).
			Wrap(member.ErrNotFound)
	}
	return nil
}

// scanTour scans a single row into a Tour.
// Callers are responsible for handling pgx.ErrNoRows.
func scanTour(row pgx.Row) (*member.Tour, error) {
	var (
		idStr          string
		name           string
		duration       int
		maxGroupSize   int
		difficulty     string
		price          float64
		summary        string
		description    string
		imageCover     string
		ratingsAverage float64
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(
		&idStr,
		&name,
		&duration,
		&maxGroupSize,
		&difficulty,
		&price,
		&summary,
		&description,
		&imageCover,
		&ratingsAverage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("TOUR_SCAN_FAILED").
			With("operation", "scan tour").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("TOUR_INVALID_ID").
			With("operation", "parse tour id").
			With("id", idStr).
			Wrap(err)
	}

	return &member.Tour{
		ID:             id,
		Name:           name,
		Duration:       duration,
		MaxGroupSize:   maxGroupSize,
		Difficulty:     difficulty,
		Price:          price,
		Summary:        summary,
		Description:    description,
		ImageCover:     imageCover,
		RatingsAverage: ratingsAverage,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

// Compile-time interface check.
var _ member.TourRepository = (*TourRepository)(nil)
