// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package member

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Tour is a bookable tour offering. Plain CRUD data; no behavior beyond
// validation lives here.
type Tour struct {
	ID             ulid.ULID
	Name           string
	Duration       int
	MaxGroupSize   int
	Difficulty     string
	Price          float64
	Summary        string
	Description    string
	ImageCover     string
	RatingsAverage float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DefaultDifficulty is used when a tour does not specify one.
const DefaultDifficulty = "medium"

// Validate checks required tour fields.
func (t *Tour) Validate() error {
	if t.Name == "" {
		return oops.Code("TOUR_INVALID").Errorf("tour name is required")
	}
	if t.Price < 0 {
		return oops.Code("TOUR_INVALID").
			With("price", t.Price).
			Errorf("tour price cannot be negative")
	}
	if t.Summary == "" {
		return oops.Code("TOUR_INVALID").Errorf("tour summary is required")
	}
	return nil
}

// TourRepository manages tour persistence.
type TourRepository interface {
	Create(ctx context.Context, tour *Tour) error
	GetByID(ctx context.Context, id ulid.ULID) (*Tour, error)
	List(ctx context.Context) ([]Tour, error)
	Update(ctx context.Context, tour *Tour) error
	Delete(ctx context.Context, id ulid.ULID) error
}
