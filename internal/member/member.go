// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

// Package member defines the member domain types and repository contracts.
package member

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultRole is assigned to every newly created member.
const DefaultRole = "customer"

// Member represents a registered member account.
type Member struct {
	ID        ulid.ULID
	Email     string
	FirstName string
	LastName  string
	Roles     []string
	Active    bool
	Reset     ResetState

	// Version guards concurrent updates. Update fails with
	// ErrVersionConflict when the stored row has moved on.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResetState holds the password-reset bookkeeping for a member.
// It is mutated exclusively by the reset lifecycle service.
type ResetState struct {
	// Key is the outstanding reset key, empty when none is pending.
	Key string

	// Count tracks reset requests made on the calendar day identified
	// by RequestedAt.
	Count int

	// RequestedAt marks the day Count refers to.
	RequestedAt *time.Time

	// KeyIssuedAt marks the day Key was issued. A key is valid only on
	// that same calendar day.
	KeyIssuedAt *time.Time
}

// DisplayName concatenates first and last name with a single space,
// omitting empty parts.
func (m *Member) DisplayName() string {
	parts := make([]string, 0, 2)
	if m.FirstName != "" {
		parts = append(parts, m.FirstName)
	}
	if m.LastName != "" {
		parts = append(parts, m.LastName)
	}
	return strings.Join(parts, " ")
}

// ProfileUpdate carries the member-editable profile fields. Only the name
// fields are updatable through the profile path; email, roles and reset
// state are managed elsewhere. Nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

// ApplyProfile copies the set fields of a ProfileUpdate onto the member
// and reports whether anything changed.
func (m *Member) ApplyProfile(p ProfileUpdate) bool {
	changed := false
	if p.FirstName != nil && *p.FirstName != m.FirstName {
		m.FirstName = *p.FirstName
		changed = true
	}
	if p.LastName != nil && *p.LastName != m.LastName {
		m.LastName = *p.LastName
		changed = true
	}
	if changed {
		m.UpdatedAt = time.Now()
	}
	return changed
}

// Candidate is the input for creating a member. The plaintext password
// never reaches persistence; the auth service hashes it first.
type Candidate struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Validate checks the candidate's email and password.
func (c *Candidate) Validate() error {
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	return ValidatePassword(c.Password)
}

// Credential is the hashed password record for a member. It is created
// together with the member and removed only when the member row is
// deleted (cascade).
type Credential struct {
	MemberID     ulid.ULID
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository manages member persistence.
type Repository interface {
	// Create stores a new member and its credential as one transaction.
	Create(ctx context.Context, m *Member, passwordHash string) error

	// GetByID retrieves a member by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Member, error)

	// GetByEmail retrieves a member by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*Member, error)

	// GetByResetKey retrieves the member holding the given reset key.
	GetByResetKey(ctx context.Context, key string) (*Member, error)

	// Update persists a member using optimistic concurrency: the write
	// applies only when the stored version matches m.Version, and bumps
	// m.Version on success. Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, m *Member) error

	// SetActive flips the active flag (soft delete / restore).
	SetActive(ctx context.Context, id ulid.ULID, active bool) error

	// List returns all members.
	List(ctx context.Context) ([]Member, error)
}

// CredentialRepository manages credential persistence.
type CredentialRepository interface {
	// GetByMemberID retrieves the credential for a member.
	GetByMemberID(ctx context.Context, memberID ulid.ULID) (*Credential, error)

	// UpdateHash overwrites the stored password hash.
	UpdateHash(ctx context.Context, memberID ulid.ULID, passwordHash string) error
}

// NewMember builds a validated member from a candidate with the default
// role and a fresh ID. The password is ignored here; hashing is the
// caller's concern.
func NewMember(c Candidate) (*Member, error) {
	if err := ValidateEmail(c.Email); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Member{
		ID:        ulid.Make(),
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Roles:     []string{DefaultRole},
		Active:    true,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ErrInactive reports operations attempted against a deactivated member.
var ErrInactive = oops.Code("MEMBER_INACTIVE").Errorf("member is inactive")
