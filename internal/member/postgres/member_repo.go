// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/natour/natour/internal/member"
)

// MemberRepository implements member.Repository using PostgreSQL.
type MemberRepository struct {
	pool poolIface
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool poolIface) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `id, email, first_name, last_name, roles, active,
	       reset_key, reset_count, reset_requested_at, reset_key_issued_at,
	       version, created_at, updated_at`

// Create stores a new member and its credential in one transaction so a
// member row can never exist without a matching credential row.
func (r *MemberRepository) Create(ctx context.Context, m *member.Member, passwordHash string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.Code("MEMBER_CREATE_FAILED").
			With("operation", "begin transaction").
			Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }() //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx, `
		INSERT INTO members (
			id, email, first_name, last_name, roles, active,
			reset_key, reset_count, reset_requested_at, reset_key_issued_at,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		m.ID.String(),
		m.Email,
		m.FirstName,
		m.LastName,
		m.Roles,
		m.Active,
		m.Reset.Key,
		m.Reset.Count,
		m.Reset.RequestedAt,
		m.Reset.KeyIssuedAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("MEMBER_DUPLICATE_EMAIL").
				With("email", m.Email).
				Wrap(member.ErrDuplicateEmail)
		}
		return oops.Code("MEMBER_CREATE_FAILED").
			With("operation", "insert member").
			With("email", m.Email).
			Wrap(err)
	}

	now := time.Now()
	_, err = tx.Exec(ctx, `
		INSERT INTO member_credentials (member_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, m.ID.String(), passwordHash, now, now)
	if err != nil {
		return oops.Code("MEMBER_CREATE_FAILED").
			With("operation", "insert credential").
			With("member_id", m.ID.String()).
			Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("MEMBER_CREATE_FAILED").
			With("operation", "commit").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a member by ID.
func (r *MemberRepository) GetByID(ctx context.Context, id ulid.ULID) (*member.Member, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE id = $1
	`, id.String())

	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MEMBER_NOT_FOUND").
			With("id", id.String()).
			Wrap(member.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("MEMBER_GET_BY_ID_FAILED").
			With("operation", "get member by id").
			With("id", id.String()).
			Wrap(err)
	}
	return m, nil
}

// GetByEmail retrieves a member by email (case-insensitive).
func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*member.Member, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE LOWER(email) = LOWER($1)
	`, email)

	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MEMBER_NOT_FOUND").
			With("email", email).
			Wrap(member.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("MEMBER_GET_BY_EMAIL_FAILED").
			With("operation", "get member by email").
			With("email", email).
			Wrap(err)
	}
	return m, nil
}

// GetByResetKey retrieves the member holding the given reset key.
func (r *MemberRepository) GetByResetKey(ctx context.Context, key string) (*member.Member, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+memberColumns+`
		FROM members
		WHERE reset_key = $1 AND reset_key <> ''
	`, key)

	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MEMBER_NOT_FOUND").
			With("operation", "get member by reset key").
			Wrap(member.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("MEMBER_GET_BY_RESET_KEY_FAILED").
			With("operation", "get member by reset key").
			Wrap(err)
	}
	return m, nil
}

// Update persists a member with an optimistic-concurrency version check.
// On success the in-memory version is bumped to match the stored row.
func (r *MemberRepository) Update(ctx context.Context, m *member.Member) error {
	m.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, `
		UPDATE members SET
			email = $2,
			first_name = $3,
			last_name = $4,
			roles = $5,
			active = $6,
			reset_key = $7,
			reset_count = $8,
			reset_requested_at = $9,
			reset_key_issued_at = $10,
			version = version + 1,
			updated_at = $11
		WHERE id = $1 AND version = $12
	`,
		m.ID.String(),
		m.Email,
		m.FirstName,
		m.LastName,
		m.Roles,
		m.Active,
		m.Reset.Key,
		m.Reset.Count,
		m.Reset.RequestedAt,
		m.Reset.KeyIssuedAt,
		m.UpdatedAt,
		m.Version,
	)
	if err != nil {
		return oops.Code("MEMBER_UPDATE_FAILED").
			With("operation", "update member").
			With("id", m.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		// Distinguish a missing row from a lost version race.
		var current int64
		err := r.pool.QueryRow(ctx, `SELECT version FROM members WHERE id = $1`, m.ID.String()).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return oops.Code("MEMBER_NOT_FOUND").
				With("id", m.ID.String()).
				Wrap(member.ErrNotFound)
		}
		if err != nil {
			return oops.Code("MEMBER_UPDATE_FAILED").
				With("operation", "check version").
				With("id", m.ID.String()).
				Wrap(err)
		}
		return oops.Code("MEMBER_VERSION_CONFLICT").
			With("id", m.ID.String()).
			With("expected", m.Version).
			With("stored", current).
			Wrap(member.ErrVersionConflict)
	}
	m.Version++
	return nil
}

// SetActive flips the active flag for a member.
func (r *MemberRepository) SetActive(ctx context.Context, id ulid.ULID, active bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE members SET active = $2, version = version + 1, updated_at = $3
		WHERE id = $1
	`, id.String(), active, time.Now())
	if err != nil {
		return oops.Code("MEMBER_SET_ACTIVE_FAILED").
			With("operation", "set active").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("MEMBER_NOT_FOUND").
			With("id", id.String()).
			Wrap(member.ErrNotFound)
	}
	return nil
}

// List returns all members ordered by creation.
func (r *MemberRepository) List(ctx context.Context) ([]member.Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM members
		ORDER BY id
	`)
	if err != nil {
		return nil, oops.Code("MEMBER_LIST_FAILED").
			With("operation", "list members").
			Wrap(err)
	}
	defer rows.Close()

	var members []member.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, oops.Code("MEMBER_LIST_FAILED").
				With("operation", "scan member row").
				Wrap(err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("MEMBER_LIST_FAILED").
			With("operation", "iterate members").
			Wrap(err)
	}
	return members, nil
}

// scanMember scans a single row into a Member.
// Callers are responsible for handling pgx.ErrNoRows.
func scanMember(row pgx.Row) (*member.Member, error) {
	var (
		idStr       string
		email       string
		firstName   string
		lastName    string
		roles       []string
		active      bool
		resetKey    string
		resetCount  int
		requestedAt *time.Time
		keyIssuedAt *time.Time
		version     int64
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(
		&idStr,
		&email,
		&firstName,
		&lastName,
		&roles,
		&active,
		&resetKey,
		&resetCount,
		&requestedAt,
		&keyIssuedAt,
		&version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("MEMBER_SCAN_FAILED").
			With("operation", "scan member").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("MEMBER_INVALID_ID").
			With("operation", "parse member id").
			With("id", idStr).
			Wrap(err)
	}

	return &member.Member{
		ID:        id,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Roles:     roles,
		Active:    active,
		Reset: member.ResetState{
			Key:         resetKey,
			Count:       resetCount,
			RequestedAt: requestedAt,
			KeyIssuedAt: keyIssuedAt,
		},
		Version:   version,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Compile-time interface check.
var _ member.Repository = (*MemberRepository)(nil)
