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

// CredentialRepository implements member.CredentialRepository using PostgreSQL.
type CredentialRepository struct {
	pool poolIface
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(pool poolIface) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// GetByMemberID retrieves the credential for a member.
func (r *CredentialRepository) GetByMemberID(ctx context.Context, memberID ulid.ULID) (*member.Credential, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT member_id, password_hash, created_at, updated_at
		FROM member_credentials
		WHERE member_id = $1
	`, memberID.String())

	var (
		idStr        string
		passwordHash string
		createdAt    time.Time
		updatedAt    time.Time
	)
	err := row.Scan(&idStr, &passwordHash, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").
			With("member_id", memberID.String()).
			Wrap(member.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_GET_FAILED").
			With("operation", "get credential by member id").
			With("member_id", memberID.String()).
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CREDENTIAL_INVALID_ID").
			With("operation", "parse member id").
			With("member_id", idStr).
			Wrap(err)
	}

	return &member.Credential{
		MemberID:     id,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// UpdateHash overwrites the stored password hash for a member.
func (r *CredentialRepository) UpdateHash(ctx context.Context, memberID ulid.ULID, passwordHash string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE member_credentials SET password_hash = $2, updated_at = $3
		WHERE member_id = $1
	`, memberID.String(), passwordHash, time.Now())
	if err != nil {
		return oops.Code("CREDENTIAL_UPDATE_FAILED").
			With("operation", "update password hash").
			With("member_id", memberID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("CREDENTIAL_NOT_FOUND").
			With("member_id", memberID.String()).
			Wrap(member.ErrNotFound)
	}
	return nil
}

// Compile-time interface check.
var _ member.CredentialRepository = (*CredentialRepository)(nil)
