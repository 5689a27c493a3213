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

func TestCredentialRepository_GetByMemberID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns credential", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		now := time.Now()
		mock.ExpectQuery("FROM member_credentials").
			WithArgs(id.String()).
			WillReturnRows(mock.NewRows([]string{"member_id", "password_hash", "created_at", "updated_at"}).
				AddRow(id.String(), "$2a$12$hash", now, now))

		repo := NewCredentialRepository(mock)
		cred, err := repo.GetByMemberID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, cred.MemberID)
		assert.Equal(t, "$2a$12$hash", cred.PasswordHash)
	})

	t.Run("wraps ErrNotFound for missing credential", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectQuery("FROM member_credentials").
			WithArgs(id.String()).
			WillReturnError(pgx.ErrNoRows)

		repo := NewCredentialRepository(mock)
		_, err = repo.GetByMemberID(ctx, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, member.ErrNotFound)
	})
}

func TestCredentialRepository_UpdateHash(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces stored hash", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec("UPDATE member_credentials SET").
			WithArgs(id.String(), "newhash", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewCredentialRepository(mock)
		require.NoError(t, repo.UpdateHash(ctx, id, "newhash"))
	})

	t.Run("reports not found when member has no credential", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectExec("UPDATE member_credentials SET").
			WithArgs(id.String(), "newhash", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewCredentialRepository(mock)
		err = repo.UpdateHash(ctx, id, "newhash")
		require.Error(t, err)
		assert.ErrorIs(t, err, member.ErrNotFound)
	})
}
