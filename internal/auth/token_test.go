// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natour/natour/internal/auth"
	"github.com/natour/natour/pkg/errutil"
)

func TestNewJWTIssuer(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := auth.NewJWTIssuer(nil, time.Hour)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_CONFIG_INVALID")
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		_, err := auth.NewJWTIssuer([]byte("secret"), 0)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_CONFIG_INVALID")
	})
}

func TestJWTIssuer_IssueAndVerify(t *testing.T) {
	issuer, err := auth.NewJWTIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	memberID := ulid.Make()
	principal := auth.Principal{
		MemberID:    memberID,
		Email:       "ada@example.com",
		DisplayName: "Ada Lovelace",
		Roles:       []string{"customer", "team"},
	}

	t.Run("round trip preserves claims", func(t *testing.T) {
		token, err := issuer.Issue(principal)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, memberID.String(), claims.Subject)
		assert.Equal(t, "Ada Lovelace", claims.DisplayName)
		assert.Equal(t, []string{"customer", "team"}, claims.Roles)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other, err := auth.NewJWTIssuer([]byte("other-secret"), time.Hour)
		require.NoError(t, err)

		token, err := other.Issue(principal)
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		token, err := issuer.Issue(principal)
		require.NoError(t, err)

		_, err = issuer.Verify(token + "x")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
	})

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := issuer.Verify("")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID")
	})
}
