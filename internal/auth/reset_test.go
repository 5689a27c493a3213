// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package auth_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natour/natour/internal/auth"
)

func TestGenerateResetKey(t *testing.T) {
	t.Run("produces hex keys of the right size", func(t *testing.T) {
		key, err := auth.GenerateResetKey()
		require.NoError(t, err)
		assert.Len(t, key, auth.ResetKeyBytes*2)

		_, err = hex.DecodeString(key)
		require.NoError(t, err)
	})

	t.Run("keys are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 100 {
			key, err := auth.GenerateResetKey()
			require.NoError(t, err)
			assert.False(t, seen[key], "duplicate reset key generated")
			seen[key] = true
		}
	})
}
