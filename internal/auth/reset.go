// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// ResetKeyBytes is the entropy of a reset key. 32 bytes = 64 hex chars.
const ResetKeyBytes = 32

// GenerateResetKey creates a secure random reset key.
func GenerateResetKey() (string, error) {
	keyBytes := make([]byte, ResetKeyBytes)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", oops.Code("RESET_KEY_GENERATE_FAILED").Wrap(err)
	}
	return hex.EncodeToString(keyBytes), nil
}

// sameCalendarDay reports whether both instants fall on the same UTC
// calendar day. Reset keys expire at day rollover rather than after a fixed
// duration, and the daily request counter resets on the same boundary.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
