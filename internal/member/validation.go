// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package member

import (
	"regexp"

	"github.com/samber/oops"
)

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 8

// emailRegex accepts the common local@domain shape. Full RFC 5322
// validation is not attempted; the mailer is the authority.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks that email looks like an address.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("MEMBER_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return oops.Code("MEMBER_INVALID_EMAIL").
			With("email", email).
			Errorf("invalid email address")
	}
	return nil
}

// ValidatePassword checks plaintext password requirements.
func ValidatePassword(password string) error {
	if password == "" {
		return oops.Code("MEMBER_INVALID_PASSWORD").Errorf("password cannot be empty")
	}
	if len(password) < MinPasswordLength {
		return oops.Code("MEMBER_INVALID_PASSWORD").
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
