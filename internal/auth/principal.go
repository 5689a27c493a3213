// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package auth

import (
	"github.com/oklog/ulid/v2"

	"github.com/natour/natour/internal/member"
)

// Principal is the authenticated identity derived from a verified member.
// It carries only what downstream authorization and token issuance need.
type Principal struct {
	MemberID    ulid.ULID
	Email       string
	DisplayName string
	Roles       []string
}

// NewPrincipal builds a Principal from a member. The roles slice is copied
// so later member mutations cannot leak into an issued principal.
func NewPrincipal(m *member.Member) Principal {
	roles := make([]string, len(m.Roles))
	copy(roles, m.Roles)
	return Principal{
		MemberID:    m.ID,
		Email:       m.Email,
		DisplayName: m.DisplayName(),
		Roles:       roles,
	}
}
