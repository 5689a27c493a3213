// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package member_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natour/natour/internal/member"
	"github.com/natour/natour/pkg/errutil"
)

func TestMember_DisplayName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{"both parts", "Ada", "Lovelace", "Ada Lovelace"},
		{"first only", "Ada", "", "Ada"},
		{"last only", "", "Lovelace", "Lovelace"},
		{"neither", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &member.Member{FirstName: tt.first, LastName: tt.last}
			assert.Equal(t, tt.want, m.DisplayName())
		})
	}
}

func TestMember_ApplyProfile(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("updates only the set name fields", func(t *testing.T) {
		m := &member.Member{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}

		changed := m.ApplyProfile(member.ProfileUpdate{FirstName: str("Grace")})
		assert.True(t, changed)
		assert.Equal(t, "Grace", m.FirstName)
		assert.Equal(t, "Lovelace", m.LastName)
		assert.Equal(t, "ada@example.com", m.Email)
		assert.NotZero(t, m.UpdatedAt)
	})

	t.Run("nil fields leave the member untouched", func(t *testing.T) {
		m := &member.Member{FirstName: "Ada", LastName: "Lovelace"}

		changed := m.ApplyProfile(member.ProfileUpdate{})
		assert.False(t, changed)
		assert.Equal(t, "Ada", m.FirstName)
		assert.Zero(t, m.UpdatedAt)
	})

	t.Run("same values report no change", func(t *testing.T) {
		m := &member.Member{FirstName: "Ada", LastName: "Lovelace"}

		changed := m.ApplyProfile(member.ProfileUpdate{FirstName: str("Ada"), LastName: str("Lovelace")})
		assert.False(t, changed)
	})
}

func TestNewMember(t *testing.T) {
	t.Run("assigns default role and active state", func(t *testing.T) {
		m, err := member.NewMember(member.Candidate{
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{member.DefaultRole}, m.Roles)
		assert.True(t, m.Active)
		assert.Equal(t, int64(1), m.Version)
		assert.Empty(t, m.Reset.Key)
		assert.NotZero(t, m.ID)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := member.NewMember(member.Candidate{Email: "not-an-email"})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "MEMBER_INVALID_EMAIL")
	})
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"ada@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"", false},
		{"plainstring", false},
		{"missing@tld", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := member.ValidateEmail(tt.email)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, member.ValidatePassword("longenough"))

	err := member.ValidatePassword("short")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MEMBER_INVALID_PASSWORD")

	err = member.ValidatePassword("")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MEMBER_INVALID_PASSWORD")
}

func TestTour_Validate(t *testing.T) {
	valid := member.Tour{Name: "Forest Hiker", Price: 397, Summary: "A forest hike"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*member.Tour)
	}{
		{"missing name", func(tr *member.Tour) { tr.Name = "" }},
		{"negative price", func(tr *member.Tour) { tr.Price = -1 }},
		{"missing summary", func(tr *member.Tour) { tr.Summary = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tour := valid
			tt.mutate(&tour)
			err := tour.Validate()
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "TOUR_INVALID")
		})
	}
}
