// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

//go:build integration

package member_test

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/natour/natour/internal/member"
)

const testPasswordHash = "$2a$12$K3JNi5vQMio0Nh/v8XYd7elmcXim8TNKKvPWtLWCJ2ao8hRY9Z9bG" //nolint:gosec // not a credential

var _ = Describe("MemberRepository", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupMembers(ctx, env.pool)
	})

	Describe("Create", func() {
		It("persists the member and its credential in one transaction", func() {
			m := createTestMember("grace@example.com")

			err := env.Members.Create(ctx, m, testPasswordHash)
			Expect(err).NotTo(HaveOccurred())

			got, err := env.Members.GetByID(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Email).To(Equal("grace@example.com"))
			Expect(got.Roles).To(Equal([]string{member.DefaultRole}))
			Expect(got.Active).To(BeTrue())
			Expect(got.Version).To(Equal(int64(1)))

			cred, err := env.Credentials.GetByMemberID(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(cred.PasswordHash).To(Equal(testPasswordHash))
		})

		It("rejects a duplicate email regardless of case", func() {
			first := createTestMember("dup@example.com")
			Expect(env.Members.Create(ctx, first, testPasswordHash)).To(Succeed())

			second := createTestMember("DUP@example.com")
			err := env.Members.Create(ctx, second, testPasswordHash)
			Expect(err).To(MatchError(member.ErrDuplicateEmail))
		})
	})

	Describe("GetByEmail", func() {
		It("matches case-insensitively", func() {
			m := createTestMember("Mixed.Case@Example.com")
			Expect(env.Members.Create(ctx, m, testPasswordHash)).To(Succeed())

			got, err := env.Members.GetByEmail(ctx, "mixed.case@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(m.ID))
		})

		It("returns ErrNotFound for an unknown email", func() {
			_, err := env.Members.GetByEmail(ctx, "nobody@example.com")
			Expect(err).To(MatchError(member.ErrNotFound))
		})
	})

	Describe("GetByResetKey", func() {
		It("finds the member holding the key", func() {
			m := createTestMember("reset@example.com")
			Expect(env.Members.Create(ctx, m, testPasswordHash)).To(Succeed())

			now := time.Now().UTC()
			m.Reset = member.ResetState{
				Key:         "abc123",
				Count:       1,
				RequestedAt: &now,
				KeyIssuedAt: &now,
			}
			Expect(env.Members.Update(ctx, m)).To(Succeed())

			got, err := env.Members.GetByResetKey(ctx, "abc123")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(m.ID))
			Expect(got.Reset.Count).To(Equal(1))
			Expect(got.Reset.KeyIssuedAt).NotTo(BeNil())
		})

		It("returns ErrNotFound for an unknown key", func() {
			_, err := env.Members.GetByResetKey(ctx, "nope")
			Expect(err).To(MatchError(member.ErrNotFound))
		})
	})

	Describe("Update", func() {
		It("applies changes and bumps the version", func() {
			m := createTestMember("update@example.com")
			Expect(env.Members.Create(ctx, m, testPasswordHash)).To(Succeed())

			m.FirstName = "Margaret"
			err := env.Members.Update(ctx, m)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Version).To(Equal(int64(2)))

			got, err := env.Members.GetByID(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.FirstName).To(Equal("Margaret"))
			Expect(got.Version).To(Equal(int64(2)))
		})

		It("rejects a stale version", func() {
			m := createTestMember("stale@example.com")
			Expect(env.Members.Create(ctx, m, testPasswordHash)).To(Succeed())

			fresh, err := env.Members.GetByID(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			fresh.LastName = "Ahead"
			Expect(env.Members.Update(ctx, fresh)).To(Succeed())

			m.LastName = "Behind"
			err = env.Members.Update(ctx, m)
			Expect(err).To(MatchError(member.ErrVersionConflict))
		})
	})

	Describe("SetActive", func() {
		It("soft deletes and restores", func() {
			m := createTestMember("active@example.com")
			Expect(env.Members.Create(ctx, m, testPasswordHash)).To(Succeed())

			Expect(env.Members.SetActive(ctx, m.ID, false)).To(Succeed())
			got, err := env.Members.GetByID(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Active).To(BeFalse())

			Expect(env.Members.SetActive(ctx, m.ID, true)).To(Succeed())
			got, err = env.Members.GetByID(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Active).To(BeTrue())
		})

		It("returns ErrNotFound for a missing member", func() {
			err := env.Members.SetActive(ctx, ulid.Make(), false)
			Expect(err).To(MatchError(member.ErrNotFound))
		})
	})

	Describe("List", func() {
		It("returns all members ordered by creation", func() {
			a := createTestMember("a@example.com")
			b := createTestMember("b@example.com")
			Expect(env.Members.Create(ctx, a, testPasswordHash)).To(Succeed())
			Expect(env.Members.Create(ctx, b, testPasswordHash)).To(Succeed())

			all, err := env.Members.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})
	})

	Describe("CredentialRepository", func() {
		It("updates the stored hash", func() {
			m := createTestMember("rehash@example.com")
			Expect(env.Members.Create(ctx, m, testPasswordHash)).To(Succeed())

			err := env.Credentials.UpdateHash(ctx, m.ID, "newhash")
			Expect(err).NotTo(HaveOccurred())

			cred, err := env.Credentials.GetByMemberID(ctx, m.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(cred.PasswordHash).To(Equal("newhash"))
		})

		It("cascades deletion with the member row", func() {
			m := createTestMember("cascade@example.com")
			Expect(env.Members.Create(ctx, m, testPasswordHash)).To(Succeed())

			_, err := env.pool.Exec(ctx, "DELETE FROM members WHERE id = $1", m.ID.String())
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Credentials.GetByMemberID(ctx, m.ID)
			Expect(err).To(MatchError(member.ErrNotFound))
		})
	})
})
