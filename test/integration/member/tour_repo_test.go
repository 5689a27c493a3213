// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

//go:build integration

package member_test

import (
	"context"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/natour/natour/internal/member"
)

var _ = Describe("TourRepository", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupTours(ctx, env.pool)
	})

	Describe("Create", func() {
		It("persists all tour fields", func() {
			tour := createTestTour("The Forest Hiker")

			err := env.Tours.Create(ctx, tour)
			Expect(err).NotTo(HaveOccurred())

			got, err := env.Tours.GetByID(ctx, tour.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("The Forest Hiker"))
			Expect(got.Duration).To(Equal(5))
			Expect(got.MaxGroupSize).To(Equal(12))
			Expect(got.Difficulty).To(Equal(member.DefaultDifficulty))
			Expect(got.Price).To(BeNumerically("==", 497))
			Expect(got.RatingsAverage).To(BeNumerically("~", 4.7, 0.001))
		})
	})

	Describe("GetByID", func() {
		It("returns ErrNotFound for a missing tour", func() {
			_, err := env.Tours.GetByID(ctx, ulid.Make())
			Expect(err).To(MatchError(member.ErrNotFound))
		})
	})

	Describe("Update", func() {
		It("overwrites mutable fields", func() {
			tour := createTestTour("The Sea Explorer")
			Expect(env.Tours.Create(ctx, tour)).To(Succeed())

			tour.Price = 599
			tour.Summary = "Exploring the jaw-dropping US east coast by foot and by boat"
			Expect(env.Tours.Update(ctx, tour)).To(Succeed())

			got, err := env.Tours.GetByID(ctx, tour.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Price).To(BeNumerically("==", 599))
			Expect(got.Summary).To(ContainSubstring("east coast"))
		})
	})

	Describe("List", func() {
		It("returns every stored tour", func() {
			Expect(env.Tours.Create(ctx, createTestTour("Tour A"))).To(Succeed())
			Expect(env.Tours.Create(ctx, createTestTour("Tour B"))).To(Succeed())

			all, err := env.Tours.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})
	})

	Describe("Delete", func() {
		It("removes the tour", func() {
			tour := createTestTour("The City Wanderer")
			Expect(env.Tours.Create(ctx, tour)).To(Succeed())

			Expect(env.Tours.Delete(ctx, tour.ID)).To(Succeed())

			_, err := env.Tours.GetByID(ctx, tour.ID)
			Expect(err).To(MatchError(member.ErrNotFound))
		})

		It("returns ErrNotFound for a missing tour", func() {
			err := env.Tours.Delete(ctx, ulid.Make())
			Expect(err).To(MatchError(member.ErrNotFound))
		})
	})
})
