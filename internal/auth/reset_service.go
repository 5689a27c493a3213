// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/natour/natour/internal/mail"
	"github.com/natour/natour/internal/member"
	"github.com/natour/natour/internal/observability"
)

// DefaultResetDailyLimit is the number of reset requests a member may make
// per calendar day.
const DefaultResetDailyLimit = 2

// Conflicting reset state writes are retried after re-reading the member.
const (
	resetRetryBackoff = 10 * time.Millisecond
	resetRetryMax     = 2
)

// ResetConfig configures the password reset flow.
type ResetConfig struct {
	// DailyLimit caps reset requests per member per calendar day.
	DailyLimit int

	// AppURL is the public base URL embedded in reset links.
	AppURL string

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// ResetService handles the password reset lifecycle: requesting a key,
// validating it and setting the new password.
type ResetService struct {
	members member.Repository
	creds   member.CredentialRepository
	hasher  PasswordHasher
	mailer  mail.Transport

	dailyLimit int
	appURL     string
	now        func() time.Time
}

// NewResetService creates a new ResetService.
func NewResetService(
	members member.Repository,
	creds member.CredentialRepository,
	hasher PasswordHasher,
	mailer mail.Transport,
	cfg ResetConfig,
) (*ResetService, error) {
	if members == nil {
		return nil, oops.Errorf("member repository is required")
	}
	if creds == nil {
		return nil, oops.Errorf("credential repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if mailer == nil {
		return nil, oops.Errorf("mail transport is required")
	}
	if cfg.DailyLimit <= 0 {
		cfg.DailyLimit = DefaultResetDailyLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &ResetService{
		members:    members,
		creds:      creds,
		hasher:     hasher,
		mailer:     mailer,
		dailyLimit: cfg.DailyLimit,
		appURL:     cfg.AppURL,
		now:        cfg.Now,
	}, nil
}

// RequestReset issues a reset key for the member with the given email and
// mails it. An unknown email fails with the repository's not-found error,
// a deactivated member fails with MEMBER_INACTIVE, and requests beyond
// the daily limit fail with RESET_RATE_LIMITED.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	var m *member.Member
	var key string

	// Concurrent requests for the same member race on the reset counter.
	// The version-guarded update loses at most one race; re-read and
	// re-apply the limit check before giving up.
	backoff := retry.WithMaxRetries(resetRetryMax, retry.NewConstant(resetRetryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		m, err = s.members.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, member.ErrNotFound) {
				return err
			}
			return oops.Code("RESET_REQUEST_FAILED").
				With("operation", "get member by email").
				Wrap(err)
		}
		if !m.Active {
			return member.ErrInactive
		}

		now := s.now()
		count := m.Reset.Count
		if m.Reset.RequestedAt == nil || !sameCalendarDay(*m.Reset.RequestedAt, now) {
			// New calendar day, the counter starts over.
			count = 0
		}
		if count >= s.dailyLimit {
			observability.RecordResetRequest("rate_limited")
			return oops.Code("RESET_RATE_LIMITED").
				With("daily_limit", s.dailyLimit).
				Errorf("reset request limit reached, try again tomorrow")
		}

		key, err = GenerateResetKey()
		if err != nil {
			return oops.Code("RESET_REQUEST_FAILED").
				With("operation", "generate key").
				Wrap(err)
		}

		m.Reset = member.ResetState{
			Key:         key,
			Count:       count + 1,
			RequestedAt: &now,
			KeyIssuedAt: &now,
		}
		if err := s.members.Update(ctx, m); err != nil {
			if errors.Is(err, member.ErrVersionConflict) {
				return retry.RetryableError(err)
			}
			return oops.Code("RESET_REQUEST_FAILED").
				With("operation", "store reset state").
				Wrap(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, member.ErrNotFound) || errors.Is(err, member.ErrInactive) {
			slog.DebugContext(ctx, "reset requested for unknown or inactive email")
			observability.RecordResetRequest("failed")
			return err
		}
		if errors.Is(err, member.ErrVersionConflict) {
			return oops.Code("RESET_REQUEST_FAILED").
				With("operation", "store reset state").
				Wrap(err)
		}
		return err
	}

	msg, err := mail.NewResetMessage(s.appURL, m.Email, m.DisplayName(), key)
	if err != nil {
		observability.RecordResetRequest("failed")
		return oops.Code("RESET_EMAIL_FAILED").Wrap(err)
	}

	receipt, err := s.mailer.Send(ctx, msg)
	if err != nil {
		observability.RecordResetRequest("failed")
		return oops.Code("RESET_EMAIL_FAILED").
			With("operation", "send reset mail").
			Wrap(err)
	}
	if len(receipt.Accepted) == 0 {
		observability.RecordResetRequest("failed")
		return oops.Code("RESET_EMAIL_FAILED").Errorf("reset mail was not accepted for any recipient")
	}

	observability.RecordResetRequest("accepted")
	return nil
}

// ValidateResetKey checks a reset key and returns the member holding it.
// The key is single-use: it is consumed on every validation attempt, even
// when the outcome is an expiry error. A key is valid only on the UTC
// calendar day it was issued.
func (s *ResetService) ValidateResetKey(ctx context.Context, key string) (*member.Member, error) {
	if key == "" {
		return nil, oops.Code("RESET_KEY_INVALID").Errorf("reset key cannot be empty")
	}

	m, err := s.members.GetByResetKey(ctx, key)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return nil, oops.Code("RESET_KEY_INVALID").Errorf("reset key not found")
		}
		return nil, oops.Code("RESET_VALIDATE_FAILED").
			With("operation", "get member by reset key").
			Wrap(err)
	}

	issuedAt := m.Reset.KeyIssuedAt

	// Consume the key before judging it so a failed attempt cannot be
	// replayed. The daily counter is left intact.
	m.Reset.Key = ""
	m.Reset.KeyIssuedAt = nil
	if err := s.consumeKey(ctx, m); err != nil {
		return nil, err
	}

	if issuedAt == nil || !sameCalendarDay(*issuedAt, s.now()) {
		return nil, oops.Code("RESET_KEY_EXPIRED").Errorf("reset key has expired")
	}

	return m, nil
}

// consumeKey persists the cleared reset key, retrying a lost race once.
func (s *ResetService) consumeKey(ctx context.Context, m *member.Member) error {
	backoff := retry.WithMaxRetries(resetRetryMax, retry.NewConstant(resetRetryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.members.Update(ctx, m); err == nil {
			return nil
		} else if !errors.Is(err, member.ErrVersionConflict) {
			return err
		}

		fresh, err := s.members.GetByID(ctx, m.ID)
		if err != nil {
			return err
		}
		fresh.Reset.Key = ""
		fresh.Reset.KeyIssuedAt = nil
		*m = *fresh
		return retry.RetryableError(member.ErrVersionConflict)
	})
	if err != nil {
		return oops.Code("RESET_VALIDATE_FAILED").
			With("operation", "consume reset key").
			Wrap(err)
	}
	return nil
}

// FinishReset validates the key and replaces the member's password.
func (s *ResetService) FinishReset(ctx context.Context, key, newPassword string) error {
	if err := member.ValidatePassword(newPassword); err != nil {
		return err
	}

	m, err := s.ValidateResetKey(ctx, key)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("RESET_FINISH_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	if err := s.creds.UpdateHash(ctx, m.ID, hash); err != nil {
		return oops.Code("RESET_FINISH_FAILED").
			With("operation", "update credential").
			Wrap(err)
	}
	return nil
}
