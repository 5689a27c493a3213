// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package auth

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/natour/natour/internal/member"
	"github.com/natour/natour/internal/observability"
)

// dummyPasswordHash is used when a member doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$2a$12$K3JNi5vQMio0Nh/v8XYd7elmcXim8TNKKvPWtLWCJ2ao8hRY9Z9bG"

// invalidCredentials builds the uniform verification failure. Every failed
// verification path returns this exact error so callers cannot tell an
// unknown email from a wrong password or a deactivated account.
func invalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
}

// Service provides credential verification and member signup.
type Service struct {
	members member.Repository
	creds   member.CredentialRepository
	hasher  PasswordHasher
	tokens  TokenIssuer
}

// NewService creates a new Service.
func NewService(
	members member.Repository,
	creds member.CredentialRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
) (*Service, error) {
	if members == nil {
		return nil, oops.Errorf("member repository is required")
	}
	if creds == nil {
		return nil, oops.Errorf("credential repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	return &Service{members: members, creds: creds, hasher: hasher, tokens: tokens}, nil
}

// VerifyCredentials checks an email/password pair and returns the principal
// for the matching member. Unknown email, wrong password, missing credential
// and deactivated account all fail with the same error.
// Uses constant-time operations to prevent timing-based email enumeration.
func (s *Service) VerifyCredentials(ctx context.Context, email, password string) (*Principal, error) {
	m, lookupErr := s.members.GetByEmail(ctx, email)

	// Determine which hash to verify against (real or dummy for timing attack prevention)
	targetHash := dummyPasswordHash
	memberExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, member.ErrNotFound) {
			return nil, oops.Code("AUTH_VERIFY_FAILED").
				With("operation", "get member by email").
				Wrap(lookupErr)
		}
	} else {
		cred, credErr := s.creds.GetByMemberID(ctx, m.ID)
		if credErr != nil {
			if !errors.Is(credErr, member.ErrNotFound) {
				return nil, oops.Code("AUTH_VERIFY_FAILED").
					With("operation", "get credential").
					Wrap(credErr)
			}
			// Member without a stored credential verifies against the dummy hash.
		} else {
			targetHash = cred.PasswordHash
			memberExists = true
		}
	}

	// Always verify (constant-time operation for timing attack prevention)
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// For dummy hash verification errors, just treat as invalid
		if !memberExists {
			observability.RecordLoginFailure()
			return nil, invalidCredentials()
		}
		return nil, oops.Code("AUTH_VERIFY_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !memberExists || !valid {
		observability.RecordLoginFailure()
		return nil, invalidCredentials()
	}

	// Check active AFTER password verification to maintain constant time
	if !m.Active {
		observability.RecordLoginFailure()
		return nil, invalidCredentials()
	}

	p := NewPrincipal(m)
	return &p, nil
}

// Login verifies credentials and issues a signed token for the member.
func (s *Service) Login(ctx context.Context, email, password string) (*Principal, string, error) {
	p, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(*p)
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}
	return p, token, nil
}

// CreateMember validates a signup candidate, hashes its password and stores
// the member together with its credential in a single transaction.
func (s *Service) CreateMember(ctx context.Context, c member.Candidate) (*member.Member, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(c.Password)
	if err != nil {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	m, err := member.NewMember(c)
	if err != nil {
		return nil, err
	}
	if err := s.members.Create(ctx, m, hash); err != nil {
		if errors.Is(err, member.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create member").
			Wrap(err)
	}

	observability.RecordMemberCreated()
	return m, nil
}

// ChangePassword replaces a member's password after verifying the current
// one and issues a fresh token for the member's continued session.
func (s *Service) ChangePassword(ctx context.Context, memberID ulid.ULID, current, next string) (string, error) {
	if err := member.ValidatePassword(next); err != nil {
		return "", err
	}

	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return "", invalidCredentials()
		}
		return "", oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "get member").
			Wrap(err)
	}

	cred, err := s.creds.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return "", invalidCredentials()
		}
		return "", oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "get credential").
			Wrap(err)
	}

	valid, err := s.hasher.Verify(current, cred.PasswordHash)
	if err != nil {
		return "", oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "verify password").
			Wrap(err)
	}
	if !valid {
		observability.RecordLoginFailure()
		return "", invalidCredentials()
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return "", oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	if err := s.creds.UpdateHash(ctx, memberID, hash); err != nil {
		return "", oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "update credential").
			Wrap(err)
	}

	token, err := s.tokens.Issue(NewPrincipal(m))
	if err != nil {
		return "", oops.Code("AUTH_CHANGE_PASSWORD_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}
	return token, nil
}
