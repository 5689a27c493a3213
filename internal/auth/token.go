// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

const tokenIssuer = "natour"

// Claims are the JWT claims issued for an authenticated member.
type Claims struct {
	DisplayName string   `json:"name,omitempty"`
	Roles       []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies member tokens.
type TokenIssuer interface {
	// Issue signs a token for the principal.
	Issue(p Principal) (string, error)

	// Verify checks the token signature and expiry and returns its claims.
	Verify(token string) (*Claims, error)
}

// JWTIssuer implements TokenIssuer with HS256-signed JWTs.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a JWTIssuer. The secret must be non-empty and the
// ttl positive.
func NewJWTIssuer(secret []byte, ttl time.Duration) (*JWTIssuer, error) {
	if len(secret) == 0 {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("token secret is required")
	}
	if ttl <= 0 {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").
			With("ttl", ttl.String()).
			Errorf("token ttl must be positive")
	}
	return &JWTIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the principal.
func (i *JWTIssuer) Issue(p Principal) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		DisplayName: p.DisplayName,
		Roles:       p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   p.MemberID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        ulid.Make().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns its claims.
func (i *JWTIssuer) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, oops.Code("TOKEN_INVALID").Errorf("token cannot be empty")
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, oops.Code("TOKEN_INVALID").
				With("alg", t.Method.Alg()).
				Errorf("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, oops.Code("TOKEN_INVALID").Wrap(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, oops.Code("TOKEN_INVALID").Errorf("token claims are malformed")
	}
	return claims, nil
}
