// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

// Package authz provides role-based authorization decisions for Natour.
package authz

import "context"

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Deny rejects the action.
	Deny Decision = iota

	// Allow permits the action.
	Allow

	// Abstain defers to another authorizer. The engine in this package
	// never returns it; the value is reserved for composing multiple
	// authorizers where a non-answer must be distinguishable from Deny.
	Abstain
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Abstain:
		return "abstain"
	default:
		return "unknown"
	}
}

// Request describes a single authorization question.
type Request struct {
	// SubjectRoles are the roles held by the principal.
	SubjectRoles []string

	// Object is the resource being acted on (e.g. "member", "tour/123").
	Object string

	// Action is the operation on the object (e.g. "read", "delete").
	Action string

	// AllowedRoles are the roles the action declares as potentially
	// permitted. A nil slice means the action is unrestricted; an empty
	// non-nil slice means the action is locked for everyone.
	AllowedRoles []string
}

// Authorizer decides authorization requests.
type Authorizer interface {
	Authorize(ctx context.Context, req Request) (Decision, error)
}
