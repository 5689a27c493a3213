// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package authz

import (
	"context"

	"github.com/samber/oops"

	"github.com/natour/natour/internal/observability"
)

// PolicySource resolves the enforcer for a role name.
type PolicySource interface {
	Enforcer(ctx context.Context, role string) (RoleEnforcer, error)
}

// Engine decides authorization requests by consulting each allowed role's
// enforcer in declaration order.
type Engine struct {
	policies PolicySource
}

var _ Authorizer = (*Engine)(nil)

// NewEngine creates a new Engine.
func NewEngine(policies PolicySource) (*Engine, error) {
	if policies == nil {
		return nil, oops.Errorf("policy source is required")
	}
	return &Engine{policies: policies}, nil
}

// Authorize evaluates the request:
//
//   - a nil AllowedRoles list marks the action unrestricted: Allow
//   - an empty AllowedRoles list marks the action locked: Deny
//   - otherwise allowed roles are consulted in order; the first enforcer
//     that grants the action wins and the rest are never consulted
//
// A role without a policy fails with ErrPolicyNotFound rather than a deny:
// a misconfigured allowed-roles list is a configuration error, not a
// permission decision. The boolean outcome of the role loop means Abstain
// is never produced here.
func (e *Engine) Authorize(ctx context.Context, req Request) (Decision, error) {
	if req.AllowedRoles == nil {
		observability.RecordAuthzDecision(Allow.String())
		return Allow, nil
	}
	if len(req.AllowedRoles) == 0 {
		observability.RecordAuthzDecision(Deny.String())
		return Deny, nil
	}

	for _, role := range req.AllowedRoles {
		enforcer, err := e.policies.Enforcer(ctx, role)
		if err != nil {
			return Deny, err
		}

		allowed, err := enforcer.Enforce(req.SubjectRoles, req.Object, req.Action)
		if err != nil {
			return Deny, err
		}
		if allowed {
			observability.RecordAuthzDecision(Allow.String())
			return Allow, nil
		}
	}

	observability.RecordAuthzDecision(Deny.String())
	return Deny, nil
}
