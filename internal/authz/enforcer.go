// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package authz

import (
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	"github.com/samber/oops"
)

// RoleEnforcer evaluates one role's policy rules against a request triple.
type RoleEnforcer interface {
	// Enforce reports whether any of the subject roles is granted the
	// action on the object under this role's policy.
	Enforce(subjectRoles []string, object, action string) (bool, error)
}

// roleEnforcer wraps a casbin enforcer loaded with a single role's rules.
// Evaluation is read-only, so it is safe for concurrent use.
type roleEnforcer struct {
	role     string
	enforcer *casbin.Enforcer
}

func (r *roleEnforcer) Enforce(subjectRoles []string, object, action string) (bool, error) {
	for _, subject := range subjectRoles {
		allowed, err := r.enforcer.Enforce(subject, object, action)
		if err != nil {
			return false, oops.Code("AUTHZ_ENFORCE_FAILED").
				With("role", r.role).
				With("subject", subject).
				With("object", object).
				With("action", action).
				Wrap(err)
		}
		if allowed {
			return true, nil
		}
	}
	return false, nil
}

// byteAdapter is a read-only casbin adapter over an in-memory CSV policy.
// It lets enforcers load embedded policy files without touching disk.
type byteAdapter struct {
	policy []byte
}

func newByteAdapter(policy []byte) *byteAdapter {
	return &byteAdapter{policy: policy}
}

// LoadPolicy loads all policy rules from the in-memory CSV.
func (a *byteAdapter) LoadPolicy(m model.Model) error {
	for _, line := range strings.Split(string(a.policy), "\n") {
		if err := persist.LoadPolicyLine(strings.TrimSpace(line), m); err != nil {
			return err
		}
	}
	return nil
}

// SavePolicy is not supported; policies are static rule files.
func (a *byteAdapter) SavePolicy(model.Model) error {
	return oops.Errorf("policy adapter is read-only")
}

func (a *byteAdapter) AddPolicy(string, string, []string) error {
	return oops.Errorf("policy adapter is read-only")
}

func (a *byteAdapter) RemovePolicy(string, string, []string) error {
	return oops.Errorf("policy adapter is read-only")
}

func (a *byteAdapter) RemoveFilteredPolicy(string, string, int, ...string) error {
	return oops.Errorf("policy adapter is read-only")
}
