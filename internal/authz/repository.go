// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package authz

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/samber/oops"
	"golang.org/x/sync/singleflight"
)

// Policy source layout: one shared model plus one rule file per role.
const (
	modelFile         = "rbac_model.conf"
	policyFilePattern = "rbac_policy.%s.csv"
)

//go:embed policies/rbac_model.conf policies/rbac_policy.*.csv
var defaultPolicies embed.FS

// ErrPolicyNotFound is returned when no policy rules exist for a role.
var ErrPolicyNotFound = errors.New("policy not found")

// PolicyRepository loads and caches one enforcer per role name.
//
// Enforcers are built once and memoized; concurrent first requests for the
// same role share a single construction via singleflight. When dir is empty
// the embedded default policies are used, otherwise rule files are read
// from dir.
type PolicyRepository struct {
	dir string

	mu    sync.RWMutex
	cache map[string]RoleEnforcer
	group singleflight.Group
}

var _ PolicySource = (*PolicyRepository)(nil)

// NewPolicyRepository creates a PolicyRepository. dir may be empty to use
// the embedded default policies.
func NewPolicyRepository(dir string) *PolicyRepository {
	return &PolicyRepository{
		dir:   dir,
		cache: make(map[string]RoleEnforcer),
	}
}

// Enforcer returns the enforcer for a role, building and caching it on
// first use. Unknown role names fail with ErrPolicyNotFound.
func (r *PolicyRepository) Enforcer(ctx context.Context, role string) (RoleEnforcer, error) {
	r.mu.RLock()
	cached, ok := r.cache[role]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := r.group.Do(role, func() (any, error) {
		// Re-check under the flight: a previous winner may have filled
		// the cache between our miss and this call.
		r.mu.RLock()
		cached, ok := r.cache[role]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		built, err := r.build(role)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[role] = built
		r.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(RoleEnforcer), nil
}

// build constructs the casbin enforcer for a role from its rule file.
func (r *PolicyRepository) build(role string) (RoleEnforcer, error) {
	modelBytes, err := r.readFile(modelFile)
	if err != nil {
		return nil, oops.Code("AUTHZ_POLICY_LOAD_FAILED").
			With("file", modelFile).
			Wrap(err)
	}

	policyName := fmt.Sprintf(policyFilePattern, role)
	policyBytes, err := r.readFile(policyName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("AUTHZ_POLICY_NOT_FOUND").
				With("role", role).
				Wrap(ErrPolicyNotFound)
		}
		return nil, oops.Code("AUTHZ_POLICY_LOAD_FAILED").
			With("file", policyName).
			Wrap(err)
	}

	m, err := model.NewModelFromString(string(modelBytes))
	if err != nil {
		return nil, oops.Code("AUTHZ_POLICY_LOAD_FAILED").
			With("file", modelFile).
			Wrap(err)
	}

	enforcer, err := casbin.NewEnforcer(m, newByteAdapter(policyBytes))
	if err != nil {
		return nil, oops.Code("AUTHZ_POLICY_LOAD_FAILED").
			With("role", role).
			Wrap(err)
	}

	return &roleEnforcer{role: role, enforcer: enforcer}, nil
}

// Roles returns the role names that have a policy file, sorted. Useful for
// warming the cache at startup and for diagnostics.
func (r *PolicyRepository) Roles() ([]string, error) {
	var names []string
	if r.dir != "" {
		entries, err := os.ReadDir(r.dir)
		if err != nil {
			return nil, oops.Code("AUTHZ_POLICY_LOAD_FAILED").
				With("dir", r.dir).
				Wrap(err)
		}
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
	} else {
		entries, err := defaultPolicies.ReadDir("policies")
		if err != nil {
			return nil, oops.Code("AUTHZ_POLICY_LOAD_FAILED").Wrap(err)
		}
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
	}

	var roles []string
	for _, name := range names {
		if !strings.HasPrefix(name, "rbac_policy.") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		roles = append(roles, strings.TrimSuffix(strings.TrimPrefix(name, "rbac_policy."), ".csv"))
	}
	sort.Strings(roles)
	return roles, nil
}

// readFile reads a policy source file from the configured dir, or from the
// embedded defaults when no dir is set.
func (r *PolicyRepository) readFile(name string) ([]byte, error) {
	if r.dir != "" {
		return os.ReadFile(filepath.Join(r.dir, name))
	}
	return defaultPolicies.ReadFile("policies/" + name)
}
