// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natour/natour/internal/config"
	"github.com/natour/natour/pkg/errutil"
)

func TestResolveDatabaseURL_PrefersConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg := &config.Config{}
	cfg.Database.URL = "postgres://config/db"

	url, err := resolveDatabaseURL(cfg)
	require.NoError(t, err)
	assert.Equal(t, "postgres://config/db", url)
}

func TestResolveDatabaseURL_FallsBackToEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")

	url, err := resolveDatabaseURL(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", url)
}

func TestResolveDatabaseURL_MissingFails(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := resolveDatabaseURL(&config.Config{})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestAutoMigrate_AppliesPending(t *testing.T) {
	migrator := &cmdMockMigrator{pending: []uint{1, 2}}
	deps := &ServeDeps{
		MigratorFactory: func(_ string) (Migrator, error) {
			return migrator, nil
		},
	}

	require.NoError(t, autoMigrate(deps, "postgres://localhost/test"))

	assert.True(t, migrator.upCalled)
	assert.True(t, migrator.closeCalled)
}

func TestAutoMigrate_SkipsWhenUpToDate(t *testing.T) {
	migrator := &cmdMockMigrator{}
	deps := &ServeDeps{
		MigratorFactory: func(_ string) (Migrator, error) {
			return migrator, nil
		},
	}

	require.NoError(t, autoMigrate(deps, "postgres://localhost/test"))

	assert.False(t, migrator.upCalled)
	assert.True(t, migrator.closeCalled)
}

func TestAutoMigrate_ClosesOnError(t *testing.T) {
	migrator := &cmdMockMigrator{pending: []uint{1}, upErr: errors.New("boom")}
	deps := &ServeDeps{
		MigratorFactory: func(_ string) (Migrator, error) {
			return migrator, nil
		},
	}

	err := autoMigrate(deps, "postgres://localhost/test")
	require.Error(t, err)
	assert.True(t, migrator.closeCalled)
}
