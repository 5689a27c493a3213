// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natour/natour/pkg/errutil"
)

func TestTourCreate_ValidatesBeforeConnecting(t *testing.T) {
	cmd := newTourCreateCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--name", "The Forest Hiker", "--summary", "A hike", "--price", "-1"})

	err := cmd.Execute()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "TOUR_INVALID")
}

func TestTourDelete_RejectsInvalidID(t *testing.T) {
	cmd := newTourDeleteCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"not-a-ulid"})

	err := cmd.Execute()
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "INVALID_TOUR_ID")
}

func TestTourCommand_HasExpectedSubcommands(t *testing.T) {
	cmd := NewTourCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, sub := range []string{"create", "list", "delete"} {
		assert.Contains(t, output, sub)
	}
}
