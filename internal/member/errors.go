// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package member

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when an optimistic-concurrency update
// loses the race against a concurrent write.
var ErrVersionConflict = errors.New("version conflict")

// ErrDuplicateEmail is returned when creating a member with an email
// that is already registered.
var ErrDuplicateEmail = errors.New("email already registered")
