// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

// Package auth provides authentication primitives for Natour.
//
// # Services
//
// Service types coordinate credential operations:
//   - Service - credential verification, member signup, password change
//   - ResetService - rate-limited password reset flow
//
// Services are created with New*Service constructors that validate
// dependencies.
//
// All credential verification failures surface as a single
// AUTH_INVALID_CREDENTIALS error so callers cannot distinguish an unknown
// email from a wrong password or a deactivated account.
package auth
