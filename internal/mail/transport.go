// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

// Package mail provides outbound email delivery for Natour.
package mail

import "context"

// Message is a single outbound email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Receipt reports which recipients the transport accepted the message for.
type Receipt struct {
	Accepted []string
}

// Transport delivers email messages.
type Transport interface {
	// Send delivers the message. A nil error with an empty Accepted list
	// means the transport took the message but no recipient was accepted.
	Send(ctx context.Context, msg Message) (Receipt, error)
}
