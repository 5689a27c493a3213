// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Retry policy for transient SMTP failures.
const (
	smtpRetryBase = 500 * time.Millisecond
	smtpRetryMax  = 3
)

// SMTPTransport delivers mail through a single SMTP relay.
type SMTPTransport struct {
	addr string
	auth smtp.Auth
	from string

	// sendMail is swappable for tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPTransport creates an SMTPTransport for the given relay.
// Username may be empty for unauthenticated relays.
func NewSMTPTransport(host string, port int, username, password, from string) (*SMTPTransport, error) {
	if host == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("smtp host is required")
	}
	if from == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("smtp from address is required")
	}

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPTransport{
		addr:     fmt.Sprintf("%s:%d", host, port),
		auth:     auth,
		from:     from,
		sendMail: smtp.SendMail,
	}, nil
}

// Send delivers the message, retrying transient relay failures with
// exponential backoff.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) (Receipt, error) {
	if len(msg.To) == 0 {
		return Receipt{}, oops.Code("MAIL_SEND_FAILED").Errorf("message has no recipients")
	}

	payload := t.encode(msg)

	backoff := retry.WithMaxRetries(smtpRetryMax, retry.NewExponential(smtpRetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := t.sendMail(t.addr, t.auth, t.from, msg.To, payload); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return Receipt{}, oops.Code("MAIL_SEND_FAILED").
			With("relay", t.addr).
			With("recipients", len(msg.To)).
			Wrap(err)
	}

	// net/smtp delivers to all recipients or fails; a success accepts all.
	return Receipt{Accepted: msg.To}, nil
}

// encode renders the message as a MIME document with an HTML body.
func (t *SMTPTransport) encode(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", t.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
