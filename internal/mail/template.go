// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package mail

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/samber/oops"
)

// ResetSubject is the subject line of password reset mails.
const ResetSubject = "[Natour] Reset Password Request"

var resetTemplate = template.Must(template.New("reset").Parse(`<div>
  <p>Hello, {{.DisplayName}}</p>
  <p style="color: red;">We received a request to reset the password for your account with email address: {{.Email}}</p>
  <p>To reset your password click on the link provided below</p>
  <a href="{{.Link}}">Reset your password link</a>
  <p>If you didn't request to reset your password, please ignore this email or reset your password to protect your account.</p>
  <p>Thanks</p>
  <p>The Natour team</p>
</div>
`))

// NewResetMessage renders the password reset mail for a member. The reset
// key is embedded in a finish-reset link under appURL.
func NewResetMessage(appURL, email, displayName, resetKey string) (Message, error) {
	link := fmt.Sprintf("%s/reset-password-finish.html?resetKey=%s",
		strings.TrimRight(appURL, "/"), resetKey)

	var body strings.Builder
	data := struct {
		DisplayName string
		Email       string
		Link        string
	}{DisplayName: displayName, Email: email, Link: link}

	if err := resetTemplate.Execute(&body, data); err != nil {
		return Message{}, oops.Code("MAIL_TEMPLATE_FAILED").Wrap(err)
	}

	return Message{
		To:      []string{email},
		Subject: ResetSubject,
		HTML:    body.String(),
	}, nil
}
