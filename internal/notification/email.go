// Copyright 2026 The OpenLMS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers a notification by email. Implementations are
// best-effort; delivery failure never fails the notification itself.
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}

// SendgridSender sends notification emails through the SendGrid API.
type SendgridSender struct {
	key           string
	from          *sgmail.Email
	subjectPrefix string
}

// NewSendgridSender creates a SendGrid-backed email sender
func NewSendgridSender(apiKey, fromName, fromAddress, subjectPrefix string) *SendgridSender {
	return &SendgridSender{
		key:           apiKey,
		from:          sgmail.NewEmail(fromName, fromAddress),
		subjectPrefix: subjectPrefix,
	}
}

// Send sends a plain-text email
func (s *SendgridSender) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)

	p := sgmail.NewPersonalization()
	p.Subject = s.subjectPrefix + subject
	p.AddTos(sgmail.NewEmail(toName, toEmail))
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", body))

	req := sendgrid.GetRequest(s.key, "/v3/mail/send", "https://api.sendgrid.com")
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d", res.StatusCode)
	}
	return nil
}
