// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package notify

import (
	"context"

	"github.com/toeirei/redtoken/internal/logging"
)

// EmailMessage is one alert mail.
type EmailMessage struct {
	Server  string
	From    string
	To      string
	Subject string
	Body    string
}

// EmailSender delivers alert mails.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// LogEmailSender records the mail it would send and reports success.
type LogEmailSender struct{}

func (LogEmailSender) Send(_ context.Context, msg EmailMessage) error {
	logging.With("component", "notify").Info("email alert",
		"server", msg.Server, "from", msg.From, "to", msg.To, "subject", msg.Subject)
	return nil
}
