// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package notify delivers trigger alerts to the configured channels.
//
// Every channel is attempted independently. An alert counts as delivered when
// at least one channel accepted it; otherwise the per-channel failures are
// returned together as a *DispatchError.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/toeirei/redtoken/internal/logging"
	"github.com/toeirei/redtoken/internal/model"
)

// DefaultTimeout bounds every outbound HTTP request.
const DefaultTimeout = 10 * time.Second

// Notifier sends an alert for a triggered token.
type Notifier interface {
	SendAlert(ctx context.Context, token model.Honeytoken) error
}

// Options configures a Dispatcher. Zero values select defaults.
type Options struct {
	Client *http.Client
	Email  EmailSender
	// RateLimit caps alerts per hour. Zero disables the limit.
	RateLimit int
	Now       func() time.Time
}

// Dispatcher fans an alert out to every configured channel.
type Dispatcher struct {
	channels []model.Channel
	client   *http.Client
	email    EmailSender
	limiter  *limiter
	now      func() time.Time
	log      *clog.Logger
}

// NewDispatcher validates channels and returns a Dispatcher for them.
func NewDispatcher(channels []model.Channel, opts Options) (*Dispatcher, error) {
	for _, c := range channels {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	d := &Dispatcher{
		channels: append([]model.Channel(nil), channels...),
		client:   opts.Client,
		email:    opts.Email,
		now:      opts.Now,
		log:      logging.With("component", "notify"),
	}
	if d.client == nil {
		d.client = &http.Client{Timeout: DefaultTimeout}
	}
	if d.email == nil {
		d.email = LogEmailSender{}
	}
	if d.now == nil {
		d.now = time.Now
	}
	if opts.RateLimit > 0 {
		d.limiter = newLimiter(opts.RateLimit, time.Hour, d.now)
	}
	return d, nil
}

// Channels returns a copy of the configured channels.
func (d *Dispatcher) Channels() []model.Channel {
	return append([]model.Channel(nil), d.channels...)
}

// Alert is the channel-independent content of one notification.
type Alert struct {
	TokenID     string
	FilePath    string
	Fingerprint string
	TriggeredAt time.Time
}

func (d *Dispatcher) alertFor(token model.Honeytoken) Alert {
	at := d.now()
	if token.LastChecked != nil {
		at = *token.LastChecked
	}
	return Alert{
		TokenID:     token.ID,
		FilePath:    token.FilePath,
		Fingerprint: token.Fingerprint(),
		TriggeredAt: at,
	}
}

// SendAlert delivers an alert for token to all channels concurrently.
func (d *Dispatcher) SendAlert(ctx context.Context, token model.Honeytoken) error {
	if len(d.channels) == 0 {
		return model.NotificationError("no channels configured", nil)
	}
	if d.limiter != nil && !d.limiter.allow() {
		d.log.Warn("alert suppressed by rate limit", "token_id", token.ID)
		return ErrRateLimited
	}

	alert := d.alertFor(token)
	errs := make([]error, len(d.channels))
	var wg sync.WaitGroup
	for i, c := range d.channels {
		wg.Add(1)
		go func(i int, c model.Channel) {
			defer wg.Done()
			errs[i] = d.send(ctx, c, alert)
		}(i, c)
	}
	wg.Wait()

	var failed []ChannelError
	for i, err := range errs {
		if err != nil {
			d.log.Error("alert delivery failed", "channel", d.channels[i].Name(), "token_id", token.ID, "err", err)
			failed = append(failed, ChannelError{Channel: d.channels[i].Name(), Err: err})
			continue
		}
		d.log.Info("alert delivered", "channel", d.channels[i].Name(), "token_id", token.ID)
	}
	if len(failed) == len(d.channels) {
		return &DispatchError{Failures: failed}
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, c model.Channel, a Alert) error {
	switch c.Type {
	case model.ChannelTelegram:
		return d.postJSON(ctx, c.WebhookURL, telegramPayload(c, a))
	case model.ChannelDiscord:
		return d.postJSON(ctx, c.WebhookURL, discordPayload(a))
	case model.ChannelEmail:
		return d.email.Send(ctx, EmailMessage{
			Server:  c.SMTPServer,
			From:    c.From,
			To:      c.To,
			Subject: "Honeytoken triggered: " + a.TokenID,
			Body:    alertText(a),
		})
	default:
		return fmt.Errorf("unsupported channel type %q", c.Type)
	}
}

// ChannelError is one channel's delivery failure.
type ChannelError struct {
	Channel string
	Err     error
}

func (e ChannelError) Error() string { return e.Channel + ": " + e.Err.Error() }

func (e ChannelError) Unwrap() error { return e.Err }

// DispatchError reports that no channel accepted an alert.
type DispatchError struct {
	Failures []ChannelError
}

func (e *DispatchError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return "all notification channels failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the per-channel errors to errors.Is and errors.As.
func (e *DispatchError) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f
	}
	return out
}

// Is lets a DispatchError match model.ErrNotification.
func (e *DispatchError) Is(target error) bool {
	t, ok := target.(*model.Error)
	return ok && t.Kind == model.KindNotification
}

var _ Notifier = (*Dispatcher)(nil)
