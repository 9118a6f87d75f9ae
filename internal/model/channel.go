// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"fmt"
	"net/url"
	"strings"
)

// ChannelType names an alert destination.
type ChannelType string

const (
	ChannelTelegram ChannelType = "telegram"
	ChannelDiscord  ChannelType = "discord"
	ChannelEmail    ChannelType = "email"
)

// Channel is one configured alert destination. Which fields are required
// depends on Type.
type Channel struct {
	Type       ChannelType `mapstructure:"type" yaml:"type" json:"type"`
	WebhookURL string      `mapstructure:"webhook_url" yaml:"webhook_url,omitempty" json:"webhook_url,omitempty"`
	ChatID     string      `mapstructure:"chat_id" yaml:"chat_id,omitempty" json:"chat_id,omitempty"`
	SMTPServer string      `mapstructure:"smtp_server" yaml:"smtp_server,omitempty" json:"smtp_server,omitempty"`
	From       string      `mapstructure:"from" yaml:"from,omitempty" json:"from,omitempty"`
	To         string      `mapstructure:"to" yaml:"to,omitempty" json:"to,omitempty"`
}

// Validate checks the fields required by the channel type.
func (c Channel) Validate() error {
	switch c.Type {
	case ChannelTelegram, ChannelDiscord:
		if c.WebhookURL == "" {
			return ConfigError(fmt.Sprintf("%s channel requires webhook_url", c.Type), nil)
		}
		u, err := url.Parse(c.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ConfigError(fmt.Sprintf("%s channel has invalid webhook_url %q", c.Type, c.WebhookURL), err)
		}
	case ChannelEmail:
		var missing []string
		if c.SMTPServer == "" {
			missing = append(missing, "smtp_server")
		}
		if c.From == "" {
			missing = append(missing, "from")
		}
		if c.To == "" {
			missing = append(missing, "to")
		}
		if len(missing) > 0 {
			return ConfigError("email channel requires "+strings.Join(missing, ", "), nil)
		}
	default:
		return ConfigError(fmt.Sprintf("unknown channel type %q", c.Type), nil)
	}
	return nil
}

// Name is a short label used in logs and aggregated errors.
func (c Channel) Name() string {
	return string(c.Type)
}
