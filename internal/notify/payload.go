// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package notify

import (
	"fmt"
	"html"

	"github.com/toeirei/redtoken/internal/model"
)

const (
	// DefaultTelegramChatID is used when a telegram channel has no chat_id.
	DefaultTelegramChatID = "@redtoken_alerts"

	alertTimeLayout = "2006-01-02 15:04:05"
	discordRed      = 16711680
)

func alertText(a Alert) string {
	return fmt.Sprintf("🚨 ALERT: Honeytoken triggered!\n\nToken ID: %s\nFile Path: %s\nTriggered: %s",
		a.TokenID, a.FilePath, a.TriggeredAt.Local().Format(alertTimeLayout))
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func telegramPayload(c model.Channel, a Alert) telegramMessage {
	chat := c.ChatID
	if chat == "" {
		chat = DefaultTelegramChatID
	}
	// The text is parsed as HTML, so path and id must not carry markup.
	esc := a
	esc.TokenID = html.EscapeString(a.TokenID)
	esc.FilePath = html.EscapeString(a.FilePath)
	return telegramMessage{ChatID: chat, Text: alertText(esc), ParseMode: "HTML"}
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Footer      discordFooter  `json:"footer"`
}

type discordMessage struct {
	Embeds []discordEmbed `json:"embeds"`
}

func discordPayload(a Alert) discordMessage {
	return discordMessage{Embeds: []discordEmbed{{
		Title:       "🚨 Honeytoken Alert",
		Description: "A honeytoken has been triggered!",
		Color:       discordRed,
		Fields: []discordField{
			{Name: "Token ID", Value: a.TokenID, Inline: true},
			{Name: "File Path", Value: a.FilePath, Inline: true},
			{Name: "Triggered At", Value: a.TriggeredAt.Local().Format(alertTimeLayout)},
		},
		Footer: discordFooter{Text: "RedToken Intrusion Detection"},
	}}}
}
