// Copyright (c) 2026 ToeiRei
// Redtoken - honeytoken management system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/toeirei/redtoken/internal/i18n"
	"github.com/toeirei/redtoken/internal/model"
)

const listTimeLayout = "2006-01-02 15:04:05"

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	triggeredStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("196")).Bold(true)
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func tokenRows(tokens []model.Honeytoken, showValues bool) [][]string {
	rows := make([][]string, 0, len(tokens))
	for _, t := range tokens {
		secret := t.Fingerprint()
		if showValues {
			secret = t.Value
		}
		checked := "-"
		if t.LastChecked != nil {
			checked = t.LastChecked.Local().Format(listTimeLayout)
		}
		rows = append(rows, []string{
			t.ID,
			t.FilePath,
			secret,
			t.CreatedAt.Local().Format(listTimeLayout),
			checked,
			t.Status(),
		})
	}
	return rows
}

func tokenHeaders(showValues bool) []string {
	secret := i18n.T("list.header.fingerprint")
	if showValues {
		secret = i18n.T("list.header.value")
	}
	return []string{
		i18n.T("list.header.id"),
		i18n.T("list.header.file"),
		secret,
		i18n.T("list.header.created"),
		i18n.T("list.header.checked"),
		i18n.T("list.header.status"),
	}
}

// renderTokens prints tokens as a styled table on terminals and as
// tab-separated columns otherwise, so the output stays scriptable.
func renderTokens(w io.Writer, tokens []model.Honeytoken, showValues, styled bool) {
	headers := tokenHeaders(showValues)
	rows := tokenRows(tokens, showValues)

	if !styled {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
		for _, r := range rows {
			fmt.Fprintln(tw, strings.Join(r, "\t"))
		}
		_ = tw.Flush()
		return
	}

	statusCol := len(headers) - 1
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == statusCol && row >= 0 && row < len(tokens) && tokens[row].IsTriggered {
				return triggeredStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, tbl.Render())
	fmt.Fprintln(w, i18n.T("list.summary", len(tokens), countTriggered(tokens)))
}

func countTriggered(tokens []model.Honeytoken) int {
	n := 0
	for _, t := range tokens {
		if t.IsTriggered {
			n++
		}
	}
	return n
}
