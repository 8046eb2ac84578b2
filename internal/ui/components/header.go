// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/provider"
	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

// =============================================================================
// HEADER
// =============================================================================

// HeaderData carries the active context shown in the top bar.
type HeaderData struct {
	Title    string
	Provider provider.ID
	Project  *model.Project
	Starred  bool
}

// RenderHeader renders the top bar: conversation title on the left,
// provider and project badges on the right.
func RenderHeader(theme *styles.Theme, data HeaderData) string {
	title := data.Title
	if title == "" {
		title = "New conversation"
	}
	if data.Starred {
		title = "* " + title
	}

	badges := theme.ProviderBadge.Render(data.Provider.DisplayName())
	if data.Project != nil {
		badges = lipgloss.JoinHorizontal(lipgloss.Center,
			theme.ProjectBadge.Render(data.Project.Name), " ", badges)
	}

	width := theme.Width
	if width <= 0 {
		width = 80
	}

	avail := width - lipgloss.Width(badges) - 6
	if avail < 8 {
		avail = 8
	}
	if runewidth.StringWidth(title) > avail {
		title = runewidth.Truncate(title, avail, "~")
	}

	left := theme.HeaderTitle.Render(title)
	gap := width - lipgloss.Width(left) - lipgloss.Width(badges) - 4
	if gap < 1 {
		gap = 1
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center,
		left, lipgloss.NewStyle().Width(gap).Render(""), badges)
	return theme.Header.Width(width).Render(row)
}
