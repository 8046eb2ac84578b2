// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/atelier-tui/internal/settings"
	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBarData carries everything the status bar needs for one render.
type StatusBarData struct {
	Effective settings.Effective
	InProject bool
	Sending   bool
	FileCount int
	Shortcuts []Shortcut
}

// Shortcut is one key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the hints shown while composing.
var DefaultShortcuts = []Shortcut{
	{"enter", "send"},
	{"ctrl+o", "conversations"},
	{"ctrl+t", "thinking"},
	{"ctrl+w", "search"},
	{"ctrl+f", "attach"},
	{"ctrl+c", "quit"},
}

// RenderStatusBar renders the bottom status bar. Wide terminals show
// provider, feature flags and shortcuts; narrow terminals keep only the
// provider and the most important hint.
func RenderStatusBar(theme *styles.Theme, data StatusBarData) string {
	mode := theme.GetLayoutMode()

	var left string
	switch mode {
	case styles.LayoutNarrow:
		left = data.Effective.Provider.DisplayName()
	default:
		left = fmt.Sprintf("%s %s", data.Effective.Provider.DisplayName(), featureFlags(data))
	}
	if data.Sending {
		left += " " + theme.SendingText.Render("sending...")
	}

	right := ""
	if mode != styles.LayoutNarrow {
		right = renderShortcuts(theme, data.Shortcuts, mode)
	}

	width := theme.Width
	if width <= 0 {
		width = 80
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		left = runewidth.Truncate(left, width-lipgloss.Width(right)-3, "~")
		gap = 1
	}

	content := left + strings.Repeat(" ", gap) + right
	return theme.StatusBar.Width(width).Render(content)
}

// featureFlags renders the on/off summary of the effective settings.
func featureFlags(data StatusBarData) string {
	var flags []string
	flags = append(flags, flag("think", data.Effective.ExtendedThinking))
	flags = append(flags, flag("search", data.Effective.WebSearch))
	if data.InProject {
		flags = append(flags, flag("kb", data.Effective.KnowledgeBase))
	}
	if data.FileCount > 0 {
		flags = append(flags, fmt.Sprintf("files:%d", data.FileCount))
	}
	return strings.Join(flags, " ")
}

func flag(name string, on bool) string {
	if on {
		return styles.StatusIndicators.Success + name
	}
	return styles.StatusIndicators.Pending + name
}

// renderShortcuts renders the key hints, trimming to fit medium layouts.
func renderShortcuts(theme *styles.Theme, shortcuts []Shortcut, mode styles.LayoutMode) string {
	if len(shortcuts) == 0 {
		shortcuts = DefaultShortcuts
	}
	if mode == styles.LayoutMedium && len(shortcuts) > 3 {
		shortcuts = shortcuts[:3]
	}

	parts := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		parts = append(parts,
			theme.ShortcutKey.Render(sc.Key)+theme.ShortcutDesc.Render(" "+sc.Desc))
	}
	return strings.Join(parts, "  ")
}
