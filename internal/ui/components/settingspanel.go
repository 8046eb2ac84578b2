// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/atelier-tui/internal/provider"
	"github.com/jeranaias/atelier-tui/internal/settings"
	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

// =============================================================================
// SETTINGS PANEL
// =============================================================================

// RenderSettingsPanel renders the resolved settings with per-field layer
// attribution, so the user can see where each value came from and whether
// the provider forced it.
func RenderSettingsPanel(theme *styles.Theme, eff settings.Effective, inProject bool) string {
	cap := provider.Capabilities(eff.Provider)

	rows := []string{
		theme.SettingsTitle.Render("Settings"),
		"",
		settingRow(theme, "Provider", eff.Provider.DisplayName(), eff.ProviderSource, false),
		boolRow(theme, "Extended thinking", eff.ExtendedThinking, eff.ExtendedThinkingSource,
			!cap.SupportsExtendedReasoning),
		boolRow(theme, "Web search", eff.WebSearch, eff.WebSearchSource,
			!cap.SupportsWebSearch),
	}

	if inProject {
		rows = append(rows, boolRow(theme, "Knowledge base", eff.KnowledgeBase,
			eff.KnowledgeBaseSource, false))
	} else {
		rows = append(rows, settingRow(theme, "Knowledge base",
			theme.SettingOff.Render("n/a outside project"), settings.SourceCapability, false))
	}

	if eff.ExtendedThinking {
		rows = append(rows, settingRow(theme, "Thinking budget",
			fmt.Sprintf("%d tokens", eff.ThinkingBudget), settings.SourceConversation, false))
	}

	return theme.SettingsPanel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// boolRow renders one on/off setting row. Unsupported settings show as
// forced regardless of the requested value.
func boolRow(theme *styles.Theme, label string, on bool, source settings.Source, unsupported bool) string {
	var value string
	switch {
	case unsupported:
		value = theme.SettingForced.Render(styles.StatusIndicators.Warning + " unavailable")
	case on:
		value = theme.SettingOn.Render(styles.StatusIndicators.Success + " on")
	default:
		value = theme.SettingOff.Render(styles.StatusIndicators.Pending + " off")
	}
	return settingRow(theme, label, value, source, unsupported)
}

func settingRow(theme *styles.Theme, label, value string, source settings.Source, unsupported bool) string {
	src := theme.SettingSource.Render("(" + sourceLabel(source) + ")")
	if unsupported {
		src = theme.SettingSource.Render("(provider)")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.SettingLabel.Render(label), value, " ", src)
}

// sourceLabel maps a cascade source to its display name.
func sourceLabel(s settings.Source) string {
	switch s {
	case settings.SourceConversation:
		return "conversation"
	case settings.SourceProject:
		return "project"
	case settings.SourceCapability:
		return "forced"
	default:
		return "global"
	}
}
