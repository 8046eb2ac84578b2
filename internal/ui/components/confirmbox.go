// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/atelier-tui/internal/settings"
	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

// =============================================================================
// CONFIRMATION PROMPT
// =============================================================================

// ConfirmChoice identifies the highlighted button in the prompt.
type ConfirmChoice int

const (
	ChoiceConfirm ConfirmChoice = iota
	ChoiceCancel
)

// Toggle flips the highlighted button.
func (c ConfirmChoice) Toggle() ConfirmChoice {
	if c == ChoiceConfirm {
		return ChoiceCancel
	}
	return ChoiceConfirm
}

// RenderConfirmBox renders the settings trade-off prompt as a centered
// modal. Returns an empty string when no confirmation is awaiting.
func RenderConfirmBox(theme *styles.Theme, confirm *settings.Confirmation, choice ConfirmChoice) string {
	if confirm.State() != settings.ConfirmAwaiting {
		return ""
	}

	title := theme.ConfirmTitle.Render(styles.StatusIndicators.Warning + " Confirm settings change")
	prompt := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(confirmPromptWidth(theme)).
		Render(confirm.Prompt())

	yes := theme.ConfirmButton.Render("Enable")
	no := theme.ConfirmButton.Render("Cancel")
	if choice == ChoiceConfirm {
		yes = theme.ConfirmButtonActive.Render("Enable")
	} else {
		no = theme.ConfirmButtonActive.Render("Cancel")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yes, no)

	hint := theme.ShortcutDesc.Render("left/right to choose, enter to apply, esc to cancel")

	box := theme.ConfirmBox.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", prompt, "", buttons, hint))

	if theme.Width > 0 && theme.Height > 0 {
		return lipgloss.Place(theme.Width, theme.Height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func confirmPromptWidth(theme *styles.Theme) int {
	w := theme.Width - 12
	if w > 60 {
		w = 60
	}
	if w < 24 {
		w = 24
	}
	return w
}
