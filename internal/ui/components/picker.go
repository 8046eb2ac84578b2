// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

// =============================================================================
// CONVERSATION PICKER
// =============================================================================

// Picker is a scrollable conversation list with a cursor. Archived
// conversations are hidden unless ShowArchived is set.
type Picker struct {
	items        []model.ConversationMeta
	visible      []model.ConversationMeta
	cursor       int
	offset       int
	pageSize     int
	ShowArchived bool
}

// NewPicker creates an empty picker.
func NewPicker() *Picker {
	return &Picker{pageSize: 10}
}

// SetItems replaces the list and clamps the cursor.
func (p *Picker) SetItems(items []model.ConversationMeta) {
	p.items = items
	p.rebuild()
}

// SetPageSize sets how many rows one screen shows.
func (p *Picker) SetPageSize(n int) {
	if n < 3 {
		n = 3
	}
	p.pageSize = n
	p.clamp()
}

// ToggleArchived flips archived visibility.
func (p *Picker) ToggleArchived() {
	p.ShowArchived = !p.ShowArchived
	p.rebuild()
}

// rebuild recomputes the visible slice: starred first, then the rest,
// both in the stored (recency) order.
func (p *Picker) rebuild() {
	visible := make([]model.ConversationMeta, 0, len(p.items))
	for _, item := range p.items {
		if item.Starred && (p.ShowArchived || !item.Archived) {
			visible = append(visible, item)
		}
	}
	for _, item := range p.items {
		if !item.Starred && (p.ShowArchived || !item.Archived) {
			visible = append(visible, item)
		}
	}
	p.visible = visible
	p.clamp()
}

func (p *Picker) clamp() {
	if p.cursor >= len(p.visible) {
		p.cursor = len(p.visible) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.pageSize {
		p.offset = p.cursor - p.pageSize + 1
	}
}

// MoveUp moves the cursor up one row.
func (p *Picker) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
	p.clamp()
}

// MoveDown moves the cursor down one row.
func (p *Picker) MoveDown() {
	if p.cursor < len(p.visible)-1 {
		p.cursor++
	}
	p.clamp()
}

// Selected returns the conversation under the cursor, or false when the
// list is empty.
func (p *Picker) Selected() (model.ConversationMeta, bool) {
	if len(p.visible) == 0 {
		return model.ConversationMeta{}, false
	}
	return p.visible[p.cursor], true
}

// Len returns the number of visible conversations.
func (p *Picker) Len() int {
	return len(p.visible)
}

// View renders the picker.
func (p *Picker) View(theme *styles.Theme) string {
	title := theme.SettingsTitle.Render("Conversations")
	if len(p.visible) == 0 {
		empty := theme.ConvMeta.Render("No conversations yet. Press n to start one.")
		return theme.ConvList.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", empty))
	}

	end := p.offset + p.pageSize
	if end > len(p.visible) {
		end = len(p.visible)
	}

	rows := []string{title, ""}
	for i := p.offset; i < end; i++ {
		rows = append(rows, p.renderRow(theme, p.visible[i], i == p.cursor))
	}
	if end < len(p.visible) {
		rows = append(rows, theme.ConvMeta.Render(
			fmt.Sprintf("  ... %d more", len(p.visible)-end)))
	}

	hint := theme.ShortcutDesc.Render("enter open, n new, r rename, s star, d delete, a archived, esc close")
	rows = append(rows, "", hint)

	return theme.ConvList.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderRow renders one conversation line: star, title, then metadata.
func (p *Picker) renderRow(theme *styles.Theme, meta model.ConversationMeta, selected bool) string {
	star := "  "
	if meta.Starred {
		star = theme.ConvStarred.Render("* ")
	}

	width := theme.Width - 16
	if width < 24 {
		width = 24
	}
	titleWidth := width * 2 / 3

	title := meta.Title
	if title == "" {
		title = "Untitled"
	}
	if runewidth.StringWidth(title) > titleWidth {
		title = runewidth.Truncate(title, titleWidth, "~")
	}

	metaParts := []string{relativeTime(meta.UpdatedAt)}
	if meta.MessageCount > 0 {
		metaParts = append(metaParts, fmt.Sprintf("%d msgs", meta.MessageCount))
	}
	if meta.Provider != "" {
		metaParts = append(metaParts, string(meta.Provider))
	}
	if meta.Archived {
		metaParts = append(metaParts, "archived")
	}

	line := star + title + "  " + theme.ConvMeta.Render(strings.Join(metaParts, ", "))
	if selected {
		return theme.ConvItemSelected.Render("> " + star + title + "  " + strings.Join(metaParts, ", "))
	}
	return theme.ConvItem.Render("  " + line)
}

// relativeTime formats a timestamp as a short age for list rows.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
