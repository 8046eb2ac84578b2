// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// transcriptRenderer turns messages into styled transcript text. The
// glamour renderer is rebuilt on resize because word wrap is baked into it.
type transcriptRenderer struct {
	theme    *styles.Theme
	markdown *glamour.TermRenderer
	width    int
	plain    bool
}

// newTranscriptRenderer creates a renderer. When markdown is disabled in
// config, assistant messages render as plain styled text.
func newTranscriptRenderer(theme *styles.Theme, markdownEnabled bool) *transcriptRenderer {
	return &transcriptRenderer{theme: theme, plain: !markdownEnabled}
}

// setWidth resizes the renderer, rebuilding the markdown engine.
func (r *transcriptRenderer) setWidth(width int) {
	if width == r.width {
		return
	}
	r.width = width
	r.markdown = nil

	if r.plain {
		return
	}
	wrap := bubbleContentWidth(width)
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		// Degrade to plain rendering rather than failing the view.
		r.plain = true
		return
	}
	r.markdown = md
}

// bubbleContentWidth returns the usable content width inside a bubble.
func bubbleContentWidth(width int) int {
	w := width - 12
	if w < 20 {
		w = 20
	}
	return w
}

// RenderTranscript renders the full message list, oldest first.
func (r *transcriptRenderer) RenderTranscript(messages []*model.Message, showThinking bool) string {
	if len(messages) == 0 {
		return r.theme.Timestamp.Render("\n  No messages yet. Type below to start.\n")
	}

	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, r.renderMessage(msg, showThinking))
	}
	return strings.Join(blocks, "\n")
}

// renderMessage renders one message as a bubble with its metadata.
func (r *transcriptRenderer) renderMessage(msg *model.Message, showThinking bool) string {
	switch {
	case msg.Pending:
		return r.renderPending(msg)
	case msg.Role == model.RoleUser:
		return r.renderUser(msg)
	default:
		return r.renderAssistant(msg, showThinking)
	}
}

// renderPending renders an optimistic user message awaiting backend
// confirmation.
func (r *transcriptRenderer) renderPending(msg *model.Message) string {
	content := msg.Content
	if names := msg.AttachmentSummary(); names != "" {
		content += "\n" + names
	}
	bubble := r.theme.PendingBubble.Width(r.bubbleWidth()).Render(content)
	meta := r.theme.Timestamp.Render("    " + styles.StatusIndicators.Pending + " sending")
	return alignRight(lipgloss.JoinVertical(lipgloss.Right, bubble, meta), r.width)
}

func (r *transcriptRenderer) renderUser(msg *model.Message) string {
	content := msg.Content
	if names := msg.AttachmentSummary(); names != "" {
		content += "\n" + r.theme.AttachmentTag.Render(names)
	}
	bubble := r.theme.UserBubble.Width(r.bubbleWidth()).Render(content)
	meta := r.theme.Timestamp.Render("    " + msg.Timestamp.Format("15:04"))
	return alignRight(lipgloss.JoinVertical(lipgloss.Right, bubble, meta), r.width)
}

func (r *transcriptRenderer) renderAssistant(msg *model.Message, showThinking bool) string {
	var parts []string

	if msg.HasThinking() {
		parts = append(parts, r.renderThinking(msg, showThinking))
	}

	body := msg.Content
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(msg.Content); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
	}
	parts = append(parts, r.theme.AssistantBubble.Width(r.bubbleWidth()).Render(body))
	parts = append(parts, r.theme.Timestamp.Render("    "+msg.Timestamp.Format("15:04")))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderThinking renders the reasoning trace, collapsed to a one-line
// header unless traces are shown.
func (r *transcriptRenderer) renderThinking(msg *model.Message, show bool) string {
	header := r.theme.ThinkingHeader.Render("Thinking")
	if t := msg.FormatThinkingTime(); t != "" {
		header += " " + r.theme.ThinkingTime.Render(fmt.Sprintf("(%s)", t))
	}

	if !show {
		hint := r.theme.ThinkingTime.Render("  ctrl+r to expand")
		return r.theme.ThinkingBlock.Render(header + hint)
	}
	return r.theme.ThinkingBlock.Width(r.bubbleWidth()).Render(
		header + "\n" + msg.Thinking)
}

func (r *transcriptRenderer) bubbleWidth() int {
	w := r.width - 8
	if w < 24 {
		w = 24
	}
	return w
}

// alignRight pushes a block to the right edge of the transcript.
func alignRight(block string, width int) string {
	if width <= 0 {
		return block
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
}
