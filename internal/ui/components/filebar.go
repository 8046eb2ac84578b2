// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/atelier-tui/internal/attach"
	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

// =============================================================================
// STAGED FILES BAR
// =============================================================================

// maxChipWidth bounds a single file chip so one long name cannot push the
// rest of the bar off screen.
const maxChipWidth = 24

// RenderFileBar renders the staged attachments above the input area. The
// bar is hidden when nothing is staged.
func RenderFileBar(theme *styles.Theme, staging *attach.Staging) string {
	if staging == nil || staging.IsEmpty() {
		return ""
	}

	files := staging.Files()
	chips := make([]string, 0, len(files)+1)
	for _, f := range files {
		chips = append(chips, renderChip(theme, f))
	}

	summary := theme.FileBarSummary.Render(fmt.Sprintf(
		"%s, %s", countLabel(staging.Count()), model.FormatByteSize(staging.TotalSize())))
	chips = append(chips, summary)

	row := lipgloss.JoinHorizontal(lipgloss.Center, chips...)
	width := theme.Width - 4
	if width > 0 && lipgloss.Width(row) > width {
		// Collapse to the summary when the chips overflow.
		row = theme.FileBarSummary.Render(fmt.Sprintf(
			"%s staged, %s (ctrl+f to review)",
			countLabel(staging.Count()), model.FormatByteSize(staging.TotalSize())))
	}
	return theme.FileBar.Render(row)
}

// renderChip renders one staged file as a compact chip. Images use the
// accent chip style so they read differently from documents.
func renderChip(theme *styles.Theme, f attach.StagedFile) string {
	name := f.Name
	if runewidth.StringWidth(name) > maxChipWidth {
		name = runewidth.Truncate(name, maxChipWidth, "~")
	}
	if f.IsImage() {
		return theme.FileChipImage.Render(name)
	}
	return theme.FileChip.Render(name)
}

// RenderRejectedNote renders the note shown after a staging batch rejected
// files, or an empty string when the batch was clean.
func RenderRejectedNote(theme *styles.Theme, result attach.Result) string {
	msg := result.Message()
	if msg == "" {
		return ""
	}
	return theme.FileBarRejected.Render(styles.StatusIndicators.Warning + " " + msg)
}

func countLabel(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}

// AttachmentLine renders the attachment names recorded on a sent message.
func AttachmentLine(theme *styles.Theme, names []string) string {
	if len(names) == 0 {
		return ""
	}
	return theme.AttachmentTag.Render("attached: " + strings.Join(names, ", "))
}
