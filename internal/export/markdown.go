// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/atelier-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter renders a conversation as a Markdown document.
type MarkdownExporter struct {
	opts *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{opts: opts}
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// Export renders the conversation.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# " + conv.GetTitle() + "\n\n")

	if conv.Provider != "" {
		fmt.Fprintf(&b, "- Provider: %s\n", conv.Provider.DisplayName())
	}
	if !conv.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- Created: %s\n", conv.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(&b, "- Messages: %d\n\n", conv.MessageCount())
	b.WriteString("---\n\n")

	for _, msg := range conv.Messages {
		if msg.Pending {
			continue
		}
		e.writeMessage(&b, msg)
	}

	return []byte(b.String()), nil
}

func (e *MarkdownExporter) writeMessage(b *strings.Builder, msg *model.Message) {
	header := "## " + msg.Role.DisplayName()
	if e.opts.IncludeTimestamps && !msg.Timestamp.IsZero() {
		header += " (" + msg.Timestamp.Format("15:04:05") + ")"
	}
	b.WriteString(header + "\n\n")

	if e.opts.IncludeThinking && msg.HasThinking() {
		b.WriteString("<details><summary>Thinking")
		if t := msg.FormatThinkingTime(); t != "" {
			b.WriteString(" (" + t + ")")
		}
		b.WriteString("</summary>\n\n")
		b.WriteString(msg.Thinking + "\n\n</details>\n\n")
	}

	b.WriteString(msg.Content + "\n\n")

	if len(msg.AttachmentNames) > 0 {
		b.WriteString("*Attachments: " + strings.Join(msg.AttachmentNames, ", ") + "*\n\n")
	}
}
