// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/atelier-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter renders a conversation as indented JSON. Pending messages
// are dropped so the file only carries server-confirmed turns.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// FileExtension returns ".json".
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// Export renders the conversation.
func (e *JSONExporter) Export(conv *model.Conversation) ([]byte, error) {
	out := conv.Clone()
	confirmed := make([]*model.Message, 0, len(out.Messages))
	for _, msg := range out.Messages {
		if !msg.Pending {
			confirmed = append(confirmed, msg)
		}
	}
	out.Messages = confirmed

	return json.MarshalIndent(out, "", "  ")
}
