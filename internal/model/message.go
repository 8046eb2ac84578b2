// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
//
// Messages originating from the backend carry a durable server ID. Messages
// inserted optimistically while a send is in flight carry a locally generated
// temporary ID and Pending=true until the backend confirms them.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Pending is true for an optimistic local insert that the backend has
	// not confirmed yet. Never persisted.
	Pending bool `json:"-"`

	// Reasoning trace (assistant messages only)
	Thinking     string  `json:"thinking,omitempty"`
	ThinkingTime float64 `json:"thinking_time,omitempty"` // Seconds spent reasoning

	// Names of files attached to this message
	AttachmentNames []string `json:"attachment_names,omitempty"`
}

// NewMessage creates a new message with a durable server-assigned ID.
func NewMessage(id string, role Role, content string) *Message {
	return &Message{
		ID:        id,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewPendingUserMessage creates an optimistic user message with a temporary
// local ID. The ID doubles as the correlation handle for the in-flight send.
func NewPendingUserMessage(content string, attachmentNames []string) *Message {
	return &Message{
		ID:              TempMessageID(),
		Role:            RoleUser,
		Content:         content,
		Timestamp:       time.Now(),
		Pending:         true,
		AttachmentNames: attachmentNames,
	}
}

// TempMessageID generates a temporary local message identifier.
func TempMessageID() string {
	return "local-" + uuid.NewString()
}

// IsTemporary reports whether the message carries a local (unconfirmed) ID.
func (m *Message) IsTemporary() bool {
	return len(m.ID) > 6 && m.ID[:6] == "local-"
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// HasThinking reports whether the message carries a reasoning trace.
func (m *Message) HasThinking() bool {
	return m.Thinking != ""
}

// FormatThinkingTime returns the reasoning duration for display, or an empty
// string when the message has no recorded reasoning time.
func (m *Message) FormatThinkingTime() string {
	if m.ThinkingTime <= 0 {
		return ""
	}
	if m.ThinkingTime < 1 {
		return fmt.Sprintf("%dms", int(m.ThinkingTime*1000))
	}
	return fmt.Sprintf("%.1fs", m.ThinkingTime)
}

// AttachmentSummary returns a short description of the message attachments,
// or an empty string when there are none.
func (m *Message) AttachmentSummary() string {
	switch n := len(m.AttachmentNames); n {
	case 0:
		return ""
	case 1:
		return m.AttachmentNames[0]
	default:
		return fmt.Sprintf("%s +%d more", m.AttachmentNames[0], n-1)
	}
}
