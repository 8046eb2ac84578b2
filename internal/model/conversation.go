// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/atelier-tui/internal/provider"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with history and metadata.
//
// The three Override* fields are tri-state: nil means "inherit from the
// project (or the global default)", a non-nil value pins the feature on or
// off for this conversation alone.
type Conversation struct {
	// Identity
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Project membership (empty for standalone conversations)
	ProjectID string `json:"project_id,omitempty"`

	// Provider selection (empty inherits the project default)
	Provider provider.ID `json:"provider,omitempty"`

	// Per-conversation setting overrides
	OverrideExtendedThinking *bool `json:"extended_thinking,omitempty"`
	OverrideWebSearch        *bool `json:"web_search,omitempty"`
	OverrideKnowledgeBase    *bool `json:"include_knowledge_base,omitempty"`
	OverrideThinkingBudget   *int  `json:"thinking_budget,omitempty"`

	// Organization flags
	Starred  bool `json:"starred,omitempty"`
	Archived bool `json:"archived,omitempty"`

	// Messages
	Messages []*Message `json:"messages"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// NewProjectConversation creates a new conversation inside a project.
func NewProjectConversation(projectID string) *Conversation {
	conv := NewConversation()
	conv.ProjectID = projectID
	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
}

// GetLastMessage returns the most recent message, or nil if empty.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetLastUserMessage returns the most recent user message.
func (c *Conversation) GetLastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// GetMessageByID returns a message by its ID, or nil if absent.
func (c *Conversation) GetMessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// RemoveMessage removes a message by ID. Returns true if a message was
// removed.
func (c *Conversation) RemoveMessage(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// ReplaceMessage swaps the message with the given ID for a confirmed one,
// preserving its position in the history. Returns false when no message
// carries the ID.
func (c *Conversation) ReplaceMessage(id string, confirmed *Message) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages[i] = confirmed
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// HasPendingMessages reports whether any optimistic insert is still
// unconfirmed.
func (c *Conversation) HasPendingMessages() bool {
	for _, msg := range c.Messages {
		if msg.Pending {
			return true
		}
	}
	return false
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// ClearHistory removes all messages from the conversation.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]*Message, 0)
	c.UpdatedAt = time.Now()
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle auto-generates a title from the first user message if not set.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			c.Title = msg.Preview(50)
			return
		}
	}
}

// SetTitle manually sets the conversation title.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// =============================================================================
// SERIALIZATION HELPERS
// =============================================================================

// Preview returns a short preview of the conversation.
func (c *Conversation) Preview() string {
	if len(c.Messages) == 0 {
		return "Empty conversation"
	}
	last := c.GetLastUserMessage()
	if last == nil {
		last = c.Messages[0]
	}
	return last.Preview(100)
}

// GetMeta returns metadata about the conversation for listing.
func (c *Conversation) GetMeta() ConversationMeta {
	return ConversationMeta{
		ID:           c.ID,
		Title:        c.GetTitle(),
		ProjectID:    c.ProjectID,
		Provider:     c.Provider,
		Starred:      c.Starred,
		Archived:     c.Archived,
		MessageCount: len(c.Messages),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Preview:      c.Preview(),
	}
}

// ConversationMeta holds lightweight metadata for listing.
type ConversationMeta struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	ProjectID    string      `json:"project_id,omitempty"`
	Provider     provider.ID `json:"provider,omitempty"`
	Starred      bool        `json:"starred,omitempty"`
	Archived     bool        `json:"archived,omitempty"`
	MessageCount int         `json:"message_count"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Preview      string      `json:"preview"`
}

// Clone creates a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.OverrideExtendedThinking = cloneBool(c.OverrideExtendedThinking)
	clone.OverrideWebSearch = cloneBool(c.OverrideWebSearch)
	clone.OverrideKnowledgeBase = cloneBool(c.OverrideKnowledgeBase)
	clone.OverrideThinkingBudget = cloneInt(c.OverrideThinkingBudget)
	clone.Messages = make([]*Message, len(c.Messages))
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return &clone
}

// =============================================================================
// TRI-STATE HELPERS
// =============================================================================

// BoolPtr returns a pointer to the given bool, for setting overrides.
func BoolPtr(v bool) *bool { return &v }

// IntPtr returns a pointer to the given int, for setting overrides.
func IntPtr(v int) *int { return &v }

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
