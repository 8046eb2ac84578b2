// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session coordinates backend I/O with the session state store.
package session

import (
	"github.com/jeranaias/atelier-tui/internal/api"
	"github.com/jeranaias/atelier-tui/internal/history"
	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/settings"
)

// =============================================================================
// STARTUP MESSAGES
// =============================================================================

// ReadyMsg reports a successful startup load. Features, conversations, and
// projects are already written to the store when this arrives.
type ReadyMsg struct {
	Features      *api.FeatureConfig
	Conversations []model.ConversationMeta
	Projects      []*model.Project
}

// LoadFailedMsg reports a failed startup load. Any one failing fetch aborts
// the whole load; the UI shows the error instead of a half-populated state.
type LoadFailedMsg struct {
	Err error
}

// RecentHistoryMsg carries locally cached recent conversations, available
// before (or without) the backend listing.
type RecentHistoryMsg struct {
	Entries []history.Entry
}

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// ConversationOpenedMsg reports that a conversation and its messages were
// loaded and made active in the store.
type ConversationOpenedMsg struct {
	Conversation *model.Conversation
	Messages     []*model.Message
	ProjectFiles []model.FileDescriptor
}

// ConversationOpenFailedMsg reports a failed open. The previously active
// conversation is untouched.
type ConversationOpenFailedMsg struct {
	ID  string
	Err error
}

// ConversationCreatedMsg reports a newly created conversation, already
// active in the store.
type ConversationCreatedMsg struct {
	Conversation *model.Conversation
}

// ConversationDeletedMsg reports a deleted conversation, already removed
// from the store and the history cache.
type ConversationDeletedMsg struct {
	ID  string
	Err error
}

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// ChatResultMsg carries the outcome of one send attempt. TicketID ties the
// result to the attempt it belongs to; stale results are discarded.
type ChatResultMsg struct {
	TicketID string
	Response *api.ChatResponse
	Err      error
}

// =============================================================================
// SETTINGS MESSAGES
// =============================================================================

// SettingsPersistedMsg reports the outcome of an asynchronous settings
// write. On failure the local value is kept and the UI shows a passive
// notice; the next successful write carries the full current state.
type SettingsPersistedMsg struct {
	ConversationID string
	Err            error
}

// NoticeMsg surfaces a settings resolution notice to the UI.
type NoticeMsg struct {
	Notice settings.Notice
}
