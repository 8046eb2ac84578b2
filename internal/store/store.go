// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the in-memory session state: conversations, projects,
// and the active conversation with its messages.
package store

import (
	"errors"
	"sync"

	"github.com/jeranaias/atelier-tui/internal/api"
	"github.com/jeranaias/atelier-tui/internal/model"
)

// ErrNoActiveConversation indicates an operation that needs an active
// conversation ran without one.
var ErrNoActiveConversation = errors.New("no active conversation")

// =============================================================================
// STATE STORE
// =============================================================================

// Store is the single source of truth for session state. The UI renders
// from it and never caches derived state of its own.
//
// The store guards referential integrity, not business rules: removing the
// active conversation clears the active slot, and project lookups for
// unknown ids return nil instead of dangling references. Whether a given
// mutation is allowed is the coordinator's concern.
type Store struct {
	mu sync.RWMutex

	// Listing state
	conversations []model.ConversationMeta
	projects      map[string]*model.Project
	projectFiles  map[string][]model.FileDescriptor

	// Active conversation with full message history
	active *model.Conversation

	// Backend feature availability, fetched at startup
	features *api.FeatureConfig
}

// New creates an empty store.
func New() *Store {
	return &Store{
		projects:     make(map[string]*model.Project),
		projectFiles: make(map[string][]model.FileDescriptor),
	}
}

// =============================================================================
// BACKEND FEATURES
// =============================================================================

// SetFeatures records the backend feature availability report.
func (s *Store) SetFeatures(f *api.FeatureConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features = f
}

// Features returns the backend feature availability report, or nil before
// the first fetch.
func (s *Store) Features() *api.FeatureConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.features
}

// =============================================================================
// CONVERSATION LISTING
// =============================================================================

// SetConversations replaces the conversation listing.
func (s *Store) SetConversations(metas []model.ConversationMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = make([]model.ConversationMeta, len(metas))
	copy(s.conversations, metas)
}

// Conversations returns the conversation listing in stored order.
func (s *Store) Conversations() []model.ConversationMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ConversationMeta, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// UpsertConversation inserts or updates one listing entry. New entries go
// to the front (newest first).
func (s *Store) UpsertConversation(meta model.ConversationMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.conversations {
		if s.conversations[i].ID == meta.ID {
			s.conversations[i] = meta
			return
		}
	}
	s.conversations = append([]model.ConversationMeta{meta}, s.conversations...)
}

// RemoveConversation drops a conversation from the listing. If it is the
// active conversation, the active slot is cleared too.
func (s *Store) RemoveConversation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
			removed = true
			break
		}
	}
	if s.active != nil && s.active.ID == id {
		s.active = nil
	}
	return removed
}

// =============================================================================
// PROJECTS
// =============================================================================

// SetProjects replaces the known projects.
func (s *Store) SetProjects(projects []*model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = make(map[string]*model.Project, len(projects))
	for _, p := range projects {
		s.projects[p.ID] = p
	}
}

// Project returns a project by ID, or nil when unknown.
func (s *Store) Project(id string) *model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects[id]
}

// UpsertProject inserts or updates one project.
func (s *Store) UpsertProject(p *model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
}

// Projects returns all known projects.
func (s *Store) Projects() []*model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out
}

// SetProjectFiles records the knowledge base listing for a project.
func (s *Store) SetProjectFiles(projectID string, files []model.FileDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectFiles[projectID] = files
}

// ProjectFiles returns the knowledge base listing for a project.
func (s *Store) ProjectFiles(projectID string) []model.FileDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectFiles[projectID]
}

// =============================================================================
// ACTIVE CONVERSATION
// =============================================================================

// SetActive makes a conversation the active one, replacing its message
// history with the given messages.
func (s *Store) SetActive(conv *model.Conversation, messages []*model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv.Messages = messages
	s.active = conv
}

// Active returns the active conversation, or nil.
func (s *Store) Active() *model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// ActiveProject returns the project of the active conversation, or nil for
// standalone conversations and unknown project ids.
func (s *Store) ActiveProject() *model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil || s.active.ProjectID == "" {
		return nil
	}
	return s.projects[s.active.ProjectID]
}

// ClearActive leaves no conversation active.
func (s *Store) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
}

// =============================================================================
// ACTIVE MESSAGE MUTATIONS
// =============================================================================

// AppendMessage appends a message to the active conversation.
func (s *Store) AppendMessage(msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ErrNoActiveConversation
	}
	s.active.AddMessage(msg)
	return nil
}

// ReplaceMessage swaps a message of the active conversation in place,
// preserving its position.
func (s *Store) ReplaceMessage(id string, confirmed *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ErrNoActiveConversation
	}
	if !s.active.ReplaceMessage(id, confirmed) {
		return errors.New("message not found: " + id)
	}
	return nil
}

// RemoveMessage removes a message from the active conversation.
func (s *Store) RemoveMessage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ErrNoActiveConversation
	}
	if !s.active.RemoveMessage(id) {
		return errors.New("message not found: " + id)
	}
	return nil
}
