// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/atelier-tui/internal/api"
	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/store"
)

// =============================================================================
// STARTUP COMMANDS
// =============================================================================

// LoadCmd fetches features, conversations, and projects concurrently and
// populates the store. Any single failure aborts the whole load: the UI
// either starts from a complete snapshot or shows the error.
func (s *Session) LoadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var (
			wg       sync.WaitGroup
			features *api.FeatureConfig
			convs    []*model.Conversation
			projects []*model.Project
			errFeat  error
			errConv  error
			errProj  error
		)

		wg.Add(3)
		go func() {
			defer wg.Done()
			features, errFeat = s.client.GetFeatures(ctx)
		}()
		go func() {
			defer wg.Done()
			convs, errConv = s.client.ListConversations(ctx)
		}()
		go func() {
			defer wg.Done()
			projects, errProj = s.client.ListProjects(ctx)
		}()
		wg.Wait()

		for _, err := range []error{errFeat, errConv, errProj} {
			if err != nil {
				return LoadFailedMsg{Err: fmt.Errorf("startup load failed: %w", err)}
			}
		}

		metas := make([]model.ConversationMeta, len(convs))
		for i, c := range convs {
			metas[i] = c.GetMeta()
		}

		s.store.SetFeatures(features)
		s.store.SetConversations(metas)
		s.store.SetProjects(projects)

		return ReadyMsg{
			Features:      features,
			Conversations: metas,
			Projects:      projects,
		}
	}
}

// RecentHistoryCmd loads the locally cached recent conversations.
func (s *Session) RecentHistoryCmd(limit int) tea.Cmd {
	return func() tea.Msg {
		entries, err := s.hist.Recent(context.Background(), limit)
		if err != nil {
			return RecentHistoryMsg{} // cache is advisory
		}
		return RecentHistoryMsg{Entries: entries}
	}
}

// =============================================================================
// CONVERSATION COMMANDS
// =============================================================================

// OpenConversationCmd loads a conversation with its messages, makes it
// active, and records it in the history cache. For project conversations
// the knowledge base listing is fetched too.
func (s *Session) OpenConversationCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		conv, err := s.client.GetConversation(ctx, id)
		if err != nil {
			return ConversationOpenFailedMsg{ID: id, Err: err}
		}
		messages, err := s.client.GetMessages(ctx, id)
		if err != nil {
			return ConversationOpenFailedMsg{ID: id, Err: err}
		}

		var files []model.FileDescriptor
		if conv.ProjectID != "" {
			// A missing listing degrades to an empty knowledge base.
			files, _ = s.client.GetProjectFiles(ctx, conv.ProjectID)
			s.store.SetProjectFiles(conv.ProjectID, files)
		}

		s.store.SetActive(conv, messages)
		s.store.UpsertConversation(conv.GetMeta())
		s.recordHistory(ctx, conv.GetMeta())

		return ConversationOpenedMsg{
			Conversation: conv,
			Messages:     messages,
			ProjectFiles: files,
		}
	}
}

// NewConversationCmd creates a conversation, optionally inside a project,
// and makes it active.
func (s *Session) NewConversationCmd(projectID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		conv, err := s.client.CreateConversation(ctx, projectID)
		if err != nil {
			return ConversationOpenFailedMsg{Err: err}
		}

		s.store.SetActive(conv, nil)
		s.store.UpsertConversation(conv.GetMeta())
		s.recordHistory(ctx, conv.GetMeta())

		return ConversationCreatedMsg{Conversation: conv}
	}
}

// DeleteConversationCmd deletes a conversation on the backend, then drops
// it from the store and the history cache.
func (s *Session) DeleteConversationCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		if err := s.client.DeleteConversation(ctx, id); err != nil {
			return ConversationDeletedMsg{ID: id, Err: err}
		}
		s.store.RemoveConversation(id)
		s.hist.Remove(ctx, id)
		return ConversationDeletedMsg{ID: id}
	}
}

// =============================================================================
// CHAT COMMANDS
// =============================================================================

// SendCmd stages the draft against the resolved settings, inserts the
// optimistic user message, and returns the command performing the request.
// The pending message is already in the store when this returns; the UI
// re-renders and runs the command.
//
// Chat requests are sent exactly once. A timeout or transport error does
// not retry because the backend may have committed the turn.
//
// Staged files remain staged until the send commits; a failed send keeps
// them for the retry.
func (s *Session) SendCmd(text string) (tea.Cmd, error) {
	conv := s.store.Active()
	if conv == nil {
		return nil, store.ErrNoActiveConversation
	}

	eff, _ := s.Resolve()
	attachments := s.staging.Attachments()

	ticket, err := s.pipe.Stage(conv.ID, text, attachments, eff)
	if err != nil {
		return nil, err
	}
	pending, err := s.pipe.Send()
	if err != nil {
		return nil, err
	}
	s.store.AppendMessage(pending)

	// The wire message matches the transcript: an attachments-only send
	// carries the placeholder, never an empty string.
	req := eff.ChatRequest(conv.ID, ticket.DisplayContent())
	ticketID := ticket.ID

	return func() tea.Msg {
		ctx := context.Background()

		var resp *api.ChatResponse
		var sendErr error
		if len(attachments) > 0 {
			resp, sendErr = s.client.SendMessageWithFiles(ctx, req, attachments)
		} else {
			resp, sendErr = s.client.SendMessage(ctx, req)
		}
		return ChatResultMsg{TicketID: ticketID, Response: resp, Err: sendErr}
	}, nil
}

// =============================================================================
// SETTINGS PERSISTENCE COMMANDS
// =============================================================================

// PersistSettingsCmd writes the active conversation's current overrides to
// the backend asynchronously. The local value is already applied; a failed
// write keeps it and surfaces a passive notice, and the next successful
// write carries the full current state.
func (s *Session) PersistSettingsCmd() tea.Cmd {
	conv := s.store.Active()
	if conv == nil {
		return nil
	}

	update := api.ConversationUpdate{
		Provider:         providerPtr(conv),
		ExtendedThinking: conv.OverrideExtendedThinking,
		WebSearch:        conv.OverrideWebSearch,
		KnowledgeBase:    conv.OverrideKnowledgeBase,
		ThinkingBudget:   conv.OverrideThinkingBudget,
	}
	id := conv.ID

	return func() tea.Msg {
		_, err := s.client.UpdateConversation(context.Background(), id, update)
		return SettingsPersistedMsg{ConversationID: id, Err: err}
	}
}

// RenameConversationCmd persists a new title.
func (s *Session) RenameConversationCmd(id, title string) tea.Cmd {
	return func() tea.Msg {
		_, err := s.client.UpdateConversation(context.Background(), id, api.ConversationUpdate{
			Title: &title,
		})
		return SettingsPersistedMsg{ConversationID: id, Err: err}
	}
}

// SetStarredCmd persists the starred flag.
func (s *Session) SetStarredCmd(id string, starred bool) tea.Cmd {
	return func() tea.Msg {
		_, err := s.client.UpdateConversation(context.Background(), id, api.ConversationUpdate{
			Starred: &starred,
		})
		return SettingsPersistedMsg{ConversationID: id, Err: err}
	}
}

func providerPtr(conv *model.Conversation) *string {
	if conv.Provider == "" {
		return nil
	}
	p := string(conv.Provider)
	return &p
}
