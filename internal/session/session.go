// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jeranaias/atelier-tui/internal/api"
	"github.com/jeranaias/atelier-tui/internal/attach"
	"github.com/jeranaias/atelier-tui/internal/config"
	"github.com/jeranaias/atelier-tui/internal/history"
	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/pipeline"
	"github.com/jeranaias/atelier-tui/internal/provider"
	"github.com/jeranaias/atelier-tui/internal/settings"
	"github.com/jeranaias/atelier-tui/internal/store"
)

// =============================================================================
// SESSION
// =============================================================================

// Session wires the backend client, the state store, the send pipeline,
// and the attachment staging area together for one run of the app. All
// methods returning tea.Cmd perform their I/O inside the command; state
// mutations happen there too, so the UI only ever reacts to messages.
type Session struct {
	cfg     *config.Config
	client  *api.Client
	store   *store.Store
	pipe    *pipeline.Pipeline
	staging *attach.Staging
	confirm *settings.Confirmation
	hist    *history.History
}

// New builds a session from configuration. A history cache that fails to
// open degrades to disabled with a warning rather than blocking startup.
func New(cfg *config.Config) *Session {
	client := api.NewClient(cfg.Backend.BaseURL).
		WithTimeout(cfg.RequestTimeout()).
		WithMaxRetries(cfg.Backend.MaxRetries)
	if cfg.Backend.APIKey != "" {
		client = client.WithAPIKey(cfg.Backend.APIKey)
	}
	if cfg.Backend.RequestsPerSecond > 0 {
		client = client.WithRateLimit(cfg.Backend.RequestsPerSecond)
	}

	hist, err := history.Open(cfg.History.Path, cfg.History.MaxEntries, cfg.History.Enabled)
	if err != nil {
		slog.Warn("history cache unavailable", "error", err)
		hist = nil
	}

	return &Session{
		cfg:     cfg,
		client:  client,
		store:   store.New(),
		pipe:    pipeline.New(),
		staging: attach.NewStagingWithLimits(cfg.Attachments.MaxFiles, cfg.Attachments.MaxTotalBytes),
		confirm: &settings.Confirmation{},
		hist:    hist,
	}
}

// Close releases session resources.
func (s *Session) Close() error {
	return s.hist.Close()
}

// Store returns the session state store.
func (s *Session) Store() *store.Store {
	return s.store
}

// Pipeline returns the send pipeline.
func (s *Session) Pipeline() *pipeline.Pipeline {
	return s.pipe
}

// Staging returns the attachment staging area.
func (s *Session) Staging() *attach.Staging {
	return s.staging
}

// Confirm returns the settings confirmation state machine.
func (s *Session) Confirm() *settings.Confirmation {
	return s.confirm
}

// Client returns the backend API client.
func (s *Session) Client() *api.Client {
	return s.client
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// SetConfig swaps in a reloaded configuration. The API client is rebuilt
// so backend changes take effect on the next request.
func (s *Session) SetConfig(cfg *config.Config) {
	s.cfg = cfg
	client := api.NewClient(cfg.Backend.BaseURL).
		WithTimeout(cfg.RequestTimeout()).
		WithMaxRetries(cfg.Backend.MaxRetries)
	if cfg.Backend.APIKey != "" {
		client = client.WithAPIKey(cfg.Backend.APIKey)
	}
	if cfg.Backend.RequestsPerSecond > 0 {
		client = client.WithRateLimit(cfg.Backend.RequestsPerSecond)
	}
	s.client = client
}

// =============================================================================
// SETTINGS RESOLUTION
// =============================================================================

// Resolve computes the effective settings for the active conversation.
func (s *Session) Resolve() (settings.Effective, []settings.Notice) {
	conv := s.store.Active()
	if conv == nil {
		conv = model.NewConversation()
	}
	return s.resolveConv(conv, settings.ToggledNone)
}

func (s *Session) resolveConv(conv *model.Conversation, just settings.Toggled) (settings.Effective, []settings.Notice) {
	r := &settings.Resolver{
		Global:   s.cfg.Defaults,
		Project:  s.store.ActiveProject(),
		Features: s.store.Features(),
	}
	return r.ResolveToggled(conv, just)
}

// syncResolved re-resolves after a settings mutation and pins any value a
// capability rule forced back onto the conversation. The persisted state
// then matches what the user sees, and a forced change is written exactly
// once instead of re-surfacing on every later resolve.
func (s *Session) syncResolved(conv *model.Conversation, just settings.Toggled) []settings.Notice {
	eff, notices := s.resolveConv(conv, just)
	if eff.ExtendedThinkingSource == settings.SourceCapability {
		conv.OverrideExtendedThinking = model.BoolPtr(eff.ExtendedThinking)
	}
	if eff.WebSearchSource == settings.SourceCapability {
		conv.OverrideWebSearch = model.BoolPtr(eff.WebSearch)
	}
	return notices
}

// RequestThinkingToggle turns extended thinking on or off for the active
// conversation. Enabling it on a provider with a retrieval trade-off is
// held behind a confirmation: the method returns true and the caller shows
// the prompt, applying nothing until the user answers.
func (s *Session) RequestThinkingToggle(enable bool) (held bool, notices []settings.Notice, err error) {
	conv := s.store.Active()
	if conv == nil {
		return false, nil, store.ErrNoActiveConversation
	}
	eff, _ := s.Resolve()

	if enable && settings.NeedsConfirmation(eff.Provider) {
		if err := s.confirm.Request(eff.Provider); err != nil {
			return false, nil, err
		}
		return true, nil, nil
	}

	conv.OverrideExtendedThinking = model.BoolPtr(enable)
	return false, s.syncResolved(conv, settings.ToggledThinking), nil
}

// ApplyConfirmedThinking applies a confirmed enable-thinking change and
// resets the confirmation machine. A web search override that conflicts on
// the provider comes back resolved off, so one persist carries both sides
// of the trade-off.
func (s *Session) ApplyConfirmedThinking() ([]settings.Notice, error) {
	if err := s.confirm.Confirm(); err != nil {
		return nil, err
	}
	conv := s.store.Active()
	if conv == nil {
		s.confirm.Reset()
		return nil, store.ErrNoActiveConversation
	}
	conv.OverrideExtendedThinking = model.BoolPtr(true)
	notices := s.syncResolved(conv, settings.ToggledThinking)
	s.confirm.Reset()
	return notices, nil
}

// SetWebSearch pins web search on or off for the active conversation. On a
// provider where it conflicts with extended reasoning, the fresh toggle
// wins: reasoning is the side forced off.
func (s *Session) SetWebSearch(enable bool) ([]settings.Notice, error) {
	conv := s.store.Active()
	if conv == nil {
		return nil, store.ErrNoActiveConversation
	}
	conv.OverrideWebSearch = model.BoolPtr(enable)
	return s.syncResolved(conv, settings.ToggledWebSearch), nil
}

// SetKnowledgeBase pins knowledge base retrieval on or off for the active
// conversation.
func (s *Session) SetKnowledgeBase(enable bool) ([]settings.Notice, error) {
	conv := s.store.Active()
	if conv == nil {
		return nil, store.ErrNoActiveConversation
	}
	conv.OverrideKnowledgeBase = model.BoolPtr(enable)
	return s.syncResolved(conv, settings.ToggledNone), nil
}

// SwitchProvider pins a provider on the active conversation and re-resolves
// the settings against its capabilities, pinning anything the new provider
// forces so the persisted state matches. A stale reasoning override that
// would newly turn reasoning on for a provider demanding an acknowledged
// trade-off is held behind the confirmation prompt instead of applying
// silently: the method returns true and reasoning stays off until the user
// answers.
func (s *Session) SwitchProvider(id provider.ID) (held bool, notices []settings.Notice, err error) {
	conv := s.store.Active()
	if conv == nil {
		return false, nil, store.ErrNoActiveConversation
	}
	if !provider.IsKnown(id) {
		return false, nil, fmt.Errorf("unknown provider %q", id)
	}

	before, _ := s.resolveConv(conv, settings.ToggledNone)
	conv.Provider = id
	after, _ := s.resolveConv(conv, settings.ToggledNone)

	if after.ExtendedThinking && !before.ExtendedThinking && settings.NeedsConfirmation(id) {
		conv.OverrideExtendedThinking = model.BoolPtr(false)
		if err := s.confirm.Request(id); err != nil {
			return false, nil, err
		}
		return true, s.syncResolved(conv, settings.ToggledNone), nil
	}
	return false, s.syncResolved(conv, settings.ToggledNone), nil
}

// =============================================================================
// CHAT RESULT HANDLING
// =============================================================================

// ApplyChatResult settles an in-flight send against the pipeline and the
// store. Stale results are discarded without touching state. On success the
// optimistic insert is replaced by the confirmed user message, the assistant
// reply is appended, and the staging area is drained; on failure the
// optimistic insert is removed and the failed ticket, with the preserved
// draft, is returned for composer restoration. Staged files stay staged
// across a failure so the retry carries the same attachment set.
func (s *Session) ApplyChatResult(msg ChatResultMsg) (*pipeline.Ticket, error) {
	if msg.Err != nil {
		ticket, err := s.pipe.Fail(msg.TicketID, msg.Err)
		if err != nil {
			return nil, err // stale
		}
		if ticket.PendingMessage != nil {
			s.store.RemoveMessage(ticket.PendingMessage.ID)
		}
		return ticket, msg.Err
	}

	ticket, err := s.pipe.Commit(msg.TicketID)
	if err != nil {
		return nil, err // stale
	}

	resp := msg.Response
	if ticket.PendingMessage != nil && resp.UserMessageID != "" {
		confirmed := model.NewMessage(resp.UserMessageID, model.RoleUser, ticket.PendingMessage.Content)
		confirmed.AttachmentNames = ticket.PendingMessage.AttachmentNames
		s.store.ReplaceMessage(ticket.PendingMessage.ID, confirmed)
	}
	s.store.AppendMessage(resp.AssistantMessage())

	if conv := s.store.Active(); conv != nil {
		s.store.UpsertConversation(conv.GetMeta())
	}
	s.staging.Clear()
	s.pipe.Reset()
	return ticket, nil
}

// recordHistory updates the recent-conversations cache, logging failures
// instead of surfacing them.
func (s *Session) recordHistory(ctx context.Context, meta model.ConversationMeta) {
	if err := s.hist.Record(ctx, meta); err != nil {
		slog.Warn("failed to record history", "conversation", meta.ID, "error", err)
	}
}
