// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/atelier-tui/internal/attach"
	"github.com/jeranaias/atelier-tui/internal/config"
	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/provider"
	"github.com/jeranaias/atelier-tui/internal/settings"
)

// newTestSession builds a session against a fake backend.
func newTestSession(t *testing.T, handler http.Handler) *Session {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Backend.BaseURL = srv.URL
	cfg.Backend.MaxRetries = 0
	cfg.History.Enabled = false
	return New(cfg)
}

// fakeBackend serves the startup endpoints with canned data.
func fakeBackend(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/features", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"extended_thinking_available": true,
			"web_search_available":        true,
			"available_providers":         []string{"anthropic", "gemini"},
		})
	})
	mux.HandleFunc("GET /api/conversations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "c1", "title": "First"},
			{"id": "c2", "title": "Second"},
		})
	})
	mux.HandleFunc("GET /api/projects", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "p1", "name": "Research", "web_search": true, "include_knowledge_base": true},
		})
	})
	mux.HandleFunc("GET /api/conversations/c1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "c1", "title": "First"})
	})
	mux.HandleFunc("GET /api/conversations/c1/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "m1", "role": "user", "content": "hello"},
			{"id": "m2", "role": "assistant", "content": "hi there"},
		})
	})
	return mux
}

// =============================================================================
// STARTUP TESTS
// =============================================================================

func TestLoadCmd(t *testing.T) {
	s := newTestSession(t, fakeBackend(t))

	msg := s.LoadCmd()()
	ready, ok := msg.(ReadyMsg)
	if !ok {
		t.Fatalf("msg = %T (%+v)", msg, msg)
	}
	if len(ready.Conversations) != 2 || len(ready.Projects) != 1 {
		t.Errorf("ready = %+v", ready)
	}
	if !ready.Features.ExtendedThinkingAvailable {
		t.Error("features not parsed")
	}

	// The store is populated before the message arrives.
	if len(s.Store().Conversations()) != 2 {
		t.Error("store not populated")
	}
	if s.Store().Project("p1") == nil {
		t.Error("projects not populated")
	}
}

func TestLoadCmd_AnyFailureAborts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/features", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	})
	mux.HandleFunc("GET /api/conversations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{})
	})
	mux.HandleFunc("GET /api/projects", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	})
	s := newTestSession(t, mux)

	msg := s.LoadCmd()()
	if _, ok := msg.(LoadFailedMsg); !ok {
		t.Fatalf("msg = %T, want LoadFailedMsg", msg)
	}
	// Nothing is half-written.
	if s.Store().Features() != nil || len(s.Store().Conversations()) != 0 {
		t.Error("failed load must not populate the store")
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestOpenConversationCmd(t *testing.T) {
	s := newTestSession(t, fakeBackend(t))

	msg := s.OpenConversationCmd("c1")()
	opened, ok := msg.(ConversationOpenedMsg)
	if !ok {
		t.Fatalf("msg = %T (%+v)", msg, msg)
	}
	if opened.Conversation.ID != "c1" || len(opened.Messages) != 2 {
		t.Errorf("opened = %+v", opened)
	}
	if active := s.Store().Active(); active == nil || active.ID != "c1" {
		t.Error("conversation not active in store")
	}
}

func TestOpenConversationCmd_FailureKeepsActive(t *testing.T) {
	s := newTestSession(t, fakeBackend(t))
	s.Store().SetActive(model.NewConversation(), nil)
	before := s.Store().Active()

	msg := s.OpenConversationCmd("missing")()
	if _, ok := msg.(ConversationOpenFailedMsg); !ok {
		t.Fatalf("msg = %T", msg)
	}
	if s.Store().Active() != before {
		t.Error("failed open must not change the active conversation")
	}
}

// =============================================================================
// SEND TESTS
// =============================================================================

func chatBackend(t *testing.T, status int) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, `{"detail":"chat failed"}`, status)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"conversation_id": "c1",
			"message_id":      "srv-assistant",
			"user_message_id": "srv-user",
			"message":         "the answer",
		})
	})
	return mux
}

func TestSendCmd_CommitFlow(t *testing.T) {
	s := newTestSession(t, chatBackend(t, http.StatusOK))
	conv := model.NewConversation()
	conv.ID = "c1"
	s.Store().SetActive(conv, nil)

	cmd, err := s.SendCmd("what is the answer?")
	if err != nil {
		t.Fatalf("SendCmd failed: %v", err)
	}

	// Optimistic insert is visible before the command runs.
	if len(s.Store().Active().Messages) != 1 {
		t.Fatal("pending message not inserted")
	}
	if !s.Store().Active().Messages[0].Pending {
		t.Error("insert should be pending")
	}
	if !s.Pipeline().InFlight() {
		t.Error("pipeline should be in flight")
	}

	msg := cmd()
	result, ok := msg.(ChatResultMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if _, err := s.ApplyChatResult(result); err != nil {
		t.Fatalf("ApplyChatResult failed: %v", err)
	}

	msgs := s.Store().Active().Messages
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d", len(msgs))
	}
	// Optimistic insert replaced in place by the confirmed message.
	if msgs[0].ID != "srv-user" || msgs[0].IsTemporary() {
		t.Errorf("user message = %+v", msgs[0])
	}
	if msgs[1].ID != "srv-assistant" || msgs[1].Content != "the answer" {
		t.Errorf("assistant message = %+v", msgs[1])
	}
	if s.Pipeline().InFlight() {
		t.Error("pipeline should have settled")
	}
}

func TestSendCmd_FailureRemovesPending(t *testing.T) {
	s := newTestSession(t, chatBackend(t, http.StatusInternalServerError))
	conv := model.NewConversation()
	conv.ID = "c1"
	s.Store().SetActive(conv, nil)

	cmd, err := s.SendCmd("doomed")
	if err != nil {
		t.Fatal(err)
	}

	result := cmd().(ChatResultMsg)
	ticket, applyErr := s.ApplyChatResult(result)
	if applyErr == nil {
		t.Fatal("expected an error")
	}
	if len(s.Store().Active().Messages) != 0 {
		t.Error("pending message should be removed on failure")
	}
	// The ticket retains the draft for composer restoration.
	if ticket == nil || ticket.Message != "doomed" {
		t.Errorf("ticket = %+v", ticket)
	}
}

func TestApplyChatResult_StaleDiscarded(t *testing.T) {
	s := newTestSession(t, chatBackend(t, http.StatusOK))
	conv := model.NewConversation()
	conv.ID = "c1"
	s.Store().SetActive(conv, nil)

	if _, err := s.SendCmd("hello"); err != nil {
		t.Fatal(err)
	}

	_, err := s.ApplyChatResult(ChatResultMsg{TicketID: "stale-id", Err: errors.New("late")})
	if err == nil {
		t.Fatal("stale result should error")
	}
	// State untouched: the real send is still in flight.
	if !s.Pipeline().InFlight() {
		t.Error("stale result must not settle the pipeline")
	}
	if len(s.Store().Active().Messages) != 1 {
		t.Error("stale result must not touch messages")
	}
}

func TestSendCmd_SecondSendRefused(t *testing.T) {
	s := newTestSession(t, chatBackend(t, http.StatusOK))
	conv := model.NewConversation()
	conv.ID = "c1"
	s.Store().SetActive(conv, nil)

	if _, err := s.SendCmd("first"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SendCmd("second"); err == nil {
		t.Error("second send while in flight should be refused")
	}
}

// stageTestFile writes a real file to disk and stages it on the session.
func stageTestFile(t *testing.T, s *Session, name string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("attachment body"), 0644); err != nil {
		t.Fatal(err)
	}
	res := s.Staging().Stage([]attach.Candidate{{Name: name, Path: path, Size: 15}})
	if res.StagedCount != 1 {
		t.Fatalf("stage result = %+v", res)
	}
}

func TestSendCmd_FailureKeepsStagedFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat/with-files", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"chat failed"}`, http.StatusInternalServerError)
	})
	s := newTestSession(t, mux)
	conv := model.NewConversation()
	conv.ID = "c1"
	s.Store().SetActive(conv, nil)
	stageTestFile(t, s, "notes.txt")

	cmd, err := s.SendCmd("see attached")
	if err != nil {
		t.Fatal(err)
	}
	result := cmd().(ChatResultMsg)
	if _, err := s.ApplyChatResult(result); err == nil {
		t.Fatal("expected an error")
	}

	// The staged file set survives for the retry.
	if s.Staging().Count() != 1 {
		t.Errorf("staging count = %d, staged files must survive a failed send", s.Staging().Count())
	}
}

func TestSendCmd_CommitDrainsStagedFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat/with-files", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"conversation_id": "c1",
			"message_id":      "srv-assistant",
			"user_message_id": "srv-user",
			"message":         "read it",
		})
	})
	s := newTestSession(t, mux)
	conv := model.NewConversation()
	conv.ID = "c1"
	s.Store().SetActive(conv, nil)
	stageTestFile(t, s, "notes.txt")

	cmd, err := s.SendCmd("see attached")
	if err != nil {
		t.Fatal(err)
	}
	// Still staged while the request is in flight.
	if s.Staging().Count() != 1 {
		t.Fatal("staging should not drain at send time")
	}

	result := cmd().(ChatResultMsg)
	if _, err := s.ApplyChatResult(result); err != nil {
		t.Fatal(err)
	}
	if s.Staging().Count() != 0 {
		t.Errorf("staging count = %d, a committed send drains staging", s.Staging().Count())
	}
}

func TestSendCmd_AttachmentsOnlyCarriesPlaceholder(t *testing.T) {
	var gotMessage string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat/with-files", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not multipart: %v", err)
		}
		gotMessage = r.FormValue("message")
		json.NewEncoder(w).Encode(map[string]any{
			"conversation_id": "c1",
			"message_id":      "srv-assistant",
			"user_message_id": "srv-user",
			"message":         "summarized",
		})
	})
	s := newTestSession(t, mux)
	conv := model.NewConversation()
	conv.ID = "c1"
	s.Store().SetActive(conv, nil)
	stageTestFile(t, s, "notes.txt")

	cmd, err := s.SendCmd("")
	if err != nil {
		t.Fatal(err)
	}
	cmd()

	if gotMessage != "(see attached files)" {
		t.Errorf("wire message = %q, want the placeholder", gotMessage)
	}
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestRequestThinkingToggle_NoConfirmation(t *testing.T) {
	s := newTestSession(t, fakeBackend(t))
	conv := model.NewConversation()
	conv.Provider = provider.Anthropic
	s.Store().SetActive(conv, nil)

	held, _, err := s.RequestThinkingToggle(true)
	if err != nil {
		t.Fatal(err)
	}
	if held {
		t.Error("anthropic should not require confirmation")
	}
	if conv.OverrideExtendedThinking == nil || !*conv.OverrideExtendedThinking {
		t.Error("override not applied")
	}
}

func TestRequestThinkingToggle_HeldForConfirmation(t *testing.T) {
	s := newTestSession(t, fakeBackend(t))
	conv := model.NewConversation()
	conv.Provider = provider.BedrockClaude
	s.Store().SetActive(conv, nil)

	held, _, err := s.RequestThinkingToggle(true)
	if err != nil {
		t.Fatal(err)
	}
	if !held {
		t.Fatal("bedrock-claude should hold the change for confirmation")
	}
	// Nothing applied while awaiting.
	if conv.OverrideExtendedThinking != nil {
		t.Error("held change must not be applied yet")
	}
	if s.Confirm().State() != settings.ConfirmAwaiting {
		t.Errorf("confirm state = %v", s.Confirm().State())
	}

	if _, err := s.ApplyConfirmedThinking(); err != nil {
		t.Fatalf("ApplyConfirmedThinking failed: %v", err)
	}
	if conv.OverrideExtendedThinking == nil || !*conv.OverrideExtendedThinking {
		t.Error("confirmed change not applied")
	}
	if s.Confirm().State() != settings.ConfirmIdle {
		t.Error("confirmation should reset after apply")
	}
}

func TestRequestThinkingToggle_CancelKeepsSettings(t *testing.T) {
	s := newTestSession(t, fakeBackend(t))
	conv := model.NewConversation()
	conv.Provider = provider.BedrockClaude
	s.Store().SetActive(conv, nil)

	s.RequestThinkingToggle(true)
	if err := s.Confirm().Cancel(); err != nil {
		t.Fatal(err)
	}
	if conv.OverrideExtendedThinking != nil {
		t.Error("cancel must leave settings untouched")
	}
}

func TestSwitchProvider(t *testing.T) {
	s := newTestSession(t, fakeBackend(t))
	conv := model.NewConversation()
	conv.OverrideWebSearch = model.BoolPtr(true)
	s.Store().SetActive(conv, nil)

	held, _, err := s.SwitchProvider(provider.Gemini)
	if err != nil {
		t.Fatal(err)
	}
	if held {
		t.Error("gemini switch has no trade-off to confirm")
	}
	if conv.Provider != provider.Gemini {
		t.Errorf("Provider = %q", conv.Provider)
	}
	// Gemini serves web search, so the override survives untouched.
	if conv.OverrideWebSearch == nil || !*conv.OverrideWebSearch {
		t.Error("a supported override must not be mutated by a provider switch")
	}

	if _, _, err := s.SwitchProvider(provider.ID("made-up")); err == nil {
		t.Error("unknown provider should be refused")
	}
}

func TestSwitchProvider_StaleReasoningHeldForConfirmation(t *testing.T) {
	s := newTestSession(t, fakeBackend(t))
	conv := model.NewConversation()
	conv.Provider = provider.BedrockTitan // no reasoning support
	conv.OverrideExtendedThinking = model.BoolPtr(true)
	s.Store().SetActive(conv, nil)

	held, _, err := s.SwitchProvider(provider.BedrockClaude)
	if err != nil {
		t.Fatal(err)
	}
	if !held {
		t.Fatal("a switch that newly enables reasoning must be held")
	}
	if conv.Provider != provider.BedrockClaude {
		t.Errorf("Provider = %q, the switch itself applies", conv.Provider)
	}
	if s.Confirm().State() != settings.ConfirmAwaiting {
		t.Errorf("confirm state = %v", s.Confirm().State())
	}
	// Reasoning stays visibly off until the user answers.
	eff, _ := s.Resolve()
	if eff.ExtendedThinking {
		t.Error("held reasoning must not be enabled yet")
	}

	if _, err := s.ApplyConfirmedThinking(); err != nil {
		t.Fatal(err)
	}
	eff, _ = s.Resolve()
	if !eff.ExtendedThinking {
		t.Error("confirmed reasoning should apply after the switch")
	}
}

func TestSetWebSearch_FreshToggleWinsConflict(t *testing.T) {
	s := newTestSession(t, fakeBackend(t))
	conv := model.NewConversation()
	conv.Provider = provider.BedrockClaude
	conv.OverrideExtendedThinking = model.BoolPtr(true)
	s.Store().SetActive(conv, nil)

	notices, err := s.SetWebSearch(true)
	if err != nil {
		t.Fatal(err)
	}

	eff, _ := s.Resolve()
	if !eff.WebSearch {
		t.Error("the just-made web search choice must survive")
	}
	if eff.ExtendedThinking {
		t.Error("reasoning is the side forced off when web search was just toggled")
	}
	// The forced change is pinned so it persists and does not re-surface.
	if conv.OverrideExtendedThinking == nil || *conv.OverrideExtendedThinking {
		t.Error("forced reasoning off should be pinned on the conversation")
	}

	found := false
	for _, n := range notices {
		if n.Kind == settings.NoticeThinkingForcedOff {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a thinking forced-off notice, got %v", notices)
	}
}

func TestPersistSettingsCmd(t *testing.T) {
	var gotBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/conversations/c1", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"id": "c1"})
	})
	s := newTestSession(t, mux)

	conv := model.NewConversation()
	conv.ID = "c1"
	conv.OverrideExtendedThinking = model.BoolPtr(true)
	s.Store().SetActive(conv, nil)

	msg := s.PersistSettingsCmd()()
	persisted, ok := msg.(SettingsPersistedMsg)
	if !ok || persisted.Err != nil {
		t.Fatalf("msg = %+v", msg)
	}
	if gotBody["extended_thinking"] != true {
		t.Errorf("body = %v", gotBody)
	}
	// Unset overrides stay out of the payload.
	if _, present := gotBody["web_search"]; present {
		t.Errorf("web_search should be omitted, body = %v", gotBody)
	}
}

func TestPersistSettingsCmd_ConfirmedPairInOneWrite(t *testing.T) {
	var bodies []map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/conversations/c1", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		json.NewEncoder(w).Encode(map[string]any{"id": "c1"})
	})
	s := newTestSession(t, mux)

	conv := model.NewConversation()
	conv.ID = "c1"
	conv.Provider = provider.BedrockClaude
	conv.OverrideWebSearch = model.BoolPtr(true)
	s.Store().SetActive(conv, nil)

	held, _, err := s.RequestThinkingToggle(true)
	if err != nil || !held {
		t.Fatalf("held = %v, err = %v", held, err)
	}
	notices, err := s.ApplyConfirmedThinking()
	if err != nil {
		t.Fatal(err)
	}

	// The conflicting web search override is resolved off locally before
	// anything is written.
	if conv.OverrideWebSearch == nil || *conv.OverrideWebSearch {
		t.Error("web search override should be pinned off by the confirmation")
	}
	forced := false
	for _, n := range notices {
		if n.Kind == settings.NoticeWebSearchForcedOff {
			forced = true
		}
	}
	if !forced {
		t.Errorf("expected a web search forced-off notice, got %v", notices)
	}

	msg := s.PersistSettingsCmd()()
	if persisted := msg.(SettingsPersistedMsg); persisted.Err != nil {
		t.Fatal(persisted.Err)
	}
	if len(bodies) != 1 {
		t.Fatalf("writes = %d, want one combined write", len(bodies))
	}
	if bodies[0]["extended_thinking"] != true || bodies[0]["web_search"] != false {
		t.Errorf("body = %v, want extended_thinking on and web_search off together", bodies[0])
	}
}

func TestPersistSettingsCmd_FailureIsPassive(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/conversations/c1", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"down"}`, http.StatusInternalServerError)
	})
	s := newTestSession(t, mux)

	conv := model.NewConversation()
	conv.ID = "c1"
	conv.OverrideWebSearch = model.BoolPtr(false)
	s.Store().SetActive(conv, nil)

	msg := s.PersistSettingsCmd()()
	persisted := msg.(SettingsPersistedMsg)
	if persisted.Err == nil {
		t.Fatal("expected persist error")
	}
	// The local value stays applied; only a notice is surfaced.
	if conv.OverrideWebSearch == nil || *conv.OverrideWebSearch {
		t.Error("failed persist must keep the local value")
	}
}
