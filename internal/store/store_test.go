// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"testing"

	"github.com/jeranaias/atelier-tui/internal/model"
)

func newConv(id, projectID string) *model.Conversation {
	c := model.NewConversation()
	c.ID = id
	c.ProjectID = projectID
	return c
}

// =============================================================================
// LISTING TESTS
// =============================================================================

func TestUpsertConversation(t *testing.T) {
	s := New()
	s.SetConversations([]model.ConversationMeta{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
	})

	// Update in place keeps position.
	s.UpsertConversation(model.ConversationMeta{ID: "b", Title: "Renamed"})
	metas := s.Conversations()
	if len(metas) != 2 || metas[1].Title != "Renamed" {
		t.Errorf("metas = %+v", metas)
	}

	// New entries go to the front.
	s.UpsertConversation(model.ConversationMeta{ID: "c", Title: "Newest"})
	metas = s.Conversations()
	if len(metas) != 3 || metas[0].ID != "c" {
		t.Errorf("metas after insert = %+v", metas)
	}
}

func TestRemoveConversation_ClearsActive(t *testing.T) {
	s := New()
	s.SetConversations([]model.ConversationMeta{{ID: "a"}, {ID: "b"}})
	s.SetActive(newConv("a", ""), nil)

	if !s.RemoveConversation("a") {
		t.Fatal("RemoveConversation returned false")
	}
	if s.Active() != nil {
		t.Error("removing the active conversation must clear the active slot")
	}
	if len(s.Conversations()) != 1 {
		t.Errorf("Conversations = %+v", s.Conversations())
	}

	if s.RemoveConversation("missing") {
		t.Error("removing an unknown id should return false")
	}
}

func TestConversations_ReturnsCopy(t *testing.T) {
	s := New()
	s.SetConversations([]model.ConversationMeta{{ID: "a", Title: "orig"}})

	metas := s.Conversations()
	metas[0].Title = "mutated"
	if s.Conversations()[0].Title != "orig" {
		t.Error("Conversations must return a copy")
	}
}

// =============================================================================
// PROJECT TESTS
// =============================================================================

func TestActiveProject(t *testing.T) {
	s := New()
	p := model.NewProject("Research")
	p.ID = "p1"
	s.SetProjects([]*model.Project{p})

	// Standalone conversation has no project.
	s.SetActive(newConv("c1", ""), nil)
	if s.ActiveProject() != nil {
		t.Error("standalone conversation should have no project")
	}

	// Project conversation resolves the project.
	s.SetActive(newConv("c2", "p1"), nil)
	if got := s.ActiveProject(); got == nil || got.ID != "p1" {
		t.Errorf("ActiveProject = %+v", got)
	}

	// Unknown project id resolves to nil, not a dangling reference.
	s.SetActive(newConv("c3", "deleted-project"), nil)
	if s.ActiveProject() != nil {
		t.Error("unknown project id should resolve to nil")
	}
}

func TestProjectFiles(t *testing.T) {
	s := New()
	files := []model.FileDescriptor{{Name: "brief.pdf", Size: 1024}}
	s.SetProjectFiles("p1", files)

	if got := s.ProjectFiles("p1"); len(got) != 1 || got[0].Name != "brief.pdf" {
		t.Errorf("ProjectFiles = %+v", got)
	}
	if got := s.ProjectFiles("other"); got != nil {
		t.Errorf("unknown project files = %+v", got)
	}
}

// =============================================================================
// ACTIVE CONVERSATION TESTS
// =============================================================================

func TestActiveMessageMutations(t *testing.T) {
	s := New()

	// Without an active conversation every mutation is refused.
	if err := s.AppendMessage(model.NewMessage("m1", model.RoleUser, "hi")); !errors.Is(err, ErrNoActiveConversation) {
		t.Errorf("AppendMessage without active = %v", err)
	}

	s.SetActive(newConv("c1", ""), nil)

	pending := model.NewPendingUserMessage("hello", nil)
	if err := s.AppendMessage(pending); err != nil {
		t.Fatalf("AppendMessage failed: %v", err)
	}

	confirmed := model.NewMessage("server-1", model.RoleUser, "hello")
	if err := s.ReplaceMessage(pending.ID, confirmed); err != nil {
		t.Fatalf("ReplaceMessage failed: %v", err)
	}
	if got := s.Active().GetMessageByID("server-1"); got == nil {
		t.Error("confirmed message not found after replace")
	}

	if err := s.ReplaceMessage("nope", confirmed); err == nil {
		t.Error("replacing an unknown message should fail")
	}

	if err := s.RemoveMessage("server-1"); err != nil {
		t.Fatalf("RemoveMessage failed: %v", err)
	}
	if len(s.Active().Messages) != 0 {
		t.Errorf("Messages = %+v", s.Active().Messages)
	}
}

func TestSetActive_ReplacesHistory(t *testing.T) {
	s := New()
	msgs := []*model.Message{
		model.NewMessage("m1", model.RoleUser, "question"),
		model.NewMessage("m2", model.RoleAssistant, "answer"),
	}
	s.SetActive(newConv("c1", ""), msgs)

	active := s.Active()
	if active == nil || len(active.Messages) != 2 {
		t.Fatalf("active = %+v", active)
	}

	s.ClearActive()
	if s.Active() != nil {
		t.Error("ClearActive should leave no active conversation")
	}
}
