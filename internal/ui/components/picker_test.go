// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"

	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/provider"
)

func metaList() []model.ConversationMeta {
	return []model.ConversationMeta{
		{ID: "c1", Title: "Recent plain", Provider: provider.Anthropic},
		{ID: "c2", Title: "Starred older", Starred: true},
		{ID: "c3", Title: "Archived one", Archived: true},
		{ID: "c4", Title: "Another plain"},
	}
}

func TestPicker_StarredFirstArchivedHidden(t *testing.T) {
	p := NewPicker()
	p.SetItems(metaList())

	if p.Len() != 3 {
		t.Fatalf("expected 3 visible, got %d", p.Len())
	}
	sel, ok := p.Selected()
	if !ok || sel.ID != "c2" {
		t.Errorf("starred conversation should lead, got %+v", sel)
	}
}

func TestPicker_ToggleArchived(t *testing.T) {
	p := NewPicker()
	p.SetItems(metaList())

	p.ToggleArchived()
	if p.Len() != 4 {
		t.Errorf("expected 4 visible with archived shown, got %d", p.Len())
	}
	p.ToggleArchived()
	if p.Len() != 3 {
		t.Errorf("expected 3 visible after hiding archived, got %d", p.Len())
	}
}

func TestPicker_CursorMovementClamps(t *testing.T) {
	p := NewPicker()
	p.SetItems(metaList())

	p.MoveUp() // already at top
	if sel, _ := p.Selected(); sel.ID != "c2" {
		t.Errorf("cursor moved above top: %s", sel.ID)
	}

	for i := 0; i < 10; i++ {
		p.MoveDown()
	}
	sel, _ := p.Selected()
	if sel.ID != "c4" {
		t.Errorf("cursor should clamp at last visible, got %s", sel.ID)
	}
}

func TestPicker_SelectedEmptyList(t *testing.T) {
	p := NewPicker()
	if _, ok := p.Selected(); ok {
		t.Error("empty picker should report no selection")
	}
}

func TestPicker_CursorSurvivesShrink(t *testing.T) {
	p := NewPicker()
	p.SetItems(metaList())
	for i := 0; i < 5; i++ {
		p.MoveDown()
	}
	p.SetItems(metaList()[:1])
	sel, ok := p.Selected()
	if !ok || sel.ID != "c1" {
		t.Errorf("cursor should clamp after shrink, got %+v ok=%v", sel, ok)
	}
}

func TestRelativeTime_ZeroIsEmpty(t *testing.T) {
	var meta model.ConversationMeta
	if got := relativeTime(meta.UpdatedAt); got != "" {
		t.Errorf("zero time should render empty, got %q", got)
	}
}
