// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/atelier-tui/internal/attach"
	"github.com/jeranaias/atelier-tui/internal/provider"
	"github.com/jeranaias/atelier-tui/internal/settings"
	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

func TestRenderFileBar_EmptyHidden(t *testing.T) {
	theme := styles.NewTheme()
	theme.SetSize(100, 30)

	if out := RenderFileBar(theme, attach.NewStaging()); out != "" {
		t.Errorf("empty staging should hide the bar, got %q", out)
	}
	if out := RenderFileBar(theme, nil); out != "" {
		t.Errorf("nil staging should hide the bar, got %q", out)
	}
}

func TestRenderFileBar_ShowsNamesAndSummary(t *testing.T) {
	theme := styles.NewTheme()
	theme.SetSize(120, 30)

	staging := attach.NewStaging()
	staging.Stage([]attach.Candidate{
		{Name: "notes.md", Path: "/tmp/notes.md", Size: 1024},
		{Name: "photo.png", Path: "/tmp/photo.png", Size: 2048},
	})

	out := RenderFileBar(theme, staging)
	if !strings.Contains(out, "notes.md") {
		t.Errorf("file bar missing document chip:\n%s", out)
	}
	if !strings.Contains(out, "photo.png") {
		t.Errorf("file bar missing image chip:\n%s", out)
	}
	if !strings.Contains(out, "2 files") {
		t.Errorf("file bar missing count summary:\n%s", out)
	}
}

func TestRenderRejectedNote(t *testing.T) {
	theme := styles.NewTheme()

	if out := RenderRejectedNote(theme, attach.Result{}); out != "" {
		t.Errorf("clean batch should render nothing, got %q", out)
	}

	result := attach.Result{RejectedCount: 1, RejectedNames: []string{"tool.exe"}}
	out := RenderRejectedNote(theme, result)
	if !strings.Contains(out, "tool.exe") {
		t.Errorf("rejected note missing file name:\n%s", out)
	}
}

func TestRenderStatusBar_NarrowDropsShortcuts(t *testing.T) {
	theme := styles.NewTheme()
	eff := settings.Effective{Provider: provider.Anthropic, ExtendedThinking: true}

	theme.SetSize(50, 20)
	narrow := RenderStatusBar(theme, StatusBarData{Effective: eff})
	if strings.Contains(narrow, "conversations") {
		t.Errorf("narrow layout should drop shortcut hints:\n%s", narrow)
	}

	theme.SetSize(140, 40)
	wide := RenderStatusBar(theme, StatusBarData{Effective: eff, Shortcuts: DefaultShortcuts})
	if !strings.Contains(wide, "conversations") {
		t.Errorf("wide layout should show shortcut hints:\n%s", wide)
	}
	if !strings.Contains(wide, styles.StatusIndicators.Success+"think") {
		t.Errorf("wide layout should flag thinking on:\n%s", wide)
	}
}

func TestRenderConfirmBox_IdleHidden(t *testing.T) {
	theme := styles.NewTheme()
	theme.SetSize(100, 30)

	var confirm settings.Confirmation
	if out := RenderConfirmBox(theme, &confirm, ChoiceConfirm); out != "" {
		t.Errorf("idle confirmation should render nothing, got %q", out)
	}

	if err := confirm.Request(provider.BedrockClaude); err != nil {
		t.Fatalf("request: %v", err)
	}
	out := RenderConfirmBox(theme, &confirm, ChoiceConfirm)
	if !strings.Contains(out, "knowledge base") {
		t.Errorf("confirm box missing trade-off prompt:\n%s", out)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0s"},
		{5, "5s"},
		{65, "1m05s"},
		{125, "2m05s"},
	}
	for _, tc := range tests {
		d := time.Duration(tc.secs) * time.Second
		if got := FormatElapsed(d); got != tc.want {
			t.Errorf("FormatElapsed(%ds) = %q, want %q", tc.secs, got, tc.want)
		}
	}
}
