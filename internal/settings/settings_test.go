// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"testing"

	"github.com/jeranaias/atelier-tui/internal/api"
	"github.com/jeranaias/atelier-tui/internal/config"
	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/provider"
)

func testResolver() *Resolver {
	return &Resolver{
		Global: config.DefaultsConfig{
			Provider:       "anthropic",
			WebSearch:      false,
			KnowledgeBase:  true,
			ThinkingBudget: 10000,
		},
	}
}

func testProject() *model.Project {
	p := model.NewProject("research")
	p.WebSearch = true
	p.ExtendedThinking = false
	p.ThinkingBudget = 8000
	return p
}

// =============================================================================
// CASCADE TESTS
// =============================================================================

func TestResolve_GlobalDefaultsOnly(t *testing.T) {
	r := testResolver()
	conv := model.NewConversation()

	eff, notices := r.Resolve(conv)

	if eff.Provider != provider.Anthropic {
		t.Errorf("Provider = %q", eff.Provider)
	}
	if eff.WebSearch {
		t.Error("web search should follow the global default (off)")
	}
	if eff.WebSearchSource != SourceGlobal {
		t.Errorf("WebSearchSource = %q", eff.WebSearchSource)
	}
	if len(notices) != 0 {
		t.Errorf("unexpected notices: %v", notices)
	}
}

func TestResolve_ProjectLayerBeatsGlobal(t *testing.T) {
	r := testResolver()
	r.Project = testProject()
	conv := model.NewProjectConversation(r.Project.ID)

	eff, _ := r.Resolve(conv)

	if !eff.WebSearch {
		t.Error("project web search default should override global")
	}
	if eff.WebSearchSource != SourceProject {
		t.Errorf("WebSearchSource = %q", eff.WebSearchSource)
	}
	if eff.ThinkingBudget != 0 {
		t.Errorf("budget should be 0 while reasoning is off, got %d", eff.ThinkingBudget)
	}
}

func TestResolve_ConversationOverrideBeatsProject(t *testing.T) {
	r := testResolver()
	r.Project = testProject()
	conv := model.NewProjectConversation(r.Project.ID)
	conv.OverrideWebSearch = model.BoolPtr(false)

	eff, _ := r.Resolve(conv)

	if eff.WebSearch {
		t.Error("conversation override off should beat project on")
	}
	if eff.WebSearchSource != SourceConversation {
		t.Errorf("WebSearchSource = %q", eff.WebSearchSource)
	}
}

func TestResolve_NilOverrideInherits(t *testing.T) {
	r := testResolver()
	r.Project = testProject()
	conv := model.NewProjectConversation(r.Project.ID)

	// Pin, observe, unpin: the conversation must drop back to inheriting.
	conv.OverrideWebSearch = model.BoolPtr(false)
	eff, _ := r.Resolve(conv)
	if eff.WebSearch {
		t.Fatal("pinned off")
	}

	conv.OverrideWebSearch = nil
	eff, _ = r.Resolve(conv)
	if !eff.WebSearch {
		t.Error("clearing the override must restore project inheritance")
	}
}

func TestResolve_ThinkingBudgetCascade(t *testing.T) {
	r := testResolver()
	r.Project = testProject()
	conv := model.NewProjectConversation(r.Project.ID)
	conv.OverrideExtendedThinking = model.BoolPtr(true)

	eff, _ := r.Resolve(conv)
	if eff.ThinkingBudget != 8000 {
		t.Errorf("budget should come from project, got %d", eff.ThinkingBudget)
	}

	conv.OverrideThinkingBudget = model.IntPtr(20000)
	eff, _ = r.Resolve(conv)
	if eff.ThinkingBudget != 20000 {
		t.Errorf("conversation budget should win, got %d", eff.ThinkingBudget)
	}
}

func TestResolve_ProviderCascade(t *testing.T) {
	r := testResolver()
	r.Project = testProject()
	r.Project.DefaultProvider = provider.Gemini
	conv := model.NewProjectConversation(r.Project.ID)

	eff, _ := r.Resolve(conv)
	if eff.Provider != provider.Gemini || eff.ProviderSource != SourceProject {
		t.Errorf("Provider = %q from %q", eff.Provider, eff.ProviderSource)
	}

	conv.Provider = provider.OpenAIGPT5
	eff, _ = r.Resolve(conv)
	if eff.Provider != provider.OpenAIGPT5 || eff.ProviderSource != SourceConversation {
		t.Errorf("Provider = %q from %q", eff.Provider, eff.ProviderSource)
	}
}

// =============================================================================
// CAPABILITY CLAMP TESTS
// =============================================================================

func TestResolve_UnsupportedThinkingForcedOff(t *testing.T) {
	r := testResolver()
	conv := model.NewConversation()
	conv.Provider = provider.BedrockTitan // no reasoning support
	conv.OverrideExtendedThinking = model.BoolPtr(true)

	eff, notices := r.Resolve(conv)

	if eff.ExtendedThinking {
		t.Error("reasoning must resolve false on a provider without support")
	}
	if eff.ExtendedThinkingSource != SourceCapability {
		t.Errorf("source = %q", eff.ExtendedThinkingSource)
	}
	if len(notices) != 1 || notices[0].Kind != NoticeThinkingUnsupported {
		t.Errorf("notices = %v", notices)
	}
	// The stored override survives untouched for a later provider switch.
	if conv.OverrideExtendedThinking == nil || !*conv.OverrideExtendedThinking {
		t.Error("resolution must never mutate stored overrides")
	}
}

func TestResolve_UnknownProviderFailSafe(t *testing.T) {
	r := testResolver()
	conv := model.NewConversation()
	conv.Provider = "mystery-llm"
	conv.OverrideExtendedThinking = model.BoolPtr(true)
	conv.OverrideWebSearch = model.BoolPtr(true)

	eff, notices := r.Resolve(conv)

	if eff.ExtendedThinking || eff.WebSearch {
		t.Error("unknown providers must resolve every feature to false")
	}
	if len(notices) != 2 {
		t.Errorf("expected a notice per forced feature, got %v", notices)
	}
}

func TestResolve_MutualExclusivityDefaultsToReasoning(t *testing.T) {
	r := testResolver()
	r.Project = testProject()
	conv := model.NewProjectConversation(r.Project.ID)
	conv.Provider = provider.BedrockClaude
	conv.OverrideExtendedThinking = model.BoolPtr(true)
	conv.OverrideWebSearch = model.BoolPtr(true)

	// No toggle context: reasoning wins the conflict.
	eff, notices := r.Resolve(conv)

	if !eff.ExtendedThinking {
		t.Error("reasoning should stay on")
	}
	if eff.WebSearch {
		t.Error("web search must be forced off when mutually exclusive")
	}

	found := false
	for _, n := range notices {
		if n.Kind == NoticeWebSearchForcedOff {
			found = true
			if n.Message() == "" {
				t.Error("notice message should not be empty")
			}
		}
	}
	if !found {
		t.Errorf("expected forced-off notice, got %v", notices)
	}
}

func TestResolveToggled_FreshToggleWinsConflict(t *testing.T) {
	r := testResolver()
	conv := model.NewConversation()
	conv.Provider = provider.BedrockClaude
	conv.OverrideExtendedThinking = model.BoolPtr(true)
	conv.OverrideWebSearch = model.BoolPtr(true)

	// The user just turned web search on: reasoning is the side forced off.
	eff, notices := r.ResolveToggled(conv, ToggledWebSearch)

	if !eff.WebSearch {
		t.Error("the just-made web search choice must survive")
	}
	if eff.ExtendedThinking {
		t.Error("reasoning must be forced off when web search was just toggled")
	}
	if eff.ExtendedThinkingSource != SourceCapability {
		t.Errorf("ExtendedThinkingSource = %q", eff.ExtendedThinkingSource)
	}
	if eff.ThinkingBudget != 0 {
		t.Errorf("budget = %d, want 0 while reasoning is off", eff.ThinkingBudget)
	}

	found := false
	for _, n := range notices {
		if n.Kind == NoticeThinkingForcedOff {
			found = true
			if n.Message() == "" {
				t.Error("notice message should not be empty")
			}
		}
	}
	if !found {
		t.Errorf("expected thinking forced-off notice, got %v", notices)
	}

	// The other direction: a fresh reasoning toggle keeps reasoning.
	eff, _ = r.ResolveToggled(conv, ToggledThinking)
	if !eff.ExtendedThinking || eff.WebSearch {
		t.Errorf("eff = %+v, want reasoning on and web search off", eff)
	}
}

func TestResolve_ExclusivityNotTriggeredWhenOneOff(t *testing.T) {
	r := testResolver()
	conv := model.NewConversation()
	conv.Provider = provider.BedrockClaude
	conv.OverrideWebSearch = model.BoolPtr(true)
	// reasoning inherits global off

	eff, notices := r.Resolve(conv)

	if !eff.WebSearch {
		t.Error("web search alone is fine on bedrock-claude")
	}
	for _, n := range notices {
		if n.Kind == NoticeWebSearchForcedOff {
			t.Error("no exclusivity notice expected")
		}
	}
}

func TestResolve_KnowledgeBaseRequiresProject(t *testing.T) {
	r := testResolver()
	conv := model.NewConversation() // standalone
	conv.OverrideKnowledgeBase = model.BoolPtr(true)

	eff, _ := r.Resolve(conv)
	if eff.KnowledgeBase {
		t.Error("knowledge base must resolve false outside a project")
	}
}

// =============================================================================
// FEATURE FLAG TESTS
// =============================================================================

func TestResolve_BackendFeatureGates(t *testing.T) {
	r := testResolver()
	r.Features = &api.FeatureConfig{
		ExtendedThinkingAvailable: true,
		WebSearchAvailable:        false,
		BedrockWebSearchAvailable: true,
	}
	conv := model.NewConversation()
	conv.OverrideWebSearch = model.BoolPtr(true)

	// Direct provider follows the general web search flag.
	eff, notices := r.Resolve(conv)
	if eff.WebSearch {
		t.Error("web search must be off when the backend lacks it")
	}
	if len(notices) != 1 || notices[0].Kind != NoticeWebSearchUnsupported {
		t.Errorf("notices = %v", notices)
	}

	// Bedrock providers follow the Bedrock-specific flag.
	conv.Provider = provider.BedrockMistral
	eff, _ = r.Resolve(conv)
	if !eff.WebSearch {
		t.Error("bedrock web search should follow the bedrock flag")
	}
}

// =============================================================================
// CHAT REQUEST SNAPSHOT TESTS
// =============================================================================

func TestEffective_ChatRequest(t *testing.T) {
	eff := Effective{
		Provider:         provider.Anthropic,
		ExtendedThinking: true,
		WebSearch:        false,
		KnowledgeBase:    true,
		ThinkingBudget:   10000,
	}

	req := eff.ChatRequest("c1", "hello")
	if req.ConversationID != "c1" || req.Message != "hello" {
		t.Errorf("req = %+v", req)
	}
	if req.Provider != "anthropic" || !req.ExtendedThinking || req.ThinkingBudget != 10000 {
		t.Errorf("req = %+v", req)
	}
}
