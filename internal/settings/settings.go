// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings resolves the effective generation settings for a
// conversation from the three-layer cascade.
package settings

import (
	"github.com/jeranaias/atelier-tui/internal/api"
	"github.com/jeranaias/atelier-tui/internal/config"
	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/provider"
)

// =============================================================================
// LAYER SOURCES
// =============================================================================

// Source identifies the cascade layer a resolved value came from.
type Source string

const (
	// SourceConversation means the conversation pinned the value.
	SourceConversation Source = "conversation"
	// SourceProject means the project default supplied the value.
	SourceProject Source = "project"
	// SourceGlobal means the global config default supplied the value.
	SourceGlobal Source = "global"
	// SourceCapability means the provider capability matrix forced the value.
	SourceCapability Source = "capability"
)

// =============================================================================
// EFFECTIVE SETTINGS
// =============================================================================

// Effective is the fully resolved settings snapshot for one chat turn.
// Every field is concrete: the send path never re-resolves or infers.
type Effective struct {
	Provider         provider.ID
	ExtendedThinking bool
	WebSearch        bool
	KnowledgeBase    bool
	ThinkingBudget   int

	// Per-field layer attribution for the settings panel.
	ProviderSource         Source
	ExtendedThinkingSource Source
	WebSearchSource        Source
	KnowledgeBaseSource    Source
}

// ChatRequest builds the wire request for this snapshot.
func (e Effective) ChatRequest(conversationID, message string) api.ChatRequest {
	return api.ChatRequest{
		ConversationID:   conversationID,
		Message:          message,
		Provider:         string(e.Provider),
		ExtendedThinking: e.ExtendedThinking,
		WebSearch:        e.WebSearch,
		KnowledgeBase:    e.KnowledgeBase,
		ThinkingBudget:   e.ThinkingBudget,
	}
}

// =============================================================================
// RESOLVER
// =============================================================================

// Toggled marks which of the mutually exclusive settings the user changed
// most recently. When a provider cannot run extended reasoning and web
// search together, the setting the user did not just touch is the one
// forced off.
type Toggled int

const (
	// ToggledNone: no fresh toggle; reasoning wins a conflict.
	ToggledNone Toggled = iota
	// ToggledThinking: the user just changed extended thinking.
	ToggledThinking
	// ToggledWebSearch: the user just changed web search.
	ToggledWebSearch
)

// Resolver resolves effective settings from the cascade layers. The zero
// layers are optional: a conversation outside any project resolves from
// global defaults alone.
type Resolver struct {
	Global   config.DefaultsConfig
	Project  *model.Project
	Features *api.FeatureConfig
}

// Resolve computes the effective settings for a conversation with no fresh
// toggle context.
func (r *Resolver) Resolve(conv *model.Conversation) (Effective, []Notice) {
	return r.ResolveToggled(conv, ToggledNone)
}

// ResolveToggled computes the effective settings for a conversation.
//
// Resolution order per setting: conversation override, then project default,
// then global default. The provider capability matrix is applied last and
// always wins: a feature the provider cannot serve resolves to false no
// matter which layer asked for it. Each forced change yields a notice.
//
// just names the setting the user changed most recently, if any; it decides
// which side of a reasoning/web-search conflict survives.
func (r *Resolver) ResolveToggled(conv *model.Conversation, just Toggled) (Effective, []Notice) {
	var notices []Notice

	eff := Effective{
		Provider:       r.resolveProvider(conv),
		ThinkingBudget: r.resolveThinkingBudget(conv),
	}
	eff.ProviderSource = r.providerSource(conv)
	eff.ExtendedThinking, eff.ExtendedThinkingSource = r.resolveBool(
		conv.OverrideExtendedThinking, r.projectThinking(), r.Global.ExtendedThinking)
	eff.WebSearch, eff.WebSearchSource = r.resolveBool(
		conv.OverrideWebSearch, r.projectWebSearch(), r.Global.WebSearch)
	eff.KnowledgeBase, eff.KnowledgeBaseSource = r.resolveBool(
		conv.OverrideKnowledgeBase, r.projectKnowledgeBase(), r.Global.KnowledgeBase)

	// Knowledge base retrieval only exists inside a project.
	if r.Project == nil && eff.KnowledgeBase {
		eff.KnowledgeBase = false
		eff.KnowledgeBaseSource = SourceCapability
	}

	// Capability clamp. Runs after the cascade so a stale override on a
	// conversation that switched providers can never smuggle in an
	// unsupported feature.
	cap := provider.Capabilities(eff.Provider)

	if eff.ExtendedThinking && !r.thinkingAvailable(cap) {
		eff.ExtendedThinking = false
		eff.ExtendedThinkingSource = SourceCapability
		notices = append(notices, NewNotice(NoticeThinkingUnsupported, eff.Provider))
	}
	if eff.WebSearch && !r.webSearchAvailable(cap) {
		eff.WebSearch = false
		eff.WebSearchSource = SourceCapability
		notices = append(notices, NewNotice(NoticeWebSearchUnsupported, eff.Provider))
	}

	// Mutual exclusivity: the fresh toggle survives and the other side is
	// forced off. Without a toggle context reasoning wins, since it is the
	// deliberate per-conversation choice and web search the ambient default.
	if eff.ExtendedThinking && eff.WebSearch && cap.ReasoningSearchMutuallyExclusive {
		if just == ToggledWebSearch {
			eff.ExtendedThinking = false
			eff.ExtendedThinkingSource = SourceCapability
			notices = append(notices, NewNotice(NoticeThinkingForcedOff, eff.Provider))
		} else {
			eff.WebSearch = false
			eff.WebSearchSource = SourceCapability
			notices = append(notices, NewNotice(NoticeWebSearchForcedOff, eff.Provider))
		}
	}

	if !eff.ExtendedThinking {
		eff.ThinkingBudget = 0
	}

	return eff, notices
}

// resolveProvider picks the provider: conversation, then project, then
// global, then the built-in default.
func (r *Resolver) resolveProvider(conv *model.Conversation) provider.ID {
	if conv.Provider != "" {
		return conv.Provider
	}
	if r.Project != nil && r.Project.DefaultProvider != "" {
		return r.Project.DefaultProvider
	}
	if r.Global.Provider != "" {
		return provider.ID(r.Global.Provider)
	}
	return provider.Default
}

func (r *Resolver) providerSource(conv *model.Conversation) Source {
	if conv.Provider != "" {
		return SourceConversation
	}
	if r.Project != nil && r.Project.DefaultProvider != "" {
		return SourceProject
	}
	return SourceGlobal
}

// resolveThinkingBudget picks the reasoning budget: conversation override,
// then project, then global, then the built-in default.
func (r *Resolver) resolveThinkingBudget(conv *model.Conversation) int {
	if conv.OverrideThinkingBudget != nil {
		return *conv.OverrideThinkingBudget
	}
	if r.Project != nil && r.Project.ThinkingBudget > 0 {
		return r.Project.ThinkingBudget
	}
	if r.Global.ThinkingBudget > 0 {
		return r.Global.ThinkingBudget
	}
	return model.DefaultThinkingBudget
}

// resolveBool resolves one tri-state boolean through the cascade.
func (r *Resolver) resolveBool(override *bool, project *bool, global bool) (bool, Source) {
	if override != nil {
		return *override, SourceConversation
	}
	if project != nil {
		return *project, SourceProject
	}
	return global, SourceGlobal
}

func (r *Resolver) projectThinking() *bool {
	if r.Project == nil {
		return nil
	}
	return &r.Project.ExtendedThinking
}

func (r *Resolver) projectWebSearch() *bool {
	if r.Project == nil {
		return nil
	}
	return &r.Project.WebSearch
}

func (r *Resolver) projectKnowledgeBase() *bool {
	if r.Project == nil {
		return nil
	}
	return &r.Project.KnowledgeBase
}

// thinkingAvailable combines the capability matrix with the backend feature
// flags.
func (r *Resolver) thinkingAvailable(cap provider.Capability) bool {
	if !cap.SupportsExtendedReasoning {
		return false
	}
	if r.Features != nil && !r.Features.ExtendedThinkingAvailable {
		return false
	}
	return true
}

// webSearchAvailable combines the capability matrix with the backend feature
// flags. Bedrock providers depend on the Bedrock-specific search flag.
func (r *Resolver) webSearchAvailable(cap provider.Capability) bool {
	if !cap.SupportsWebSearch {
		return false
	}
	if r.Features == nil {
		return true
	}
	if cap.RequiresExternalConfig {
		return r.Features.BedrockWebSearchAvailable
	}
	return r.Features.WebSearchAvailable
}
