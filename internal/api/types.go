// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"time"

	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/provider"
)

// =============================================================================
// FEATURE CONFIG
// =============================================================================

// FeatureConfig reports which backend capabilities are provisioned. It is
// fetched once at session startup; every field defaults to false so a partial
// response degrades features instead of enabling them.
type FeatureConfig struct {
	ExtendedThinkingAvailable bool `json:"extended_thinking_available"`
	WebSearchAvailable        bool `json:"web_search_available"`
	BedrockConfigured         bool `json:"bedrock_configured"`
	BedrockWebSearchAvailable bool `json:"bedrock_web_search_available"`
	TavilyConfigured          bool `json:"tavily_configured"`
	UsingDirectAnthropicKey   bool `json:"using_direct_anthropic_key"`

	// AvailableProviders lists the provider ids the backend can serve.
	AvailableProviders []string `json:"available_providers"`
}

// ProviderAvailable reports whether the backend lists the provider.
func (f *FeatureConfig) ProviderAvailable(id provider.ID) bool {
	for _, p := range f.AvailableProviders {
		if p == string(id) {
			return true
		}
	}
	return false
}

// =============================================================================
// CONVERSATION WIRE TYPES
// =============================================================================

// conversationPayload is the backend's conversation representation.
type conversationPayload struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	ProjectID        string    `json:"project_id,omitempty"`
	Provider         string    `json:"provider,omitempty"`
	ExtendedThinking *bool     `json:"extended_thinking"`
	WebSearch        *bool     `json:"web_search"`
	KnowledgeBase    *bool     `json:"include_knowledge_base"`
	ThinkingBudget   *int      `json:"thinking_budget"`
	Starred          bool      `json:"starred"`
	Archived         bool      `json:"archived"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (p *conversationPayload) toModel() *model.Conversation {
	return &model.Conversation{
		ID:                       p.ID,
		Title:                    p.Title,
		Description:              p.Description,
		ProjectID:                p.ProjectID,
		Provider:                 provider.ID(p.Provider),
		OverrideExtendedThinking: p.ExtendedThinking,
		OverrideWebSearch:        p.WebSearch,
		OverrideKnowledgeBase:    p.KnowledgeBase,
		OverrideThinkingBudget:   p.ThinkingBudget,
		Starred:                  p.Starred,
		Archived:                 p.Archived,
		CreatedAt:                p.CreatedAt,
		UpdatedAt:                p.UpdatedAt,
		Messages:                 make([]*model.Message, 0),
	}
}

// ConversationUpdate is a partial update to a conversation. Nil fields are
// omitted from the request and left unchanged by the backend.
type ConversationUpdate struct {
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	Provider         *string `json:"provider,omitempty"`
	ExtendedThinking *bool   `json:"extended_thinking,omitempty"`
	WebSearch        *bool   `json:"web_search,omitempty"`
	KnowledgeBase    *bool   `json:"include_knowledge_base,omitempty"`
	ThinkingBudget   *int    `json:"thinking_budget,omitempty"`
	Starred          *bool   `json:"starred,omitempty"`
	Archived         *bool   `json:"archived,omitempty"`
}

// =============================================================================
// MESSAGE WIRE TYPES
// =============================================================================

// messagePayload is the backend's message representation.
type messagePayload struct {
	ID              string    `json:"id"`
	Role            string    `json:"role"`
	Content         string    `json:"content"`
	Thinking        string    `json:"thinking,omitempty"`
	ThinkingTime    float64   `json:"thinking_time,omitempty"`
	AttachmentNames []string  `json:"attachment_names,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

func (p *messagePayload) toModel() *model.Message {
	return &model.Message{
		ID:              p.ID,
		Role:            model.Role(p.Role),
		Content:         p.Content,
		Thinking:        p.Thinking,
		ThinkingTime:    p.ThinkingTime,
		AttachmentNames: p.AttachmentNames,
		Timestamp:       p.Timestamp,
	}
}

// =============================================================================
// PROJECT WIRE TYPES
// =============================================================================

// projectPayload is the backend's project representation.
type projectPayload struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	DefaultProvider  string    `json:"default_provider,omitempty"`
	ExtendedThinking bool      `json:"extended_thinking"`
	WebSearch        bool      `json:"web_search"`
	KnowledgeBase    bool      `json:"include_knowledge_base"`
	ThinkingBudget   int       `json:"thinking_budget,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (p *projectPayload) toModel() *model.Project {
	return &model.Project{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		DefaultProvider:  provider.ID(p.DefaultProvider),
		ExtendedThinking: p.ExtendedThinking,
		WebSearch:        p.WebSearch,
		KnowledgeBase:    p.KnowledgeBase,
		ThinkingBudget:   p.ThinkingBudget,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ProjectUpdate is a partial update to a project's default settings.
type ProjectUpdate struct {
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	DefaultProvider  *string `json:"default_provider,omitempty"`
	ExtendedThinking *bool   `json:"extended_thinking,omitempty"`
	WebSearch        *bool   `json:"web_search,omitempty"`
	KnowledgeBase    *bool   `json:"include_knowledge_base,omitempty"`
	ThinkingBudget   *int    `json:"thinking_budget,omitempty"`
}

// filePayload is the backend's knowledge base file representation.
type filePayload struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func (p *filePayload) toModel() model.FileDescriptor {
	return model.FileDescriptor{
		Name:        p.Name,
		Size:        p.Size,
		ContentType: p.ContentType,
		UploadedAt:  p.UploadedAt,
	}
}

// =============================================================================
// CHAT WIRE TYPES
// =============================================================================

// ChatRequest is the payload for a chat turn. Every generation setting is
// explicit: the backend never infers settings from earlier turns.
type ChatRequest struct {
	ConversationID   string `json:"conversation_id"`
	Message          string `json:"message"`
	Provider         string `json:"provider"`
	KnowledgeBase    bool   `json:"include_knowledge_base"`
	ExtendedThinking bool   `json:"extended_thinking"`
	ThinkingBudget   int    `json:"thinking_budget"`
	WebSearch        bool   `json:"web_search"`
}

// ChatResponse is the backend's reply to a chat turn.
type ChatResponse struct {
	ConversationID string  `json:"conversation_id"`
	MessageID      string  `json:"message_id"`
	UserMessageID  string  `json:"user_message_id"`
	Content        string  `json:"message"`
	Thinking       string  `json:"thinking,omitempty"`
	ThinkingTime   float64 `json:"thinking_time,omitempty"`
}

// AssistantMessage converts the response into the assistant message model.
func (r *ChatResponse) AssistantMessage() *model.Message {
	msg := model.NewMessage(r.MessageID, model.RoleAssistant, r.Content)
	msg.Thinking = r.Thinking
	msg.ThinkingTime = r.ThinkingTime
	return msg
}
