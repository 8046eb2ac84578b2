// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jeranaias/atelier-tui/internal/model"
)

// =============================================================================
// FEATURE CONFIG
// =============================================================================

// GetFeatures fetches the backend feature configuration.
func (c *Client) GetFeatures(ctx context.Context) (*FeatureConfig, error) {
	var features FeatureConfig
	if err := c.doWithRetry(ctx, http.MethodGet, "/api/features", nil, &features); err != nil {
		return nil, err
	}
	return &features, nil
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// ListConversations fetches all conversations, newest first.
func (c *Client) ListConversations(ctx context.Context) ([]*model.Conversation, error) {
	var payloads []conversationPayload
	if err := c.doWithRetry(ctx, http.MethodGet, "/api/conversations", nil, &payloads); err != nil {
		return nil, err
	}
	conversations := make([]*model.Conversation, 0, len(payloads))
	for i := range payloads {
		conversations = append(conversations, payloads[i].toModel())
	}
	return conversations, nil
}

// GetConversation fetches a single conversation by ID, without messages.
func (c *Client) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	var payload conversationPayload
	if err := c.doWithRetry(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(id), nil, &payload); err != nil {
		return nil, err
	}
	return payload.toModel(), nil
}

// CreateConversation creates a new conversation, optionally inside a project.
func (c *Client) CreateConversation(ctx context.Context, projectID string) (*model.Conversation, error) {
	req := map[string]string{}
	if projectID != "" {
		req["project_id"] = projectID
	}
	var payload conversationPayload
	if err := c.doWithRetry(ctx, http.MethodPost, "/api/conversations", req, &payload); err != nil {
		return nil, err
	}
	return payload.toModel(), nil
}

// UpdateConversation applies a partial update to a conversation and returns
// the updated state.
func (c *Client) UpdateConversation(ctx context.Context, id string, update ConversationUpdate) (*model.Conversation, error) {
	var payload conversationPayload
	if err := c.doWithRetry(ctx, http.MethodPut, "/api/conversations/"+url.PathEscape(id), update, &payload); err != nil {
		return nil, err
	}
	return payload.toModel(), nil
}

// DeleteConversation deletes a conversation.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.doWithRetry(ctx, http.MethodDelete, "/api/conversations/"+url.PathEscape(id), nil, nil)
}

// GetMessages fetches the full message history of a conversation.
func (c *Client) GetMessages(ctx context.Context, conversationID string) ([]*model.Message, error) {
	var payloads []messagePayload
	path := "/api/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.doWithRetry(ctx, http.MethodGet, path, nil, &payloads); err != nil {
		return nil, err
	}
	messages := make([]*model.Message, 0, len(payloads))
	for i := range payloads {
		messages = append(messages, payloads[i].toModel())
	}
	return messages, nil
}

// =============================================================================
// PROJECTS
// =============================================================================

// ListProjects fetches all projects.
func (c *Client) ListProjects(ctx context.Context) ([]*model.Project, error) {
	var payloads []projectPayload
	if err := c.doWithRetry(ctx, http.MethodGet, "/api/projects", nil, &payloads); err != nil {
		return nil, err
	}
	projects := make([]*model.Project, 0, len(payloads))
	for i := range payloads {
		projects = append(projects, payloads[i].toModel())
	}
	return projects, nil
}

// GetProject fetches a single project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var payload projectPayload
	if err := c.doWithRetry(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &payload); err != nil {
		return nil, err
	}
	return payload.toModel(), nil
}

// UpdateProject applies a partial update to a project's defaults and returns
// the updated state.
func (c *Client) UpdateProject(ctx context.Context, id string, update ProjectUpdate) (*model.Project, error) {
	var payload projectPayload
	if err := c.doWithRetry(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), update, &payload); err != nil {
		return nil, err
	}
	return payload.toModel(), nil
}

// GetProjectFiles fetches the knowledge base documents of a project.
func (c *Client) GetProjectFiles(ctx context.Context, projectID string) ([]model.FileDescriptor, error) {
	var payloads []filePayload
	path := "/api/projects/" + url.PathEscape(projectID) + "/files"
	if err := c.doWithRetry(ctx, http.MethodGet, path, nil, &payloads); err != nil {
		return nil, err
	}
	files := make([]model.FileDescriptor, 0, len(payloads))
	for i := range payloads {
		files = append(files, payloads[i].toModel())
	}
	return files, nil
}
