// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Attachment is a file to upload alongside a chat message. Content is read
// from Path at send time; nothing is read while the file sits staged.
type Attachment struct {
	Name string
	Path string
}

// SendMessage sends a chat turn without attachments.
//
// Chat requests are never retried: a retry after an ambiguous failure could
// commit the same user message twice. Transient-failure handling belongs to
// the caller, which owns the optimistic insert.
func (c *Client) SendMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendMessageWithFiles sends a chat turn with file attachments as a
// multipart request. Like SendMessage, it is never retried.
func (c *Client) SendMessageWithFiles(ctx context.Context, req ChatRequest, attachments []Attachment) (*ChatResponse, error) {
	if len(attachments) == 0 {
		return c.SendMessage(ctx, req)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"conversation_id":        req.ConversationID,
		"message":                req.Message,
		"provider":               req.Provider,
		"include_knowledge_base": strconv.FormatBool(req.KnowledgeBase),
		"extended_thinking":      strconv.FormatBool(req.ExtendedThinking),
		"thinking_budget":        strconv.Itoa(req.ThinkingBudget),
		"web_search":             strconv.FormatBool(req.WebSearch),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	for _, att := range attachments {
		if err := writeFilePart(writer, att); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/with-files", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	logRequest(httpReq)
	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()
	logResponse(httpResp, time.Since(start))

	body, err := readResponse(httpResp)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, handleErrorResponse(httpResp.StatusCode, body)
	}

	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &resp, nil
}

// writeFilePart streams one attachment into the multipart body.
func writeFilePart(writer *multipart.Writer, att Attachment) error {
	f, err := os.Open(att.Path)
	if err != nil {
		return fmt.Errorf("failed to open attachment %s: %w", att.Name, err)
	}
	defer f.Close()

	part, err := writer.CreateFormFile("files", att.Name)
	if err != nil {
		return fmt.Errorf("failed to create form file for %s: %w", att.Name, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy attachment %s: %w", att.Name, err)
	}
	return nil
}
