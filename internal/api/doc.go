// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the atelier backend.
//
// The client wraps the backend's REST surface: feature discovery,
// conversation and project CRUD, message history, and the chat endpoints.
// Requests other than chat are retried with exponential backoff on transient
// failures (5xx, rate limiting). Chat turns are sent exactly once because a
// blind retry could commit a user message twice.
//
// # Key Types
//
//   - Client: the backend client; construct with NewClient and the With*
//     option methods
//   - FeatureConfig: backend capability flags fetched at startup
//   - ChatRequest/ChatResponse: one chat turn with explicit settings
//
// # Logging
//
// Requests are logged at debug level as method and path only. Headers and
// bodies are never logged; they carry the API key and message content.
package api
