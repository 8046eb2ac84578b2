// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types shared across the application:
// conversations with their per-conversation setting overrides, messages with
// optional reasoning traces and attachments, and projects that group
// conversations around a shared knowledge base.
//
// # Key Types
//
//   - Conversation: chat history plus tri-state setting overrides
//   - Message: a single user or assistant message; optimistic inserts carry
//     temporary local IDs until the backend confirms them
//   - Project: grouping with default settings and knowledge base documents
//   - FileDescriptor: metadata for an uploaded knowledge base document
//
// # Tri-State Overrides
//
// Conversation override fields are pointers: nil inherits from the project
// layer (or the global default), a non-nil value pins the setting for the
// conversation. Use BoolPtr and IntPtr to set them:
//
//	conv.OverrideWebSearch = model.BoolPtr(false)
package model
