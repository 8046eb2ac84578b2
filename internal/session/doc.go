// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session coordinates one run of the app: it owns the backend
// client, the state store, the send pipeline, and the attachment staging
// area, and exposes the asynchronous operations as bubbletea commands.
//
// All I/O happens inside commands so the UI stays a pure function of the
// store. Startup is a fan-in load of features, conversations, and projects
// that aborts on any failure. Sends go through the single-flight pipeline;
// the coordinator applies results against the store and discards stale
// ones. Settings writes are asynchronous and passive: the local value is
// applied immediately and a failed persist only produces a notice.
//
// # Key Types
//
//   - Session: the coordinator; construct with New from a loaded config
//   - ReadyMsg, ChatResultMsg, SettingsPersistedMsg: command results
package session
