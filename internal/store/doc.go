// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the in-memory session state shared across the UI.
//
// One Store per session aggregates the conversation listing, the known
// projects with their knowledge base files, and the active conversation
// with its full message history. All reads return copies or stable
// references; all access is safe for concurrent use.
//
// # Key Types
//
//   - Store: mutex-guarded aggregate of session state
//
// # Usage
//
//	st := store.New()
//	st.SetConversations(metas)
//	st.SetActive(conv, messages)
//	proj := st.ActiveProject() // nil outside a project
package store
