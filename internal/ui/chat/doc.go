// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main chat screen as a bubbletea model.
//
// The model owns no domain state: the session coordinator holds the store,
// pipeline, and staging area, and every backend call runs inside a tea.Cmd.
// Update reacts to session messages and keystrokes; View composes pure
// render functions from the components package.
//
// # States
//
// The screen moves between loading, chat, picker, confirm, attach, and
// error modes. The confirm mode holds a settings change behind the
// provider trade-off prompt; nothing is applied until the user answers.
package chat
