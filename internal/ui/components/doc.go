// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the atelier TUI.
//
// # Key Types
//
//   - ToastManager: non-blocking notifications for notices and failures
//   - SendSpinner: in-flight indicator with elapsed time
//   - Picker: scrollable conversation list with starred-first ordering
//
// Render functions are pure: they take a Theme plus data and return a
// string, so the chat model composes them without shared state.
package components
