// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the atelier TUI.
//
// Colors are adaptive: every color carries a light and dark variant and Lip
// Gloss picks the right one from the detected terminal background. Status
// states additionally carry ASCII shape indicators so they stay readable
// without color.
//
// # Usage
//
//	theme := styles.NewTheme()
//	theme.SetSize(width, height)
//	header := theme.Header.Render("atelier")
package styles
