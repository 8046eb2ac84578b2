// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared helpers for the atelier-tui application.
//
// This package contains common helper functions used throughout the
// application for string display, input normalization, and file operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width truncation (CJK aware)
//   - NormalizeInput: NFC normalization + trim for composed text
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long filenames safely for display
//	display := util.TruncateWidth(filename, 40)
//
//	// Canonicalize composed input before sending
//	text := util.NormalizeInput(raw)
package util
