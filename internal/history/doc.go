// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history caches recently opened conversations in a local SQLite
// database so the conversation picker is useful before the backend listing
// arrives, and across offline starts.
//
// The cache is advisory: the backend remains the source of truth, and a
// stale entry simply fails to open. A nil *History is the disabled store
// and ignores every call, so callers never branch on configuration.
//
// # Usage
//
//	h, err := history.Open(cfg.History.Path, cfg.History.MaxEntries, cfg.History.Enabled)
//	if err != nil { ... }
//	defer h.Close()
//	h.Record(ctx, conv.GetMeta())
//	entries, _ := h.Recent(ctx, 20)
package history
