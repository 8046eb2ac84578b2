// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings resolves the effective generation settings for a
// conversation from the three-layer cascade.
//
// # Resolution
//
// Each setting resolves conversation override > project default > global
// config default. After the cascade, the provider capability matrix is
// applied and always wins: unsupported features resolve to false, and
// providers that cannot combine extended reasoning with web search get web
// search forced off. Every forced change produces a Notice for the UI; the
// stored overrides are never mutated by resolution.
//
// # Confirmation
//
// Some providers attach a trade-off to enabling extended reasoning (on the
// Bedrock Claude family it suspends knowledge base retrieval). Confirmation
// holds such a change in an awaiting state until the user accepts or
// cancels; a cancelled change leaves all settings untouched.
package settings
