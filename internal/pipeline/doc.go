// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pipeline drives the lifecycle of an outbound chat message.
//
// A draft moves through composing -> staged -> sending and settles as
// committed or failed. Staging freezes the text, attachments, and resolved
// settings into a Ticket whose generated ID correlates the eventual backend
// reply with the optimistic insert; replies for stale tickets are refused.
//
// The pipeline holds exactly one ticket and performs no I/O. There is no
// send queue and no cancellation: a second send is rejected until the
// in-flight one settles, which keeps the optimistic history trivially
// consistent. On failure the ticket retains the draft so the composer is
// restored exactly as the user left it.
package pipeline
