// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach manages the attachment staging area for the next message.
//
// Staging is pure bookkeeping: it records name, path, size, and display
// kind, and never opens a file. Content is read only when the message is
// actually sent. Files are validated against a fixed extension allow-list;
// each staging batch reports how many candidates were rejected so the UI
// can toast once per pick rather than once per file.
//
// Staged files survive a failed send. They are cleared by the pipeline on
// a successful commit, by an explicit Clear, or one at a time by position
// with Unstage.
package attach
