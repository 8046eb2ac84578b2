// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// atelier.
//
// Configuration is loaded from ~/.atelier/config.toml (or config.json as a
// fallback), merged over built-in defaults, and finally overridden by
// ATELIER_* environment variables. Files are created with 0600 permissions
// because the backend API key may be stored in them.
//
// # Key Functions
//
//   - Load: load the configuration from the default locations
//   - LoadFromPath: load from an explicit path (used by --config)
//   - Save: persist the configuration atomically as TOML
//   - Watch: reload the configuration when the file changes on disk
//
// # Settings Cascade
//
// The [defaults] section is the global layer of the generation settings
// cascade. Projects and individual conversations override these values; see
// the settings package for resolution rules.
package config
