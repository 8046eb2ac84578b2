// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides a local cache of recently opened conversations.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/provider"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDisabled      = errors.New("history is disabled")
	ErrDatabaseError = errors.New("history database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS recent_conversations (
	conversation_id TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	provider        TEXT NOT NULL DEFAULT '',
	project_id      TEXT NOT NULL DEFAULT '',
	starred         INTEGER NOT NULL DEFAULT 0,
	archived        INTEGER NOT NULL DEFAULT 0,
	updated_at      INTEGER NOT NULL,
	last_opened_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recent_opened
	ON recent_conversations(last_opened_at DESC);
`

// =============================================================================
// HISTORY STORE
// =============================================================================

// Entry is one recently opened conversation.
type Entry struct {
	ConversationID string
	Title          string
	Provider       provider.ID
	ProjectID      string
	Starred        bool
	Archived       bool
	UpdatedAt      time.Time
	LastOpenedAt   time.Time
}

// History records conversation opens in a local SQLite database so the
// picker can offer recent conversations before the backend listing loads.
// A nil History is valid and ignores every call, which is how a disabled
// configuration is represented.
type History struct {
	db         *sql.DB
	maxEntries int
}

// Open opens (or creates) the history database at path. Returns nil with no
// error when enabled is false.
func Open(path string, maxEntries int, enabled bool) (*History, error) {
	if !enabled {
		return nil, nil
	}
	if maxEntries <= 0 {
		maxEntries = 200
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &History{db: db, maxEntries: maxEntries}, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}

// =============================================================================
// RECORDING
// =============================================================================

// Record upserts a conversation as the most recently opened and prunes the
// table down to the configured maximum.
func (h *History) Record(ctx context.Context, meta model.ConversationMeta) error {
	if h == nil {
		return nil
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO recent_conversations
			(conversation_id, title, provider, project_id, starred, archived, updated_at, last_opened_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			title = excluded.title,
			provider = excluded.provider,
			project_id = excluded.project_id,
			starred = excluded.starred,
			archived = excluded.archived,
			updated_at = excluded.updated_at,
			last_opened_at = excluded.last_opened_at
	`, meta.ID, meta.Title, string(meta.Provider), meta.ProjectID,
		boolToInt(meta.Starred), boolToInt(meta.Archived), meta.UpdatedAt.Unix(), now)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	// Prune oldest entries beyond the cap.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM recent_conversations WHERE conversation_id IN (
			SELECT conversation_id FROM recent_conversations
			ORDER BY last_opened_at DESC
			LIMIT -1 OFFSET ?
		)
	`, h.maxEntries)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Remove drops a conversation from the cache, typically after it was
// deleted on the backend.
func (h *History) Remove(ctx context.Context, conversationID string) error {
	if h == nil {
		return nil
	}
	_, err := h.db.ExecContext(ctx,
		"DELETE FROM recent_conversations WHERE conversation_id = ?", conversationID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Clear empties the cache.
func (h *History) Clear(ctx context.Context) error {
	if h == nil {
		return nil
	}
	_, err := h.db.ExecContext(ctx, "DELETE FROM recent_conversations")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Recent returns up to limit entries, most recently opened first. A nil
// History returns an empty slice.
func (h *History) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if h == nil {
		return nil, nil
	}
	if limit <= 0 || limit > h.maxEntries {
		limit = h.maxEntries
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT conversation_id, title, provider, project_id, starred, archived, updated_at, last_opened_at
		FROM recent_conversations
		ORDER BY last_opened_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                   Entry
			prov                string
			starred, archived   int
			updatedAt, openedAt int64
		)
		if err := rows.Scan(&e.ConversationID, &e.Title, &prov, &e.ProjectID,
			&starred, &archived, &updatedAt, &openedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		e.Provider = provider.ID(prov)
		e.Starred = starred != 0
		e.Archived = archived != 0
		e.UpdatedAt = time.Unix(updatedAt, 0)
		e.LastOpenedAt = time.Unix(openedAt, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of cached entries.
func (h *History) Count(ctx context.Context) (int, error) {
	if h == nil {
		return 0, nil
	}
	var n int
	err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recent_conversations").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
