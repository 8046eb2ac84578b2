// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"fmt"
	"time"

	"github.com/jeranaias/atelier-tui/internal/provider"
)

// DefaultThinkingBudget is the token budget applied when extended reasoning
// is enabled and no layer overrides the budget.
const DefaultThinkingBudget = 10000

// =============================================================================
// PROJECT TYPE
// =============================================================================

// Project groups conversations that share a knowledge base and default
// settings. Conversations inside a project inherit its defaults for any
// setting they do not override themselves.
type Project struct {
	// Identity
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Default provider for new conversations in this project
	DefaultProvider provider.ID `json:"default_provider,omitempty"`

	// Project-level setting defaults
	ExtendedThinking bool `json:"extended_thinking"`
	WebSearch        bool `json:"web_search"`
	KnowledgeBase    bool `json:"include_knowledge_base"`
	ThinkingBudget   int  `json:"thinking_budget,omitempty"`

	// Knowledge base documents uploaded to this project
	Files []FileDescriptor `json:"files,omitempty"`
}

// NewProject creates a project with the standard defaults: web search on,
// knowledge base on, reasoning off.
func NewProject(name string) *Project {
	now := time.Now()
	return &Project{
		ID:              name,
		Name:            name,
		CreatedAt:       now,
		UpdatedAt:       now,
		DefaultProvider: provider.Default,
		WebSearch:       true,
		KnowledgeBase:   true,
		ThinkingBudget:  DefaultThinkingBudget,
	}
}

// FileCount returns the number of knowledge base documents.
func (p *Project) FileCount() int {
	return len(p.Files)
}

// TotalFileSize returns the combined size of all knowledge base documents
// in bytes.
func (p *Project) TotalFileSize() int64 {
	var total int64
	for _, f := range p.Files {
		total += f.Size
	}
	return total
}

// FindFile returns the knowledge base document with the given name, or nil.
func (p *Project) FindFile(name string) *FileDescriptor {
	for i := range p.Files {
		if p.Files[i].Name == name {
			return &p.Files[i]
		}
	}
	return nil
}

// =============================================================================
// FILE DESCRIPTOR TYPE
// =============================================================================

// FileDescriptor describes a document in a project knowledge base.
type FileDescriptor struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// FormatSize returns the file size in human-readable form.
func (f FileDescriptor) FormatSize() string {
	return FormatByteSize(f.Size)
}

// FormatByteSize renders a byte count as B, KB, MB, or GB.
func FormatByteSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
