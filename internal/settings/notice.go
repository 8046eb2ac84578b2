// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"fmt"

	"github.com/jeranaias/atelier-tui/internal/provider"
)

// NoticeKind classifies a settings notice.
type NoticeKind int

const (
	// NoticeThinkingUnsupported: reasoning was requested but the provider
	// cannot serve it.
	NoticeThinkingUnsupported NoticeKind = iota
	// NoticeWebSearchUnsupported: web search was requested but the provider
	// cannot serve it.
	NoticeWebSearchUnsupported
	// NoticeWebSearchForcedOff: web search was disabled because the provider
	// cannot combine it with extended reasoning.
	NoticeWebSearchForcedOff
	// NoticeThinkingForcedOff: extended reasoning was disabled because the
	// user just enabled web search on a provider that cannot run both.
	NoticeThinkingForcedOff
	// NoticePersistFailed: a settings change applied locally but could not
	// be saved to the backend.
	NoticePersistFailed
)

// Notice is a passive, non-blocking message about a settings adjustment.
// Notices inform; they never gate the operation that produced them.
type Notice struct {
	Kind     NoticeKind
	Provider provider.ID
	Detail   string
}

// NewNotice creates a notice for the given provider.
func NewNotice(kind NoticeKind, id provider.ID) Notice {
	return Notice{Kind: kind, Provider: id}
}

// Message returns the user-facing notice text.
func (n Notice) Message() string {
	name := n.Provider.DisplayName()
	switch n.Kind {
	case NoticeThinkingUnsupported:
		return fmt.Sprintf("Extended thinking is not available on %s", name)
	case NoticeWebSearchUnsupported:
		return fmt.Sprintf("Web search is not available on %s", name)
	case NoticeWebSearchForcedOff:
		return fmt.Sprintf("Web search turned off: %s cannot combine it with extended thinking", name)
	case NoticeThinkingForcedOff:
		return fmt.Sprintf("Extended thinking turned off: %s cannot combine it with web search", name)
	case NoticePersistFailed:
		if n.Detail != "" {
			return fmt.Sprintf("Settings applied but not saved: %s", n.Detail)
		}
		return "Settings applied but could not be saved to the server"
	default:
		return "Settings adjusted"
	}
}
