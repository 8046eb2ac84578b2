// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"errors"
	"fmt"

	"github.com/jeranaias/atelier-tui/internal/provider"
)

// =============================================================================
// CONFIRMATION STATE MACHINE
// =============================================================================

// ConfirmState is the state of a pending settings confirmation.
type ConfirmState int

const (
	// ConfirmIdle: no confirmation in progress.
	ConfirmIdle ConfirmState = iota
	// ConfirmAwaiting: a trade-off prompt is showing; the change is held,
	// not applied.
	ConfirmAwaiting
	// ConfirmApplied: the user accepted; the caller applies the held change
	// and resets.
	ConfirmApplied
)

// String returns the state name for logging.
func (s ConfirmState) String() string {
	switch s {
	case ConfirmIdle:
		return "idle"
	case ConfirmAwaiting:
		return "awaiting_confirmation"
	case ConfirmApplied:
		return "applied"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Confirmation state errors.
var (
	// ErrConfirmationPending indicates a confirmation is already in progress.
	ErrConfirmationPending = errors.New("a confirmation is already pending")

	// ErrNoConfirmationPending indicates there is nothing to confirm or cancel.
	ErrNoConfirmationPending = errors.New("no confirmation pending")
)

// Confirmation gates settings changes that carry a provider trade-off the
// user must acknowledge first. At most one change is held at a time; the
// held change is not visible to resolution until accepted.
type Confirmation struct {
	state    ConfirmState
	provider provider.ID
}

// State returns the current confirmation state.
func (c *Confirmation) State() ConfirmState {
	return c.state
}

// NeedsConfirmation reports whether enabling extended reasoning on the
// provider requires an explicit acknowledgment.
func NeedsConfirmation(id provider.ID) bool {
	return provider.Capabilities(id).RequiresReasoningConfirmation
}

// Request holds an enable-reasoning change for the provider and moves to
// the awaiting state. Fails if another confirmation is already pending.
func (c *Confirmation) Request(id provider.ID) error {
	if c.state != ConfirmIdle {
		return ErrConfirmationPending
	}
	c.state = ConfirmAwaiting
	c.provider = id
	return nil
}

// Prompt returns the trade-off text to show the user.
func (c *Confirmation) Prompt() string {
	if c.state != ConfirmAwaiting {
		return ""
	}
	return fmt.Sprintf(
		"Enabling extended thinking on %s disables knowledge base retrieval for this conversation. Continue?",
		c.provider.DisplayName())
}

// Confirm accepts the held change. The caller reads the applied state,
// performs the change, and calls Reset.
func (c *Confirmation) Confirm() error {
	if c.state != ConfirmAwaiting {
		return ErrNoConfirmationPending
	}
	c.state = ConfirmApplied
	return nil
}

// Cancel discards the held change and returns to idle. The settings stay
// exactly as they were.
func (c *Confirmation) Cancel() error {
	if c.state != ConfirmAwaiting {
		return ErrNoConfirmationPending
	}
	c.state = ConfirmIdle
	c.provider = ""
	return nil
}

// Provider returns the provider the held change targets.
func (c *Confirmation) Provider() provider.ID {
	return c.provider
}

// Reset returns to idle after an applied change has been performed.
func (c *Confirmation) Reset() {
	c.state = ConfirmIdle
	c.provider = ""
}
