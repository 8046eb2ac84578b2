// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pipeline drives the lifecycle of an outbound chat message.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jeranaias/atelier-tui/internal/api"
	"github.com/jeranaias/atelier-tui/internal/model"
	"github.com/jeranaias/atelier-tui/internal/settings"
)

// =============================================================================
// SEND STATES
// =============================================================================

// State is the lifecycle state of the message pipeline.
type State int

const (
	// StateComposing: the user is editing a draft; nothing is in flight.
	StateComposing State = iota
	// StateStaged: draft and attachments are snapshotted into a ticket,
	// ready to send.
	StateStaged
	// StateSending: the ticket is in flight. Exactly one send at a time.
	StateSending
	// StateCommitted: the backend confirmed the turn. Transient; Reset
	// returns to composing.
	StateCommitted
	// StateFailed: the send failed. The ticket retains the draft for
	// restoration; Reset returns to composing.
	StateFailed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateComposing:
		return "composing"
	case StateStaged:
		return "staged"
	case StateSending:
		return "sending"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Pipeline state errors.
var (
	// ErrSendInFlight indicates a message is already being sent. There is
	// no queue: the caller waits for the in-flight send to settle.
	ErrSendInFlight = errors.New("a message is already being sent")

	// ErrNotStaged indicates Send was called without a staged ticket.
	ErrNotStaged = errors.New("no staged message to send")

	// ErrEmptyMessage indicates the draft has no content to send.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrStaleTicket indicates a result arrived for a ticket that is no
	// longer current. The result is ignored.
	ErrStaleTicket = errors.New("stale ticket")
)

// =============================================================================
// TICKETS
// =============================================================================

// Ticket is the correlation record for one send attempt. Its ID ties the
// asynchronous backend reply to the optimistic insert it belongs to; a
// reply carrying any other ID is ignored.
type Ticket struct {
	// ID is the unique correlation identifier for this attempt.
	ID string

	// ConversationID is the target conversation.
	ConversationID string

	// Message is the composed text, as sent.
	Message string

	// Attachments are the files uploaded with the message.
	Attachments []api.Attachment

	// Settings is the resolved settings snapshot for this turn. Frozen at
	// staging time: later settings edits do not affect an in-flight send.
	Settings settings.Effective

	// PendingMessage is the optimistic user message inserted while the
	// send is in flight.
	PendingMessage *model.Message

	// Err records the failure when the send did not commit.
	Err error
}

// DisplayContent returns the text shown for the optimistic insert. A
// message that is only attachments shows a placeholder.
func (t *Ticket) DisplayContent() string {
	if t.Message == "" && len(t.Attachments) > 0 {
		return "(see attached files)"
	}
	return t.Message
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline is the send state machine for one session. It owns no I/O; the
// session coordinator stages a ticket, performs the request, and reports
// the outcome back with the ticket ID.
type Pipeline struct {
	state  State
	ticket *Ticket
}

// New creates a pipeline in the composing state.
func New() *Pipeline {
	return &Pipeline{state: StateComposing}
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// Ticket returns the current ticket, or nil when composing.
func (p *Pipeline) Ticket() *Ticket {
	return p.ticket
}

// InFlight reports whether a send is currently in progress.
func (p *Pipeline) InFlight() bool {
	return p.state == StateSending
}

// Stage snapshots the draft into a ticket. The message may be empty only
// when attachments are present. Fails while a send is in flight.
func (p *Pipeline) Stage(conversationID, message string, attachments []api.Attachment, eff settings.Effective) (*Ticket, error) {
	if p.state == StateSending {
		return nil, ErrSendInFlight
	}
	if message == "" && len(attachments) == 0 {
		return nil, ErrEmptyMessage
	}

	p.ticket = &Ticket{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Message:        message,
		Attachments:    attachments,
		Settings:       eff,
	}
	p.state = StateStaged
	return p.ticket, nil
}

// Send marks the staged ticket in flight and creates the optimistic user
// message for insertion. The returned message carries a temporary local ID
// and Pending=true.
func (p *Pipeline) Send() (*model.Message, error) {
	if p.state == StateSending {
		return nil, ErrSendInFlight
	}
	if p.state != StateStaged || p.ticket == nil {
		return nil, ErrNotStaged
	}

	names := make([]string, len(p.ticket.Attachments))
	for i, att := range p.ticket.Attachments {
		names[i] = att.Name
	}
	pending := model.NewPendingUserMessage(p.ticket.DisplayContent(), names)

	p.ticket.PendingMessage = pending
	p.state = StateSending
	return pending, nil
}

// Commit records a successful backend reply for the given ticket. Replies
// for any other ticket return ErrStaleTicket and change nothing.
func (p *Pipeline) Commit(ticketID string) (*Ticket, error) {
	if p.state != StateSending || p.ticket == nil || p.ticket.ID != ticketID {
		return nil, ErrStaleTicket
	}
	p.state = StateCommitted
	return p.ticket, nil
}

// Fail records a failed send for the given ticket. The ticket keeps the
// draft text and attachments so the composer can be restored.
func (p *Pipeline) Fail(ticketID string, sendErr error) (*Ticket, error) {
	if p.state != StateSending || p.ticket == nil || p.ticket.ID != ticketID {
		return nil, ErrStaleTicket
	}
	p.ticket.Err = sendErr
	p.state = StateFailed
	return p.ticket, nil
}

// Reset returns to composing after a committed or failed send, dropping
// the ticket. Resetting while a send is in flight is refused.
func (p *Pipeline) Reset() error {
	if p.state == StateSending {
		return ErrSendInFlight
	}
	p.ticket = nil
	p.state = StateComposing
	return nil
}
