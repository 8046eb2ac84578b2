// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

// =============================================================================
// SEND SPINNER
// =============================================================================

// asciiFrames keeps the spinner readable on terminals without good
// Unicode fonts.
var asciiFrames = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 8,
}

// SendSpinner shows activity while a chat request is in flight. It tracks
// elapsed time so long waits stay visibly alive.
type SendSpinner struct {
	spinner   spinner.Model
	active    bool
	startedAt time.Time
	label     string
}

// NewSendSpinner creates an inactive spinner.
func NewSendSpinner(theme *styles.Theme) SendSpinner {
	s := spinner.New()
	s.Spinner = asciiFrames
	s.Style = theme.Spinner
	return SendSpinner{spinner: s, label: "Sending"}
}

// Start activates the spinner with the given label and returns the tick
// command that drives its animation.
func (s *SendSpinner) Start(label string) tea.Cmd {
	s.active = true
	s.startedAt = time.Now()
	if label != "" {
		s.label = label
	}
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *SendSpinner) Stop() {
	s.active = false
	s.label = "Sending"
}

// Active reports whether the spinner is animating.
func (s *SendSpinner) Active() bool {
	return s.active
}

// Elapsed returns how long the spinner has been active.
func (s *SendSpinner) Elapsed() time.Duration {
	if !s.active {
		return 0
	}
	return time.Since(s.startedAt)
}

// Update advances the spinner animation.
func (s *SendSpinner) Update(msg tea.Msg) tea.Cmd {
	if !s.active {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner with its label and elapsed time.
func (s *SendSpinner) View(theme *styles.Theme) string {
	if !s.active {
		return ""
	}
	elapsed := FormatElapsed(s.Elapsed())
	text := theme.SendingText.Render(fmt.Sprintf(" %s %s", s.label, elapsed))
	return lipgloss.JoinHorizontal(lipgloss.Center, s.spinner.View(), text)
}

// FormatElapsed formats a duration as a compact elapsed-time string.
func FormatElapsed(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}
