// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/atelier-tui/internal/history"
	"github.com/jeranaias/atelier-tui/internal/session"
	"github.com/jeranaias/atelier-tui/internal/ui/components"
	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

// =============================================================================
// APPLICATION STATE
// =============================================================================

// appState is the top-level mode of the chat screen.
type appState int

const (
	// stateLoading: startup fetch in progress.
	stateLoading appState = iota
	// stateChat: composing and reading the active conversation.
	stateChat
	// statePicker: the conversation list is open.
	statePicker
	// stateConfirm: a settings trade-off prompt is showing.
	stateConfirm
	// stateAttach: the file path prompt is showing.
	stateAttach
	// stateRename: the conversation rename prompt is showing.
	stateRename
	// stateError: startup failed; only retry or quit.
	stateError
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the root bubbletea model for the chat screen.
type Model struct {
	sess     *session.Session
	theme    *styles.Theme
	renderer *transcriptRenderer

	state         appState
	width         int
	height        int
	ready         bool
	loadErr       error
	recent        []history.Entry
	showThinking  bool
	showSettings  bool
	confirmChoice components.ConfirmChoice

	viewport    viewport.Model
	textarea    textarea.Model
	attachInput textinput.Model
	renameInput textinput.Model
	renameID    string
	spinner     components.SendSpinner
	toasts      *components.ToastManager
	picker      *components.Picker
}

// New creates the chat model from a session.
func New(sess *session.Session) *Model {
	theme := styles.NewTheme()
	cfg := sess.Config()

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = "> "
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	ai := textinput.New()
	ai.Placeholder = "Path to file..."
	ai.Prompt = "attach> "

	ri := textinput.New()
	ri.Placeholder = "New title..."
	ri.Prompt = "rename> "

	return &Model{
		sess:         sess,
		theme:        theme,
		renderer:     newTranscriptRenderer(theme, cfg.UI.MarkdownRendering),
		state:        stateLoading,
		showThinking: cfg.UI.ShowThinking,
		viewport:     viewport.New(80, 20),
		textarea:     ta,
		attachInput:  ai,
		renameInput:  ri,
		spinner:      components.NewSendSpinner(theme),
		toasts:       components.NewToastManager(),
		picker:       components.NewPicker(),
	}
}

// Init starts the initial data load and the toast ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.sess.LoadCmd(),
		components.ToastTickCmd(),
		textarea.Blink,
	)
}

// refreshTranscript re-renders the active conversation into the viewport
// and scrolls to the newest message.
func (m *Model) refreshTranscript() {
	conv := m.sess.Store().Active()
	if conv == nil {
		m.viewport.SetContent(m.theme.Timestamp.Render(
			"\n  No conversation open. Press ctrl+o to browse or ctrl+n to start one.\n"))
		return
	}
	m.viewport.SetContent(m.renderer.RenderTranscript(conv.Messages, m.showThinking))
	m.viewport.GotoBottom()
}

// resize recomputes the layout after a terminal size change.
func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.renderer.setWidth(width)

	chromeHeight := 2 + m.textarea.Height() + 3
	if !m.sess.Staging().IsEmpty() {
		chromeHeight += 3
	}
	vh := height - chromeHeight
	if vh < 4 {
		vh = 4
	}
	m.viewport.Width = width
	m.viewport.Height = vh
	m.textarea.SetWidth(width - 4)
	m.picker.SetPageSize(height - 10)
	m.ready = true
	m.refreshTranscript()
}
