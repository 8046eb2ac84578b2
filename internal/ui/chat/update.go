// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/atelier-tui/internal/attach"
	"github.com/jeranaias/atelier-tui/internal/export"
	"github.com/jeranaias/atelier-tui/internal/provider"
	"github.com/jeranaias/atelier-tui/internal/session"
	"github.com/jeranaias/atelier-tui/internal/settings"
	"github.com/jeranaias/atelier-tui/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update routes messages to the handler for the current state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		return m, components.ToastTickCmd()

	case session.ReadyMsg:
		m.state = stateChat
		m.picker.SetItems(msg.Conversations)
		m.refreshTranscript()
		return m, nil

	case session.LoadFailedMsg:
		m.state = stateError
		m.loadErr = msg.Err
		// The cached recent list still tells the user what they were
		// working on while the backend is unreachable.
		return m, m.sess.RecentHistoryCmd(5)

	case session.RecentHistoryMsg:
		m.recent = msg.Entries
		return m, nil

	case session.ConversationOpenedMsg:
		m.state = stateChat
		m.textarea.Focus()
		m.refreshTranscript()
		m.picker.SetItems(m.sess.Store().Conversations())
		return m, nil

	case session.ConversationOpenFailedMsg:
		m.toasts.AddError("Could not open conversation: " + msg.Err.Error())
		return m, nil

	case session.ConversationCreatedMsg:
		m.state = stateChat
		m.textarea.Focus()
		m.refreshTranscript()
		m.picker.SetItems(m.sess.Store().Conversations())
		return m, nil

	case session.ConversationDeletedMsg:
		if msg.Err != nil {
			m.toasts.AddError("Delete failed: " + msg.Err.Error())
			return m, nil
		}
		m.picker.SetItems(m.sess.Store().Conversations())
		m.refreshTranscript()
		return m, nil

	case session.ChatResultMsg:
		return m.handleChatResult(msg)

	case session.SettingsPersistedMsg:
		if msg.Err != nil {
			m.toasts.AddWarning("Settings could not be saved to the server. They remain active locally.")
		}
		return m, nil

	case session.NoticeMsg:
		m.toasts.AddToast(components.NewNoticeToast(msg.Notice))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Spinner frames and other component messages.
	var cmds []tea.Cmd
	if cmd := m.spinner.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleChatResult settles a finished send and restores the draft on
// failure. Staged files were never cleared, so a failed send leaves the
// exact text and attachment set ready for the retry.
func (m *Model) handleChatResult(msg session.ChatResultMsg) (tea.Model, tea.Cmd) {
	m.spinner.Stop()

	ticket, err := m.sess.ApplyChatResult(msg)
	if err != nil {
		if ticket != nil {
			m.textarea.SetValue(ticket.Message)
			m.toasts.AddError("Send failed: " + err.Error())
		}
		m.resize(m.width, m.height)
		return m, nil
	}

	// A successful commit drained the staging area; the file bar drops out
	// of the layout.
	m.resize(m.width, m.height)
	m.picker.SetItems(m.sess.Store().Conversations())
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	switch m.state {
	case stateError:
		return m.handleErrorKey(msg)
	case statePicker:
		return m.handlePickerKey(msg)
	case stateConfirm:
		return m.handleConfirmKey(msg)
	case stateAttach:
		return m.handleAttachKey(msg)
	case stateRename:
		return m.handleRenameKey(msg)
	case stateChat:
		return m.handleChatKey(msg)
	}
	return m, nil
}

func (m *Model) handleErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "r" {
		m.state = stateLoading
		m.loadErr = nil
		return m, m.sess.LoadCmd()
	}
	return m, nil
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+o":
		m.state = stateChat
		m.textarea.Focus()
	case "up", "k":
		m.picker.MoveUp()
	case "down", "j":
		m.picker.MoveDown()
	case "enter":
		if sel, ok := m.picker.Selected(); ok {
			return m, m.sess.OpenConversationCmd(sel.ID)
		}
	case "n":
		return m, m.sess.NewConversationCmd("")
	case "s":
		if sel, ok := m.picker.Selected(); ok {
			return m, m.sess.SetStarredCmd(sel.ID, !sel.Starred)
		}
	case "d":
		if sel, ok := m.picker.Selected(); ok {
			return m, m.sess.DeleteConversationCmd(sel.ID)
		}
	case "a":
		m.picker.ToggleArchived()
	case "r":
		if sel, ok := m.picker.Selected(); ok {
			m.renameID = sel.ID
			m.renameInput.SetValue(sel.Title)
			m.renameInput.Focus()
			m.state = stateRename
		}
	}
	return m, nil
}

func (m *Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = statePicker
		m.renameInput.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.renameInput.Value())
		m.state = statePicker
		m.renameInput.Blur()
		if title == "" {
			return m, nil
		}

		// Apply locally first; the backend write is asynchronous and a
		// failure surfaces as a passive notice.
		if conv := m.sess.Store().Active(); conv != nil && conv.ID == m.renameID {
			conv.SetTitle(title)
			m.sess.Store().UpsertConversation(conv.GetMeta())
		} else {
			for _, meta := range m.sess.Store().Conversations() {
				if meta.ID == m.renameID {
					meta.Title = title
					m.sess.Store().UpsertConversation(meta)
					break
				}
			}
		}
		m.picker.SetItems(m.sess.Store().Conversations())
		return m, m.sess.RenameConversationCmd(m.renameID, title)
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab":
		m.confirmChoice = m.confirmChoice.Toggle()
	case "enter":
		if m.confirmChoice == components.ChoiceConfirm {
			return m.applyConfirmedThinking()
		}
		return m.cancelConfirmation()
	case "esc", "n":
		return m.cancelConfirmation()
	case "y":
		m.confirmChoice = components.ChoiceConfirm
		return m.applyConfirmedThinking()
	}
	return m, nil
}

func (m *Model) applyConfirmedThinking() (tea.Model, tea.Cmd) {
	notices, err := m.sess.ApplyConfirmedThinking()
	if err != nil {
		m.toasts.AddError(err.Error())
		m.state = stateChat
		return m, nil
	}
	m.state = stateChat
	m.textarea.Focus()
	m.toasts.AddNotices(notices)
	return m, m.sess.PersistSettingsCmd()
}

func (m *Model) cancelConfirmation() (tea.Model, tea.Cmd) {
	if err := m.sess.Confirm().Cancel(); err != nil {
		m.toasts.AddError(err.Error())
	}
	m.state = stateChat
	m.textarea.Focus()
	return m, nil
}

func (m *Model) handleAttachKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateChat
		m.attachInput.Blur()
		m.textarea.Focus()
		return m, nil
	case "enter":
		m.stagePath(strings.TrimSpace(m.attachInput.Value()))
		m.attachInput.SetValue("")
		m.state = stateChat
		m.attachInput.Blur()
		m.textarea.Focus()
		m.resize(m.width, m.height)
		return m, nil
	}

	var cmd tea.Cmd
	m.attachInput, cmd = m.attachInput.Update(msg)
	return m, cmd
}

// stagePath stats a path and stages it, surfacing rejections as toasts.
func (m *Model) stagePath(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		m.toasts.AddError("Cannot read file: " + err.Error())
		return
	}
	if info.IsDir() {
		m.toasts.AddError("Directories cannot be attached")
		return
	}

	result := m.sess.Staging().Stage([]attach.Candidate{{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
	}})
	if note := result.Message(); note != "" {
		m.toasts.AddWarning(note)
	} else {
		m.toasts.AddStatus("Attached " + filepath.Base(path))
	}
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Send):
		return m.send()

	case key.Matches(msg, keys.Newline):
		m.textarea.InsertString("\n")
		return m, nil

	case key.Matches(msg, keys.Conversations):
		m.picker.SetItems(m.sess.Store().Conversations())
		m.state = statePicker
		m.textarea.Blur()
		return m, nil

	case key.Matches(msg, keys.NewConv):
		projectID := ""
		if p := m.sess.Store().ActiveProject(); p != nil {
			projectID = p.ID
		}
		return m, m.sess.NewConversationCmd(projectID)

	case key.Matches(msg, keys.Thinking):
		return m.toggleThinking()

	case key.Matches(msg, keys.WebSearch):
		eff, _ := m.sess.Resolve()
		return m.applySetting(m.sess.SetWebSearch(!eff.WebSearch))

	case key.Matches(msg, keys.KnowledgeBase):
		if m.sess.Store().ActiveProject() == nil {
			m.toasts.AddStatus("Knowledge base is only available inside a project")
			return m, nil
		}
		eff, _ := m.sess.Resolve()
		return m.applySetting(m.sess.SetKnowledgeBase(!eff.KnowledgeBase))

	case key.Matches(msg, keys.Attach):
		m.state = stateAttach
		m.textarea.Blur()
		m.attachInput.Focus()
		return m, nil

	case key.Matches(msg, keys.Unstage):
		staging := m.sess.Staging()
		if staging.IsEmpty() {
			return m, nil
		}
		names := staging.Names()
		last := staging.Count() - 1
		if err := staging.Unstage(last); err == nil {
			m.toasts.AddStatus("Removed " + names[last])
			m.resize(m.width, m.height)
		}
		return m, nil

	case key.Matches(msg, keys.Settings):
		m.showSettings = !m.showSettings
		return m, nil

	case key.Matches(msg, keys.Provider):
		return m.cycleProvider()

	case key.Matches(msg, keys.Export):
		m.exportTranscript()
		return m, nil

	case key.Matches(msg, keys.ToggleTraces):
		m.showThinking = !m.showThinking
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, keys.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, keys.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// =============================================================================
// SETTINGS ACTIONS
// =============================================================================

// toggleThinking flips extended thinking, routing through the confirmation
// machine when the provider requires an acknowledgment.
func (m *Model) toggleThinking() (tea.Model, tea.Cmd) {
	eff, _ := m.sess.Resolve()

	held, notices, err := m.sess.RequestThinkingToggle(!eff.ExtendedThinking)
	if err != nil {
		m.toasts.AddError(err.Error())
		return m, nil
	}
	if held {
		m.state = stateConfirm
		m.confirmChoice = components.ChoiceConfirm
		m.textarea.Blur()
		return m, nil
	}

	m.toasts.AddNotices(notices)
	return m, m.sess.PersistSettingsCmd()
}

// applySetting surfaces the outcome of a settings change and persists it.
func (m *Model) applySetting(notices []settings.Notice, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.toasts.AddError(err.Error())
		return m, nil
	}
	m.toasts.AddNotices(notices)
	return m, m.sess.PersistSettingsCmd()
}

// cycleProvider pins the next provider on the active conversation. A switch
// that would newly enable reasoning on a confirmation-required provider
// opens the confirmation prompt before anything applies.
func (m *Model) cycleProvider() (tea.Model, tea.Cmd) {
	conv := m.sess.Store().Active()
	if conv == nil {
		m.toasts.AddStatus("Open a conversation first")
		return m, nil
	}

	eff, _ := m.sess.Resolve()
	all := provider.All()
	next := all[0]
	for i, id := range all {
		if id == eff.Provider {
			next = all[(i+1)%len(all)]
			break
		}
	}

	held, notices, err := m.sess.SwitchProvider(next)
	if err != nil {
		m.toasts.AddError(err.Error())
		return m, nil
	}
	m.toasts.AddStatus("Provider: " + next.DisplayName())
	m.toasts.AddNotices(notices)
	if held {
		m.state = stateConfirm
		m.confirmChoice = components.ChoiceConfirm
		m.textarea.Blur()
	}
	return m, m.sess.PersistSettingsCmd()
}

// exportTranscript writes the active conversation to a Markdown file in
// the working directory.
func (m *Model) exportTranscript() {
	conv := m.sess.Store().Active()
	if conv == nil || conv.IsEmpty() {
		m.toasts.AddStatus("Nothing to export")
		return
	}

	opts := export.DefaultOptions()
	opts.IncludeThinking = m.showThinking
	path, err := export.ExportMarkdown(conv, opts)
	if err != nil {
		m.toasts.AddError("Export failed: " + err.Error())
		return
	}
	m.toasts.AddStatus("Exported to " + path)
}

// =============================================================================
// SEND
// =============================================================================

// send stages the draft and fires the chat request. An empty draft with
// staged files still sends; an empty draft with nothing staged is ignored.
func (m *Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.textarea.Value())
	if text == "" && m.sess.Staging().IsEmpty() {
		return m, nil
	}

	cmd, err := m.sess.SendCmd(text)
	if err != nil {
		m.toasts.AddError(err.Error())
		return m, nil
	}

	m.textarea.Reset()
	m.refreshTranscript()
	m.resize(m.width, m.height)
	return m, tea.Batch(cmd, m.spinner.Start("Waiting for reply"))
}
