// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/atelier-tui/internal/ui/components"
	"github.com/jeranaias/atelier-tui/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen for the current state.
func (m *Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	switch m.state {
	case stateLoading:
		return m.viewLoading()
	case stateError:
		return m.viewError()
	case statePicker:
		return m.overlay(m.picker.View(m.theme))
	case stateRename:
		box := m.theme.ConvList.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.theme.SettingsTitle.Render("Rename conversation"),
			"",
			m.renameInput.View(),
			"",
			m.theme.ShortcutDesc.Render("enter save, esc cancel"),
		))
		return m.overlay(box)
	case stateConfirm:
		return components.RenderConfirmBox(m.theme, m.sess.Confirm(), m.confirmChoice)
	default:
		return m.viewChat()
	}
}

func (m *Model) viewLoading() string {
	msg := styles.RenderInfo("Connecting to backend...")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

func (m *Model) viewError() string {
	rows := []string{
		m.theme.ErrorTitle.Render(styles.StatusIndicators.Error + " Startup failed"),
		"",
		m.theme.ErrorMessage.Render(m.loadErr.Error()),
	}

	if len(m.recent) > 0 {
		rows = append(rows, "", m.theme.ConvMeta.Render("Recently opened (cached):"))
		for _, e := range m.recent {
			rows = append(rows, m.theme.ConvMeta.Render("  "+e.Title))
		}
	}
	rows = append(rows, "", m.theme.ShortcutDesc.Render("r retry, ctrl+c quit"))

	box := m.theme.ErrorBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// viewChat renders the main chat layout top to bottom: header, transcript,
// staged files, input, status bar.
func (m *Model) viewChat() string {
	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
	}

	if bar := components.RenderFileBar(m.theme, m.sess.Staging()); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, m.renderInput())

	if m.toasts.HasToasts() {
		sections = append(sections,
			components.RenderToastStack(m.toasts.GetToasts(), m.width, 0))
	}
	sections = append(sections, m.renderStatusBar())

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.showSettings {
		eff, _ := m.sess.Resolve()
		panel := components.RenderSettingsPanel(m.theme, eff, m.sess.Store().ActiveProject() != nil)
		return m.overlay(panel)
	}
	return view
}

func (m *Model) renderHeader() string {
	eff, _ := m.sess.Resolve()
	data := components.HeaderData{Provider: eff.Provider}
	if conv := m.sess.Store().Active(); conv != nil {
		data.Title = conv.GetTitle()
		data.Starred = conv.Starred
		data.Project = m.sess.Store().ActiveProject()
	}
	return components.RenderHeader(m.theme, data)
}

func (m *Model) renderInput() string {
	input := m.textarea.View()
	if m.state == stateAttach {
		input = m.attachInput.View()
	}

	var footer string
	if m.spinner.Active() {
		footer = m.spinner.View(m.theme)
	} else if n := len(m.textarea.Value()); n > 0 {
		footer = m.theme.CharCount.Render(fmt.Sprintf("%d chars", n))
	}

	if footer != "" {
		return m.theme.InputContainer.Render(
			lipgloss.JoinVertical(lipgloss.Left, input, footer))
	}
	return m.theme.InputContainer.Render(input)
}

func (m *Model) renderStatusBar() string {
	eff, _ := m.sess.Resolve()
	return components.RenderStatusBar(m.theme, components.StatusBarData{
		Effective: eff,
		InProject: m.sess.Store().ActiveProject() != nil,
		Sending:   m.sess.Pipeline().InFlight(),
		FileCount: m.sess.Staging().Count(),
		Shortcuts: components.DefaultShortcuts,
	})
}

// overlay centers a panel over a blank screen.
func (m *Model) overlay(panel string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}
