// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the rendering logic for the chat interface: the main
// vertical layout, the message list, the input line, and the help overlay.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sage-tui/internal/ui/components"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat view.
// Layout: header + messages (viewport) + video card + suggestion chips +
// error box + input + status bar. Total height must equal m.height exactly.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	if m.conversation.IsEmpty() && m.videoJob == nil {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderHeader(),
			m.welcomeBody(),
			m.renderInput(),
			m.statusBar.View(),
		)
	}

	header := m.renderHeader()
	chrome := m.renderChrome()
	input := m.renderInput()
	status := m.statusBar.View()

	// The viewport owns whatever vertical space the fixed chrome leaves.
	available := m.height -
		lipgloss.Height(header) -
		lipgloss.Height(input) -
		lipgloss.Height(status)
	if chrome != "" {
		available -= lipgloss.Height(chrome)
	}
	if available < 1 {
		available = 1
	}

	messages := m.viewport.View()
	if lipgloss.Height(messages) != available {
		messages = lipgloss.NewStyle().
			Height(available).
			MaxHeight(available).
			Width(m.width).
			Render(messages)
	}

	sections := []string{header, messages}
	if chrome != "" {
		sections = append(sections, chrome)
	}
	sections = append(sections, input, status)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader picks the full or compact header depending on space.
func (m Model) renderHeader() string {
	if m.width < 60 || m.height < 20 {
		return m.header.ViewCompact()
	}
	return m.header.View()
}

// renderChrome renders the stack between the messages and the input: the
// video card, the suggestion chips, and any error box. Empty when none of
// them is visible.
func (m Model) renderChrome() string {
	var parts []string

	if m.videoJob != nil {
		if card := m.videoCard.View(); card != "" {
			parts = append(parts, card)
		}
	}

	if m.suggestions.HasSuggestions() {
		parts = append(parts, m.suggestions.View())
	}

	if m.lastError != nil {
		parts = append(parts, m.renderErrorBox())
	}

	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// welcomeBody renders the welcome screen sized to fill the viewport area.
func (m Model) welcomeBody() string {
	header := m.renderHeader()
	input := m.renderInput()
	status := m.statusBar.View()

	available := m.height -
		lipgloss.Height(header) -
		lipgloss.Height(input) -
		lipgloss.Height(status)
	if available < 1 {
		available = 1
	}

	w := m.welcome
	w.SetSize(m.width, available)
	body := w.View()

	return lipgloss.NewStyle().
		Height(available).
		MaxHeight(available).
		Width(m.width).
		Render(body)
}

// =============================================================================
// VIEWPORT CONTENT
// =============================================================================

// refreshViewport rebuilds the message list and re-sizes the viewport.
// Called whenever conversation content or layout changes.
func (m *Model) refreshViewport() {
	m.viewport.Width = m.width
	m.viewport.Height = m.viewportHeight()

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if atBottom || m.state == StateStreaming {
		m.viewport.GotoBottom()
	}
}

// viewportHeight computes the rows left for messages after the fixed chrome.
func (m Model) viewportHeight() int {
	if m.height == 0 {
		return 20
	}

	h := m.height -
		lipgloss.Height(m.renderHeader()) -
		lipgloss.Height(m.renderInput()) -
		lipgloss.Height(m.statusBar.View())
	if chrome := m.renderChrome(); chrome != "" {
		h -= lipgloss.Height(chrome)
	}
	if h < 1 {
		h = 1
	}
	return h
}

// renderMessages renders the full conversation transcript.
func (m Model) renderMessages() string {
	messages := m.conversation.GetHistory()
	if len(messages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(messages)+1)
	for i, msg := range messages {
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(m.width)
		bubble.SetIsLatest(i == len(messages)-1)
		bubble.Streaming = msg.IsStreaming && m.state == StateStreaming
		if rendered := bubble.View(); rendered != "" {
			parts = append(parts, rendered)
		}
	}

	if m.state == StateStreaming && m.isThinking {
		parts = append(parts, m.renderThinking())
	}

	return strings.Join(parts, "\n")
}

// renderThinking renders the animated indicator shown between submitting a
// question and the first content delta.
func (m Model) renderThinking() string {
	spin := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render(m.spinner.View())

	label := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render("Thinking")

	dots := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("...")

	return lipgloss.NewStyle().
		MarginLeft(2).
		Render(spin + " " + label + dots)
}

// =============================================================================
// INPUT AREA
// =============================================================================

// renderInput renders the input line with a top border. A streaming notice
// replaces nothing; the input stays visible but submits are ignored.
func (m Model) renderInput() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	border := lipgloss.NewStyle().
		Foreground(m.inputBorderColor()).
		Render(strings.Repeat("─", width))

	var notice string
	if m.state == StateStreaming {
		notice = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Render(" (answering...)")
	}

	lineWidth := width - 2
	if lineWidth < 10 {
		lineWidth = 10
	}
	inputLine := lipgloss.NewStyle().
		Width(lineWidth).
		Render(" " + m.input.View() + notice)

	return lipgloss.NewStyle().
		Height(2).
		MaxHeight(2).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, border, inputLine))
}

func (m Model) inputBorderColor() lipgloss.AdaptiveColor {
	switch m.state {
	case StateStreaming:
		return styles.Amber
	case StateError:
		return styles.Rose
	default:
		return styles.Purple
	}
}

// =============================================================================
// ERROR BOX
// =============================================================================

// renderErrorBox renders the current error with its suggestions inline,
// above the input so the transcript stays visible.
func (m Model) renderErrorBox() string {
	e := m.lastError
	if e == nil {
		return ""
	}

	display := components.NewErrorWithSuggestions(e.Title, e.Message, e.Suggestions)
	display.SetSize(m.width, 0)
	display.Show()
	return display.View()
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

// renderHelpOverlay renders the keyboard shortcuts overlay, shown when the
// user toggles help.
func (m Model) renderHelpOverlay() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	type helpItem struct {
		key  string
		desc string
	}

	sections := []struct {
		title string
		items []helpItem
	}{
		{"Conversation", []helpItem{
			{"Enter", "submit question / activate chip"},
			{"Esc", "cancel answer, deselect, or dismiss error"},
			{"Ctrl+N", "new conversation"},
		}},
		{"Suggestions", []helpItem{
			{"Tab", "select next suggestion chip"},
			{"Shift+Tab", "select previous suggestion chip"},
		}},
		{"Navigation", []helpItem{
			{"Up/Down", "scroll one line"},
			{"PgUp/PgDn", "scroll half a page"},
			{"Home/End", "jump to top / bottom"},
		}},
		{"Commands", []helpItem{
			{"/video", "make a video from the last answer"},
			{"/new", "start over"},
			{"/quit", "exit"},
		}},
		{"General", []helpItem{
			{"Ctrl+H", "toggle this help"},
			{"Ctrl+L", "redraw screen"},
			{"Ctrl+C", "quit"},
		}},
	}

	var sb strings.Builder
	sb.WriteString("Keyboard shortcuts\n")
	sb.WriteString(strings.Repeat("─", 35) + "\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(styles.Amber)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)

	for _, section := range sections {
		sb.WriteString(titleStyle.Render(section.title) + "\n")
		for _, item := range section.items {
			sb.WriteString(fmt.Sprintf("  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-12s", item.key)),
				descStyle.Render(item.desc)))
		}
		sb.WriteString("\n")
	}

	closeStyle := lipgloss.NewStyle().Foreground(styles.Overlay)
	sb.WriteString(closeStyle.Render("Press Ctrl+H or Esc to close"))

	boxWidth := 55
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Foreground(styles.TextPrimary).
		Padding(1, 2).
		Width(boxWidth).
		Render(sb.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
