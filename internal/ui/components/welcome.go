// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN MODEL
// =============================================================================

// Welcome is the welcome screen shown before the first question.
type Welcome struct {
	version  string
	endpoint string

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetEndpoint sets the displayed backend endpoint.
func (w *Welcome) SetEndpoint(endpoint string) {
	w.endpoint = endpoint
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

// View renders the welcome screen. Adapts to terminal size, minimum 80x24.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 62
	if width < 70 {
		boxWidth = width - 8
	}
	if boxWidth < 40 {
		boxWidth = 40
	}
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	horizontalPadding := 4
	verticalPadding := 1
	if width < 70 {
		horizontalPadding = 2
	}

	boxOverhead := 2 + 2*verticalPadding
	availableContentLines := height - boxOverhead

	var content string
	if availableContentLines >= 18 {
		content = w.renderLogo()
		content += "\n\n" + w.renderVersion()
		content += "\n\n" + w.renderSystemInfo()
		content += "\n\n" + w.renderPressKey()
	} else if availableContentLines >= 12 {
		content = w.renderLogo()
		content += "\n" + w.renderVersion()
		content += "\n" + w.renderSystemInfo()
		content += "\n" + w.renderPressKey()
	} else {
		content = w.renderLogoCompact()
		content += "\n" + w.renderSystemInfo()
		content += "\n" + w.renderPressKey()
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Purple).
		Padding(verticalPadding, horizontalPadding).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	boxHeight := lipgloss.Height(box)

	// Align top rather than cutting the top of an oversized box.
	if boxHeight >= height {
		return lipgloss.Place(
			width, height,
			lipgloss.Center, lipgloss.Top,
			box,
		)
	}

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// renderLogo renders the ASCII art logo.
func (w Welcome) renderLogo() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	if w.width >= 60 {
		logo := `  ____   __ _   __ _   ___
 / ___| / _` + "`" + ` | / _` + "`" + ` | / _ \
 \___ \| (_| || (_| ||  __/
 |___/  \__,_| \__, | \___|
               |___/       `
		return logoStyle.Render(logo)
	}

	return w.renderLogoCompact()
}

// renderLogoCompact renders a compact text-based logo.
func (w Welcome) renderLogoCompact() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	if w.width >= 40 {
		return logoStyle.Render(`+--------------------+
|       sage         |
+--------------------+`)
	}

	return logoStyle.Render("sage - AI Tutor")
}

// renderVersion renders the version subtitle.
func (w Welcome) renderVersion() string {
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("AI Tutor v" + w.version)
}

// renderSystemInfo renders the backend endpoint line.
func (w Welcome) renderSystemInfo() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	endpoint := w.endpoint
	var valueStyle lipgloss.Style
	if endpoint == "" {
		endpoint = "not configured"
		valueStyle = lipgloss.NewStyle().
			Foreground(styles.WarningHighContrast).
			Bold(true)
	} else {
		valueStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
	}

	return labelStyle.Render("Backend: ") + valueStyle.Render(endpoint)
}

// renderPressKey renders the call to action.
func (w Welcome) renderPressKey() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Bold(true)

	textStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	return textStyle.Render("Type a question and press ") +
		keyStyle.Render("Enter") +
		textStyle.Render(" to begin")
}
