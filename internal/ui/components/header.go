// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for sage TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Title bar with sage branding
// =============================================================================

// ConnState represents the tutor backend connection state.
type ConnState int

const (
	ConnUnknown ConnState = iota
	ConnOnline
	ConnOffline
	ConnUnconfigured
)

// String returns the display string for the connection state.
func (c ConnState) String() string {
	switch c {
	case ConnOnline:
		return "ONLINE"
	case ConnOffline:
		return "OFFLINE"
	case ConnUnconfigured:
		return "NOT CONFIGURED"
	default:
		return "CONNECTING"
	}
}

// Header represents the title bar component.
type Header struct {
	Title    string // Main title (default: "sage")
	Endpoint string // Tutor backend host, shown in the subtitle
	Conn     ConnState
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "sage",
		Conn:  ConnUnknown,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetEndpoint updates the displayed backend host.
func (h *Header) SetEndpoint(endpoint string) {
	h.Endpoint = endpoint
}

// SetConn updates the connection state.
func (h *Header) SetConn(conn ConnState) {
	h.Conn = conn
}

// View renders the header component.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}

	// Inner width accounts for borders and padding.
	innerWidth := width - 6

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	subtitleParts := []string{}

	if h.Endpoint != "" {
		endpointStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, endpointStyle.Render(h.Endpoint))
	}

	connStyle := h.getConnStyle()
	subtitleParts = append(subtitleParts, connStyle.Render("["+h.Conn.String()+"]"))

	subtitle := strings.Join(subtitleParts, " ")

	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a compact single-line header for narrow terminals.
func (h *Header) ViewCompact() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}

	if h.Endpoint != "" {
		endpointStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, endpointStyle.Render(h.Endpoint))
	}

	connStyle := h.getConnStyle()
	parts = append(parts, connStyle.Render("["+h.Conn.String()+"]"))

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

// getConnStyle returns the style for the current connection state.
func (h *Header) getConnStyle() lipgloss.Style {
	switch h.Conn {
	case ConnOnline:
		return lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)
	case ConnOffline:
		return lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
	case ConnUnconfigured:
		return lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)
	default:
		return lipgloss.NewStyle().
			Foreground(styles.TextMuted)
	}
}
