// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusStreaming
	StatusThinking
	StatusPolling
	StatusError
	StatusIdle
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusStreaming:
		return "Streaming..."
	case StatusThinking:
		return "Thinking..."
	case StatusPolling:
		return "Video..."
	case StatusError:
		return "Error"
	case StatusIdle:
		return "Idle"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator for the status, distinct per state so the
// bar stays readable without color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusStreaming:
		return "~"
	case StatusThinking, StatusPolling:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusIdle:
		return "-"
	default:
		return "?"
	}
}

// StatusBar represents the bottom status bar.
type StatusBar struct {
	Conn          ConnState // Backend connection state
	Endpoint      string    // Backend host
	TokenCount    int       // Estimated session tokens
	Status        Status    // Current status
	Width         int       // Available width
	ShowShortcuts bool      // Show keyboard shortcuts

	// Video job progress, shown while a poll loop is active.
	VideoActive  bool
	VideoAttempt int
	VideoBudget  int

	theme *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Conn:          ConnUnknown,
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetConn updates the connection state.
func (s *StatusBar) SetConn(conn ConnState) {
	s.Conn = conn
}

// SetEndpoint updates the displayed backend host.
func (s *StatusBar) SetEndpoint(endpoint string) {
	s.Endpoint = endpoint
}

// SetTokenCount updates the estimated session token count.
func (s *StatusBar) SetTokenCount(count int) {
	s.TokenCount = count
}

// SetVideoProgress updates the video poll progress display.
func (s *StatusBar) SetVideoProgress(active bool, attempt, budget int) {
	s.VideoActive = active
	s.VideoAttempt = attempt
	s.VideoBudget = budget
}

// View renders the status bar.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals.
// Format: [C] video-bar status-icon
func (s *StatusBar) viewNarrow() string {
	parts := []string{}

	connStyle := s.getConnStyle()
	connChar := string([]rune(s.Conn.String())[0])
	parts = append(parts, connStyle.Render(connChar))

	connSection := "[" + strings.Join(parts, "|") + "]"

	videoSection := ""
	if s.VideoActive {
		videoSection = s.renderVideoBar(6)
	}

	statusStyle := s.getStatusStyle()
	statusText := statusStyle.Render(s.Status.Icon())

	separator := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" ")

	result := connSection + separator
	if videoSection != "" {
		result += videoSection + separator
	}
	result += statusText

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width).
		Render(result)
}

// viewMedium renders a medium-width status bar.
// Format: CONN | endpoint | tokens | video | Status
func (s *StatusBar) viewMedium() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	parts := []string{}

	connStyle := s.getConnStyle()
	parts = append(parts, connStyle.Render(s.Conn.String()))

	if s.Endpoint != "" {
		endpoint := s.Endpoint
		endpointRunes := []rune(endpoint)
		if len(endpointRunes) > 24 {
			endpoint = string(endpointRunes[:21]) + "..."
		}
		endpointStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		parts = append(parts, endpointStyle.Render(endpoint))
	}

	if s.TokenCount > 0 {
		tokenStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		parts = append(parts, tokenStyle.Render(fmt.Sprintf("%s tok", formatNumber(s.TokenCount))))
	}

	if s.VideoActive {
		videoLabel := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("Video:")
		parts = append(parts, videoLabel+" "+s.renderVideoBar(10))
	}

	statusStyle := s.getStatusStyle()
	parts = append(parts, statusStyle.Render(s.Status.String()))

	result := strings.Join(parts, separator)

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// viewWide renders a full-featured status bar for wide terminals.
// Format: endpoint | CONN | 1,234 tok ... Video: [###---] 12/24 ... Status  shortcuts
func (s *StatusBar) viewWide() string {
	leftParts := []string{}

	if s.Endpoint != "" {
		endpointStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		leftParts = append(leftParts, endpointStyle.Render(s.Endpoint))
	}

	connStyle := s.getConnStyle()
	leftParts = append(leftParts, connStyle.Render(s.Conn.String()))

	tokenStr := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(fmt.Sprintf("%s tok", formatNumber(s.TokenCount)))
	leftParts = append(leftParts, tokenStr)

	leftSep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")
	leftSection := strings.Join(leftParts, leftSep)

	centerSection := ""
	if s.VideoActive {
		videoLabel := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("Video: ")
		counter := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(fmt.Sprintf(" %d/%d", s.VideoAttempt, s.VideoBudget))
		centerSection = videoLabel + s.renderVideoBar(10) + counter
	}

	rightParts := []string{}

	statusStyle := s.getStatusStyle()
	rightParts = append(rightParts, statusStyle.Render(s.Status.String()))

	if s.ShowShortcuts {
		rightParts = append(rightParts, s.renderShortcuts())
	}

	rightSection := strings.Join(rightParts, " ")

	leftWidth := lipgloss.Width(leftSection)
	centerWidth := lipgloss.Width(centerSection)
	rightWidth := lipgloss.Width(rightSection)
	totalContent := leftWidth + centerWidth + rightWidth

	spacing := s.Width - totalContent - 4
	if spacing < 4 {
		spacing = 4
	}

	leftSpace := strings.Repeat(" ", spacing/2)
	rightSpace := strings.Repeat(" ", spacing-spacing/2)

	result := leftSection + leftSpace + centerSection + rightSpace + rightSection

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(styles.Overlay).
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// ==========================================================================
// HELPER RENDER METHODS
// ==========================================================================

// renderVideoBar renders the poll progress bar for the active video job.
func (s *StatusBar) renderVideoBar(width int) string {
	percent := 0.0
	if s.VideoBudget > 0 {
		percent = float64(s.VideoAttempt) / float64(s.VideoBudget) * 100
	}

	barColor := styles.Cyan
	if percent >= 90 {
		barColor = styles.Rose
	} else if percent >= 75 {
		barColor = styles.Amber
	}

	bar := styles.RenderProgressBar(width, percent)
	return "[" + lipgloss.NewStyle().Foreground(barColor).Render(bar) + "]"
}

// renderShortcuts renders the keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	shortcuts := []string{
		keyStyle.Render("Tab") + descStyle.Render(" chips"),
		keyStyle.Render("Ctrl+N") + descStyle.Render(" new"),
		keyStyle.Render("Ctrl+C") + descStyle.Render(" quit"),
	}

	return strings.Join(shortcuts, "  ")
}

// getStatusStyle returns the style for the current status.
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast)
	case StatusStreaming, StatusThinking, StatusPolling:
		return lipgloss.NewStyle().Foreground(styles.Purple)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// getConnStyle returns the style for the connection state.
func (s *StatusBar) getConnStyle() lipgloss.Style {
	switch s.Conn {
	case ConnOnline:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	case ConnOffline:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	case ConnUnconfigured:
		return lipgloss.NewStyle().Foreground(styles.WarningHighContrast).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

// formatNumber formats an integer with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}
	return result.String()
}
