// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sage-tui/internal/tutor"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

// =============================================================================
// ERROR CATEGORIES
// =============================================================================

// ErrorCategory classifies an error for display purposes.
type ErrorCategory string

const (
	CategoryUnknown    ErrorCategory = "Unknown"
	CategoryConnection ErrorCategory = "Connection"
	CategoryTimeout    ErrorCategory = "Timeout"
	CategoryServer     ErrorCategory = "Server"
	CategoryConfig     ErrorCategory = "Configuration"
	CategoryVideo      ErrorCategory = "Video"
)

// =============================================================================
// ERROR DISPLAY MODEL
// =============================================================================

// ErrorDisplay is a styled error message component.
type ErrorDisplay struct {
	category    ErrorCategory
	title       string
	message     string
	suggestions []string

	dismissible bool
	autoDismiss time.Duration
	isToast     bool

	visible   bool
	createdAt time.Time

	width  int
	height int
}

// NewError creates an error display with title and message.
func NewError(title, message string) ErrorDisplay {
	return ErrorDisplay{
		category:    CategoryUnknown,
		title:       title,
		message:     message,
		dismissible: true,
		visible:     true,
		createdAt:   time.Now(),
	}
}

// NewErrorWithSuggestions creates an error with helpful suggestions.
func NewErrorWithSuggestions(title, message string, suggestions []string) ErrorDisplay {
	e := NewError(title, message)
	e.suggestions = suggestions
	return e
}

// NewToastError creates a dismissible toast-style error.
func NewToastError(message string) ErrorDisplay {
	return ErrorDisplay{
		title:       "Error",
		message:     message,
		dismissible: true,
		isToast:     true,
		visible:     true,
		createdAt:   time.Now(),
		autoDismiss: 5 * time.Second,
	}
}

// NewTutorError builds an error display from a tutor client error, with
// category-specific suggestions.
func NewTutorError(err error) ErrorDisplay {
	switch {
	case tutor.IsNoBaseURL(err):
		e := NewErrorWithSuggestions(
			"Backend not configured",
			"sage does not know where your tutor backend is running.",
			[]string{
				"Set the endpoint: sage config set api.url http://localhost:8000",
				"Or export SAGE_API_URL before launching",
			},
		)
		e.category = CategoryConfig
		return e
	case tutor.IsUnreachable(err):
		e := NewErrorWithSuggestions(
			"Cannot reach the tutor backend",
			err.Error(),
			[]string{
				"Check that the backend is running",
				"Verify the endpoint with: sage config get api.url",
			},
		)
		e.category = CategoryConnection
		return e
	case tutor.IsTimeout(err):
		e := NewErrorWithSuggestions(
			"Request timed out",
			err.Error(),
			[]string{"The backend may be overloaded. Try again."},
		)
		e.category = CategoryTimeout
		return e
	default:
		e := NewError("Something went wrong", err.Error())
		e.category = CategoryServer
		return e
	}
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetCategory sets the error category.
func (e *ErrorDisplay) SetCategory(category ErrorCategory) {
	e.category = category
}

// SetAutoDismiss sets automatic dismissal duration.
func (e *ErrorDisplay) SetAutoDismiss(duration time.Duration) {
	e.autoDismiss = duration
}

// SetSize sets the display dimensions.
func (e *ErrorDisplay) SetSize(width, height int) {
	e.width = width
	e.height = height
}

// =============================================================================
// STATE MANAGEMENT
// =============================================================================

// Show displays the error.
func (e *ErrorDisplay) Show() {
	e.visible = true
	e.createdAt = time.Now()
}

// Hide hides the error.
func (e *ErrorDisplay) Hide() {
	e.visible = false
}

// IsVisible returns whether the error is visible.
func (e *ErrorDisplay) IsVisible() bool {
	return e.visible
}

// GetTitle returns the error title.
func (e *ErrorDisplay) GetTitle() string {
	return e.title
}

// GetMessage returns the error message.
func (e *ErrorDisplay) GetMessage() string {
	return e.message
}

// GetCategory returns the error category.
func (e *ErrorDisplay) GetCategory() ErrorCategory {
	return e.category
}

// ShouldAutoDismiss checks if auto-dismiss time has elapsed.
func (e *ErrorDisplay) ShouldAutoDismiss() bool {
	if e.autoDismiss == 0 {
		return false
	}
	return time.Since(e.createdAt) >= e.autoDismiss
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// ErrorAutoDismissMsg signals auto-dismissal.
type ErrorAutoDismissMsg struct{}

// Init initializes the error display.
func (e ErrorDisplay) Init() tea.Cmd {
	if e.autoDismiss > 0 {
		return tea.Tick(e.autoDismiss, func(t time.Time) tea.Msg {
			return ErrorAutoDismissMsg{}
		})
	}
	return nil
}

// Update handles messages.
func (e ErrorDisplay) Update(msg tea.Msg) (ErrorDisplay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height

	case tea.KeyMsg:
		if e.dismissible {
			switch msg.String() {
			case "esc", "enter", "q":
				e.Hide()
			}
		}

	case ErrorAutoDismissMsg:
		if e.autoDismiss > 0 {
			e.Hide()
		}
	}

	return e, nil
}

// View renders the error display.
func (e ErrorDisplay) View() string {
	if !e.visible {
		return ""
	}

	if e.isToast {
		return e.viewToast()
	}
	return e.viewBox()
}

// =============================================================================
// RENDER METHODS
// =============================================================================

// viewBox renders a full error box.
func (e ErrorDisplay) viewBox() string {
	width := e.width
	if width == 0 {
		width = 60
	}

	maxWidth := width - 8
	if maxWidth < 30 {
		maxWidth = 30
	}
	if maxWidth > 80 {
		maxWidth = 80
	}

	var parts []string

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.ErrorHighContrast).
		Bold(true)
	parts = append(parts, titleStyle.Render(styles.StatusIndicators.Error+" "+e.title))
	parts = append(parts, "")

	if e.message != "" {
		messageStyle := lipgloss.NewStyle().
			Foreground(styles.TextPrimary).
			Width(maxWidth - 4)
		parts = append(parts, messageStyle.Render(e.message))
		parts = append(parts, "")
	}

	if len(e.suggestions) > 0 {
		suggestionTitle := lipgloss.NewStyle().
			Foreground(styles.InfoHighContrast).
			Bold(true).
			Render("Suggestions:")
		parts = append(parts, suggestionTitle)

		bulletStyle := lipgloss.NewStyle().
			Foreground(styles.Cyan)
		textStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

		for _, suggestion := range e.suggestions {
			parts = append(parts, bulletStyle.Render("  * ")+textStyle.Render(suggestion))
		}
		parts = append(parts, "")
	}

	if e.dismissible {
		hintStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
		parts = append(parts, hintStyle.Render("[Enter] Dismiss"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	borderColor := styles.ErrorHighContrast
	switch e.category {
	case CategoryConfig:
		borderColor = styles.WarningHighContrast
	case CategoryTimeout:
		borderColor = styles.InfoHighContrast
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(maxWidth).
		Render(content)

	if e.height > 0 {
		return lipgloss.Place(
			e.width, e.height,
			lipgloss.Center, lipgloss.Center,
			box,
		)
	}

	return box
}

// viewToast renders a compact single-line toast.
func (e ErrorDisplay) viewToast() string {
	msg := e.message
	if msg == "" {
		msg = e.title
	}

	toastStyle := lipgloss.NewStyle().
		Foreground(styles.TextInverse).
		Background(styles.RoseDeep).
		Padding(0, 1)

	dismissHint := ""
	if e.dismissible {
		dismissHint = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render(" esc to dismiss")
	}

	return toastStyle.Render(strings.TrimSpace(styles.StatusIndicators.Error+" "+msg)) + dismissHint
}
