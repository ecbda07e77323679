// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

// =============================================================================
// SUGGESTION BAR COMPONENT - Action chips offered by the tutor
// =============================================================================

// SuggestionBar renders the row of suggestion chips that arrive during a
// streamed answer. Chips are selectable with tab and activated with enter.
type SuggestionBar struct {
	Suggestions []model.Suggestion
	Selected    int // -1 means no chip is selected
	Width       int
	theme       *styles.Theme
}

// NewSuggestionBar creates an empty suggestion bar.
func NewSuggestionBar(theme *styles.Theme) *SuggestionBar {
	return &SuggestionBar{
		Selected: -1,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the available width.
func (sb *SuggestionBar) SetWidth(width int) {
	sb.Width = width
}

// Add appends a suggestion chip. Duplicate actions with the same label are
// collapsed so a re-sent suggestion does not stack up.
func (sb *SuggestionBar) Add(s model.Suggestion) {
	for _, existing := range sb.Suggestions {
		if existing.Label == s.Label && existing.Action == s.Action {
			return
		}
	}
	sb.Suggestions = append(sb.Suggestions, s)
}

// Clear removes all chips and resets the selection. Called when a new
// question is submitted.
func (sb *SuggestionBar) Clear() {
	sb.Suggestions = nil
	sb.Selected = -1
}

// HasSuggestions reports whether any chips are visible.
func (sb *SuggestionBar) HasSuggestions() bool {
	return len(sb.Suggestions) > 0
}

// CycleNext moves the selection to the next chip, wrapping around. With no
// selection it selects the first chip.
func (sb *SuggestionBar) CycleNext() {
	if len(sb.Suggestions) == 0 {
		return
	}
	sb.Selected = (sb.Selected + 1) % len(sb.Suggestions)
}

// CyclePrev moves the selection to the previous chip, wrapping around.
func (sb *SuggestionBar) CyclePrev() {
	if len(sb.Suggestions) == 0 {
		return
	}
	if sb.Selected <= 0 {
		sb.Selected = len(sb.Suggestions) - 1
		return
	}
	sb.Selected--
}

// Deselect clears the chip selection without removing chips.
func (sb *SuggestionBar) Deselect() {
	sb.Selected = -1
}

// Current returns the selected suggestion, or nil when none is selected.
func (sb *SuggestionBar) Current() *model.Suggestion {
	if sb.Selected < 0 || sb.Selected >= len(sb.Suggestions) {
		return nil
	}
	return &sb.Suggestions[sb.Selected]
}

// View renders the suggestion chips on a single row, with a hint line when a
// chip is selected.
func (sb *SuggestionBar) View() string {
	if len(sb.Suggestions) == 0 {
		return ""
	}

	var chips []string
	for i, s := range sb.Suggestions {
		style := sb.theme.SuggestionChip
		if i == sb.Selected {
			style = sb.theme.SuggestionSelected
		}
		chips = append(chips, style.Render(s.Label))
	}

	row := strings.Join(chips, " ")

	hint := sb.theme.SuggestionHint.Render("tab to select, enter to activate")

	return lipgloss.JoinVertical(lipgloss.Left, row, hint)
}
