// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// SUGGESTION TYPE
// =============================================================================

// SuggestionAction identifies what a suggestion chip does when activated.
// Actions arrive from the tutor service as opaque strings; unknown values
// are kept verbatim so the UI can still render the chip.
type SuggestionAction string

const (
	// ActionGenerateVideo requests an explainer video for the current answer.
	ActionGenerateVideo SuggestionAction = "GENERATE_VIDEO"
	// ActionCreateQuiz requests a quiz on the current topic.
	ActionCreateQuiz SuggestionAction = "CREATE_QUIZ"
)

// Known reports whether the action is one the client implements.
func (a SuggestionAction) Known() bool {
	switch a {
	case ActionGenerateVideo, ActionCreateQuiz:
		return true
	}
	return false
}

// Suggestion is a follow-up action offered by the tutor alongside an answer.
type Suggestion struct {
	// Label is the human-readable chip text, e.g. "Generate a video".
	Label string `json:"label"`
	// Action selects the behavior when the chip is activated.
	Action SuggestionAction `json:"action"`
}
