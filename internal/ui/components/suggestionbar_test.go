// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

func TestSuggestionBarAddAndClear(t *testing.T) {
	sb := NewSuggestionBar(styles.NewTheme())

	if sb.HasSuggestions() {
		t.Error("new bar should have no suggestions")
	}

	sb.Add(model.Suggestion{Label: "Generate a video", Action: model.ActionGenerateVideo})
	sb.Add(model.Suggestion{Label: "Quiz me", Action: model.ActionCreateQuiz})

	if len(sb.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(sb.Suggestions))
	}

	sb.Clear()
	if sb.HasSuggestions() {
		t.Error("Clear should remove all suggestions")
	}
	if sb.Selected != -1 {
		t.Errorf("Clear should reset selection, got %d", sb.Selected)
	}
}

func TestSuggestionBarCollapsesDuplicates(t *testing.T) {
	sb := NewSuggestionBar(styles.NewTheme())

	s := model.Suggestion{Label: "Generate a video", Action: model.ActionGenerateVideo}
	sb.Add(s)
	sb.Add(s)

	if len(sb.Suggestions) != 1 {
		t.Errorf("duplicate suggestion should be collapsed, got %d chips", len(sb.Suggestions))
	}

	// Same action with a different label is a distinct chip.
	sb.Add(model.Suggestion{Label: "Make a video about this", Action: model.ActionGenerateVideo})
	if len(sb.Suggestions) != 2 {
		t.Errorf("distinct label should add a chip, got %d", len(sb.Suggestions))
	}
}

func TestSuggestionBarCycling(t *testing.T) {
	sb := NewSuggestionBar(styles.NewTheme())
	sb.Add(model.Suggestion{Label: "a", Action: model.ActionGenerateVideo})
	sb.Add(model.Suggestion{Label: "b", Action: model.ActionCreateQuiz})
	sb.Add(model.Suggestion{Label: "c", Action: "SOMETHING_NEW"})

	if sb.Current() != nil {
		t.Error("no chip should be selected initially")
	}

	sb.CycleNext()
	if got := sb.Current(); got == nil || got.Label != "a" {
		t.Errorf("first CycleNext should select chip a, got %+v", got)
	}

	sb.CycleNext()
	sb.CycleNext()
	if got := sb.Current(); got == nil || got.Label != "c" {
		t.Errorf("expected chip c, got %+v", got)
	}

	// Wraps back to the first chip.
	sb.CycleNext()
	if got := sb.Current(); got == nil || got.Label != "a" {
		t.Errorf("CycleNext should wrap to chip a, got %+v", got)
	}

	sb.CyclePrev()
	if got := sb.Current(); got == nil || got.Label != "c" {
		t.Errorf("CyclePrev should wrap to chip c, got %+v", got)
	}

	sb.Deselect()
	if sb.Current() != nil {
		t.Error("Deselect should clear the selection")
	}
}

func TestSuggestionBarCycleOnEmptyBar(t *testing.T) {
	sb := NewSuggestionBar(styles.NewTheme())
	sb.CycleNext()
	sb.CyclePrev()
	if sb.Current() != nil {
		t.Error("cycling an empty bar should not select anything")
	}
}

func TestSuggestionBarView(t *testing.T) {
	sb := NewSuggestionBar(styles.NewTheme())

	if sb.View() != "" {
		t.Error("empty bar should render nothing")
	}

	sb.Add(model.Suggestion{Label: "Generate a video", Action: model.ActionGenerateVideo})
	out := sb.View()

	if !strings.Contains(out, "Generate a video") {
		t.Errorf("view should contain the chip label: %q", out)
	}
	if !strings.Contains(out, "tab to select") {
		t.Errorf("view should contain the selection hint: %q", out)
	}
}
