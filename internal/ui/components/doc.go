// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the sage TUI application.

This package contains a collection of styled, interactive components built on
top of the Bubble Tea and Lip Gloss libraries. Each component is designed to
be visually consistent with the sage design language.

# Core Components

## Display Components

Header (header.go) - Application header with backend endpoint and connection state.
StatusBar (statusbar.go) - Bottom status bar with token count, video progress, and shortcuts.
MessageBubble (message.go) - Styled message bubbles for chat messages.
Welcome (welcome.go) - First-run welcome screen.

## Tutoring Components

SuggestionBar (suggestionbar.go) - Action chips offered by the tutor during a streamed answer.
VideoCard (videocard.go) - Status card for an asynchronous video generation job.

## Feedback

ErrorDisplay (error.go) - Error messages with category-specific suggestions.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	header := components.NewHeader(theme)
	header.SetWidth(80)
	header.SetEndpoint("localhost:8000")
	view := header.View()

# Bubble Tea Integration

Stateful components implement the Bubble Tea Model interface:

	type Component interface {
		Init() tea.Cmd
		Update(tea.Msg) (Component, tea.Cmd)
		View() string
	}
*/
package components
