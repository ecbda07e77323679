// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the sage TUI application.

This package defines the color palette and theme system used throughout the
application. All colors use Lip Gloss AdaptiveColor for automatic light/dark
terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Purple - Primary accent for assistant messages and video cards
  - Cyan - Brand color for info, commands, and suggestion chips
  - Emerald - Success states and completed video jobs
  - Amber - Warnings, in-progress jobs, and timeouts
  - Rose - Errors and failed jobs

## Semantic Colors

Message bubbles and UI elements use semantic color tokens:

	UserBubbleBg      - Background for user messages
	UserBubbleFg      - Text color for user messages
	AssistantBubbleBg - Background for assistant messages
	AssistantBubbleFg - Text color for assistant messages

## Text Colors

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}
	if theme.HasTrueColor {
		// Terminal supports 16M colors
	}

# Usage Example

	import "github.com/jeranaias/sage-tui/internal/ui/styles"

	headerStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)

	theme := styles.NewTheme()
	chip := theme.SuggestionChip.Render("Generate a video")
*/
package styles
