// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// LineSpinner - Simple line rotation, used while waiting for the first token.
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - Classic three-dot animation, used on the video job card.
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// Frame returns the frame for the given tick index.
func (s SpinnerConfig) Frame(tick int) string {
	if len(s.Frames) == 0 {
		return ""
	}
	if tick < 0 {
		tick = -tick
	}
	return s.Frames[tick%len(s.Frames)]
}

// =============================================================================
// PROGRESS INDICATORS
// =============================================================================

// ProgressBar characters for the video poll progress display.
var (
	ProgressFull    = "#"
	ProgressEmpty   = "-"
	ProgressPartial = []string{".", ":", "+", "#", "#", "#", "#"}
)

// RenderProgressBar creates a progress bar string.
// width: total width of the bar in characters
// percent: 0-100 percentage complete
func RenderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filledWidth := float64(width) * percent / 100
	fullBlocks := int(filledWidth)
	partialIndex := int((filledWidth - float64(fullBlocks)) * float64(len(ProgressPartial)))

	var sb strings.Builder
	sb.Grow(width)

	for i := 0; i < fullBlocks && i < width; i++ {
		sb.WriteString(ProgressFull)
	}

	if fullBlocks < width && partialIndex > 0 {
		sb.WriteString(ProgressPartial[partialIndex-1])
		fullBlocks++
	}

	for i := fullBlocks; i < width; i++ {
		sb.WriteString(ProgressEmpty)
	}

	return sb.String()
}
