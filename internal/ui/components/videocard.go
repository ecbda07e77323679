// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

// =============================================================================
// VIDEO CARD COMPONENT - Async video job status
// =============================================================================

// VideoCard renders the state of an asynchronous video generation job. It
// shows a spinner and poll progress while the job is running, the video URL
// once complete, and the failure detail otherwise.
type VideoCard struct {
	Job         *model.VideoJob
	MaxAttempts int
	Width       int
	tick        int
	theme       *styles.Theme
}

// NewVideoCard creates a card for the given job.
func NewVideoCard(job *model.VideoJob, maxAttempts int, theme *styles.Theme) *VideoCard {
	return &VideoCard{
		Job:         job,
		MaxAttempts: maxAttempts,
		Width:       80,
		theme:       theme,
	}
}

// SetWidth updates the available width.
func (vc *VideoCard) SetWidth(width int) {
	vc.Width = width
}

// Tick advances the card's spinner animation.
func (vc *VideoCard) Tick() {
	vc.tick++
}

// View renders the card.
func (vc *VideoCard) View() string {
	if vc.Job == nil {
		return ""
	}

	width := vc.Width - 8
	if width < 30 {
		width = 30
	}

	title := vc.theme.VideoTitle.Render("Video Lesson")

	var body string
	switch vc.Job.Status {
	case model.StatusComplete:
		body = vc.renderComplete()
	case model.StatusFailed:
		body = vc.renderFailed()
	case model.StatusTimedOut:
		body = vc.renderTimedOut()
	default:
		body = vc.renderInProgress()
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, body)

	return vc.theme.VideoCard.Width(width).Render(content)
}

func (vc *VideoCard) renderInProgress() string {
	frame := styles.DotsSpinner.Frame(vc.tick)
	spinner := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render(frame)

	label := "Requesting video"
	if vc.Job.Status != model.StatusRequested {
		// Server statuses like PENDING or RENDERING are shown verbatim.
		label = "Generating video (" + string(vc.Job.Status) + ")"
	}

	statusLine := vc.theme.VideoStatus.Render(label) + " " + spinner

	if vc.MaxAttempts <= 0 || vc.Job.Attempts <= 0 {
		return statusLine
	}

	percent := float64(vc.Job.Attempts) / float64(vc.MaxAttempts) * 100
	bar := styles.RenderProgressBar(20, percent)
	progress := vc.theme.VideoProgress.Render(bar)

	return lipgloss.JoinVertical(lipgloss.Left, statusLine, progress)
}

func (vc *VideoCard) renderComplete() string {
	status := vc.theme.VideoStatus.Render(styles.RenderSuccess("Your video is ready"))
	link := vc.theme.VideoLink.Render(vc.Job.URL)
	return lipgloss.JoinVertical(lipgloss.Left, status, link)
}

func (vc *VideoCard) renderFailed() string {
	detail := vc.Job.Detail
	if detail == "" {
		detail = "video generation failed"
	}
	return vc.theme.VideoError.Render(styles.RenderError(detail))
}

func (vc *VideoCard) renderTimedOut() string {
	msg := "Video is taking longer than expected. Try again later."
	return vc.theme.VideoError.Render(styles.RenderWarning(msg))
}
