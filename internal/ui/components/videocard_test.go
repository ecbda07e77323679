// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/ui/styles"
)

func TestVideoCardRequested(t *testing.T) {
	job := model.NewVideoJob("magnets attract iron")
	vc := NewVideoCard(job, 24, styles.NewTheme())

	out := vc.View()
	if !strings.Contains(out, "Video Lesson") {
		t.Errorf("card should have a title: %q", out)
	}
	if !strings.Contains(out, "Requesting video") {
		t.Errorf("requested state should show the request label: %q", out)
	}
}

func TestVideoCardShowsServerStatusVerbatim(t *testing.T) {
	job := model.NewVideoJob("src")
	job.JobID = "job-1"
	job.SetStatus("RENDERING")
	job.Attempts = 12

	vc := NewVideoCard(job, 24, styles.NewTheme())
	out := vc.View()

	if !strings.Contains(out, "RENDERING") {
		t.Errorf("unknown server status should be shown verbatim: %q", out)
	}
	// Poll progress bar appears once attempts are counted.
	if !strings.Contains(out, "#") {
		t.Errorf("progress bar should show filled segments at 12/24 attempts: %q", out)
	}
}

func TestVideoCardComplete(t *testing.T) {
	job := model.NewVideoJob("src")
	job.Complete("https://cdn.example.com/v/abc.mp4")

	vc := NewVideoCard(job, 24, styles.NewTheme())
	out := vc.View()

	if !strings.Contains(out, "https://cdn.example.com/v/abc.mp4") {
		t.Errorf("complete card should show the video URL: %q", out)
	}
	if !strings.Contains(out, "ready") {
		t.Errorf("complete card should announce readiness: %q", out)
	}
}

func TestVideoCardFailed(t *testing.T) {
	job := model.NewVideoJob("src")
	job.Fail("render farm exploded")

	vc := NewVideoCard(job, 24, styles.NewTheme())
	out := vc.View()

	if !strings.Contains(out, "render farm exploded") {
		t.Errorf("failed card should show the server detail: %q", out)
	}
}

func TestVideoCardFailedWithoutDetail(t *testing.T) {
	job := model.NewVideoJob("src")
	job.Fail("")

	vc := NewVideoCard(job, 24, styles.NewTheme())
	out := vc.View()

	if !strings.Contains(out, "video generation failed") {
		t.Errorf("failed card should fall back to a generic message: %q", out)
	}
}

func TestVideoCardTimedOut(t *testing.T) {
	job := model.NewVideoJob("src")
	job.SetStatus(model.StatusTimedOut)

	vc := NewVideoCard(job, 24, styles.NewTheme())
	out := vc.View()

	if !strings.Contains(out, "longer than expected") {
		t.Errorf("timed out card should explain the timeout: %q", out)
	}
}

func TestVideoCardNilJob(t *testing.T) {
	vc := NewVideoCard(nil, 24, styles.NewTheme())
	if vc.View() != "" {
		t.Error("card without a job should render nothing")
	}
}
