// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// video.go - Blocking video job wait for the one-shot CLI commands.
//
// The TUI consumes poll updates through its event loop; ask and chat
// block on the same poller and print each observed transition instead.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/sage-tui/internal/config"
	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/tutor"
	"github.com/jeranaias/sage-tui/internal/video"
)

// waitForVideo polls the job until a terminal status and returns the
// video URL on success. Progress lines go to stderr unless quiet.
func waitForVideo(ctx context.Context, client *tutor.Client, jobID string, quiet bool) (string, error) {
	cfg := config.Global()
	interval := time.Duration(cfg.Video.PollIntervalSecs) * time.Second
	poller := video.NewPoller(interval, cfg.Video.MaxPollAttempts)

	if !quiet {
		fmt.Fprintf(os.Stderr, "%s Rendering video (job %s, up to %s)...\n",
			chipStyle.Render("[Video]"), jobID,
			formatDurationShort(interval*time.Duration(cfg.Video.MaxPollAttempts)))
	}

	updates := make(chan video.Update, 8)
	poller.Start(ctx, jobID, client.VideoStatus, func(u video.Update) {
		updates <- u
	})
	defer poller.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case u := <-updates:
			if !quiet && !u.Terminal() {
				fmt.Fprintf(os.Stderr, "  %s attempt %d/%d: %s\n",
					hintStyle.Render("poll"), u.Attempt, cfg.Video.MaxPollAttempts, u.Status)
			}

			switch u.Status {
			case model.StatusComplete:
				return u.URL, nil
			case model.StatusFailed:
				if u.Detail != "" {
					return "", fmt.Errorf("video generation failed: %s", u.Detail)
				}
				return "", fmt.Errorf("video generation failed")
			case model.StatusTimedOut:
				return "", fmt.Errorf("video generation timed out after %d attempts", u.Attempt)
			}
		}
	}
}
