// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface functionality.
// This file contains shared helper functions used across multiple CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/sage-tui/internal/config"
	"github.com/jeranaias/sage-tui/internal/tutor"
)

// newTutorClient builds a tutor client from config plus CLI overrides.
// An empty base URL is allowed here; calls fail with ErrNoBaseURL and
// each command turns that into a setup hint.
func newTutorClient(cfg *config.Config, args Args) *tutor.Client {
	baseURL := cfg.API.URL
	if args.APIURL != "" {
		baseURL = args.APIURL
	}

	return tutor.NewClient(&tutor.ClientConfig{
		BaseURL:       baseURL,
		Timeout:       time.Duration(cfg.API.TimeoutSecs) * time.Second,
		StreamTimeout: time.Duration(cfg.API.StreamTimeoutSecs) * time.Second,
	})
}

// noBaseURLHint is the message shown when no tutor endpoint is configured.
const noBaseURLHint = `no tutor service configured

Set the endpoint with one of:
  sage config set api.url http://localhost:8000
  export SAGE_API_URL=http://localhost:8000`

// friendlyClientError converts tutor client errors into actionable messages.
func friendlyClientError(err error, baseURL string) error {
	switch {
	case tutor.IsNoBaseURL(err):
		return fmt.Errorf("%s", noBaseURLHint)
	case tutor.IsUnreachable(err):
		return fmt.Errorf("cannot reach the tutor service at %s (is it running?)", baseURL)
	case tutor.IsTimeout(err):
		return fmt.Errorf("the tutor service at %s timed out", baseURL)
	default:
		return err
	}
}

// formatDurationShort formats a short duration string.
func formatDurationShort(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", m, s)
}

// formatNumber formats an integer with commas for thousands.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	s := fmt.Sprintf("%d", n)
	result := make([]byte, 0, len(s)+len(s)/3)

	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}

	return string(result)
}

// outputJSON outputs data as indented JSON on stdout.
func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
