// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// VIDEO JOB STATUS
// =============================================================================

// VideoStatus is the lifecycle state of an asynchronous video job.
// Non-terminal states other than REQUESTED come from the server verbatim
// (e.g. "PENDING", "RENDERING") and are shown to the user as-is.
type VideoStatus string

const (
	// StatusRequested is set locally between the generate call and the
	// first successful status poll.
	StatusRequested VideoStatus = "REQUESTED"
	// StatusComplete means the video is ready and URL is set.
	StatusComplete VideoStatus = "COMPLETE"
	// StatusFailed means the server reported a failure, or a status
	// poll failed at the transport level.
	StatusFailed VideoStatus = "FAILED"
	// StatusTimedOut means the poll budget was exhausted before the
	// job reached a terminal server state.
	StatusTimedOut VideoStatus = "TIMED_OUT"
)

// IsTerminal reports whether the status ends polling.
func (s VideoStatus) IsTerminal() bool {
	switch s {
	case StatusComplete, StatusFailed, StatusTimedOut:
		return true
	}
	return false
}

// =============================================================================
// VIDEO JOB TYPE
// =============================================================================

// VideoJob tracks one asynchronous video generation request.
type VideoJob struct {
	// ID identifies the job locally, independent of the server job ID.
	ID string `json:"id"`
	// JobID is the server-assigned identifier used for status polls.
	JobID string `json:"job_id"`
	// SourceText is the answer text the video is generated from.
	SourceText string `json:"source_text"`

	Status VideoStatus `json:"status"`
	// URL is set when Status is COMPLETE.
	URL string `json:"url,omitempty"`
	// Detail carries the server error message when Status is FAILED.
	Detail string `json:"detail,omitempty"`

	Attempts  int       `json:"attempts"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewVideoJob creates a job in the REQUESTED state for the given source text.
func NewVideoJob(sourceText string) *VideoJob {
	now := time.Now()
	return &VideoJob{
		ID:         uuid.NewString(),
		SourceText: sourceText,
		Status:     StatusRequested,
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

// SetStatus updates the job state and timestamp.
func (j *VideoJob) SetStatus(status VideoStatus) {
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Complete marks the job finished with the given video URL.
func (j *VideoJob) Complete(url string) {
	j.URL = url
	j.SetStatus(StatusComplete)
}

// Fail marks the job failed with a server-provided detail message.
func (j *VideoJob) Fail(detail string) {
	j.Detail = detail
	j.SetStatus(StatusFailed)
}

// IsDone reports whether the job reached a terminal state.
func (j *VideoJob) IsDone() bool {
	return j.Status.IsTerminal()
}
