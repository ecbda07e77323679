// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the HTTP client for the tutoring service API.
package tutor

// =============================================================================
// QUERY TYPES
// =============================================================================

// QueryRequest is the body of POST {base}/query.
type QueryRequest struct {
	Question    string         `json:"question"`
	ChatHistory []HistoryEntry `json:"chat_history"`
}

// HistoryEntry is one prior conversation turn sent as context.
// The field names match the service wire format exactly.
type HistoryEntry struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

// =============================================================================
// STREAM EVENT TYPES
// =============================================================================

// EventType is the discriminator tag on stream records.
type EventType string

const (
	// EventContentDelta appends text to the in-progress answer.
	EventContentDelta EventType = "content_delta"
	// EventSuggestion offers a follow-up action chip.
	EventSuggestion EventType = "suggestion"
	// EventVideoTrigger asks the client to start a video job from text.
	EventVideoTrigger EventType = "video_trigger"
	// EventVideoJobStarted attaches to a job the server already started.
	EventVideoJobStarted EventType = "video_job_started"
	// EventError carries a fatal in-band error; the stream ends after it.
	EventError EventType = "error"
	// EventStreamEnd marks normal completion.
	EventStreamEnd EventType = "stream_end"
)

// Known reports whether the type is one this client handles.
func (t EventType) Known() bool {
	switch t {
	case EventContentDelta, EventSuggestion, EventVideoTrigger,
		EventVideoJobStarted, EventError, EventStreamEnd:
		return true
	}
	return false
}

// StreamEvent is a single typed JSON record from the answer stream.
// Which fields are populated depends on Type: content_delta, video_trigger,
// video_job_started, and error all use Data; suggestion uses Payload.
type StreamEvent struct {
	Type    EventType          `json:"type"`
	Data    string             `json:"data,omitempty"`
	Payload *SuggestionPayload `json:"payload,omitempty"`
}

// SuggestionPayload is the body of a suggestion record.
type SuggestionPayload struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// =============================================================================
// VIDEO ENDPOINT TYPES
// =============================================================================

// GenerateVideoRequest is the body of POST {base}/generate-video.
type GenerateVideoRequest struct {
	TextContent string `json:"text_content"`
}

// GenerateVideoResponse is the success body of generate-video.
// Error responses carry Detail instead of JobID.
type GenerateVideoResponse struct {
	JobID  string `json:"job_id"`
	Detail string `json:"detail,omitempty"`
}

// VideoStatusResponse is the body of GET {base}/video-status/{jobID}.
type VideoStatusResponse struct {
	Status   string `json:"status"`
	VideoURL string `json:"video_url,omitempty"`
	Error    string `json:"error,omitempty"`
}
