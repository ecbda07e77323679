// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the HTTP client for the tutoring service API.
package tutor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// collect runs the reader to completion and returns the events seen.
func collect(t *testing.T, stream string) []StreamEvent {
	t.Helper()

	var events []StreamEvent
	reader := NewStreamReader(strings.NewReader(stream))
	err := reader.Process(context.Background(), func(ev StreamEvent) {
		events = append(events, ev)
	})
	require.NoError(t, err)
	return events
}

// =============================================================================
// STREAM READER TESTS
// =============================================================================

func TestStreamReader_DeltasConcatenateInOrder(t *testing.T) {
	stream := `data: {"type":"content_delta","data":"A magnet"}
data: {"type":"content_delta","data":" attracts iron."}
data: {"type":"stream_end"}
`
	reader := NewStreamReader(strings.NewReader(stream))

	var text strings.Builder
	err := reader.Process(context.Background(), func(ev StreamEvent) {
		if ev.Type == EventContentDelta {
			text.WriteString(ev.Data)
		}
	})

	require.NoError(t, err)
	require.Equal(t, "A magnet attracts iron.", text.String())
	require.Equal(t, "A magnet attracts iron.", reader.GetAccumulated())
	require.Equal(t, 2, reader.GetDeltaCount())
}

func TestStreamReader_MalformedLineDoesNotAbort(t *testing.T) {
	stream := `data: {"type":"content_delta","data":"good "}
data: {not json at all
data: {"type":"content_delta","data":"still good"}
data: {"type":"stream_end"}
`
	events := collect(t, stream)

	require.Len(t, events, 3)
	require.Equal(t, EventContentDelta, events[0].Type)
	require.Equal(t, EventContentDelta, events[1].Type)
	require.Equal(t, EventStreamEnd, events[2].Type)
	require.Equal(t, "good still good", events[0].Data+events[1].Data)
}

func TestStreamReader_UnknownTypeIgnored(t *testing.T) {
	stream := `data: {"type":"telemetry","data":"ignored"}
data: {"type":"content_delta","data":"text"}
data: {"type":"stream_end"}
`
	events := collect(t, stream)

	require.Len(t, events, 2)
	require.Equal(t, EventContentDelta, events[0].Type)
}

func TestStreamReader_SuggestionPayload(t *testing.T) {
	stream := `data: {"type":"suggestion","payload":{"label":"Generate a video","action":"GENERATE_VIDEO"}}
data: {"type":"stream_end"}
`
	events := collect(t, stream)

	require.Len(t, events, 2)
	require.NotNil(t, events[0].Payload)
	require.Equal(t, "Generate a video", events[0].Payload.Label)
	require.Equal(t, "GENERATE_VIDEO", events[0].Payload.Action)
}

func TestStreamReader_ErrorRecordEndsStream(t *testing.T) {
	stream := `data: {"type":"content_delta","data":"partial"}
data: {"type":"error","data":"model overloaded"}
data: {"type":"content_delta","data":"never delivered"}
`
	events := collect(t, stream)

	// The error record is delivered and nothing after it
	require.Len(t, events, 2)
	require.Equal(t, EventError, events[1].Type)
	require.Equal(t, "model overloaded", events[1].Data)
}

func TestStreamReader_ConnectionCloseCompletes(t *testing.T) {
	// No stream_end record; EOF alone must complete without error
	stream := `data: {"type":"content_delta","data":"whole answer"}
`
	events := collect(t, stream)

	require.Len(t, events, 1)
	require.Equal(t, "whole answer", events[0].Data)
}

func TestStreamReader_SkipsBlanksAndComments(t *testing.T) {
	stream := "\n: keep-alive\n\ndata: {\"type\":\"stream_end\"}\n"
	events := collect(t, stream)

	require.Len(t, events, 1)
	require.Equal(t, EventStreamEnd, events[0].Type)
}

func TestStreamReader_BareJSONWithoutPrefix(t *testing.T) {
	// Some server variants omit the data: field prefix
	stream := `{"type":"content_delta","data":"bare"}
{"type":"stream_end"}
`
	events := collect(t, stream)

	require.Len(t, events, 2)
	require.Equal(t, "bare", events[0].Data)
}

func TestStreamReader_LastLineWithoutNewline(t *testing.T) {
	stream := `data: {"type":"content_delta","data":"tail"}`
	events := collect(t, stream)

	require.Len(t, events, 1)
	require.Equal(t, "tail", events[0].Data)
}

func TestStreamReader_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewStreamReader(strings.NewReader(`data: {"type":"stream_end"}` + "\n"))
	err := reader.Process(ctx, func(StreamEvent) {})

	require.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// EVENT TYPE TESTS
// =============================================================================

func TestEventType_Known(t *testing.T) {
	known := []EventType{
		EventContentDelta, EventSuggestion, EventVideoTrigger,
		EventVideoJobStarted, EventError, EventStreamEnd,
	}
	for _, et := range known {
		require.True(t, et.Known(), "%s should be known", et)
	}

	require.False(t, EventType("telemetry").Known())
	require.False(t, EventType("").Known())
}
