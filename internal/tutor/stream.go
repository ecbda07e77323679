// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the HTTP client for the tutoring service API.
package tutor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/sage-tui/internal/logging"
)

// dataPrefix marks SSE payload lines.
var dataPrefix = []byte("data:")

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader handles line-by-line parsing of the SSE-style answer stream.
// Payload lines are prefixed "data: " and carry one JSON record each.
type StreamReader struct {
	reader *bufio.Reader
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator strings.Builder
	deltaCount  int
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(r),
	}
}

// EventCallback is called for each event received during streaming.
type EventCallback func(event StreamEvent)

// Process reads the stream and calls the callback for each event.
// Blocks until the stream is complete or the context is cancelled.
// Both an explicit stream_end record and connection close count as
// normal completion, whichever arrives first.
func (s *StreamReader) Process(ctx context.Context, callback EventCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			event, err := s.readEvent()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}

			if event == nil {
				continue
			}

			callback(*event)
			if event.Type == EventStreamEnd || event.Type == EventError {
				return nil
			}
		}
	}
}

// readEvent reads and parses a single line from the stream.
// Returns (nil, nil) for lines that carry no event: blanks, SSE comments,
// malformed JSON, and unknown type tags.
func (s *StreamReader) readEvent() (*StreamEvent, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(bytes.TrimSpace(line)) == 0 {
			return nil, io.EOF
		}
		// Process the last line even without a trailing newline
		if len(bytes.TrimSpace(line)) == 0 {
			return nil, err
		}
	}

	line = bytes.TrimSpace(line)

	// Skip blank keep-alive lines and SSE comments
	if len(line) == 0 || line[0] == ':' {
		return nil, nil
	}

	// Strip the "data:" field prefix when present; some server variants
	// send bare JSON lines without it
	if bytes.HasPrefix(line, dataPrefix) {
		line = bytes.TrimSpace(line[len(dataPrefix):])
	}
	if len(line) == 0 {
		return nil, nil
	}

	var event StreamEvent
	if err := json.Unmarshal(line, &event); err != nil {
		// Malformed records never abort the stream
		logging.L().Debug("skipping malformed stream record", zap.ByteString("line", line))
		return nil, nil
	}

	if !event.Type.Known() {
		// Unknown tags are ignored for forward compatibility
		logging.L().Debug("ignoring unknown stream record type", zap.String("type", string(event.Type)))
		return nil, nil
	}

	if event.Type == EventContentDelta && event.Data != "" {
		s.accumulator.WriteString(event.Data)
		s.deltaCount++
	}

	return &event, nil
}

// GetAccumulated returns all accumulated answer text.
func (s *StreamReader) GetAccumulated() string {
	return s.accumulator.String()
}

// GetDeltaCount returns the number of content deltas received.
func (s *StreamReader) GetDeltaCount() int {
	return s.deltaCount
}
