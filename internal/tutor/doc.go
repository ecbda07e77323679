// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the HTTP client for the tutoring service API.
//
// This package handles all communication with the remote tutor: submitting
// questions, consuming the SSE-style answer stream, and driving the
// asynchronous video endpoints.
//
// # Key Types
//
//   - Client: Thread-safe HTTP client for the tutor service
//   - StreamReader: Line-by-line parser for the typed answer stream
//   - StreamEvent: One typed JSON record (content_delta, suggestion, ...)
//   - ClientError: Categorized error with sentinel values and Is helpers
//
// # Usage
//
// Stream an answer:
//
//	client := tutor.NewClient(&tutor.ClientConfig{BaseURL: url})
//	err := client.QueryStream(ctx, "What is a magnet?", history, func(ev tutor.StreamEvent) {
//	    switch ev.Type {
//	    case tutor.EventContentDelta:
//	        // append ev.Data
//	    case tutor.EventStreamEnd:
//	        // done
//	    }
//	})
//
// The service URL has no default. All methods fail with ErrNoBaseURL when
// it is unset; callers surface that to the user as a setup instruction.
// None of the operations retry; a failure is terminal for that operation.
package tutor
