// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the HTTP client for the tutoring service API.
package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// CLIENT CONSTRUCTION TESTS
// =============================================================================

func TestNewClient_FillsDefaults(t *testing.T) {
	c := NewClient(&ClientConfig{BaseURL: "http://localhost:8000"})

	require.Equal(t, "http://localhost:8000", c.BaseURL())
	require.NotZero(t, c.config.Timeout)
	require.NotZero(t, c.config.StreamTimeout)
}

func TestClient_NoBaseURL(t *testing.T) {
	c := NewClient(nil)
	ctx := context.Background()

	require.True(t, IsNoBaseURL(c.CheckRunning(ctx)))
	require.True(t, IsNoBaseURL(c.QueryStream(ctx, "q", nil, func(StreamEvent) {})))

	_, err := c.GenerateVideo(ctx, "text")
	require.True(t, IsNoBaseURL(err))

	_, err = c.VideoStatus(ctx, "v1")
	require.True(t, IsNoBaseURL(err))
}

// =============================================================================
// QUERY STREAM TESTS
// =============================================================================

func TestQueryStream_SendsQuestionAndHistory(t *testing.T) {
	var got QueryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"type":"stream_end"}` + "\n"))
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	history := []HistoryEntry{
		{Text: "What is a magnet?", IsUser: true},
		{Text: "A magnet attracts iron.", IsUser: false},
	}
	err := c.QueryStream(context.Background(), "Why?", history, func(StreamEvent) {})

	require.NoError(t, err)
	require.Equal(t, "Why?", got.Question)
	require.Equal(t, history, got.ChatHistory)
}

func TestQueryStream_NilHistoryMarshalsAsEmptyArray(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Write([]byte(`data: {"type":"stream_end"}` + "\n"))
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	require.NoError(t, c.QueryStream(context.Background(), "q", nil, func(StreamEvent) {}))

	require.JSONEq(t, `[]`, string(raw["chat_history"]))
}

func TestQueryStream_MagnetExample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`data: {"type":"content_delta","data":"A magnet"}` + "\n"))
		w.Write([]byte(`data: {"type":"content_delta","data":" attracts iron."}` + "\n"))
		w.Write([]byte(`data: {"type":"stream_end"}` + "\n"))
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})

	var text strings.Builder
	ended := false
	err := c.QueryStream(context.Background(), "What is a magnet?", nil, func(ev StreamEvent) {
		switch ev.Type {
		case EventContentDelta:
			text.WriteString(ev.Data)
		case EventStreamEnd:
			ended = true
		}
	})

	require.NoError(t, err)
	require.True(t, ended)
	require.Equal(t, "A magnet attracts iron.", text.String())
}

func TestQueryStream_Non2xxIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	err := c.QueryStream(context.Background(), "q", nil, func(StreamEvent) {
		t.Error("callback must not fire on handshake failure")
	})

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, ErrTypeServer, clientErr.Type)
}

func TestQueryStream_StalledHandshakeTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never send headers until the test is over.
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(&ClientConfig{BaseURL: srv.URL, StreamTimeout: 50 * time.Millisecond})

	start := time.Now()
	err := c.QueryStream(context.Background(), "q", nil, func(StreamEvent) {
		t.Error("callback must not fire when the handshake stalls")
	})

	require.True(t, IsTimeout(err))
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestQueryStream_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	err := c.QueryStream(context.Background(), "q", nil, func(StreamEvent) {})

	require.True(t, IsUnreachable(err))
}

// =============================================================================
// VIDEO ENDPOINT TESTS
// =============================================================================

func TestGenerateVideo_ReturnsJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate-video", r.URL.Path)

		var req GenerateVideoRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "lesson text", req.TextContent)

		json.NewEncoder(w).Encode(GenerateVideoResponse{JobID: "v1"})
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	jobID, err := c.GenerateVideo(context.Background(), "lesson text")

	require.NoError(t, err)
	require.Equal(t, "v1", jobID)
}

func TestGenerateVideo_ErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "text too long"})
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	_, err := c.GenerateVideo(context.Background(), "text")

	require.Error(t, err)
	require.Contains(t, err.Error(), "text too long")
}

func TestGenerateVideo_MissingJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	_, err := c.GenerateVideo(context.Background(), "text")

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, ErrTypeInvalidResponse, clientErr.Type)
}

func TestVideoStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/video-status/v1", r.URL.Path)
		json.NewEncoder(w).Encode(VideoStatusResponse{
			Status:   "COMPLETE",
			VideoURL: "https://x/v1.mp4",
		})
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	status, err := c.VideoStatus(context.Background(), "v1")

	require.NoError(t, err)
	require.Equal(t, "COMPLETE", status.Status)
	require.Equal(t, "https://x/v1.mp4", status.VideoURL)
}

func TestVideoStatus_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	_, err := c.VideoStatus(context.Background(), "missing")

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	require.Equal(t, ErrTypeServer, clientErr.Type)
}

// =============================================================================
// HEALTH CHECK TESTS
// =============================================================================

func TestCheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	require.NoError(t, c.CheckRunning(context.Background()))
}

func TestCheckRunning_Down(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(&ClientConfig{BaseURL: srv.URL})
	err := c.CheckRunning(context.Background())

	require.True(t, IsUnreachable(err))
}

// =============================================================================
// ERROR HELPER TESTS
// =============================================================================

func TestErrorHelpers(t *testing.T) {
	require.True(t, IsTimeout(ErrTimeout))
	require.True(t, IsUnreachable(ErrUnreachable))
	require.True(t, IsNoBaseURL(ErrNoBaseURL))

	wrapped := &ClientError{Type: ErrTypeTimeout, Message: "slow", Cause: context.DeadlineExceeded}
	require.True(t, IsTimeout(wrapped))
	require.False(t, IsUnreachable(wrapped))

	require.ErrorIs(t, wrapped, context.DeadlineExceeded)
}
