// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package video provides the polling loop for asynchronous video jobs.
package video

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/tutor"
)

// recorder collects updates from the polling goroutine and signals
// when a terminal update arrives.
type recorder struct {
	mu      sync.Mutex
	updates []Update
	done    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{})}
}

func (r *recorder) onUpdate(u Update) {
	r.mu.Lock()
	r.updates = append(r.updates, u)
	r.mu.Unlock()
	if u.Terminal() {
		close(r.done)
	}
}

func (r *recorder) wait(t *testing.T) []Update {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller never reached a terminal update")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Update(nil), r.updates...)
}

// scripted returns a StatusFunc that replays the given responses in
// order and counts the requests made.
func scripted(calls *atomic.Int32, responses ...tutor.VideoStatusResponse) StatusFunc {
	return func(ctx context.Context, jobID string) (*tutor.VideoStatusResponse, error) {
		n := int(calls.Add(1))
		resp := responses[min(n, len(responses))-1]
		return &resp, nil
	}
}

// =============================================================================
// POLLER TESTS
// =============================================================================

func TestPoller_CompleteAfterExactlyThreeRequests(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls,
		tutor.VideoStatusResponse{Status: "PROCESSING"},
		tutor.VideoStatusResponse{Status: "PROCESSING"},
		tutor.VideoStatusResponse{Status: "COMPLETE", VideoURL: "https://x/v1.mp4"},
	)

	rec := newRecorder()
	p := NewPoller(5*time.Millisecond, 24)
	p.Start(context.Background(), "v1", status, rec.onUpdate)

	updates := rec.wait(t)
	p.Stop()

	require.Equal(t, int32(3), calls.Load(), "polling must stop after the terminal response")
	require.Len(t, updates, 3)
	require.Equal(t, model.VideoStatus("PROCESSING"), updates[0].Status)
	require.Equal(t, model.StatusComplete, updates[2].Status)
	require.Equal(t, "https://x/v1.mp4", updates[2].URL)
}

func TestPoller_BudgetExhaustionYieldsTimedOut(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls, tutor.VideoStatusResponse{Status: "PROCESSING"})

	rec := newRecorder()
	p := NewPoller(2*time.Millisecond, 4)
	p.Start(context.Background(), "v1", status, rec.onUpdate)

	updates := rec.wait(t)
	p.Stop()

	require.Equal(t, int32(4), calls.Load(), "no requests beyond the attempt budget")
	last := updates[len(updates)-1]
	require.Equal(t, model.StatusTimedOut, last.Status)
	require.Equal(t, 4, last.Attempt)

	// No further requests after timeout
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(4), calls.Load())
}

func TestPoller_FailedStatusIsTerminal(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls,
		tutor.VideoStatusResponse{Status: "FAILED", Error: "render failed"},
	)

	rec := newRecorder()
	p := NewPoller(2*time.Millisecond, 24)
	p.Start(context.Background(), "v1", status, rec.onUpdate)

	updates := rec.wait(t)
	p.Stop()

	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, model.StatusFailed, updates[0].Status)
	require.Equal(t, "render failed", updates[0].Detail)
}

func TestPoller_TransportErrorReportsFailed(t *testing.T) {
	rec := newRecorder()
	p := NewPoller(2*time.Millisecond, 24)
	p.Start(context.Background(), "v1", func(ctx context.Context, jobID string) (*tutor.VideoStatusResponse, error) {
		return nil, tutor.ErrUnreachable
	}, rec.onUpdate)

	updates := rec.wait(t)
	p.Stop()

	require.Len(t, updates, 1)
	require.Equal(t, model.StatusFailed, updates[0].Status)
	require.Contains(t, updates[0].Detail, "unreachable")
}

func TestPoller_StopHaltsRequests(t *testing.T) {
	var calls atomic.Int32
	status := scripted(&calls, tutor.VideoStatusResponse{Status: "PROCESSING"})

	p := NewPoller(2*time.Millisecond, 1000)
	p.Start(context.Background(), "v1", status, func(Update) {})

	// Let a few polls happen, then stop
	time.Sleep(15 * time.Millisecond)
	p.Stop()
	require.False(t, p.Active())

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, after, calls.Load(), "no requests after Stop")
}

func TestPoller_RestartCancelsPreviousLoop(t *testing.T) {
	var firstCalls, secondCalls atomic.Int32

	p := NewPoller(2*time.Millisecond, 1000)
	p.Start(context.Background(), "v1", func(ctx context.Context, jobID string) (*tutor.VideoStatusResponse, error) {
		firstCalls.Add(1)
		return &tutor.VideoStatusResponse{Status: "PROCESSING"}, nil
	}, func(Update) {})

	time.Sleep(10 * time.Millisecond)

	rec := newRecorder()
	p.Start(context.Background(), "v2", func(ctx context.Context, jobID string) (*tutor.VideoStatusResponse, error) {
		secondCalls.Add(1)
		require.Equal(t, "v2", jobID)
		return &tutor.VideoStatusResponse{Status: "COMPLETE", VideoURL: "u"}, nil
	}, rec.onUpdate)

	frozen := firstCalls.Load()
	rec.wait(t)
	p.Stop()

	require.GreaterOrEqual(t, secondCalls.Load(), int32(1))
	// First loop must have been cancelled when the second started
	require.LessOrEqual(t, firstCalls.Load(), frozen+1)
}

func TestPoller_StopWithoutStartIsSafe(t *testing.T) {
	p := NewPoller(time.Second, 24)
	p.Stop()
	p.Stop()
	require.False(t, p.Active())
}

func TestPoller_ContextCancellationStopsLoop(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	p := NewPoller(2*time.Millisecond, 1000)
	p.Start(ctx, "v1", func(ctx context.Context, jobID string) (*tutor.VideoStatusResponse, error) {
		calls.Add(1)
		return &tutor.VideoStatusResponse{Status: "PROCESSING"}, nil
	}, func(Update) {})

	time.Sleep(10 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, after, calls.Load())
}
