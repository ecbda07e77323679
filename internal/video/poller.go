// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package video provides the polling loop for asynchronous video jobs.
package video

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/sage-tui/internal/logging"
	"github.com/jeranaias/sage-tui/internal/model"
	"github.com/jeranaias/sage-tui/internal/tutor"
)

// =============================================================================
// POLLER
// =============================================================================

// StatusFunc fetches the current status of a job. It is the only
// collaborator the poller needs, which keeps tests free of real HTTP.
type StatusFunc func(ctx context.Context, jobID string) (*tutor.VideoStatusResponse, error)

// Update is one observed state change of a polled job.
type Update struct {
	JobID   string
	Status  model.VideoStatus
	URL     string
	Detail  string
	Attempt int
}

// Terminal reports whether this update ends the poll loop.
func (u Update) Terminal() bool {
	return u.Status.IsTerminal()
}

// UpdateFunc receives job updates. Called from the polling goroutine;
// implementations must hand off to their own event loop if needed.
type UpdateFunc func(update Update)

// Poller drives the status poll loop for one video job at a time.
// Starting a new job cancels the previous loop. All methods are safe
// for concurrent use.
type Poller struct {
	interval    time.Duration
	maxAttempts int

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPoller creates a poller with the given cadence and attempt budget.
// Zero values fall back to 5s and 24 attempts (~120 seconds).
func NewPoller(interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 24
	}
	return &Poller{
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// =============================================================================
// POLLER LIFECYCLE
// =============================================================================

// Start begins polling the job. Any loop already running is cancelled
// first; at most one loop is ever active. The loop ends on a terminal
// status, a transport error (reported as FAILED), attempt budget
// exhaustion (reported as TIMED_OUT), or Stop.
func (p *Poller) Start(ctx context.Context, jobID string, status StatusFunc, onUpdate UpdateFunc) {
	p.Stop()

	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go p.loop(ctx, jobID, status, onUpdate)
}

// Stop cancels the active loop, if any, and waits for it to exit.
// Safe to call repeatedly and when nothing is running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Active reports whether a poll loop is currently running.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// =============================================================================
// POLL LOOP
// =============================================================================

// loop issues status requests at the configured cadence until a
// terminal condition. Exactly one request is made per attempt.
func (p *Poller) loop(ctx context.Context, jobID string, status StatusFunc, onUpdate UpdateFunc) {
	defer p.wg.Done()
	defer p.clearCancel()

	// rate.Limiter paces the requests; consuming the initial token makes
	// the first poll wait a full interval, matching a fixed-delay timer.
	limiter := rate.NewLimiter(rate.Every(p.interval), 1)
	limiter.Reserve()

	log := logging.L().With(zap.String("job_id", jobID))

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		resp, err := status(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Transport error during a poll is terminal
			log.Warn("video status poll failed", zap.Int("attempt", attempt), zap.Error(err))
			onUpdate(Update{JobID: jobID, Status: model.StatusFailed, Detail: err.Error(), Attempt: attempt})
			return
		}

		update := Update{
			JobID:   jobID,
			Status:  model.VideoStatus(resp.Status),
			URL:     resp.VideoURL,
			Detail:  resp.Error,
			Attempt: attempt,
		}
		onUpdate(update)

		if update.Terminal() {
			log.Debug("video job reached terminal status",
				zap.String("status", resp.Status), zap.Int("attempts", attempt))
			return
		}
	}

	// Budget exhausted without a terminal status
	log.Warn("video job polling timed out", zap.Int("attempts", p.maxAttempts))
	onUpdate(Update{JobID: jobID, Status: model.StatusTimedOut, Attempt: p.maxAttempts})
}

// clearCancel releases the cancel slot when the loop exits on its own,
// so Active() turns false without requiring a Stop call.
func (p *Poller) clearCancel() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()
}
