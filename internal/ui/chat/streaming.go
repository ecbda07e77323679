// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements streaming render batching. Content deltas can arrive
// far faster than a terminal can usefully repaint, so the StreamingBuffer
// accumulates them and the view flushes at a capped frame rate.
package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// StreamingBuffer batches content deltas for efficient rendering. Deltas are
// accumulated and flushed either when the batch size threshold is reached or
// when enough time has passed since the last flush.
//
// Thread-safety: all operations are mutex-protected since deltas arrive from
// the stream goroutine while flushing happens in the Bubble Tea loop.
type StreamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	deltaCount int
	lastFlush  time.Time

	batchSize  int           // Deltas per batch
	minFlushMs time.Duration // Min time between flushes
}

// NewStreamingBuffer creates a streaming buffer with default settings:
// batches of 15 deltas, flushed at most 30 times per second.
func NewStreamingBuffer() *StreamingBuffer {
	return NewStreamingBufferWithConfig(15, 30)
}

// NewStreamingBufferWithConfig creates a streaming buffer with custom
// batch size and maximum frame rate.
func NewStreamingBufferWithConfig(batchSize, maxFPS int) *StreamingBuffer {
	if batchSize <= 0 {
		batchSize = 15
	}
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = 30
	}

	return &StreamingBuffer{
		batchSize:  batchSize,
		minFlushMs: time.Duration(1000/maxFPS) * time.Millisecond,
		lastFlush:  time.Now(),
	}
}

// Write adds a delta to the buffer. Called from the stream goroutine.
func (sb *StreamingBuffer) Write(delta string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.WriteString(delta)
	sb.deltaCount++
}

// Flush returns accumulated content if the buffer should be flushed.
// Returns ("", false) when the buffer is empty or neither the batch size
// nor the time threshold has been reached.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}

	if !sb.shouldFlushLocked() {
		return "", false
	}

	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.deltaCount = 0
	sb.lastFlush = time.Now()

	return content, true
}

// shouldFlushLocked checks flush conditions. Caller must hold the lock.
func (sb *StreamingBuffer) shouldFlushLocked() bool {
	if sb.buffer.Len() == 0 {
		return false
	}

	if sb.deltaCount >= sb.batchSize {
		return true
	}

	return time.Since(sb.lastFlush) >= sb.minFlushMs
}

// Reset clears the buffer without flushing. Used when cancelling a turn or
// starting a new one.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.Reset()
	sb.deltaCount = 0
	sb.lastFlush = time.Now()
}

// GetConfig returns the batch size, max FPS, and min flush interval.
func (sb *StreamingBuffer) GetConfig() (batchSize, maxFPS int, minFlushMs time.Duration) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.batchSize, int(time.Second / sb.minFlushMs), sb.minFlushMs
}

// Pending returns the number of deltas waiting to be flushed.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.deltaCount
}

// ForceFlush immediately flushes all buffered content regardless of
// thresholds. Used when a turn completes so no delta is left behind.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}

	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.deltaCount = 0
	sb.lastFlush = time.Now()

	return content, true
}

// =============================================================================
// STREAMING TICK COMMAND
// =============================================================================

// streamTickCmd creates a tea.Cmd that sends StreamTickMsg at 30fps while a
// turn is streaming.
func streamTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
