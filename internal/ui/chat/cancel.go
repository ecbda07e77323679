// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements thread-safe cancel function handling. The cancel
// function for the active stream is set from the Update loop but invoked
// from key handlers and goroutines, so access is mutex-protected.
package chat

import (
	"context"
	"sync"
)

// =============================================================================
// CANCEL FUNCTION MANAGEMENT (THREAD-SAFE)
// =============================================================================

// cancelManager manages the cancel function with mutex protection.
// Must be held as a pointer (*cancelManager) in Model so the mutex is not
// copied when Bubble Tea's Update returns model copies.
type cancelManager struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

// newCancelManager creates a new cancelManager pointer.
func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// setCancelFunc stores a new cancel function.
func (cm *cancelManager) setCancelFunc(fn context.CancelFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.cancelFunc = fn
}

// cancel invokes the stored cancel function and clears it. Safe to call
// multiple times or with no cancel function set.
func (cm *cancelManager) cancel() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
		cm.cancelFunc = nil
	}
}

// =============================================================================
// MODEL METHODS (CONVENIENCE WRAPPERS)
// =============================================================================

// setCancelFunc stores a new cancel function for the current turn.
func (m *Model) setCancelFunc(fn context.CancelFunc) {
	m.cancelMgr.setCancelFunc(fn)
}

// cancelStream cancels the current turn's stream if one is in progress.
func (m *Model) cancelStream() {
	m.cancelMgr.cancel()
}
