// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/jeranaias/sage-tui/internal/logging"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// Watcher hot-reloads the global config when the config file changes,
// so edits to ~/.sage/config.toml take effect without a restart.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Config)

	mu      sync.Mutex
	pending time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a config watcher. onReload may be nil; when set it
// is called with the freshly loaded config after each successful reload.
func NewWatcher(onReload func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		watcher:  fsw,
		debounce: 250 * time.Millisecond,
		onReload: onReload,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching the config directory for changes.
// Watching the directory rather than the file survives atomic
// rename-over-save from editors and SaveTOML.
func (w *Watcher) Watch() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()

	return nil
}

// processEvents filters filesystem events down to config file changes.
func (w *Watcher) processEvents() {
	defer func() {
		if r := recover(); r != nil {
			_ = r
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			name := filepath.Base(event.Name)
			if name != "config.toml" && name != "config.json" {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.L().Warn("config watcher error", zap.Error(err))
		}
	}
}

// processPending reloads after the debounce window closes. Editors often
// fire several events per save; only the last one matters.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if !due {
				continue
			}

			if err := ReloadGlobal(); err != nil {
				logging.L().Warn("config reload failed", zap.Error(err))
				continue
			}
			logging.L().Info("config reloaded")
			if w.onReload != nil {
				w.onReload(Global())
			}
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
