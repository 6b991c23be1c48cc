/*
 * rv32pipe - Wire: one-cycle combinational slot with timed wait
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package core

import (
	"log/slog"
	"sync"
	"time"
)

// Wire is a single intra-cycle combinational slot: at most one
// PipelineData may be assigned per cycle, and readers block until it is
// (or, with a critical-path bound configured, until the bound expires).
//
// A Condvar in the original is replaced here by a per-epoch "ready"
// channel: clear() opens a fresh epoch by installing a new channel; assign()
// closes it, waking every blocked reader at once, which is exactly what a
// Condvar broadcast does without needing a timed-wait primitive bolted onto
// sync.Cond.
type Wire struct {
	mu           sync.Mutex
	data         PipelineData
	assigned     bool
	ready        chan struct{}
	criticalPath time.Duration
	debug        bool
}

// NewWire builds a Wire. criticalPath of zero means unbounded waits.
func NewWire(criticalPath time.Duration, debug bool) *Wire {
	return &Wire{
		ready:        make(chan struct{}),
		criticalPath: criticalPath,
		debug:        debug,
	}
}

// Assign stores d and wakes every reader waiting on this cycle's epoch.
func (w *Wire) Assign(d PipelineData) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.data = d
	if !w.assigned {
		w.assigned = true
		close(w.ready)
	}
}

// Clear opens a new epoch: the slot becomes empty, and a fresh channel is
// installed for the next cycle's readers to wait on.
func (w *Wire) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.data = nil
	w.assigned = false
	w.ready = make(chan struct{})
}

// Read returns the assigned PipelineData, blocking until Assign is called
// this epoch. If a critical-path bound is configured and it expires first,
// Read logs a warning and returns an empty PipelineData instead of
// blocking indefinitely.
func (w *Wire) Read() PipelineData {
	w.mu.Lock()
	if w.assigned {
		d := w.data
		w.mu.Unlock()
		return d
	}
	ready := w.ready
	bound := w.criticalPath
	w.mu.Unlock()

	if w.debug {
		slog.Debug("wire stalled, waiting for assignment", "bound", bound)
	}

	if bound <= 0 {
		<-ready
		w.mu.Lock()
		d := w.data
		w.mu.Unlock()
		return d
	}

	timer := time.NewTimer(bound)
	defer timer.Stop()
	select {
	case <-ready:
		w.mu.Lock()
		d := w.data
		w.mu.Unlock()
		return d
	case <-timer.C:
		slog.Warn("setup/hold violated", "component", "wire", "bound", bound)
		return PipelineData{}
	}
}
