/*
 * rv32pipe - Cyclic N-party barrier for the stage clock
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
	"context"
	"sync"
)

// Barrier is a reusable N-party rendezvous: Wait blocks until n goroutines
// have called it, then releases all of them and resets for the next round.
// No library in this module's lineage ships a cyclic barrier (Go's stdlib
// has none, and nothing in this module's dependency set adds one), so this
// is built directly on a generation-counted channel, the same pattern the
// Wire in wire.go uses for its own wake-all-waiters behavior.
type Barrier struct {
	mu    sync.Mutex
	n     int
	count int
	ch    chan struct{}
}

// NewBarrier builds a barrier for n parties.
func NewBarrier(n int) *Barrier {
	return &Barrier{n: n, ch: make(chan struct{})}
}

// Wait blocks until n goroutines have called Wait, or ctx is done,
// whichever comes first. A cancellation observed by any party unblocks
// every other party currently waiting, so a single aborting stage cannot
// wedge its siblings.
func (b *Barrier) Wait(ctx context.Context) error {
	b.mu.Lock()
	b.count++
	if b.count == b.n {
		b.count = 0
		ch := b.ch
		b.ch = make(chan struct{})
		b.mu.Unlock()
		close(ch)
		return nil
	}
	ch := b.ch
	b.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
