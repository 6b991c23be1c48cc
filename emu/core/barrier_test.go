/*
 * rv32pipe - Barrier tests
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
	"testing"
	"time"
)

func TestBarrierReleasesAllPartiesTogether(t *testing.T) {
	const n = 4
	b := NewBarrier(n)
	ctx := context.Background()

	var wg sync.WaitGroup
	release := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := b.Wait(ctx); err != nil {
				t.Errorf("party %d: %v", id, err)
			}
			release <- id
		}(i)
	}
	wg.Wait()
	close(release)

	count := 0
	for range release {
		count++
	}
	if count != n {
		t.Fatalf("got %d releases, want %d", count, n)
	}
}

func TestBarrierIsReusableAcrossRounds(t *testing.T) {
	const n = 3
	b := NewBarrier(n)
	ctx := context.Background()

	for round := 0; round < 3; round++ {
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := b.Wait(ctx); err != nil {
					t.Error(err)
				}
			}()
		}
		wg.Wait()
	}
}

func TestBarrierCancellationUnblocksWaiters(t *testing.T) {
	b := NewBarrier(3)
	ctx, cancel := context.WithCancel(context.Background())

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() { errs <- b.Wait(ctx) }()
	}

	time.Sleep(10 * time.Millisecond)
	cancel()

	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			if err == nil {
				t.Fatal("expected context error, got nil")
			}
		case <-time.After(time.Second):
			t.Fatal("waiter did not unblock after cancellation")
		}
	}
}
