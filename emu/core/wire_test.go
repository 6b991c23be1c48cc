/*
 * rv32pipe - Wire tests
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
	"testing"
	"time"
)

func TestWireReadBlocksUntilAssign(t *testing.T) {
	w := NewWire(0, false)

	done := make(chan PipelineData, 1)
	go func() {
		done <- w.Read()
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("Read returned before Assign")
	default:
	}

	want := PipelineData{1, 2, 3}
	w.Assign(want)

	select {
	case got := <-done:
		if len(got) != len(want) || got[0] != want[0] {
			t.Fatalf("got %v, want %v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not unblock after Assign")
	}
}

func TestWireReadImmediateWhenAlreadyAssigned(t *testing.T) {
	w := NewWire(0, false)
	w.Assign(PipelineData{9})
	if got := w.Read(); got[0] != 9 {
		t.Fatalf("got %v, want [9]", got)
	}
}

func TestWireReadTimesOutWithCriticalPath(t *testing.T) {
	w := NewWire(10*time.Millisecond, false)
	start := time.Now()
	got := w.Read()
	elapsed := time.Since(start)

	if !got.Empty() {
		t.Fatalf("got %v, want empty", got)
	}
	if elapsed < 10*time.Millisecond {
		t.Fatalf("returned too early: %v", elapsed)
	}
}

func TestWireClearResetsEpoch(t *testing.T) {
	w := NewWire(0, false)
	w.Assign(PipelineData{1})
	w.Clear()

	done := make(chan PipelineData, 1)
	go func() { done <- w.Read() }()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("Read returned before the new epoch's Assign")
	default:
	}
	w.Assign(PipelineData{2})
	if got := <-done; got[0] != 2 {
		t.Fatalf("got %v, want [2]", got)
	}
}
