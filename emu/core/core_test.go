/*
 * rv32pipe - Core orchestrator tests
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

	"github.com/rcornwell/rv32pipe/emu/memory"
)

// TestCoreRunsSyntheticThreeStagePipeline exercises the barrier/flip-flop
// mechanics in isolation from RV32I semantics: stage 0 counts cycles into
// its payload, stage 1 doubles what it receives, stage 2 records what it
// saw. The one-cycle-per-stage latency means stage 2 observes a bubble
// (zero) on the first two cycles before values start arriving.
func TestCoreRunsSyntheticThreeStagePipeline(t *testing.T) {
	c := New(3, 0, 0, false)

	ff01 := NewFlipFlop()
	ff12 := NewFlipFlop()

	var mu sync.Mutex
	var seen []uint32

	gen := func(dataIn PipelineData, c *Core) PipelineData {
		d := NewPipelineData(4)
		d.PutU32(0, uint32(c.Stage(0).Cycle)+1)
		return d
	}
	double := func(dataIn PipelineData, c *Core) PipelineData {
		d := NewPipelineData(4)
		if !dataIn.Empty() {
			d.PutU32(0, dataIn.GetU32(0)*2)
		}
		return d
	}
	record := func(dataIn PipelineData, c *Core) PipelineData {
		mu.Lock()
		if dataIn.Empty() {
			seen = append(seen, 0)
		} else {
			seen = append(seen, dataIn.GetU32(0))
		}
		mu.Unlock()
		return PipelineData{}
	}

	if err := c.AddStage(NewPipelineStage("S0", 0, 4, gen, nil, ff01)); err != nil {
		t.Fatalf("AddStage S0: %v", err)
	}
	if err := c.AddStage(NewPipelineStage("S1", 1, 4, double, ff01, ff12)); err != nil {
		t.Fatalf("AddStage S1: %v", err)
	}
	if err := c.AddStage(NewPipelineStage("S2", 2, 0, record, ff12, nil)); err != nil {
		t.Fatalf("AddStage S2: %v", err)
	}

	if err := c.Run(context.Background(), 4); err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []uint32{0, 0, 2, 4}
	if len(seen) != len(want) {
		t.Fatalf("got %d cycles recorded, want %d: %v", len(seen), len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle %d: got %d, want %d (full: %v)", i, seen[i], want[i], seen)
		}
	}
}

func TestCoreAddStageRejectsOverflow(t *testing.T) {
	c := New(1, 0, 0, false)
	nop := func(PipelineData, *Core) PipelineData { return PipelineData{} }

	if err := c.AddStage(NewPipelineStage("S0", 0, 0, nop, nil, nil)); err != nil {
		t.Fatalf("first AddStage: %v", err)
	}
	if err := c.AddStage(NewPipelineStage("S1", 1, 0, nop, nil, nil)); err == nil {
		t.Fatal("expected error adding beyond numStages")
	}
}

func TestCoreICacheRequestFatalWithoutCache(t *testing.T) {
	c := New(1, 0, 0, false)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic with no I-cache attached")
		}
		if _, ok := r.(*FatalStageError); !ok {
			t.Fatalf("recovered %T, want *FatalStageError", r)
		}
	}()
	c.ICacheRequest(memory.MemoryRequest{Type: memory.READ, Address: 0x8000_0000, Size: memory.WORD})
}

func TestCoreRunRejectsIncompleteStageSet(t *testing.T) {
	c := New(2, 0, 0, false)
	nop := func(PipelineData, *Core) PipelineData { return PipelineData{} }
	_ = c.AddStage(NewPipelineStage("S0", 0, 0, nop, nil, nil))

	if err := c.Run(context.Background(), 1); err == nil {
		t.Fatal("expected error running with fewer stages than configured")
	}
}
