/*
 * rv32pipe - IF stage tests
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

package cpu

import (
	"testing"

	"github.com/rcornwell/rv32pipe/emu/core"
	"github.com/rcornwell/rv32pipe/emu/memory"
)

// newTestCore builds a Core with a 5-stage CDB and a small I/D direct
// memory attached, but no stages added -- enough for a single stage
// function to be called directly against its CDB and memory surface.
func newTestCore(t *testing.T) *core.Core {
	t.Helper()
	c := core.New(NumStages, 0, 0, false)
	icache := memory.NewDirectMemory("icache", memory.L1ICACHE, 0x8000_0000, 16, 64)
	dcache := memory.NewDirectMemory("dcache", memory.L1DCACHE, 0x8000_0000, 16, 64)
	c.AddL1Cache(icache, dcache)
	return c
}

func clearBackwardLanes(c *core.Core) {
	c.CDB.Assign(StageMEM, StageIF, core.NewPipelineData(branchSize))
	c.CDB.Assign(StageMEM, StageID, core.NewPipelineData(branchSize))
	c.CDB.Assign(StageMEM, StageEX, core.NewPipelineData(fwdSize))
	c.CDB.Assign(StageWB, StageID, core.NewPipelineData(fwdSize))
	c.CDB.Assign(StageWB, StageEX, core.NewPipelineData(fwdSize))
}

func TestFetchSequential(t *testing.T) {
	c := newTestCore(t)
	clearBackwardLanes(c)

	resp := c.ICacheRequest(memory.MemoryRequest{Type: memory.WRITE, Address: 0x8000_0000, Size: memory.WORD, Data: []byte{0x13, 0x00, 0x00, 0x00}})
	if !resp.Status.Ok() {
		t.Fatalf("seed write failed: %s", resp.Status)
	}

	out := Fetch(core.PipelineData{}, c)
	if out.GetU32(ifidInstr) != 0x00000013 {
		t.Errorf("instr = %#x, want 0x13", out.GetU32(ifidInstr))
	}
	if out.GetU32(ifidPC) != 0x8000_0000 {
		t.Errorf("pc = %#x, want 0x80000000", out.GetU32(ifidPC))
	}
}

func TestFetchRedirectsOnTakenBranch(t *testing.T) {
	c := newTestCore(t)
	clearBackwardLanes(c)

	redirect := core.NewPipelineData(branchSize)
	redirect.PutU8(branchBranchJump, 1)
	redirect.PutU8(branchTakeJump, 1)
	redirect.PutU32(branchPC, 0x8000_0040)
	c.CDB.Assign(StageMEM, StageIF, redirect)

	resp := c.ICacheRequest(memory.MemoryRequest{Type: memory.WRITE, Address: 0x8000_0040, Size: memory.WORD, Data: []byte{0xef, 0x00, 0x00, 0x00}})
	if !resp.Status.Ok() {
		t.Fatalf("seed write failed: %s", resp.Status)
	}

	out := Fetch(core.PipelineData{}, c)
	if out.GetU32(ifidPC) != 0x8000_0040 {
		t.Errorf("pc = %#x, want redirected 0x80000040", out.GetU32(ifidPC))
	}
	if c.PC.Get() != 0x8000_0040 {
		t.Errorf("core PC = %#x, want 0x80000040", c.PC.Get())
	}
}
