/*
 * rv32pipe - IF: fetch stage
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
	"github.com/rcornwell/rv32pipe/emu/core"
	"github.com/rcornwell/rv32pipe/emu/memory"
)

// Fetch is IF's process function. It reads the MEM->IF backward lane for
// a branch redirect, issues an ICACHE read at the (possibly just
// redirected) PC, and appends that PC to the payload for ID to carry
// forward.
func Fetch(_ core.PipelineData, c *core.Core) core.PipelineData {
	redirect := c.CDB.Pull(StageMEM, StageIF)
	if !redirect.Empty() && redirect.GetU8(branchBranchJump) == 1 && redirect.GetU8(branchTakeJump) == 1 {
		c.PC.Set(redirect.GetU32(branchPC))
	}

	pc := c.PC.Get()
	resp := c.ICacheRequest(memory.MemoryRequest{Type: memory.READ, Address: memory.Address(pc), Size: memory.WORD})
	if !resp.Status.Ok() {
		core.Fatalf("IF", "instruction fetch at %#08x: %s", pc, resp.Status)
	}

	out := core.NewPipelineData(ifidSize)
	out.PutU32(ifidInstr, bytesToWord(resp.Data))
	out.PutU32(ifidPC, pc)
	return out
}

func bytesToWord(b []byte) uint32 {
	var v uint32
	for i := 0; i < 4 && i < len(b); i++ {
		v |= uint32(b[i]) << (8 * i)
	}
	return v
}
