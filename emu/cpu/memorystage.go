/*
 * rv32pipe - MEM: memory access stage
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
	"github.com/rcornwell/rv32pipe/emu/opcodemap"
)

// Memory is MEM's process function. It publishes the backward CDB lanes
// -- branch resolution to IF/ID and ALU-result forwarding to EX -- before
// performing the actual load or store, so IF and EX observe this cycle's
// outcome with zero extra latency. Sub-word loads sign- or zero-extend
// per func3; sub-word stores truncate rs2 before writing.
func Memory(dataIn core.PipelineData, c *core.Core) core.PipelineData {
	if dataIn.Empty() {
		c.CDB.Assign(StageMEM, StageIF, emptyBranch())
		c.CDB.Assign(StageMEM, StageID, emptyBranch())
		c.CDB.Assign(StageMEM, StageEX, emptyFwd())
		squashShadow(c, false)
		return core.NewPipelineData(memwbSize)
	}

	regWrite := dataIn.GetU8(exmemRegWrite)
	memRW := dataIn.GetU8(exmemMemRW)
	rd := dataIn.GetU8(exmemRd)
	func3 := uint32(dataIn.GetU8(exmemFunc3))
	aluOut := dataIn.GetU32(exmemALUOut)
	rs2 := dataIn.GetU32(exmemRs2)
	branchJump := dataIn.GetU8(exmemBranchJump)
	takeJump := dataIn.GetU8(exmemTakeJump)
	pc := dataIn.GetU32(exmemPC)

	branch := core.NewPipelineData(branchSize)
	branch.PutU8(branchBranchJump, branchJump)
	branch.PutU8(branchTakeJump, takeJump)
	branch.PutU32(branchPC, pc)
	c.CDB.Assign(StageMEM, StageIF, branch)
	c.CDB.Assign(StageMEM, StageID, branch)
	squashShadow(c, branchJump == 1 && takeJump == 1)

	fwd := core.NewPipelineData(fwdSize)
	fwd.PutU8(fwdRegWrite, regWrite)
	fwd.PutU8(fwdRd, rd)
	fwd.PutU32(fwdValue, aluOut)
	c.CDB.Assign(StageMEM, StageEX, fwd)

	var memValue uint32
	var regSrc uint8

	switch memRW {
	case memRWLoad:
		regSrc = 1
		size, ok := loadWidth(func3)
		if !ok {
			core.Fatalf("MEM", "unsupported load func3 %#04b at pc %#08x", func3, pc)
		}
		resp := c.DCacheRequest(memory.MemoryRequest{Type: memory.READ, Address: memory.Address(aluOut), Size: size})
		if !resp.Status.Ok() {
			core.Fatalf("MEM", "load at %#08x: %s", aluOut, resp.Status)
		}
		memValue = extendLoad(func3, resp.Data)

	case memRWStore:
		size, ok := storeWidth(func3)
		if !ok {
			core.Fatalf("MEM", "unsupported store func3 %#04b at pc %#08x", func3, pc)
		}
		data := truncateStore(rs2, size)
		resp := c.DCacheRequest(memory.MemoryRequest{Type: memory.WRITE, Address: memory.Address(aluOut), Size: size, Data: data})
		if !resp.Status.Ok() {
			core.Fatalf("MEM", "store at %#08x: %s", aluOut, resp.Status)
		}
	}

	out := core.NewPipelineData(memwbSize)
	out.PutU8(memwbRegWrite, regWrite)
	out.PutU8(memwbRegSrc, regSrc)
	out.PutU8(memwbRd, rd)
	out.PutU32(memwbALUOut, aluOut)
	out.PutU32(memwbMemValue, memValue)
	return out
}

func emptyBranch() core.PipelineData { return core.NewPipelineData(branchSize) }
func emptyFwd() core.PipelineData    { return core.NewPipelineData(fwdSize) }

// squashShadow drives the RESET control signal on ID and EX straight from
// MEM's own cycle: a taken branch or jump resolved here leaves exactly
// those two stages holding wrong-path instructions (the one just decoded
// and the one just executed), so both must commit a bubble this same
// cycle. ID's own CDB-driven squash (see Decode) independently produces
// the same zero payload one hazard earlier; this is the mechanism the
// source actually uses to reach EX, which has no CDB view of branch
// resolution at all.
func squashShadow(c *core.Core, squash bool) {
	if s := c.Stage(StageID); s != nil {
		s.Control.Reset.Store(squash)
	}
	if s := c.Stage(StageEX); s != nil {
		s.Control.Reset.Store(squash)
	}
}

func loadWidth(func3 uint32) (memory.WordSize, bool) {
	switch func3 {
	case opcodemap.F3LB, opcodemap.F3LBU:
		return memory.BYTE, true
	case opcodemap.F3LH, opcodemap.F3LHU:
		return memory.HALF, true
	case opcodemap.F3LW:
		return memory.WORD, true
	default:
		return 0, false
	}
}

func storeWidth(func3 uint32) (memory.WordSize, bool) {
	switch func3 {
	case opcodemap.F3SB:
		return memory.BYTE, true
	case opcodemap.F3SH:
		return memory.HALF, true
	case opcodemap.F3SW:
		return memory.WORD, true
	default:
		return 0, false
	}
}

func extendLoad(func3 uint32, data []byte) uint32 {
	var raw uint32
	for i := 0; i < len(data) && i < 4; i++ {
		raw |= uint32(data[i]) << (8 * i)
	}
	switch func3 {
	case opcodemap.F3LB:
		return uint32(int32(int8(raw)))
	case opcodemap.F3LH:
		return uint32(int32(int16(raw)))
	default: // F3LW, F3LBU, F3LHU: zero-extended, already masked by read width
		return raw
	}
}

func truncateStore(v uint32, size memory.WordSize) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(v >> (8 * i))
	}
	return data
}
