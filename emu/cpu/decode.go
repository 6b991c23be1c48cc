/*
 * rv32pipe - ID: decode/issue stage
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
	"github.com/rcornwell/rv32pipe/emu/opcodemap"
)

// Decode is ID's process function. It applies the WB->ID forwarded commit
// to the register file before reading operands (the one-cycle RAW
// short-circuit between WB and ID), then either emits a bubble (a
// zero-filled 25-byte payload) -- for an empty input, an all-zero
// instruction word, or a squash signaled on MEM->ID -- or the full
// 25-byte decoded payload.
func Decode(dataIn core.PipelineData, c *core.Core) core.PipelineData {
	commit := c.CDB.Pull(StageWB, StageID)
	if !commit.Empty() && commit.GetU8(fwdRegWrite) == 1 {
		c.Registers.Write(commit.GetU8(fwdRd), commit.GetU32(fwdValue))
	}

	squash := c.CDB.Pull(StageMEM, StageID)
	squashed := !squash.Empty() && squash.GetU8(branchBranchJump) == 1 && squash.GetU8(branchTakeJump) == 1

	if dataIn.Empty() || squashed || dataIn.GetU32(ifidInstr) == 0 {
		return core.NewPipelineData(idexSize)
	}

	instr := dataIn.GetU32(ifidInstr)
	pc := dataIn.GetU32(ifidPC)

	opcode := instr & 0x7f
	rd := uint8((instr >> 7) & 0x1f)
	func3 := (instr >> 12) & 0x7
	rs1Idx := uint8((instr >> 15) & 0x1f)
	rs2Idx := uint8((instr >> 20) & 0x1f)
	func7 := (instr >> 25) & 0x7f

	imm, ok := decodeImmediate(opcode, instr)
	if !ok {
		core.Fatalf("ID", "unsupported opcode %#09b at pc %#08x", opcode, pc)
	}

	rs1, rs2 := c.Registers.Read(rs1Idx, rs2Idx)

	out := core.NewPipelineData(idexSize)
	out.PutU8(idexOpcode, uint8(opcode))
	out.PutU8(idexFunc3, uint8(func3))
	out.PutU8(idexFunc7, uint8(func7))
	out.PutU8(idexRegWrite, controlRegWrite(opcode))
	out.PutU8(idexMemRW, controlMemRW(opcode))
	out.PutU8(idexRd, rd)
	out.PutU8(idexBranchJump, controlBranchJump(opcode))
	out.PutU32(idexImm, imm)
	out.PutU32(idexRs1, rs1)
	out.PutU32(idexRs2, rs2)
	out.PutU32(idexPC, pc)
	out.PutU8(idexRs1Idx, rs1Idx)
	out.PutU8(idexRs2Idx, rs2Idx)
	return out
}

func controlRegWrite(opcode uint32) uint8 {
	switch opcode {
	case opcodemap.OpALUI, opcodemap.OpLoad, opcodemap.OpJALR,
		opcodemap.OpALU, opcodemap.OpLUI, opcodemap.OpAUIPC, opcodemap.OpJAL:
		return 1
	default:
		return 0
	}
}

func controlMemRW(opcode uint32) uint8 {
	switch opcode {
	case opcodemap.OpLoad:
		return memRWLoad
	case opcodemap.OpStore:
		return memRWStore
	default:
		return memRWNone
	}
}

func controlBranchJump(opcode uint32) uint8 {
	switch opcode {
	case opcodemap.OpBranch, opcodemap.OpJAL, opcodemap.OpJALR:
		return 1
	default:
		return 0
	}
}
