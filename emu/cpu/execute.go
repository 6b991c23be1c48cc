/*
 * rv32pipe - EX: execute stage
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

// Execute is EX's process function. It applies MEM->EX and WB->EX
// forwarding (MEM wins when both match), computes the ALU result or
// branch/jump target, and emits the 18-byte payload MEM consumes.
func Execute(dataIn core.PipelineData, c *core.Core) core.PipelineData {
	if dataIn.Empty() {
		return core.NewPipelineData(exmemSize)
	}

	opcode := uint32(dataIn.GetU8(idexOpcode))
	func3 := uint32(dataIn.GetU8(idexFunc3))
	func7 := uint32(dataIn.GetU8(idexFunc7))
	regWrite := dataIn.GetU8(idexRegWrite)
	memRW := dataIn.GetU8(idexMemRW)
	rd := dataIn.GetU8(idexRd)
	imm := dataIn.GetU32(idexImm)
	rs1 := dataIn.GetU32(idexRs1)
	rs2 := dataIn.GetU32(idexRs2)
	pc := dataIn.GetU32(idexPC)
	rs1Idx := dataIn.GetU8(idexRs1Idx)
	rs2Idx := dataIn.GetU8(idexRs2Idx)

	applyForward := func(fwd core.PipelineData) {
		if fwd.Empty() || fwd.GetU8(fwdRegWrite) != 1 {
			return
		}
		fwdRdIdx := fwd.GetU8(fwdRd)
		if fwdRdIdx == 0 {
			return
		}
		if fwdRdIdx == rs1Idx {
			rs1 = fwd.GetU32(fwdValue)
		}
		if fwdRdIdx == rs2Idx {
			rs2 = fwd.GetU32(fwdValue)
		}
	}
	// WB->EX first, then MEM->EX overwrites on the same match: MEM wins.
	applyForward(c.CDB.Pull(StageWB, StageEX))
	applyForward(c.CDB.Pull(StageMEM, StageEX))

	var aluOut uint32
	var branchJump, takeJump uint8

	switch opcode {
	case opcodemap.OpALU:
		aluOut = aluOp(func3, func7, rs1, rs2&0x1f, rs2)
	case opcodemap.OpALUI:
		aluOut = aluOp(func3, func7, rs1, imm&0x1f, imm)
	case opcodemap.OpLUI:
		aluOut = imm << 12
	case opcodemap.OpAUIPC:
		aluOut = pc + (imm << 12)
	case opcodemap.OpJAL:
		aluOut = pc + 4
		branchJump, takeJump = 1, 1
		pc = pc + imm
	case opcodemap.OpJALR:
		aluOut = pc + 4
		branchJump, takeJump = 1, 1
		pc = rs1 + imm
	case opcodemap.OpLoad, opcodemap.OpStore:
		aluOut = rs1 + imm
	case opcodemap.OpBranch:
		branchJump = 1
		takeJump = branchTaken(func3, rs1, rs2)
		pc = pc + imm
	}

	out := core.NewPipelineData(exmemSize)
	out.PutU8(exmemRegWrite, regWrite)
	out.PutU8(exmemMemRW, memRW)
	out.PutU8(exmemRd, rd)
	out.PutU8(exmemFunc3, uint8(func3))
	out.PutU32(exmemALUOut, aluOut)
	out.PutU32(exmemRs2, rs2)
	out.PutU8(exmemBranchJump, branchJump)
	out.PutU8(exmemTakeJump, takeJump)
	out.PutU32(exmemPC, pc)
	return out
}

// aluOp computes the ALU/ALUI result. shamt is rs2&0x1f for ALU or
// imm&0x1f for ALUI; operand is rs2 for ALU or imm for ALUI.
func aluOp(func3, func7, rs1, shamt, operand uint32) uint32 {
	switch func3 {
	case opcodemap.F3ADDSUB:
		if func7 == opcodemap.F7Alt {
			return rs1 - operand
		}
		return rs1 + operand
	case opcodemap.F3SLL:
		return rs1 << shamt
	case opcodemap.F3SLT:
		if int32(rs1) < int32(operand) {
			return 1
		}
		return 0
	case opcodemap.F3SLTU:
		if rs1 < operand {
			return 1
		}
		return 0
	case opcodemap.F3XOR:
		return rs1 ^ operand
	case opcodemap.F3SRL:
		if func7 == opcodemap.F7Alt {
			return uint32(int32(rs1) >> shamt)
		}
		return rs1 >> shamt
	case opcodemap.F3OR:
		return rs1 | operand
	case opcodemap.F3AND:
		return rs1 & operand
	default:
		return 0
	}
}

func branchTaken(func3, rs1, rs2 uint32) uint8 {
	var taken bool
	switch func3 {
	case opcodemap.F3BEQ:
		taken = rs1 == rs2
	case opcodemap.F3BNE:
		taken = rs1 != rs2
	case opcodemap.F3BLT:
		taken = int32(rs1) < int32(rs2)
	case opcodemap.F3BGE:
		taken = int32(rs1) >= int32(rs2)
	case opcodemap.F3BLTU:
		taken = rs1 < rs2
	case opcodemap.F3BGEU:
		taken = rs1 >= rs2
	}
	if taken {
		return 1
	}
	return 0
}
