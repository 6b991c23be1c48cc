/*
 * rv32pipe - EX stage tests
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
	"github.com/rcornwell/rv32pipe/emu/opcodemap"
)

func idexPayload(opcode, func3, func7 uint8, rd, rs1Idx, rs2Idx uint8, imm, rs1, rs2, pc uint32) core.PipelineData {
	p := core.NewPipelineData(idexSize)
	p.PutU8(idexOpcode, opcode)
	p.PutU8(idexFunc3, func3)
	p.PutU8(idexFunc7, func7)
	p.PutU8(idexRegWrite, controlRegWrite(uint32(opcode)))
	p.PutU8(idexMemRW, controlMemRW(uint32(opcode)))
	p.PutU8(idexRd, rd)
	p.PutU8(idexBranchJump, controlBranchJump(uint32(opcode)))
	p.PutU32(idexImm, imm)
	p.PutU32(idexRs1, rs1)
	p.PutU32(idexRs2, rs2)
	p.PutU32(idexPC, pc)
	p.PutU8(idexRs1Idx, rs1Idx)
	p.PutU8(idexRs2Idx, rs2Idx)
	return p
}

func TestExecuteAdd(t *testing.T) {
	c := newTestCore(t)
	clearBackwardLanes(c)

	in := idexPayload(opcodemap.OpALU, opcodemap.F3ADDSUB, 0, 1, 2, 3, 0, 10, 32, 0x8000_0000)
	out := Execute(in, c)
	if got := out.GetU32(exmemALUOut); got != 42 {
		t.Errorf("alu_out = %d, want 42", got)
	}
}

func TestExecuteSub(t *testing.T) {
	c := newTestCore(t)
	clearBackwardLanes(c)

	in := idexPayload(opcodemap.OpALU, opcodemap.F3ADDSUB, opcodemap.F7Alt, 1, 2, 3, 0, 10, 32, 0)
	out := Execute(in, c)
	if got := int32(out.GetU32(exmemALUOut)); got != -22 {
		t.Errorf("alu_out = %d, want -22", got)
	}
}

func TestExecuteForwardingMemWinsOverWB(t *testing.T) {
	c := newTestCore(t)
	clearBackwardLanes(c)

	wbFwd := core.NewPipelineData(fwdSize)
	wbFwd.PutU8(fwdRegWrite, 1)
	wbFwd.PutU8(fwdRd, 2)
	wbFwd.PutU32(fwdValue, 100)
	c.CDB.Assign(StageWB, StageEX, wbFwd)

	memFwd := core.NewPipelineData(fwdSize)
	memFwd.PutU8(fwdRegWrite, 1)
	memFwd.PutU8(fwdRd, 2)
	memFwd.PutU32(fwdValue, 7)
	c.CDB.Assign(StageMEM, StageEX, memFwd)

	// add rd=1, rs1=x2 (stale 0), rs2=x3 (stale 0)
	in := idexPayload(opcodemap.OpALU, opcodemap.F3ADDSUB, 0, 1, 2, 3, 0, 0, 0, 0)
	out := Execute(in, c)
	if got := out.GetU32(exmemALUOut); got != 7 {
		t.Errorf("alu_out = %d, want 7 (MEM forward, not WB's 100)", got)
	}
}

func TestExecuteForwardingSkipsX0(t *testing.T) {
	c := newTestCore(t)
	clearBackwardLanes(c)

	memFwd := core.NewPipelineData(fwdSize)
	memFwd.PutU8(fwdRegWrite, 1)
	memFwd.PutU8(fwdRd, 0)
	memFwd.PutU32(fwdValue, 0xdead)
	c.CDB.Assign(StageMEM, StageEX, memFwd)

	// addi rd=1, rs1=x0, imm=9 -- rs1Idx is 0, must not pick up the x0-targeted forward
	in := idexPayload(opcodemap.OpALUI, opcodemap.F3ADDSUB, 0, 1, 0, 0, 9, 0, 0, 0)
	out := Execute(in, c)
	if got := out.GetU32(exmemALUOut); got != 9 {
		t.Errorf("alu_out = %d, want 9 (x0 must not be forwarded into)", got)
	}
}

func TestExecuteBranchTaken(t *testing.T) {
	c := newTestCore(t)
	clearBackwardLanes(c)

	in := idexPayload(opcodemap.OpBranch, opcodemap.F3BEQ, 0, 0, 1, 2, 16, 5, 5, 0x8000_0000)
	out := Execute(in, c)
	if out.GetU8(exmemTakeJump) != 1 {
		t.Errorf("take_jump = %d, want 1", out.GetU8(exmemTakeJump))
	}
	if got := out.GetU32(exmemPC); got != 0x8000_0010 {
		t.Errorf("pc = %#x, want 0x80000010", got)
	}
}

func TestExecuteBranchNotTaken(t *testing.T) {
	c := newTestCore(t)
	clearBackwardLanes(c)

	in := idexPayload(opcodemap.OpBranch, opcodemap.F3BEQ, 0, 0, 1, 2, 16, 5, 6, 0x8000_0000)
	out := Execute(in, c)
	if out.GetU8(exmemTakeJump) != 0 {
		t.Errorf("take_jump = %d, want 0", out.GetU8(exmemTakeJump))
	}
}

func TestExecuteJALR(t *testing.T) {
	c := newTestCore(t)
	clearBackwardLanes(c)

	in := idexPayload(opcodemap.OpJALR, 0, 0, 1, 2, 0, 4, 0x8000_1000, 0, 0x8000_0010)
	out := Execute(in, c)
	if got := out.GetU32(exmemALUOut); got != 0x8000_0014 {
		t.Errorf("alu_out (link) = %#x, want 0x80000014", got)
	}
	if got := out.GetU32(exmemPC); got != 0x8000_1004 {
		t.Errorf("pc (target) = %#x, want 0x80001004", got)
	}
	if out.GetU8(exmemTakeJump) != 1 {
		t.Errorf("take_jump = %d, want 1", out.GetU8(exmemTakeJump))
	}
}
