/*
 * rv32pipe - WB stage tests
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
)

func memwbPayload(regWrite, regSrc, rd uint8, aluOut, memValue uint32) core.PipelineData {
	p := core.NewPipelineData(memwbSize)
	p.PutU8(memwbRegWrite, regWrite)
	p.PutU8(memwbRegSrc, regSrc)
	p.PutU8(memwbRd, rd)
	p.PutU32(memwbALUOut, aluOut)
	p.PutU32(memwbMemValue, memValue)
	return p
}

func TestWritebackPublishesALUResult(t *testing.T) {
	c := newTestCore(t)

	in := memwbPayload(1, 0, 7, 0x55, 0xff)
	out := Writeback(in, c)
	if !out.Empty() {
		t.Errorf("WB's own output must be empty, got %v", []byte(out))
	}

	toID := c.CDB.Pull(StageWB, StageID)
	if toID.GetU8(fwdRd) != 7 || toID.GetU32(fwdValue) != 0x55 {
		t.Errorf("WB->ID = %v, want rd=7 value=0x55 (ALU result, not mem_value)", []byte(toID))
	}
	toEX := c.CDB.Pull(StageWB, StageEX)
	if toEX.GetU8(fwdRd) != 7 || toEX.GetU32(fwdValue) != 0x55 {
		t.Errorf("WB->EX = %v, want rd=7 value=0x55", []byte(toEX))
	}
}

func TestWritebackPublishesLoadedValue(t *testing.T) {
	c := newTestCore(t)

	in := memwbPayload(1, 1, 3, 0x55, 0xdeadbeef)
	Writeback(in, c)

	toID := c.CDB.Pull(StageWB, StageID)
	if toID.GetU32(fwdValue) != 0xdeadbeef {
		t.Errorf("value = %#x, want mem_value 0xdeadbeef", toID.GetU32(fwdValue))
	}
}

func TestWritebackBubblePublishesNoWrite(t *testing.T) {
	c := newTestCore(t)

	Writeback(core.PipelineData{}, c)

	toID := c.CDB.Pull(StageWB, StageID)
	if toID.GetU8(fwdRegWrite) != 0 {
		t.Errorf("bubble must not assert reg_write, got %v", []byte(toID))
	}
}
