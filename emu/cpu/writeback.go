/*
 * rv32pipe - WB: writeback stage
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

import "github.com/rcornwell/rv32pipe/emu/core"

// Writeback is WB's process function. The architectural register write
// itself happens one cycle later, in Decode's WB->ID commit
// short-circuit; here WB only selects the value to commit and publishes
// it on the WB->ID and WB->EX forwarding lanes. The returned payload is
// always empty: WB is the end of the pipeline and nothing consumes it.
func Writeback(dataIn core.PipelineData, c *core.Core) core.PipelineData {
	var regWrite, rd uint8
	var value uint32

	if !dataIn.Empty() {
		regWrite = dataIn.GetU8(memwbRegWrite)
		rd = dataIn.GetU8(memwbRd)
		if dataIn.GetU8(memwbRegSrc) == 1 {
			value = dataIn.GetU32(memwbMemValue)
		} else {
			value = dataIn.GetU32(memwbALUOut)
		}
	}

	fwd := core.NewPipelineData(fwdSize)
	fwd.PutU8(fwdRegWrite, regWrite)
	fwd.PutU8(fwdRd, rd)
	fwd.PutU32(fwdValue, value)
	c.CDB.Assign(StageWB, StageID, fwd)
	c.CDB.Assign(StageWB, StageEX, fwd)

	return core.NewPipelineData(0)
}
