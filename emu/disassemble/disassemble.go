/*
 * rv32pipe - Best-effort RV32I disassembler for trace output
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

// Package disassemble renders a best-effort RV32I mnemonic for the
// per-cycle stage trace. It depends only on emu/opcodemap, not
// emu/cpu, so the trace can describe an instruction word without the
// disassembler ever participating in the pipeline itself. Failure to
// recognize an encoding is never fatal here -- that is core.Core's
// disassemble hook contract -- so every path falls back to a hex
// rendering of the raw word.
package disassemble

import (
	"fmt"

	"github.com/rcornwell/rv32pipe/emu/opcodemap"
)

// Mnemonic renders instr as a short RV32I assembly line, or a hex
// fallback if the encoding isn't one this core implements.
func Mnemonic(instr uint32) string {
	opcode := instr & 0x7f
	func3 := (instr >> 12) & 0x7
	func7 := (instr >> 25) & 0x7f
	rd := (instr >> 7) & 0x1f
	rs1 := (instr >> 15) & 0x1f
	rs2 := (instr >> 20) & 0x1f

	name := opcodemap.Mnemonic(opcode, func3, func7)
	if name == "" {
		return fmt.Sprintf("%08x", instr)
	}

	switch opcode {
	case opcodemap.OpALU:
		return fmt.Sprintf("%s x%d, x%d, x%d", name, rd, rs1, rs2)
	case opcodemap.OpALUI, opcodemap.OpLoad, opcodemap.OpJALR:
		imm := int32(instr) >> 20
		return fmt.Sprintf("%s x%d, x%d, %d", name, rd, rs1, imm)
	case opcodemap.OpStore:
		raw := ((instr >> 25) << 5) | ((instr >> 7) & 0x1f)
		imm := int32(raw<<20) >> 20
		return fmt.Sprintf("%s x%d, %d(x%d)", name, rs2, imm, rs1)
	case opcodemap.OpBranch:
		return fmt.Sprintf("%s x%d, x%d, pc-relative", name, rs1, rs2)
	case opcodemap.OpJAL:
		return fmt.Sprintf("%s x%d, pc-relative", name, rd)
	case opcodemap.OpLUI, opcodemap.OpAUIPC:
		return fmt.Sprintf("%s x%d, %#x", name, rd, instr&0xFFFFF000)
	default:
		return fmt.Sprintf("%08x", instr)
	}
}
