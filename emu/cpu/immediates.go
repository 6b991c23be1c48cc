/*
 * rv32pipe - RV32I immediate decoding
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

import "github.com/rcornwell/rv32pipe/emu/opcodemap"

func bit(instr uint32, n uint) uint32 {
	return (instr >> n) & 1
}

func bits(instr uint32, hi, lo uint) uint32 {
	return (instr >> lo) & ((1 << (hi - lo + 1)) - 1)
}

// signExtend sign-extends the low `width` bits of v to a full int32, then
// returns it reinterpreted as uint32 (RV32I's two's-complement words).
func signExtend(v uint32, width uint) uint32 {
	shift := 32 - width
	return uint32(int32(v<<shift) >> shift)
}

// decodeImmediate computes the immediate field for instr given its major
// opcode, per RV32I's per-format bit layout. The U-type immediate is
// returned pre-shift (the low 12 bits of the instruction); EX applies the
// <<12 per the fixed convention this build uses.
func decodeImmediate(opcode uint32, instr uint32) (imm uint32, ok bool) {
	switch opcode {
	case opcodemap.OpALUI, opcodemap.OpLoad, opcodemap.OpJALR:
		// I-type: arithmetic right shift by 20.
		return uint32(int32(instr) >> 20), true

	case opcodemap.OpStore:
		hi := bits(instr, 31, 25)
		lo := bits(instr, 11, 7)
		return signExtend((hi<<5)|lo, 12), true

	case opcodemap.OpBranch:
		v := (bit(instr, 31) << 12) | (bit(instr, 7) << 11) | (bits(instr, 30, 25) << 5) | (bits(instr, 11, 8) << 1)
		return signExtend(v, 13), true

	case opcodemap.OpJAL:
		v := (bit(instr, 31) << 20) | (bits(instr, 19, 12) << 12) | (bit(instr, 20) << 11) | (bits(instr, 30, 21) << 1)
		return signExtend(v, 21), true

	case opcodemap.OpLUI, opcodemap.OpAUIPC:
		// U-type: low 12 bits of the instruction retained pre-shift.
		return instr & 0xFFF, true

	case opcodemap.OpALU:
		return 0, true

	default:
		return 0, false
	}
}
