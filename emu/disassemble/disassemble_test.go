/*
 * rv32pipe - disassemble tests
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

package disassemble

import "testing"

func TestMnemonicADDI(t *testing.T) {
	// addi x1, x2, 5
	instr := uint32(5<<20) | uint32(2<<15) | uint32(1<<7) | 0b0010011
	got := Mnemonic(instr)
	want := "addi x1, x2, 5"
	if got != want {
		t.Errorf("Mnemonic() = %q, want %q", got, want)
	}
}

func TestMnemonicUnknownFallsBackToHex(t *testing.T) {
	// OpFence (0b0001111) isn't in opcodemap.Mnemonic's switch.
	instr := uint32(0b0001111)
	got := Mnemonic(instr)
	want := "0000000f"
	if got != want {
		t.Errorf("Mnemonic() = %q, want %q", got, want)
	}
}

func TestMnemonicStoreNegativeImmediate(t *testing.T) {
	// sw x3, -4(x5): imm = -4 -> hi=0x7f (instr[31:25]), lo=0x1c (instr[11:7])
	raw := uint32(0xFFC) // 12-bit two's complement of -4
	hi := (raw >> 5) & 0x7f
	lo := raw & 0x1f
	instr := (hi << 25) | uint32(3<<20) | uint32(5<<15) | uint32(0b010<<12) | (lo << 7) | 0b0100011
	got := Mnemonic(instr)
	want := "sw x3, -4(x5)"
	if got != want {
		t.Errorf("Mnemonic() = %q, want %q", got, want)
	}
}
