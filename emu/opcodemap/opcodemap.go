/*
 * rv32pipe - RV32I opcode and mnemonic tables
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

// Package opcodemap holds the RV32I opcode/func3/func7 constant tables
// shared by the decode stage and the disassembler, so the two can never
// drift apart on what a given encoding means.
package opcodemap

// Major opcodes (instr[6:0]), base RV32I only.
const (
	OpLoad   = 0b0000011
	OpStore  = 0b0100011
	OpBranch = 0b1100011
	OpJALR   = 0b1100111
	OpJAL    = 0b1101111
	OpALUI   = 0b0010011
	OpALU    = 0b0110011
	OpLUI    = 0b0110111
	OpAUIPC  = 0b0010111
	OpFence  = 0b0001111
	OpSystem = 0b1110011
)

// ALU/ALUI func3 values.
const (
	F3ADDSUB = 0b000
	F3SLL    = 0b001
	F3SLT    = 0b010
	F3SLTU   = 0b011
	F3XOR    = 0b100
	F3SRL    = 0b101 // also SRA, disambiguated by func7 bit 30
	F3OR     = 0b110
	F3AND    = 0b111
)

// func7 value distinguishing SUB from ADD and SRA from SRL.
const F7Alt = 0b0100000

// BRANCH func3 values.
const (
	F3BEQ  = 0b000
	F3BNE  = 0b001
	F3BLT  = 0b100
	F3BGE  = 0b101
	F3BLTU = 0b110
	F3BGEU = 0b111
)

// LOAD func3 values.
const (
	F3LB  = 0b000
	F3LH  = 0b001
	F3LW  = 0b010
	F3LBU = 0b100
	F3LHU = 0b101
)

// STORE func3 values.
const (
	F3SB = 0b000
	F3SH = 0b001
	F3SW = 0b010
)

// Mnemonic returns a short RV32I mnemonic for opcode/func3/func7, or ""
// if the combination isn't one this core implements. Used only by the
// disassembler; decode itself switches on the numeric constants above.
func Mnemonic(opcode, func3, func7 uint32) string {
	switch opcode {
	case OpLoad:
		switch func3 {
		case F3LB:
			return "lb"
		case F3LH:
			return "lh"
		case F3LW:
			return "lw"
		case F3LBU:
			return "lbu"
		case F3LHU:
			return "lhu"
		}
	case OpStore:
		switch func3 {
		case F3SB:
			return "sb"
		case F3SH:
			return "sh"
		case F3SW:
			return "sw"
		}
	case OpBranch:
		switch func3 {
		case F3BEQ:
			return "beq"
		case F3BNE:
			return "bne"
		case F3BLT:
			return "blt"
		case F3BGE:
			return "bge"
		case F3BLTU:
			return "bltu"
		case F3BGEU:
			return "bgeu"
		}
	case OpJALR:
		return "jalr"
	case OpJAL:
		return "jal"
	case OpLUI:
		return "lui"
	case OpAUIPC:
		return "auipc"
	case OpALUI:
		switch func3 {
		case F3ADDSUB:
			return "addi"
		case F3SLL:
			return "slli"
		case F3SLT:
			return "slti"
		case F3SLTU:
			return "sltiu"
		case F3XOR:
			return "xori"
		case F3SRL:
			if func7 == F7Alt {
				return "srai"
			}
			return "srli"
		case F3OR:
			return "ori"
		case F3AND:
			return "andi"
		}
	case OpALU:
		switch func3 {
		case F3ADDSUB:
			if func7 == F7Alt {
				return "sub"
			}
			return "add"
		case F3SLL:
			return "sll"
		case F3SLT:
			return "slt"
		case F3SLTU:
			return "sltu"
		case F3XOR:
			return "xor"
		case F3SRL:
			if func7 == F7Alt {
				return "sra"
			}
			return "srl"
		case F3OR:
			return "or"
		case F3AND:
			return "and"
		}
	}
	return ""
}
