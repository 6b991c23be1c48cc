/*
 * rv32pipe - Pipeline register payload layouts for RV32I
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

// Package cpu implements the RV32I stage process functions: fetch,
// decode, execute, memory, writeback. It wires the opcode tables in
// emu/opcodemap to the generic pipeline machinery in emu/core.
package cpu

// Stage indices in this build's fixed 5-stage pipeline.
const (
	StageIF = 0
	StageID = 1
	StageEX = 2
	StageMEM = 3
	StageWB = 4
)

// NumStages is the stage count this package's functions are wired for.
const NumStages = 5

// IF->ID payload (8 bytes).
const (
	ifidInstr = 0 // u32
	ifidPC    = 4 // u32
	ifidSize  = 8
)

// ID->EX payload (25 bytes).
const (
	idexOpcode     = 0  // u8
	idexFunc3      = 1  // u8
	idexFunc7      = 2  // u8
	idexRegWrite   = 3  // u8
	idexMemRW      = 4  // u8
	idexRd         = 5  // u8
	idexBranchJump = 6  // u8
	idexImm        = 7  // u32
	idexRs1        = 11 // u32
	idexRs2        = 15 // u32
	idexPC         = 19 // u32
	idexRs1Idx     = 23 // u8
	idexRs2Idx     = 24 // u8
	idexSize       = 25
)

// EX->MEM payload (18 bytes).
const (
	exmemRegWrite   = 0  // u8
	exmemMemRW      = 1  // u8
	exmemRd         = 2  // u8
	exmemFunc3      = 3  // u8
	exmemALUOut     = 4  // u32
	exmemRs2        = 8  // u32
	exmemBranchJump = 12 // u8
	exmemTakeJump   = 13 // u8
	exmemPC         = 14 // u32
	exmemSize       = 18
)

// MEM->WB payload (11 bytes).
const (
	memwbRegWrite = 0  // u8
	memwbRegSrc   = 1  // u8
	memwbRd       = 2  // u8
	memwbALUOut   = 3  // u32
	memwbMemValue = 7  // u32
	memwbSize     = 11
)

// Backward CDB payload {branch_or_jump, take_jump, pc}: MEM->IF, MEM->ID.
const (
	branchBranchJump = 0 // u8
	branchTakeJump   = 1 // u8
	branchPC         = 2 // u32
	branchSize       = 6
)

// Backward CDB payload {reg_write, rd, value}: MEM->EX, WB->ID, WB->EX.
const (
	fwdRegWrite = 0 // u8
	fwdRd       = 1 // u8
	fwdValue    = 2 // u32
	fwdSize     = 6
)

// mem_rw encodings carried on the ID->EX and EX->MEM payloads.
const (
	memRWNone  = 0
	memRWLoad  = 1
	memRWStore = 3
)

// Exported payload sizes, for wiring each stage's OutSize in emu/mcu.
const (
	IFIDSize  = ifidSize
	IDEXSize  = idexSize
	EXMEMSize = exmemSize
	MEMWBSize = memwbSize
)
