/*
 * rv32pipe - Pipeline register payload
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

// Package core is the generic pipeline machinery: the Wire and CDB
// combinational fabric, the pipeline stage record and cycle barrier, the
// register file and PC, and the Core orchestrator that ties them together.
// It knows nothing about RV32I; the instruction semantics live in emu/cpu,
// which is wired to a Core by emu/mcu.
package core

import "encoding/binary"

// PipelineData is the fixed-layout little-endian byte payload carried by a
// pipeline register or a CDB lane. A zero-length PipelineData is a bubble.
type PipelineData []byte

// NewPipelineData allocates a zero-filled payload of n bytes.
func NewPipelineData(n int) PipelineData {
	return make(PipelineData, n)
}

// Empty reports whether this payload is a bubble.
func (p PipelineData) Empty() bool {
	return len(p) == 0
}

func (p PipelineData) GetU8(off int) uint8 {
	return p[off]
}

func (p PipelineData) GetU16(off int) uint16 {
	return binary.LittleEndian.Uint16(p[off : off+2])
}

func (p PipelineData) GetU32(off int) uint32 {
	return binary.LittleEndian.Uint32(p[off : off+4])
}

func (p PipelineData) GetU64(off int) uint64 {
	return binary.LittleEndian.Uint64(p[off : off+8])
}

func (p PipelineData) PutU8(off int, v uint8) {
	p[off] = v
}

func (p PipelineData) PutU16(off int, v uint16) {
	binary.LittleEndian.PutUint16(p[off:off+2], v)
}

func (p PipelineData) PutU32(off int, v uint32) {
	binary.LittleEndian.PutUint32(p[off:off+4], v)
}

func (p PipelineData) PutU64(off int, v uint64) {
	binary.LittleEndian.PutUint64(p[off:off+8], v)
}
