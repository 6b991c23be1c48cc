/*
 * rv32pipe - Architectural register file and program counter
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

package core

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// NumRegisters is the RV32I integer register count, x0..x31.
const NumRegisters = 32

// InitialPC is the reset program counter for this build.
const InitialPC = 0x8000_0000

// Registers is the 32-word integer register file. x0 is hard-wired to
// zero: Write silently drops any store to register 0.
type Registers struct {
	regs [NumRegisters]atomic.Uint32
}

// Read returns the values of rs1 and rs2 in one call, matching the
// combined read the decode stage performs every cycle.
func (r *Registers) Read(rs1, rs2 uint8) (uint32, uint32) {
	return r.regs[rs1&0x1f].Load(), r.regs[rs2&0x1f].Load()
}

// ReadOne returns the value of a single register.
func (r *Registers) ReadOne(rx uint8) uint32 {
	return r.regs[rx&0x1f].Load()
}

// Write stores v into rd, unless rd is x0.
func (r *Registers) Write(rd uint8, v uint32) {
	rd &= 0x1f
	if rd == 0 {
		return
	}
	r.regs[rd].Store(v)
}

// String renders all 32 registers, four per line, for the debug console
// and for end-to-end test assertions.
func (r *Registers) String() string {
	var b strings.Builder
	for i := 0; i < NumRegisters; i++ {
		fmt.Fprintf(&b, "x%-2d=%08x ", i, r.regs[i].Load())
		if i%4 == 3 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ProgramCounter is the single shared atomic PC register.
type ProgramCounter struct {
	pc atomic.Uint32
}

// NewProgramCounter builds a PC initialized to InitialPC.
func NewProgramCounter() *ProgramCounter {
	p := &ProgramCounter{}
	p.pc.Store(InitialPC)
	return p
}

func (p *ProgramCounter) Get() uint32 {
	return p.pc.Load()
}

func (p *ProgramCounter) Set(v uint32) {
	p.pc.Store(v)
}

func (p *ProgramCounter) Add(delta uint32) {
	p.pc.Add(delta)
}
