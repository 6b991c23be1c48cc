/*
 * rv32pipe - MCU wiring: assembles a Core from emu/cpu's stage functions
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

// Package mcu wires emu/core's generic pipeline machinery to emu/cpu's
// RV32I stage functions and emu/memory's devices, producing a runnable
// five-stage Core. Nothing else in this repository imports both
// emu/core and emu/cpu: this is the one seam where the two meet, by
// design, so the pipeline core itself stays free of any RV32I-specific
// import.
package mcu

import (
	"fmt"
	"io"
	"os"

	"github.com/rcornwell/rv32pipe/config/mcuconfig"
	"github.com/rcornwell/rv32pipe/emu/core"
	"github.com/rcornwell/rv32pipe/emu/cpu"
	"github.com/rcornwell/rv32pipe/emu/disassemble"
	"github.com/rcornwell/rv32pipe/emu/memory"
)

// NewMachine builds a Core configured per cfg: a five-stage RV32I
// pipeline over an I-cache/D-cache pair at the standard memory map and
// a UART0 device registered with the MMU. uartOut receives bytes the
// running program writes to UART0; pass nil to use os.Stdout.
func NewMachine(cfg mcuconfig.Config, uartOut io.Writer) (*core.Core, error) {
	if uartOut == nil {
		uartOut = os.Stdout
	}

	c := core.New(cpu.NumStages, cfg.ClockPeriod, cfg.CriticalPath, cfg.Debug)
	c.SetDisassembler(disassemble.Mnemonic)

	icache := memory.NewDirectMemory("icache", memory.L1ICACHE, core.InitialPC, cfg.ICacheLines, cfg.ICacheLineSize)
	dcacheBase := memory.Address(core.InitialPC) + memory.Address(cfg.ICacheLines*cfg.ICacheLineSize)
	dcache := memory.NewDirectMemory("dcache", memory.L1DCACHE, dcacheBase, cfg.DCacheLines, cfg.DCacheLineSize)
	c.AddL1Cache(icache, dcache)

	uart := memory.NewUART0(memory.Address(cfg.UARTBase), uartOut)
	if err := c.MMU.AddMemoryDevice(uart); err != nil {
		return nil, fmt.Errorf("mcu: registering UART0: %w", err)
	}

	ifid := core.NewFlipFlop()
	idex := core.NewFlipFlop()
	exmem := core.NewFlipFlop()
	memwb := core.NewFlipFlop()

	stages := []struct {
		name    string
		index   int
		outSize int
		process core.ProcessFunc
		input   <-chan core.Payload
		output  chan<- core.Payload
	}{
		{"IF", cpu.StageIF, cpu.IFIDSize, cpu.Fetch, nil, ifid},
		{"ID", cpu.StageID, cpu.IDEXSize, cpu.Decode, ifid, idex},
		{"EX", cpu.StageEX, cpu.EXMEMSize, cpu.Execute, idex, exmem},
		{"MEM", cpu.StageMEM, cpu.MEMWBSize, cpu.Memory, exmem, memwb},
		{"WB", cpu.StageWB, 0, cpu.Writeback, memwb, nil},
	}
	for _, s := range stages {
		if err := c.AddStage(core.NewPipelineStage(s.name, s.index, s.outSize, s.process, s.input, s.output)); err != nil {
			return nil, fmt.Errorf("mcu: %w", err)
		}
	}

	return c, nil
}

// LoadELF loads path's loadable sections into c's I/D-cache pair. The
// entry point is fixed at core.InitialPC per spec; this build does not
// honor an ELF's own e_entry.
func LoadELF(c *core.Core, path string) error {
	return c.LoadBinary(path, memory.L1ICACHE)
}

// LoadProgram writes instrs into c's I-cache starting at core.InitialPC,
// one word at a time through the same write path the pipeline itself
// uses. Test and tooling helper for feeding a hand-assembled instruction
// stream in without going through an ELF file.
func LoadProgram(c *core.Core, instrs []byte) error {
	for off := 0; off+4 <= len(instrs); off += 4 {
		req := memory.MemoryRequest{
			Type:    memory.WRITE,
			Address: memory.Address(core.InitialPC) + memory.Address(off),
			Size:    memory.WORD,
			Data:    instrs[off : off+4],
		}
		resp := c.ICacheRequest(req)
		if !resp.Status.Ok() {
			return fmt.Errorf("mcu: loading program at offset %d: %s", off, resp.Status)
		}
	}
	return nil
}
