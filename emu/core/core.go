/*
 * rv32pipe - Core orchestrator: construction, clock, barrier, trace
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
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rcornwell/rv32pipe/emu/elf"
	"github.com/rcornwell/rv32pipe/emu/memory"
	"github.com/rcornwell/rv32pipe/emu/mmu"
)

// FatalStageError is the panic payload a ProcessFunc raises for a
// condition §7's error taxonomy marks fatal (unsupported opcode, a memory
// response the stage cannot recover from, ...). The worker loop recovers
// it and returns it as Run's error.
type FatalStageError struct {
	Stage string
	Err   error
}

func (e *FatalStageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FatalStageError) Unwrap() error {
	return e.Err
}

// Fatalf panics with a FatalStageError built from the given stage name and
// message; call this from inside a ProcessFunc for any condition §7 marks
// fatal at that stage.
func Fatalf(stage, format string, args ...any) {
	panic(&FatalStageError{Stage: stage, Err: fmt.Errorf(format, args...)})
}

// Core is the long-lived aggregate of interior-mutable facets every stage
// borrows: registers, PC, the CDB, and the memory hierarchy. Stages never
// own each other; the CDB and this struct's facet methods are the only
// legitimate cross-stage surface.
type Core struct {
	numStages    int
	clockPeriod  time.Duration
	criticalPath time.Duration
	debug        bool

	Registers *Registers
	PC        *ProgramCounter
	CDB       *CommonDataBus
	MMU       *mmu.MMU

	stages []*PipelineStage
	icache memory.MemoryDevice
	dcache memory.MemoryDevice

	risingBarrier  *Barrier
	fallingBarrier *Barrier

	traceEnabled atomic.Bool
	disassemble  func(uint32) string

	mu     sync.Mutex
	err    error
	cycles atomic.Uint64
}

// New builds a Core with numStages stages (none yet added), an N×N CDB, a
// default MMU, PC at InitialPC, and per-stage control signals defaulted to
// (RESET=false, ENABLE=true) as each stage is added.
func New(numStages int, clockPeriod, criticalPath time.Duration, debug bool) *Core {
	return &Core{
		numStages:      numStages,
		clockPeriod:    clockPeriod,
		criticalPath:   criticalPath,
		debug:          debug,
		Registers:      &Registers{},
		PC:             NewProgramCounter(),
		CDB:            NewCommonDataBus(numStages, criticalPath, debug),
		MMU:            mmu.New(),
		stages:         make([]*PipelineStage, 0, numStages),
		risingBarrier:  NewBarrier(numStages),
		fallingBarrier: NewBarrier(numStages),
	}
}

// SetDisassembler installs an optional best-effort mnemonic renderer used
// by the per-cycle trace; disassembly failures must never be fatal, so the
// function itself is expected to fall back to a hex rendering on its own.
func (c *Core) SetDisassembler(f func(uint32) string) {
	c.disassemble = f
}

// SetTrace toggles per-cycle stage trace logging.
func (c *Core) SetTrace(on bool) {
	c.traceEnabled.Store(on)
}

// AddL1Cache registers the I-side and D-side direct memories. These are
// not entered into the MMU; icache_request/dcache_request consult them
// directly before falling back to the MMU.
func (c *Core) AddL1Cache(icache, dcache memory.MemoryDevice) {
	c.icache = icache
	c.dcache = dcache
}

// AddStage appends s, capped at numStages.
func (c *Core) AddStage(s *PipelineStage) error {
	if len(c.stages) >= c.numStages {
		return fmt.Errorf("core: cannot add stage %q, already have %d of %d stages", s.Name, len(c.stages), c.numStages)
	}
	c.stages = append(c.stages, s)
	return nil
}

// Stage returns the stage at index i, for console inspection.
func (c *Core) Stage(i int) *PipelineStage {
	if i < 0 || i >= len(c.stages) {
		return nil
	}
	return c.stages[i]
}

// NumStages returns the configured stage count.
func (c *Core) NumStages() int {
	return c.numStages
}

// Cycles returns the number of cycles executed so far.
func (c *Core) Cycles() uint64 {
	return c.cycles.Load()
}

// ICacheRequest tries the I-cache; a CacheHit returns directly, anything
// else is forwarded to the MMU. A Core with no attached I-cache is a
// configuration error and is fatal.
func (c *Core) ICacheRequest(req memory.MemoryRequest) memory.MemoryResponse {
	if c.icache == nil {
		Fatalf("IF", "no instruction cache attached to core")
	}
	resp := c.icache.SendDataRequest(req)
	if resp.Status == memory.CacheHit {
		return resp
	}
	return c.MMU.ProcessMemoryRequest(req)
}

// DCacheRequest is ICacheRequest's D-side counterpart, used by MEM.
func (c *Core) DCacheRequest(req memory.MemoryRequest) memory.MemoryResponse {
	if c.dcache == nil {
		Fatalf("MEM", "no data cache attached to core")
	}
	resp := c.dcache.SendDataRequest(req)
	if resp.Status == memory.CacheHit {
		return resp
	}
	return c.MMU.ProcessMemoryRequest(req)
}

// elfSectionNames is the set of loadable section names the external ELF
// reader is filtered to, per spec.
var elfSectionNames = map[string]bool{
	".text": true, ".data": true, ".sdata": true,
	".rodata": true, ".bss": true, ".sbss": true,
}

// LoadBinary loads an ELF file's loadable sections. If targetDeviceType is
// L1ICACHE or L1DCACHE (i.e. <= L1DCACHE), .text goes to the I-cache and
// everything else to the D-cache, each cache's InitMem receiving the
// section's linked address and subtracting its own base. Otherwise
// sections are placed through the MMU at their linked address.
func (c *Core) LoadBinary(path string, targetDeviceType memory.MemoryDeviceType) error {
	sections, err := elf.ReadSections(path)
	if err != nil {
		return fmt.Errorf("core: load %s: %w", path, err)
	}

	for _, s := range sections {
		if !elfSectionNames[s.Name] {
			continue
		}
		if targetDeviceType <= memory.L1DCACHE {
			dev := c.dcache
			if s.Name == ".text" {
				dev = c.icache
			}
			if dev == nil {
				return fmt.Errorf("core: load %s: no cache attached for section %s", path, s.Name)
			}
			start, _ := dev.Range()
			if err := dev.InitMem(memory.Address(s.Address), s.Data); err != nil {
				return fmt.Errorf("core: load %s section %s at %#x (offset from base %#x): %w", path, s.Name, s.Address, start, err)
			}
			continue
		}
		if err := c.MMU.InitSectionIntoMemory(memory.Address(s.Address), s.Data); err != nil {
			return fmt.Errorf("core: load %s section %s: %w", path, s.Name, err)
		}
	}
	return nil
}

// recordErr stores the first fatal error seen across all stage workers.
func (c *Core) recordErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

// Err returns the first fatal error recorded by a stage worker, if any.
func (c *Core) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Run spawns one worker goroutine per stage and advances at most
// maxCycles cycles (unbounded if maxCycles is zero). It blocks until every
// worker has exited, then returns the first fatal error recorded, if any.
func (c *Core) Run(ctx context.Context, maxCycles uint64) error {
	if len(c.stages) != c.numStages {
		return fmt.Errorf("core: %d of %d stages registered, cannot run", len(c.stages), c.numStages)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range c.stages {
		stage := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.runStage(runCtx, stage, maxCycles); err != nil {
				c.recordErr(err)
				cancel()
			}
		}()
	}
	wg.Wait()

	if err := c.Err(); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// runStage is the per-stage worker loop implementing the nine steps of
// the pipeline clock: clear this stage's CDB lanes, rendezvous at the
// rising edge, sample the flip-flop input, run combinational logic,
// rendezvous at the falling edge, apply control signals, pace to the
// clock period, emit to the next stage, and repeat.
func (c *Core) runStage(ctx context.Context, stage *PipelineStage, maxCycles uint64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if fse, ok := r.(*FatalStageError); ok {
				err = fse
				return
			}
			err = fmt.Errorf("%s: panic: %v", stage.Name, r)
		}
	}()

	base := c.cycles.Load()
	for cycle := uint64(0); maxCycles == 0 || cycle < maxCycles; cycle++ {
		c.CDB.Clear(stage.Index)

		if waitErr := c.risingBarrier.Wait(ctx); waitErr != nil {
			return nil
		}

		var instruction uint32
		var dataIn PipelineData
		if stage.Input != nil {
			select {
			case p, ok := <-stage.Input:
				if !ok {
					return fmt.Errorf("%s: upstream channel disconnected", stage.Name)
				}
				instruction = p.Instruction
				dataIn = p.Data
			default:
				instruction = 0
				dataIn = PipelineData{}
			}
		}
		held := stage.Instruction
		stage.Instruction = instruction
		stage.Cycle = cycle
		stage.DataIn = dataIn

		start := time.Now()
		candidate := stage.Process(dataIn, c)
		elapsed := time.Since(start)

		if waitErr := c.fallingBarrier.Wait(ctx); waitErr != nil {
			return nil
		}

		reset := stage.Control.Reset.Load()
		enable := stage.Control.Enable.Load()
		switch {
		case reset:
			stage.DataOut = NewPipelineData(stage.OutSize)
			stage.Instruction = 0
		case enable:
			stage.DataOut = candidate
			if stage.Index == 0 {
				c.PC.Add(4)
			}
		default:
			stage.Instruction = held
		}

		c.trace(stage)

		if c.clockPeriod > 0 {
			if elapsed < c.clockPeriod {
				time.Sleep(c.clockPeriod - elapsed)
			} else if elapsed > c.clockPeriod {
				slog.Warn("delay exceeds clock", "stage", stage.Name, "cycle", cycle, "elapsed", elapsed, "clock_period", c.clockPeriod)
			}
		}

		c.cycles.Store(base + cycle + 1)

		if stage.Output != nil {
			select {
			case stage.Output <- Payload{Instruction: stage.Instruction, Data: stage.DataOut}:
			case <-ctx.Done():
				return nil
			}
		}
	}
	return nil
}

// trace emits an optional per-cycle line: cycle, stage, instruction word,
// best-effort disassembly (or hex), and the current PC. Gated by SetTrace.
func (c *Core) trace(stage *PipelineStage) {
	if !c.traceEnabled.Load() {
		return
	}
	mnemonic := fmt.Sprintf("%08x", stage.Instruction)
	if c.disassemble != nil {
		mnemonic = c.disassemble(stage.Instruction)
	}
	slog.Info("stage tick", "cycle", stage.Cycle, "name", stage.Name, "instr", mnemonic, "pc", fmt.Sprintf("%#08x", c.PC.Get()))
}
