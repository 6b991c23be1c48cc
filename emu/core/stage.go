/*
 * rv32pipe - Pipeline stage record
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

import "sync/atomic"

// Payload is what flows over the one-slot bounded flip-flop channel
// between two adjacent stages.
type Payload struct {
	Instruction uint32
	Data        PipelineData
}

// ProcessFunc is a stage's combinational logic: given this cycle's input
// payload and a borrow of the whole core, compute the candidate output.
// Fatal conditions are signaled by panicking with a *FatalStageError; the
// worker loop recovers it and turns it into a returned error, mirroring
// the assertion-style panics the RV32I semantics this is built from use
// for the same conditions.
type ProcessFunc func(dataIn PipelineData, c *Core) PipelineData

// ControlSignal is a stage's pair of post-combinational control bits.
// RESET squashes (zeros the committed output); ENABLE=false stalls (holds
// the current output). Both are atomic so the orchestrator can set them
// from outside the stage's own worker goroutine.
type ControlSignal struct {
	Reset  atomic.Bool
	Enable atomic.Bool
}

// NewControlSignal builds a signal with the default (false, true): not
// reset, enabled.
func NewControlSignal() *ControlSignal {
	c := &ControlSignal{}
	c.Enable.Store(true)
	return c
}

// PipelineStage is one stage's durable record: identity, wiring, and the
// mutable state a worker owns for the duration of a cycle. Only the
// stage's own worker goroutine may touch Instruction/Cycle/DataIn/DataOut;
// the CDB is the only legitimate cross-stage channel.
type PipelineStage struct {
	Name    string
	Index   int
	OutSize int

	Instruction uint32
	Cycle       uint64
	DataIn      PipelineData
	DataOut     PipelineData

	// Input is nil for the first stage.
	Input <-chan Payload
	// Output is nil for the last stage.
	Output chan<- Payload

	Process ProcessFunc
	Control *ControlSignal
}

// NewPipelineStage builds a stage. input/output may be nil for the first
// and last stage respectively.
func NewPipelineStage(name string, index, outSize int, process ProcessFunc, input <-chan Payload, output chan<- Payload) *PipelineStage {
	return &PipelineStage{
		Name:    name,
		Index:   index,
		OutSize: outSize,
		Process: process,
		Input:   input,
		Output:  output,
		Control: NewControlSignal(),
	}
}

// NewFlipFlop builds the one-slot bounded channel that models a pipeline
// register between two adjacent stages.
func NewFlipFlop() chan Payload {
	return make(chan Payload, 1)
}
