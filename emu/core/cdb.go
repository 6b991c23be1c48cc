/*
 * rv32pipe - Common Data Bus: matrix of intra-cycle wires
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

import "time"

// CommonDataBus is an N×N matrix of Wires: lane [from][to] is written by
// stage `from`'s combinational logic and read by stage `to`'s. Most lanes
// go unused; only backward (from > to) lanes carry forwarding or branch
// resolution in this pipeline.
type CommonDataBus struct {
	n      int
	matrix [][]*Wire
}

// NewCommonDataBus builds an n-stage CDB. criticalPath of zero means
// unbounded Wire reads.
func NewCommonDataBus(n int, criticalPath time.Duration, debug bool) *CommonDataBus {
	matrix := make([][]*Wire, n)
	for from := range matrix {
		matrix[from] = make([]*Wire, n)
		for to := range matrix[from] {
			matrix[from][to] = NewWire(criticalPath, debug)
		}
	}
	return &CommonDataBus{n: n, matrix: matrix}
}

// Assign writes PipelineData d onto lane [from][to].
func (c *CommonDataBus) Assign(from, to int, d PipelineData) {
	c.matrix[from][to].Assign(d)
}

// Pull reads lane [from][to], blocking per the Wire's wait semantics.
func (c *CommonDataBus) Pull(from, to int) PipelineData {
	return c.matrix[from][to].Read()
}

// Clear opens a new epoch on every outgoing lane of stage, dropping any
// stale combinational values before the cycle's new ones are assigned.
func (c *CommonDataBus) Clear(stage int) {
	for to := 0; to < c.n; to++ {
		c.matrix[stage][to].Clear()
	}
}
