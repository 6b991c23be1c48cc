/*
 * rv32pipe - Direct-mapped on-chip memory
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

package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rcornwell/rv32pipe/util/hex"
)

// DirectMemory is a line-organized on-chip RAM standing in for both the
// I-side and D-side cache. It does no tag matching or replacement: every
// address in range is simply a byte in a flat backing array, but the
// response vocabulary still reports CacheHit/CacheMiss so a later memory
// hierarchy can replace this device without changing the stage protocol.
type DirectMemory struct {
	mu         sync.RWMutex
	name       string
	deviceType MemoryDeviceType
	base       Address
	lineSize   uint64
	lineCount  uint64
	data       []byte
}

// NewDirectMemory builds a device of lineCount lines of lineSize bytes each,
// based at base, reporting as deviceType.
func NewDirectMemory(name string, deviceType MemoryDeviceType, base Address, lineCount, lineSize uint64) *DirectMemory {
	return &DirectMemory{
		name:       name,
		deviceType: deviceType,
		base:       base,
		lineSize:   lineSize,
		lineCount:  lineCount,
		data:       make([]byte, lineCount*lineSize),
	}
}

func (d *DirectMemory) Size() uint64 {
	return d.lineCount * d.lineSize
}

func (d *DirectMemory) Range() (Address, Address) {
	return d.base, d.base + Address(d.Size())
}

func (d *DirectMemory) Type() MemoryDeviceType {
	return d.deviceType
}

// lineOf returns the line index containing offset, for the unaligned-access
// check: a WORD access spanning two lines is rejected even though it would
// fit inside the flat backing array.
func (d *DirectMemory) lineOf(offset uint64) uint64 {
	return offset / d.lineSize
}

func (d *DirectMemory) SendDataRequest(req MemoryRequest) MemoryResponse {
	d.mu.Lock()
	defer d.mu.Unlock()

	start, end := d.base, d.base+Address(d.Size())
	if req.Address < start || req.Address >= end {
		return MemoryResponse{Status: WrongMemoryMap}
	}
	offset := uint64(req.Address - d.base)
	size := uint64(req.Size)
	if size > 1 && d.lineOf(offset) != d.lineOf(offset+size-1) {
		return MemoryResponse{Status: UnalignedAddress}
	}
	if offset+size > uint64(len(d.data)) {
		return MemoryResponse{Status: WrongMemoryMap}
	}

	switch req.Type {
	case WRITE:
		if uint64(len(req.Data)) < size {
			panic(fmt.Sprintf("%s: write of %d bytes at %#x supplied only %d bytes of data", d.name, size, req.Address, len(req.Data)))
		}
		copy(d.data[offset:offset+size], req.Data[:size])
		return MemoryResponse{Status: CacheHit}
	case READ:
		out := make([]byte, size)
		copy(out, d.data[offset:offset+size])
		return MemoryResponse{Data: out, Status: CacheHit}
	default:
		return MemoryResponse{Status: InvalidAddress}
	}
}

func (d *DirectMemory) ReadRequest(req MemoryRequest) MemoryResponse {
	req.Type = READ
	return d.SendDataRequest(req)
}

func (d *DirectMemory) InitMem(addr Address, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	start, end := d.base, d.base+Address(d.Size())
	if addr < start || addr+Address(len(data)) > end {
		return fmt.Errorf("%s: section at %#x length %d does not fit in [%#x, %#x)", d.name, addr, len(data), start, end)
	}
	offset := uint64(addr - d.base)
	copy(d.data[offset:offset+uint64(len(data))], data)
	return nil
}

func (d *DirectMemory) Debug(start, end Address) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var b strings.Builder
	base, top := d.base, d.base+Address(d.Size())
	if start < base {
		start = base
	}
	if end > top {
		end = top
	}
	for addr := start; addr < end; addr += 16 {
		line := end - addr
		if line > 16 {
			line = 16
		}
		offset := uint64(addr - d.base)
		fmt.Fprintf(&b, "%08X: ", uint32(addr))
		hex.FormatBytes(&b, true, d.data[offset:offset+uint64(line)])
		b.WriteByte('\n')
	}
	return b.String()
}
