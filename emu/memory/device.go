/*
 * rv32pipe - Memory device abstraction
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

// Package memory defines the addressed byte-store abstraction shared by the
// on-chip direct-mapped RAM and the memory-mapped UART, and the typed
// request/response shapes the pipeline's MEM stage exchanges with them.
package memory

import "fmt"

// Address is a 64-bit address; RV32 only ever populates the low 32 bits.
type Address uint64

// WordSize is the width of a memory access.
type WordSize uint8

const (
	BYTE   WordSize = 1
	HALF   WordSize = 2
	WORD   WordSize = 4
	DOUBLE WordSize = 8
)

func (w WordSize) String() string {
	switch w {
	case BYTE:
		return "BYTE"
	case HALF:
		return "HALF"
	case WORD:
		return "WORD"
	case DOUBLE:
		return "DOUBLE"
	default:
		return fmt.Sprintf("WordSize(%d)", uint8(w))
	}
}

// RequestType distinguishes a load from a store.
type RequestType uint8

const (
	READ RequestType = iota
	WRITE
)

// MemoryDeviceType is an ordered enum: L1ICACHE and L1DCACHE are
// cache-like and live on the core directly; L2CACHE and everything
// above it are mapped devices routed through the MMU and must occupy
// disjoint address ranges.
type MemoryDeviceType uint8

const (
	L1ICACHE MemoryDeviceType = iota
	L1DCACHE
	L2CACHE
	LLCACHE
	MROM
	DRAM
	FLASH
	UART0
	DEBUG
	IOMMU
)

func (t MemoryDeviceType) String() string {
	switch t {
	case L1ICACHE:
		return "L1ICACHE"
	case L1DCACHE:
		return "L1DCACHE"
	case L2CACHE:
		return "L2CACHE"
	case LLCACHE:
		return "LLCACHE"
	case MROM:
		return "MROM"
	case DRAM:
		return "DRAM"
	case FLASH:
		return "FLASH"
	case UART0:
		return "UART0"
	case DEBUG:
		return "DEBUG"
	case IOMMU:
		return "IOMMU"
	default:
		return fmt.Sprintf("MemoryDeviceType(%d)", uint8(t))
	}
}

// CacheLike reports whether devices of this type are excluded from the
// MMU's address map (they sit directly on the core instead). Only the
// L1 caches are cache-like; L2CACHE and LLCACHE are mapped devices.
func (t MemoryDeviceType) CacheLike() bool {
	return t < L2CACHE
}

// ResponseStatus is the outcome of a memory request.
type ResponseStatus int

const (
	CacheHit ResponseStatus = iota
	CacheMiss
	Valid
	InvalidAddress
	UnalignedAddress
	NotWritable
	NotReadable
	NotExecutable
	WrongMemoryMap
)

func (s ResponseStatus) String() string {
	switch s {
	case CacheHit:
		return "CacheHit"
	case CacheMiss:
		return "CacheMiss"
	case Valid:
		return "Valid"
	case InvalidAddress:
		return "InvalidAddress"
	case UnalignedAddress:
		return "UnalignedAddress"
	case NotWritable:
		return "NotWritable"
	case NotReadable:
		return "NotReadable"
	case NotExecutable:
		return "NotExecutable"
	case WrongMemoryMap:
		return "WrongMemoryMap"
	default:
		return fmt.Sprintf("ResponseStatus(%d)", int(s))
	}
}

// Ok reports whether the status represents a successful completion.
func (s ResponseStatus) Ok() bool {
	return s == CacheHit || s == Valid
}

// MemoryRequest is a single read or write issued to a MemoryDevice.
type MemoryRequest struct {
	Type    RequestType
	Address Address
	Size    WordSize
	Data    []byte // present, length >= Size, for WRITE
}

// MemoryResponse is a MemoryDevice's answer to a MemoryRequest.
type MemoryResponse struct {
	Data   []byte
	Status ResponseStatus
}

// MemoryDevice is an addressed byte store: on-chip RAM or an MMIO
// peripheral. Implementations are safe for concurrent use.
type MemoryDevice interface {
	// Size returns the number of bytes the device covers.
	Size() uint64
	// Range returns the half-open [start, end) address span.
	Range() (Address, Address)
	// Type reports the device's position in the MemoryDeviceType order.
	Type() MemoryDeviceType
	// SendDataRequest performs a read or write.
	SendDataRequest(req MemoryRequest) MemoryResponse
	// ReadRequest performs a non-mutating read, ignoring req.Type.
	ReadRequest(req MemoryRequest) MemoryResponse
	// InitMem places bytes at addr during ELF loading.
	InitMem(addr Address, data []byte) error
	// Debug renders a hex dump of [start, end) for console inspection.
	Debug(start, end Address) string
}

// Contains reports whether addr lies in [start, end).
func Contains(start, end, addr Address) bool {
	return addr >= start && addr < end
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd Address) bool {
	return aStart < bEnd && bStart < aEnd
}
