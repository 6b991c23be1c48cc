/*
 * rv32pipe - UART0 memory-mapped device
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
	"io"
	"strings"
	"sync"
)

// uartRange is the default width of the UART0 MMIO window.
const uartRange = 0x100

// uartDataOffset is the offset of the transmit-data register; a write of
// any width to this offset prints each byte to the console.
const uartDataOffset = 0x4

// UART is the UART0 device: a write-only-to-stdout MMIO device. Reads are
// unsupported; there is no receive path in this build.
type UART struct {
	mu   sync.Mutex
	base Address
	out  io.Writer
}

// NewUART0 builds a UART0 device covering [base, base+0x100), writing
// transmitted bytes to out (typically os.Stdout).
func NewUART0(base Address, out io.Writer) *UART {
	return &UART{base: base, out: out}
}

func (u *UART) Size() uint64 {
	return uartRange
}

func (u *UART) Range() (Address, Address) {
	return u.base, u.base + uartRange
}

func (u *UART) Type() MemoryDeviceType {
	return UART0
}

func (u *UART) SendDataRequest(req MemoryRequest) MemoryResponse {
	start, end := u.Range()
	if req.Address < start || req.Address >= end {
		return MemoryResponse{Status: WrongMemoryMap}
	}
	if req.Type != WRITE {
		return MemoryResponse{Status: NotReadable}
	}
	offset := uint64(req.Address - u.base)
	if offset != uartDataOffset {
		return MemoryResponse{Status: Valid}
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	size := uint64(req.Size)
	if uint64(len(req.Data)) < size {
		panic(fmt.Sprintf("uart0: write of %d bytes supplied only %d bytes of data", size, len(req.Data)))
	}
	_, _ = u.out.Write(req.Data[:size])
	return MemoryResponse{Status: Valid}
}

func (u *UART) ReadRequest(req MemoryRequest) MemoryResponse {
	start, end := u.Range()
	if req.Address < start || req.Address >= end {
		return MemoryResponse{Status: WrongMemoryMap}
	}
	return MemoryResponse{Status: NotReadable}
}

func (u *UART) InitMem(addr Address, data []byte) error {
	return fmt.Errorf("uart0: InitMem not supported, device has no backing store")
}

func (u *UART) Debug(start, end Address) string {
	var b strings.Builder
	b.WriteString("uart0: write-only device, no readable state\n")
	return b.String()
}
