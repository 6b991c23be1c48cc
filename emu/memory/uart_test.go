/*
 * rv32pipe - UART0 tests
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
	"bytes"
	"testing"
)

func TestUART0WriteToDataOffset(t *testing.T) {
	var out bytes.Buffer
	u := NewUART0(0x4060_0000, &out)

	for _, c := range []byte("HI\n") {
		resp := u.SendDataRequest(MemoryRequest{Type: WRITE, Address: 0x4060_0004, Size: BYTE, Data: []byte{c}})
		if resp.Status != Valid {
			t.Fatalf("write status = %v, want Valid", resp.Status)
		}
	}
	if out.String() != "HI\n" {
		t.Fatalf("stdout = %q, want %q", out.String(), "HI\n")
	}
}

func TestUART0ReadUnsupported(t *testing.T) {
	u := NewUART0(0x4060_0000, &bytes.Buffer{})
	resp := u.ReadRequest(MemoryRequest{Address: 0x4060_0004, Size: BYTE})
	if resp.Status != NotReadable {
		t.Fatalf("status = %v, want NotReadable", resp.Status)
	}
}

func TestUART0OutOfRange(t *testing.T) {
	u := NewUART0(0x4060_0000, &bytes.Buffer{})
	resp := u.SendDataRequest(MemoryRequest{Type: WRITE, Address: 0x5000_0000, Size: BYTE, Data: []byte{1}})
	if resp.Status != WrongMemoryMap {
		t.Fatalf("status = %v, want WrongMemoryMap", resp.Status)
	}
}
