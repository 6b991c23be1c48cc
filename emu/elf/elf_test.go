/*
 * rv32pipe - ELF loader tests
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

package elf

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const (
	ehsize    = 52
	shentsize = 40
)

// buildMinimalELF writes a hand-assembled ELF32/LE/EM_RISCV file with a
// single loadable .text section, and returns its path. Every offset is
// computed from the buffer's own length as it is built, so the layout
// cannot drift out of sync with the bytes actually written.
func buildMinimalELF(t *testing.T, machine uint16, textAddr uint32, text []byte) string {
	t.Helper()

	shstrtab := []byte("\x00.text\x00.shstrtab\x00")
	const nameText = 1
	const nameShstrtab = 7

	textOff := uint32(ehsize)
	shstrtabOff := textOff + uint32(len(text))
	shoff := shstrtabOff + uint32(len(shstrtab))

	var buf bytes.Buffer

	ident := make([]byte, 16)
	ident[0], ident[1], ident[2], ident[3] = 0x7f, 'E', 'L', 'F'
	ident[4] = 1 // ELFCLASS32
	ident[5] = 1 // ELFDATA2LSB
	ident[6] = 1 // EV_CURRENT
	buf.Write(ident)

	w := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	w(uint16(2))       // e_type = ET_EXEC
	w(machine)         // e_machine
	w(uint32(1))       // e_version
	w(uint32(textAddr)) // e_entry
	w(uint32(0))       // e_phoff
	w(shoff)           // e_shoff
	w(uint32(0))       // e_flags
	w(uint16(ehsize))  // e_ehsize
	w(uint16(0))       // e_phentsize
	w(uint16(0))       // e_phnum
	w(uint16(shentsize))
	w(uint16(3)) // e_shnum: NULL, .text, .shstrtab
	w(uint16(2)) // e_shstrndx

	if buf.Len() != ehsize {
		t.Fatalf("header length = %d, want %d", buf.Len(), ehsize)
	}

	buf.Write(text)
	buf.Write(shstrtab)

	writeShdr := func(name, typ, flags, addr, offset, size uint32) {
		w(name)
		w(typ)
		w(flags)
		w(addr)
		w(offset)
		w(size)
		w(uint32(0)) // link
		w(uint32(0)) // info
		w(uint32(1)) // addralign
		w(uint32(0)) // entsize
	}

	writeShdr(0, 0, 0, 0, 0, 0)                                       // NULL
	writeShdr(nameText, 1, 6, textAddr, textOff, uint32(len(text)))   // .text: PROGBITS, ALLOC|EXECINSTR
	writeShdr(nameShstrtab, 3, 0, 0, shstrtabOff, uint32(len(shstrtab))) // .shstrtab: STRTAB

	path := filepath.Join(t.TempDir(), "test.elf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write elf: %v", err)
	}
	return path
}

func TestReadSectionsText(t *testing.T) {
	text := []byte{0x13, 0x01, 0x30, 0x00}
	path := buildMinimalELF(t, 243 /* EM_RISCV */, 0x8000_0000, text)

	sections, err := ReadSections(path)
	if err != nil {
		t.Fatalf("ReadSections: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if sections[0].Name != ".text" {
		t.Fatalf("name = %q, want .text", sections[0].Name)
	}
	if sections[0].Address != 0x8000_0000 {
		t.Fatalf("address = %#x, want 0x80000000", sections[0].Address)
	}
	if !bytes.Equal(sections[0].Data, text) {
		t.Fatalf("data = %x, want %x", sections[0].Data, text)
	}
}

func TestReadSectionsRejectsWrongMachine(t *testing.T) {
	path := buildMinimalELF(t, 0x3e /* EM_X86_64 */, 0x8000_0000, []byte{0, 0, 0, 0})

	if _, err := ReadSections(path); err == nil {
		t.Fatal("expected error for non-RISC-V machine type")
	}
}

func TestReadSectionsMissingFile(t *testing.T) {
	if _, err := ReadSections("/nonexistent/path.elf"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
