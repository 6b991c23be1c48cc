/*
 * rv32pipe - ELF loadable-section extraction
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

// Package elf is the external-collaborator ELF reader: it yields the
// loadable sections of an RV32 little-endian ELF as (virtual address,
// bytes) chunks. It knows nothing about the pipeline or memory devices;
// emu/core decides where each section's bytes land.
package elf

import (
	dbgelf "debug/elf"
	"fmt"
)

// loadableNames is the set of section names spec.md's ELF contract names
// as loadable; anything else (.symtab, .comment, debug sections, ...) is
// ignored.
var loadableNames = map[string]bool{
	".text": true, ".data": true, ".sdata": true,
	".rodata": true, ".bss": true, ".sbss": true,
}

// Section is one loadable chunk: Data is zero-filled to the section's
// size for a NOBITS (.bss/.sbss) section, since there is nothing on disk
// to copy.
type Section struct {
	Name    string
	Address uint64
	Data    []byte
}

// ReadSections opens the ELF file at path and returns its loadable
// sections. It requires a 32-bit, little-endian, EM_RISCV file.
func ReadSections(path string) ([]Section, error) {
	f, err := dbgelf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("elf: open %s: %w", path, err)
	}
	defer f.Close()

	if f.Class != dbgelf.ELFCLASS32 {
		return nil, fmt.Errorf("elf: %s is not a 32-bit ELF", path)
	}
	if f.Data != dbgelf.ELFDATA2LSB {
		return nil, fmt.Errorf("elf: %s is not little-endian", path)
	}
	if f.Machine != dbgelf.EM_RISCV {
		return nil, fmt.Errorf("elf: %s is not an EM_RISCV binary", path)
	}

	var sections []Section
	for _, s := range f.Sections {
		if !loadableNames[s.Name] {
			continue
		}
		if s.Flags&dbgelf.SHF_ALLOC == 0 || s.Size == 0 {
			continue
		}
		data := make([]byte, s.Size)
		if s.Type != dbgelf.SHT_NOBITS {
			b, err := s.Data()
			if err != nil {
				return nil, fmt.Errorf("elf: read section %s: %w", s.Name, err)
			}
			copy(data, b)
		}
		sections = append(sections, Section{Name: s.Name, Address: s.Addr, Data: data})
	}
	return sections, nil
}
