/*
 * rv32pipe - Debug console command parser.
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

// Package parser implements the interactive debug console's command
// dispatch: a fixed table of abbreviation-matched commands over the
// running Core, in the same minimum-prefix style the line-oriented
// channel console used, reduced to the handful of commands a
// single-core pipeline simulator needs.
package parser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rcornwell/rv32pipe/emu/core"
	"github.com/rcornwell/rv32pipe/emu/memory"
)

type cmd struct {
	name    string // Command name.
	min     int    // Minimum unambiguous prefix length.
	process func(*cmdLine, *core.Core) (bool, error)
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

var cmdList = []cmd{
	{name: "step", min: 1, process: step},
	{name: "continue", min: 1, process: cont},
	{name: "regs", min: 1, process: regs},
	{name: "mem", min: 1, process: mem},
	{name: "trace", min: 1, process: trace},
	{name: "quit", min: 1, process: quit},
}

// ProcessCommand executes commandLine against machine. The first return
// value is true when the console should exit.
func ProcessCommand(commandLine string, machine *core.Core) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	switch len(match) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return match[0].process(&line, machine)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

// CompleteCmd returns the command names commandLine's first word could
// still expand to, for the console's line editor.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()
	if !line.isEOL() {
		return nil
	}
	match := matchList(name)
	names := make([]string, len(match))
	for i, m := range match {
		names[i] = m.name
	}
	return names
}

// matchCommand reports whether command is a prefix of match.name at
// least match.min characters long.
func matchCommand(match cmd, command string) bool {
	if len(command) < match.min || len(command) > len(match.name) {
		return false
	}
	return strings.HasPrefix(match.name, command)
}

func matchList(command string) []cmd {
	if command == "" {
		return nil
	}
	var out []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			out = append(out, m)
		}
	}
	return out
}

func (line *cmdLine) isEOL() bool {
	return line.pos >= len(line.line)
}

func (line *cmdLine) skipSpace() {
	for !line.isEOL() && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// getWord returns the next whitespace-delimited token, lower-cased.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	return strings.ToLower(line.line[start:line.pos])
}

// getUint parses the next token as an unsigned integer, accepting a
// 0x-prefixed hex literal or a plain decimal one.
func (line *cmdLine) getUint() (uint64, error) {
	tok := line.getWord()
	if tok == "" {
		return 0, errors.New("expected a number")
	}
	if rest, ok := strings.CutPrefix(tok, "0x"); ok {
		return strconv.ParseUint(rest, 16, 64)
	}
	return strconv.ParseUint(tok, 10, 64)
}

func step(line *cmdLine, machine *core.Core) (bool, error) {
	n := uint64(1)
	if !line.isEOL() {
		var err error
		n, err = line.getUint()
		if err != nil {
			return false, fmt.Errorf("step: %w", err)
		}
	}
	if err := machine.Run(context.Background(), n); err != nil {
		return false, err
	}
	fmt.Printf("cycle %d, pc=%#08x\n", machine.Cycles(), machine.PC.Get())
	return false, nil
}

func cont(_ *cmdLine, machine *core.Core) (bool, error) {
	if err := machine.Run(context.Background(), 0); err != nil {
		return false, err
	}
	fmt.Printf("stopped at cycle %d, pc=%#08x\n", machine.Cycles(), machine.PC.Get())
	return false, nil
}

func regs(_ *cmdLine, machine *core.Core) (bool, error) {
	fmt.Printf("pc =%08x\n%s", machine.PC.Get(), machine.Registers.String())
	return false, nil
}

// mem hex-dumps len bytes from addr, trying the D-cache's request path
// (which falls through to the MMU for anything the cache doesn't own,
// the UART included) first and the I-cache second.
func mem(line *cmdLine, machine *core.Core) (bool, error) {
	addr, err := line.getUint()
	if err != nil {
		return false, fmt.Errorf("mem: address: %w", err)
	}
	length, err := line.getUint()
	if err != nil {
		return false, fmt.Errorf("mem: length: %w", err)
	}

	for off := uint64(0); off < length; off += 4 {
		req := memory.MemoryRequest{Type: memory.READ, Address: memory.Address(addr + off), Size: memory.WORD}
		resp := machine.DCacheRequest(req)
		if !resp.Status.Ok() {
			resp = machine.ICacheRequest(req)
		}
		if !resp.Status.Ok() {
			return false, fmt.Errorf("mem: %#08x: %s", addr+off, resp.Status)
		}
		fmt.Printf("%08x: % x\n", addr+off, resp.Data)
	}
	return false, nil
}

func trace(line *cmdLine, machine *core.Core) (bool, error) {
	word := line.getWord()
	switch word {
	case "", "on":
		machine.SetTrace(true)
		fmt.Println("trace on")
	case "off":
		machine.SetTrace(false)
		fmt.Println("trace off")
	default:
		return false, errors.New("trace: expected on or off")
	}
	return false, nil
}

func quit(_ *cmdLine, _ *core.Core) (bool, error) {
	return true, nil
}
