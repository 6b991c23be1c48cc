/*
 * rv32pipe - Debug console line reader.
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

// Package reader drives the interactive debug console's line editor,
// dispatching each entered line to command/parser.
package reader

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/peterh/liner"

	"github.com/rcornwell/rv32pipe/command/parser"
	"github.com/rcornwell/rv32pipe/emu/core"
)

// ConsoleReader reads and dispatches commands against machine until a
// quit command or a prompt abort (Ctrl-D). machine is expected to already
// have an ELF loaded; the console starts at whatever PC that left it on.
func ConsoleReader(machine *core.Core) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) []string {
		return parser.CompleteCmd(line)
	})

	fmt.Printf("rv32sim debug console: pc=%#08x, %d stage(s)\n", machine.PC.Get(), machine.NumStages())

	for {
		command, err := line.Prompt("rv32sim> ")
		if err == nil {
			line.AppendHistory(command)
			quit, err := parser.ProcessCommand(command, machine)
			if err != nil {
				fmt.Println("Error: " + err.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			reportExit(machine)
			return
		}
		slog.Error("error reading line: " + err.Error())
	}
}

// reportExit prints the cycle and PC the core stopped on, and any fatal
// stage error a prior run/step left recorded, so a Ctrl-D abort doesn't
// silently discard context a crashed pipeline would otherwise explain.
func reportExit(machine *core.Core) {
	fmt.Printf("stopped at cycle %d, pc=%#08x\n", machine.Cycles(), machine.PC.Get())
	if err := machine.Err(); err != nil {
		fmt.Println("last error: " + err.Error())
	}
}
