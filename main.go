/*
 * rv32pipe - Main process.
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

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/rv32pipe/command/reader"
	"github.com/rcornwell/rv32pipe/config/mcuconfig"
	"github.com/rcornwell/rv32pipe/emu/mcu"
	logger "github.com/rcornwell/rv32pipe/util/logger"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optCycles := getopt.Uint64Long("cycles", 'n', 0, "Cycle budget (0 = unbounded)")
	optInteractive := getopt.BoolLong("interactive", 'i', "Drop into the debug console after loading")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("<elf-path>")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		os.Exit(1)
	}
	elfPath := args[0]

	var logFile io.Writer
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "rv32sim: creating log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		logFile = f
	}

	level := logger.LevelFromEnv()
	programLevel := new(slog.LevelVar)
	programLevel.Set(level)
	log := slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel}, level == slog.LevelDebug))
	slog.SetDefault(log)

	cfg := mcuconfig.Default()
	if *optConfig != "" {
		var err error
		cfg, err = mcuconfig.Load(*optConfig)
		if err != nil {
			log.Error("loading configuration", "file", *optConfig, "error", err)
			os.Exit(1)
		}
	}

	log.Info("rv32sim starting", "elf", elfPath)

	machine, err := mcu.NewMachine(cfg, os.Stdout)
	if err != nil {
		log.Error("building machine", "error", err)
		os.Exit(1)
	}
	machine.SetTrace(cfg.Debug)

	if err := mcu.LoadELF(machine, elfPath); err != nil {
		log.Error("loading ELF", "path", elfPath, "error", err)
		os.Exit(1)
	}

	if *optInteractive {
		reader.ConsoleReader(machine)
		return
	}

	if err := machine.Run(context.Background(), *optCycles); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
	log.Info("run complete", "cycles", machine.Cycles())
}
