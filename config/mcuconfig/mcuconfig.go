/*
 * rv32pipe - MCU configuration file parser
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

// Package mcuconfig parses the simulator's flat key=value configuration
// file. It is a trimmed sibling of the teacher's model/device
// configuration parser: this build has no device list to register
// against, only a fixed set of machine parameters, so the line grammar
// is reduced to '#'-comments and "key = value" pairs.
package mcuconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every simulator parameter a config file may override.
// Zero-value Config is invalid; use Default to start from the standard
// memory map and fill in overrides with Load.
type Config struct {
	ClockPeriod    time.Duration
	CriticalPath   time.Duration
	Debug          bool
	UARTBase       uint64
	ICacheLines    uint64
	ICacheLineSize uint64
	DCacheLines    uint64
	DCacheLineSize uint64
}

// Default returns the standard memory map: a 64 KiB I-cache at
// 0x8000_0000, a 64 KiB D-cache immediately above it, and UART0 at
// 0x4060_0000, with unbounded clock pacing and critical-path checking.
func Default() Config {
	return Config{
		ClockPeriod:    0,
		CriticalPath:   0,
		Debug:          false,
		UARTBase:       0x4060_0000,
		ICacheLines:    1024,
		ICacheLineSize: 64,
		DCacheLines:    1024,
		DCacheLineSize: 64,
	}
}

// Load reads name, a "key = value" file with '#' line comments,
// applying recognized keys on top of Default(). A missing, unreadable or
// malformed file is an error; a caller with no config file uses Default()
// instead of calling Load.
func Load(name string) (Config, error) {
	cfg := Default()

	file, err := os.Open(name)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	lineNumber := 0
	for {
		raw, err := reader.ReadString('\n')
		lineNumber++
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return cfg, err
		}

		if setErr := applyLine(&cfg, raw, lineNumber); setErr != nil {
			return cfg, setErr
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return cfg, err
		}
	}
	return cfg, nil
}

func applyLine(cfg *Config, raw string, lineNumber int) error {
	line := raw
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return fmt.Errorf("mcuconfig: line %d: expected key = value, got %q", lineNumber, raw)
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case "clock_period_ns":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("mcuconfig: line %d: %w", lineNumber, err)
		}
		cfg.ClockPeriod = time.Duration(n) * time.Nanosecond
	case "critical_path_ns":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("mcuconfig: line %d: %w", lineNumber, err)
		}
		cfg.CriticalPath = time.Duration(n) * time.Nanosecond
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("mcuconfig: line %d: %w", lineNumber, err)
		}
		cfg.Debug = b
	case "uart_base":
		n, err := strconv.ParseUint(strings.TrimPrefix(value, "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("mcuconfig: line %d: %w", lineNumber, err)
		}
		cfg.UARTBase = n
	case "icache_lines":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("mcuconfig: line %d: %w", lineNumber, err)
		}
		cfg.ICacheLines = n
	case "icache_line_size":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("mcuconfig: line %d: %w", lineNumber, err)
		}
		cfg.ICacheLineSize = n
	case "dcache_lines":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("mcuconfig: line %d: %w", lineNumber, err)
		}
		cfg.DCacheLines = n
	case "dcache_line_size":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("mcuconfig: line %d: %w", lineNumber, err)
		}
		cfg.DCacheLineSize = n
	default:
		return fmt.Errorf("mcuconfig: line %d: unknown key %q", lineNumber, key)
	}
	return nil
}
