/*
 * rv32pipe - Memory management unit: device registry and router
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

// Package mmu routes memory requests to the MMIO devices registered on the
// system bus; cache-like devices (L1ICACHE and L1DCACHE) never live here,
// they are attached directly to the core.
package mmu

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rcornwell/rv32pipe/emu/memory"
)

// RoutingFunc selects a device for a request out of the registered set.
// The default policy is a disjoint-range linear scan; tests may install an
// alternate policy to exercise routing edge cases.
type RoutingFunc func(devices []memory.MemoryDevice, req memory.MemoryRequest) memory.MemoryResponse

// MMU is a MemoryDeviceType-keyed device registry plus a pluggable routing
// policy, used for every device from L2CACHE up (UART0 and friends).
type MMU struct {
	mu      sync.RWMutex
	devices map[memory.MemoryDeviceType]memory.MemoryDevice
	route   RoutingFunc
}

// New builds an MMU with the default linear-scan routing policy.
func New() *MMU {
	return &MMU{
		devices: make(map[memory.MemoryDeviceType]memory.MemoryDevice),
		route:   defaultRoute,
	}
}

// SetRoutingFunc installs a non-default routing policy.
func (m *MMU) SetRoutingFunc(f RoutingFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.route = f
}

// AddMemoryDevice registers d. It rejects a second device of the same
// MemoryDeviceType, any cache-like device (those attach to the core
// instead), and any mapped device whose range overlaps one already present.
func (m *MMU) AddMemoryDevice(d memory.MemoryDevice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := d.Type()
	if t.CacheLike() {
		return fmt.Errorf("mmu: device type %s is cache-like, attach it to the core instead", t)
	}
	if _, exists := m.devices[t]; exists {
		return fmt.Errorf("mmu: a device of type %s is already registered", t)
	}

	start, end := d.Range()
	for _, other := range m.devices {
		oStart, oEnd := other.Range()
		if memory.Overlaps(start, end, oStart, oEnd) {
			return fmt.Errorf("mmu: device %s range [%#x,%#x) overlaps %s range [%#x,%#x)", t, start, end, other.Type(), oStart, oEnd)
		}
	}

	m.devices[t] = d
	return nil
}

// Device returns the registered device of type t, if any.
func (m *MMU) Device(t memory.MemoryDeviceType) (memory.MemoryDevice, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[t]
	return d, ok
}

// deviceList returns the registered devices in MemoryDeviceType order, for
// deterministic routing and section placement.
func (m *MMU) deviceList() []memory.MemoryDevice {
	list := make([]memory.MemoryDevice, 0, len(m.devices))
	for _, d := range m.devices {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Type() < list[j].Type() })
	return list
}

// InitSectionIntoMemory places bytes at addr in every registered device
// whose range contains addr, asserting that the whole span fits.
func (m *MMU) InitSectionIntoMemory(addr memory.Address, bytes []byte) error {
	m.mu.RLock()
	devices := m.deviceList()
	m.mu.RUnlock()

	placed := false
	for _, d := range devices {
		start, end := d.Range()
		if !memory.Contains(start, end, addr) {
			continue
		}
		if addr+memory.Address(len(bytes)) > end {
			return fmt.Errorf("mmu: section at %#x length %d overruns device %s range [%#x,%#x)", addr, len(bytes), d.Type(), start, end)
		}
		if err := d.InitMem(addr, bytes); err != nil {
			return err
		}
		placed = true
	}
	if !placed {
		return fmt.Errorf("mmu: no registered device covers address %#x", addr)
	}
	return nil
}

// ProcessMemoryRequest routes req through the installed policy.
func (m *MMU) ProcessMemoryRequest(req memory.MemoryRequest) memory.MemoryResponse {
	m.mu.RLock()
	devices := m.deviceList()
	route := m.route
	m.mu.RUnlock()
	return route(devices, req)
}

// defaultRoute is a disjoint-range linear scan: the first device whose
// range contains the address handles the request.
func defaultRoute(devices []memory.MemoryDevice, req memory.MemoryRequest) memory.MemoryResponse {
	for _, d := range devices {
		start, end := d.Range()
		if memory.Contains(start, end, req.Address) {
			return d.SendDataRequest(req)
		}
	}
	return memory.MemoryResponse{Status: memory.InvalidAddress}
}
