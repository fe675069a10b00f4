// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

package gpio

import (
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

// DevMem maps the GPIO register block from a memory device.
//
// With Path set to /dev/mem the block is mapped at the physical base address.
// With Window set, as for /dev/gpiomem, the device already exposes only the
// GPIO block and it is mapped from offset 0.
type DevMem struct {
	Path   string
	Window bool
}

// Map opens the device and memory maps length bytes of it.
func (d DevMem) Map(base uint64, length int) (Registers, error) {
	file, err := os.OpenFile(d.Path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, errors.Trace(err)
	}
	// the mapping survives the close of the file
	defer file.Close()

	offset := int64(base)
	if d.Window {
		offset = 0
	}
	mem8, err := unix.Mmap(
		int(file.Fd()),
		offset,
		length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Annotatef(err, "mmap %s", d.Path)
	}
	return newMemRegisters(mem8), nil
}

// memRegisters provides 32 bit access to a mapped byte block.
type memRegisters struct {
	mem8 []byte
	mem  []uint32
}

func newMemRegisters(mem8 []byte) *memRegisters {
	// (32 bit = 4 bytes)
	mem := unsafe.Slice((*uint32)(unsafe.Pointer(&mem8[0])), len(mem8)/4)
	return &memRegisters{mem8: mem8, mem: mem}
}

// Atomic loads and stores force each access through to the device, as the
// compiler may neither elide nor merge them.

func (m *memRegisters) Load(reg int) uint32 {
	return atomic.LoadUint32(&m.mem[reg])
}

func (m *memRegisters) Store(reg int, v uint32) {
	atomic.StoreUint32(&m.mem[reg], v)
}

func (m *memRegisters) Len() int {
	return len(m.mem)
}

func (m *memRegisters) Unmap() error {
	m.mem = nil
	return errors.Trace(unix.Munmap(m.mem8))
}

var defaultMapper Mapper = DevMem{Path: "/dev/mem"}
