// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package gpio drives Raspberry Pi GPIO output pins by writing directly to
// the memory mapped BCM GPIO registers.
//
// Supports:
//   - Pin activate (function select output, then drive high)
//   - Pin deactivate (drive low)
//   - Pin mode and level readback
//
// The package intentionally does not support:
//   - input edge detection or pull up/down
//   - the obsoleted rev 1 PCB
//
// Example of use:
//
//	c, err := gpio.Open(gpio.BCM2711Base)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	c.Activate(gpio.GPIO17)
//	time.Sleep(time.Second)
//	c.Deactivate(gpio.GPIO17)
//
// The base address differs between SoC generations and must be supplied by
// the caller, e.g. from configuration.
//
// The library uses the raw BCM2835 pin numbers, not the ports as they are mapped
// on the J8 output pins for the Raspberry Pi.
//
// See the datasheet for full details of the BCM2835 controller:
// http://www.raspberrypi.org/wp-content/uploads/2012/02/BCM2835-ARM-Peripherals.pdf
package gpio

import (
	"fmt"
	"strings"
	"sync"

	"github.com/juju/errors"
)

// Level represents the high (true) or low (false) level of a pin.
type Level bool

// Mode defines the IO mode of a pin, as encoded in the function select
// register.
type Mode int

// Registers is an indexed handle on a block of 32 bit hardware registers.
// Indices are in words, not bytes.
type Registers interface {
	Load(reg int) uint32
	Store(reg int, v uint32)
	Len() int
	// Unmap releases the block. No other method may be called after.
	Unmap() error
}

// Mapper establishes a mapping of a physical register block.
type Mapper interface {
	Map(base uint64, length int) (Registers, error)
}

const (
	// PageSize is the minimum length of a register block mapping.
	PageSize = 4096

	// MaxPin is the highest pin number that may be driven.
	MaxPin = 28

	modeMask uint32 = 7 // pin mode is 3 bits wide

	// Register word offsets within the block.
	setReg   = 0x1c / 4
	clearReg = 0x28 / 4
	levelReg = 0x34 / 4
)

// Pin Mode, a pin can be set in Input or Output mode
const (
	Input Mode = iota
	Output
	Alt5
	Alt4
	Alt0
	Alt1
	Alt2
	Alt3
)

// Level of pin, High / Low
const (
	Low  Level = false
	High Level = true
)

// GPIO aliases to J8 pins
const (
	GPIO2  = 2  // J8p3
	GPIO3  = 3  // J8p5
	GPIO4  = 4  // J8p7
	GPIO5  = 5  // J8p29
	GPIO6  = 6  // J8p31
	GPIO7  = 7  // J8p26
	GPIO8  = 8  // J8p24
	GPIO9  = 9  // J8p21
	GPIO10 = 10 // J8p19
	GPIO11 = 11 // J8p23
	GPIO12 = 12 // J8p32
	GPIO13 = 13 // J8p33
	GPIO14 = 14 // J8p8
	GPIO15 = 15 // J8p10
	GPIO16 = 16 // J8p36
	GPIO17 = 17 // J8p11
	GPIO18 = 18 // J8p12
	GPIO19 = 19 // J8p35
	GPIO20 = 20 // J8p38
	GPIO21 = 21 // J8p40
	GPIO22 = 22 // J8p15
	GPIO23 = 23 // J8p16
	GPIO24 = 24 // J8p18
	GPIO25 = 25 // J8p22
	GPIO26 = 26 // J8p37
	GPIO27 = 27 // J8p13
)

// Controller owns a mapped GPIO register block.
type Controller struct {
	// mu covers all register access and the closing of regs.
	// The fsel registers are shared by up to 10 pins and are updated
	// with a non-atomic read/modify/write.
	mu   sync.Mutex
	regs Registers // nil once closed
	base uint64
}

// Option modifies the behaviour of Open.
type Option func(*options)

type options struct {
	mapper Mapper
	length int
}

// WithMapper specifies the Mapper used to map the register block.
// The default maps /dev/mem.
func WithMapper(m Mapper) Option {
	return func(o *options) {
		o.mapper = m
	}
}

// WithLength specifies the length of the mapping, which must be at least
// PageSize.
func WithLength(length int) Option {
	return func(o *options) {
		o.length = length
	}
}

// Open maps the GPIO register block at the physical base address.
//
// The base is validated before any mapping is attempted, and all failures
// are returned as a *MappingError.
func Open(base uint64, opts ...Option) (*Controller, error) {
	o := options{mapper: defaultMapper, length: PageSize}
	for _, opt := range opts {
		opt(&o)
	}
	if base%PageSize != 0 {
		return nil, &MappingError{Base: base, Length: o.length, Err: ErrUnaligned}
	}
	if o.length < PageSize {
		return nil, &MappingError{Base: base, Length: o.length, Err: ErrShortBlock}
	}
	regs, err := o.mapper.Map(base, o.length)
	if err != nil {
		return nil, &MappingError{Base: base, Length: o.length, Err: err}
	}
	if regs.Len() <= levelReg {
		err = ErrShortBlock
		if uerr := regs.Unmap(); uerr != nil {
			err = fmt.Errorf("%w, unmap: %v", ErrShortBlock, uerr)
		}
		return nil, &MappingError{Base: base, Length: o.length, Err: err}
	}
	return &Controller{regs: regs, base: base}, nil
}

// Base returns the physical base address of the register block.
func (c *Controller) Base() uint64 {
	return c.base
}

// Close unmaps the register block.
// Close waits for any operation in progress to complete.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.regs == nil {
		return ErrClosed
	}
	regs := c.regs
	c.regs = nil
	return regs.Unmap()
}

// Activate sets the pin as an output and drives it high.
func (c *Controller) Activate(pin int) error {
	if err := validate(pin); err != nil {
		return err
	}
	// Pin fsel register, 0 - 2 depending on pin
	fsel := pin / 10
	// shift for pin mode field within fsel register.
	modeShift := uint(pin%10) * 3

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.regs == nil {
		return ErrClosed
	}
	v := c.regs.Load(fsel)
	c.regs.Store(fsel, v&^(modeMask<<modeShift)|uint32(Output)<<modeShift)
	// the pin only follows the set register once it is an output
	c.regs.Store(setReg, 1<<uint(pin))
	return nil
}

// Deactivate drives the pin low.
// The pin mode is left unchanged.
func (c *Controller) Deactivate(pin int) error {
	if err := validate(pin); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.regs == nil {
		return ErrClosed
	}
	c.regs.Store(clearReg, 1<<uint(pin))
	return nil
}

// Write activates the pin for High and deactivates it for Low.
func (c *Controller) Write(pin int, level Level) error {
	if level == High {
		return c.Activate(pin)
	}
	return c.Deactivate(pin)
}

// Mode returns the mode of the pin in the Function Select register.
func (c *Controller) Mode(pin int) (Mode, error) {
	if err := validate(pin); err != nil {
		return Input, err
	}
	modeShift := uint(pin%10) * 3
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.regs == nil {
		return Input, ErrClosed
	}
	return Mode(c.regs.Load(pin/10) >> modeShift & modeMask), nil
}

// Read returns the level of the pin from the level register.
// The pin mode is left unchanged.
func (c *Controller) Read(pin int) (Level, error) {
	if err := validate(pin); err != nil {
		return Low, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.regs == nil {
		return Low, ErrClosed
	}
	return Level(c.regs.Load(levelReg)&(1<<uint(pin)) != 0), nil
}

func validate(pin int) error {
	if pin < 0 || pin > MaxPin {
		return &InvalidPinError{Pin: pin}
	}
	return nil
}

var modeNames = map[Mode]string{
	Input:  "input",
	Output: "output",
	Alt0:   "alt0",
	Alt1:   "alt1",
	Alt2:   "alt2",
	Alt3:   "alt3",
	Alt4:   "alt4",
	Alt5:   "alt5",
}

func (m Mode) String() string {
	return modeNames[m]
}

var levelNames = map[string]Level{
	"high":  High,
	"hi":    High,
	"on":    High,
	"true":  High,
	"1":     High,
	"low":   Low,
	"lo":    Low,
	"off":   Low,
	"false": Low,
	"0":     Low,
}

// ParseLevel converts a level name, such as high, off or 1, to a Level.
// Names are case insensitive.
func ParseLevel(s string) (Level, error) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return Low, errors.NotValidf("level %q", s)
}
