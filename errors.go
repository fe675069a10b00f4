// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package gpio

import (
	"errors"
	"fmt"
)

// InvalidPinError indicates a pin number outside the range [0, MaxPin].
type InvalidPinError struct {
	Pin int
}

func (e *InvalidPinError) Error() string {
	return fmt.Sprintf("invalid pin %d, want [0,%d]", e.Pin, MaxPin)
}

// MappingError indicates the register block could not be mapped.
type MappingError struct {
	Base   uint64
	Length int
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("can't map 0x%08x+0x%x: %s", e.Base, e.Length, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}

var (
	// ErrClosed indicates an operation on a controller after Close.
	ErrClosed = errors.New("controller closed")

	// ErrUnaligned indicates a base address that is not page aligned.
	ErrUnaligned = errors.New("base address not page aligned")

	// ErrShortBlock indicates a mapping too small to hold the GPIO registers.
	ErrShortBlock = errors.New("register block too short")
)
