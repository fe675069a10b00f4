// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package gpio

import (
	"fmt"

	"github.com/juju/errors"
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Pin is a single output pin driven through a Controller.
// It implements periph.io/x/conn/v3/gpio.PinOut.
type Pin struct {
	c   *Controller
	pin int
}

// Pin returns a handle on the numbered pin.
func (c *Controller) Pin(pin int) (*Pin, error) {
	if err := validate(pin); err != nil {
		return nil, err
	}
	return &Pin{c: c, pin: pin}, nil
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return p.Name()
}

// Halt implements conn.Resource.
// There is nothing to halt as writes complete immediately.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return fmt.Sprintf("GPIO%d", p.pin)
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.pin
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	m, err := p.c.Mode(p.pin)
	if err != nil {
		return ""
	}
	return m.String()
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l pgpio.Level) error {
	return p.c.Write(p.pin, Level(l))
}

// PWM implements gpio.PinOut.
func (p *Pin) PWM(pgpio.Duty, physic.Frequency) error {
	return errors.NotSupportedf("PWM on %s", p.Name())
}

var _ pgpio.PinOut = &Pin{}
