// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btl/gpio"
)

// This example drives GPIO 4, which is pin J8 7.
// The pin is toggled high and low at 1Hz with a 50% duty cycle.
// The GPIO base address, or chip name, is taken from GPIOCTL_BASE.
// Do not run this on a Raspberry Pi which has this pin externally driven.
func main() {
	base, err := gpio.ParseBase(os.Getenv("GPIOCTL_BASE"))
	if err != nil {
		panic(err)
	}
	c, err := gpio.Open(base)
	if err != nil {
		panic(err)
	}
	defer c.Close()
	defer c.Deactivate(gpio.GPIO4)
	// capture exit signals to ensure pin is driven low on exit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	level := gpio.Low
	for {
		select {
		case <-time.After(500 * time.Millisecond):
			level = !level
			if err := c.Write(gpio.GPIO4, level); err != nil {
				panic(err)
			}
			fmt.Println("Toggled", level)
		case <-quit:
			return
		}
	}
}
