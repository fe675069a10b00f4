// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"strings"

	"github.com/btl/gpio"
	"github.com/spf13/cobra"
)

func init() {
	setCmd.SetHelpTemplate(setCmd.HelpTemplate() + extendedSetHelp)
	onCmd.SetHelpTemplate(onCmd.HelpTemplate() + extendedPinHelp)
	offCmd.SetHelpTemplate(offCmd.HelpTemplate() + extendedPinHelp)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
}

var (
	setCmd = &cobra.Command{
		Use:     "set <pin1>=<level1>...",
		Short:   "Set the level of a pin or pins",
		Args:    cobra.MinimumNArgs(1),
		RunE:    set,
		Example: "  gpioctl -b bcm2711 set J8p15=high 17=0",
	}
	onCmd = &cobra.Command{
		Use:     "on <pin1>...",
		Short:   "Set a pin or pins as output and drive them high",
		Args:    cobra.MinimumNArgs(1),
		RunE:    on,
		Example: "  gpioctl -b bcm2711 on 17",
	}
	offCmd = &cobra.Command{
		Use:     "off <pin1>...",
		Short:   "Drive a pin or pins low",
		Args:    cobra.MinimumNArgs(1),
		RunE:    off,
		Example: "  gpioctl -b bcm2711 off 17",
	}
)

var extendedSetHelp = extendedPinHelp + `
Levels:
  Levels may be [high|hi|on|true|1|low|lo|off|false|0] and are case insensitive.

Note that setting a pin high forces it into output mode.
`

func set(cmd *cobra.Command, args []string) error {
	ll := []int(nil)
	vv := []gpio.Level(nil)
	for _, arg := range args {
		o, v, err := parseLineLevel(arg)
		if err != nil {
			return err
		}
		ll = append(ll, o)
		vv = append(vv, v)
	}
	return writePins(cmd, ll, vv)
}

func on(cmd *cobra.Command, args []string) error {
	return writeAll(cmd, args, gpio.High)
}

func off(cmd *cobra.Command, args []string) error {
	return writeAll(cmd, args, gpio.Low)
}

func writeAll(cmd *cobra.Command, args []string, level gpio.Level) error {
	oo, err := parseOffsets(args)
	if err != nil {
		return err
	}
	vv := make([]gpio.Level, len(oo))
	for i := range vv {
		vv[i] = level
	}
	return writePins(cmd, oo, vv)
}

func writePins(cmd *cobra.Command, ll []int, vv []gpio.Level) error {
	c, err := openController(cmd)
	if err != nil {
		return err
	}
	defer c.Close()
	for i, v := range vv {
		if err := c.Write(ll[i], v); err != nil {
			return err
		}
	}
	return nil
}

func parseLineLevel(arg string) (int, gpio.Level, error) {
	aa := strings.Split(arg, "=")
	if len(aa) != 2 {
		return 0, gpio.Low, fmt.Errorf("invalid pin<->level mapping: %s", arg)
	}
	o, err := parseOffset(aa[0])
	if err != nil {
		return 0, gpio.Low, err
	}
	v, err := gpio.ParseLevel(aa[1])
	if err != nil {
		return 0, gpio.Low, fmt.Errorf("can't parse level '%s'", aa[1])
	}
	return o, v, nil
}
