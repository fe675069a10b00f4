// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/btl/gpio"
	"github.com/spf13/cobra"
)

func init() {
	getCmd.Flags().BoolVarP(&getOpts.All, "all", "a", false, "get the levels of all lines")
	getCmd.Flags().BoolVarP(&getOpts.Short, "short", "s", false, "single line output format")
	getCmd.SetHelpTemplate(getCmd.HelpTemplate() + extendedGetHelp)
	rootCmd.AddCommand(getCmd)
}

var (
	getCmd = &cobra.Command{
		Use:     "get <pin1>...",
		Short:   "Read the level of a pin or pins",
		Example: "  gpioctl -b bcm2711 get 23 J8p15",
		PreRunE: preget,
		RunE:    get,
	}
	getOpts = struct {
		Short bool
		All   bool
	}{}
)

var extendedGetHelp = extendedPinHelp + `
Reading a pin does not change its mode.
`

func preget(cmd *cobra.Command, args []string) error {
	if !getOpts.All {
		return cobra.MinimumNArgs(1)(cmd, args)
	}
	return nil
}

func get(cmd *cobra.Command, args []string) (err error) {
	var oo []int
	if getOpts.All {
		oo = allOffsets()
	} else {
		oo, err = parseOffsets(args)
		if err != nil {
			return err
		}
	}
	c, err := openController(cmd)
	if err != nil {
		return err
	}
	defer c.Close()
	vv := make([]gpio.Level, len(oo))
	for i, o := range oo {
		vv[i], err = c.Read(o)
		if err != nil {
			return err
		}
	}
	if getOpts.Short {
		printValuesShort(vv)
	} else {
		printValues(oo, vv)
	}
	return nil
}

func printValues(oo []int, vv []gpio.Level) {
	for i, o := range oo {
		fmt.Printf("pin %2d: %t\n", o, vv[i])
	}
}

func printValuesShort(vv []gpio.Level) {
	fmt.Printf("%d", level2Int(vv[0]))
	for _, v := range vv[1:] {
		fmt.Printf(" %d", level2Int(v))
	}
	fmt.Println()
}

func level2Int(l gpio.Level) int {
	if l == gpio.Low {
		return 0
	}
	return 1
}
