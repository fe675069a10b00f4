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
	modeCmd.Flags().BoolVarP(&modeOpts.All, "all", "a", false, "get all line modes")
	modeCmd.Flags().BoolVarP(&modeOpts.Short, "short", "s", false, "single line output format")
	modeCmd.SetHelpTemplate(modeCmd.HelpTemplate() + extendedPinHelp)
	rootCmd.AddCommand(modeCmd)
}

var (
	modeCmd = &cobra.Command{
		Use:     "mode <pin1>...",
		Short:   "Read the functional mode of a pin or pins",
		PreRunE: premode,
		RunE:    mode,
	}
	modeOpts = struct {
		Short bool
		All   bool
	}{}
)

func premode(cmd *cobra.Command, args []string) error {
	if !modeOpts.All {
		return cobra.MinimumNArgs(1)(cmd, args)
	}
	return nil
}

func mode(cmd *cobra.Command, args []string) (err error) {
	var oo []int
	if modeOpts.All {
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
	mm := make([]gpio.Mode, len(oo))
	for i, o := range oo {
		mm[i], err = c.Mode(o)
		if err != nil {
			return err
		}
	}
	if modeOpts.Short {
		printModesShort(mm)
	} else {
		printModes(oo, mm)
	}
	return nil
}

func printModes(oo []int, mm []gpio.Mode) {
	for i, o := range oo {
		fmt.Printf("pin %2d: %s\n", o, mm[i])
	}
}

func printModesShort(mm []gpio.Mode) {
	fmt.Printf("%d", mm[0])
	for _, m := range mm[1:] {
		fmt.Printf(" %d", m)
	}
	fmt.Println()
}
