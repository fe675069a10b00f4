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
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Identify the GPIO chip",
	Long: `Identify the GPIO chip from the device tree and report its base address.

The result is informational only - the base address must still be
configured explicitly.`,
	Args: cobra.NoArgs,
	RunE: detect,
}

func detect(cmd *cobra.Command, args []string) error {
	chip := gpio.DetectChip()
	base, ok := chip.Base()
	if !ok {
		fmt.Println(chip)
		return nil
	}
	fmt.Printf("%s 0x%08x\n", chip, base)
	return nil
}
