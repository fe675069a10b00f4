// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/btl/gpio"
	"github.com/spf13/cobra"
)

var version = "undefined"

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("base", "b", "", "physical base address of the GPIO block, or chip name (bcm2837|bcm2711)")
	pf.StringP("device", "d", "", "memory device to map (default /dev/mem)")
	pf.Bool("window", false, "the device maps only the GPIO block, as /dev/gpiomem does")
	pf.Int("length", 0, "length of the register mapping in bytes (default 4096)")
	pf.StringP("config-file", "c", "", "JSON config file (default gpioctl.json)")
}

var rootCmd = &cobra.Command{
	Use:   "gpioctl",
	Short: "gpioctl is a utility to drive Raspberry Pi GPIO pins via their registers",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gpioctl: %s\n", err)
		os.Exit(1)
	}
}

func logErr(cmd *cobra.Command, err error) {
	fmt.Fprintf(os.Stderr, "gpioctl %s: %s\n", cmd.Name(), err)
}

// openController maps the register block described by the configuration.
func openController(cmd *cobra.Command) (*gpio.Controller, error) {
	cfg := loadConfig(flagValues(cmd))
	mc, err := mapConfig(cfg)
	if err != nil {
		return nil, err
	}
	return gpio.Open(mc.base,
		gpio.WithMapper(gpio.DevMem{Path: mc.device, Window: mc.window}),
		gpio.WithLength(mc.length))
}

// BCM numbers of the GPIO pins on the J8 header.
var pinNames = map[string]int{
	"J8P3":  2,
	"J8P03": 2,
	"J8P5":  3,
	"J8P05": 3,
	"J8P7":  4,
	"J8P07": 4,
	"J8P8":  14,
	"J8P08": 14,
	"J8P10": 15,
	"J8P11": 17,
	"J8P12": 18,
	"J8P13": 27,
	"J8P15": 22,
	"J8P16": 23,
	"J8P18": 24,
	"J8P19": 10,
	"J8P21": 9,
	"J8P22": 25,
	"J8P23": 11,
	"J8P24": 8,
	"J8P26": 7,
	"J8P27": 0,
	"J8P28": 1,
	"J8P29": 5,
	"J8P31": 6,
	"J8P32": 12,
	"J8P33": 13,
	"J8P35": 19,
	"J8P36": 16,
	"J8P37": 26,
	"J8P38": 20,
	"J8P40": 21,
}

func parseOffset(arg string) (int, error) {
	if o, ok := pinNames[strings.ToUpper(arg)]; ok {
		return o, nil
	}
	o, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("can't parse pin '%s'", arg)
	}
	if o > gpio.MaxPin {
		return 0, fmt.Errorf("unknown pin '%d'", o)
	}
	return int(o), nil
}

func parseOffsets(args []string) ([]int, error) {
	oo := []int(nil)
	for _, arg := range args {
		o, err := parseOffset(arg)
		if err != nil {
			return nil, err
		}
		oo = append(oo, o)
	}
	return oo, nil
}

func allOffsets() []int {
	oo := make([]int, gpio.MaxPin+1)
	for i := range oo {
		oo[i] = i
	}
	return oo
}

var extendedPinHelp = `
Pins:
  Pins may be identified by name (J8pXX) or number (0-28).
`
