// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package gpio

import (
	"strconv"
	"strings"

	"github.com/juju/errors"
	"periph.io/x/host/v3/distro"
)

// Chip identifies the SoC hosting the GPIO block.
type Chip int

const (
	// UnknownChip is a SoC not recognised from the device tree.
	UnknownChip Chip = iota
	// BCM2837 is the SoC of the Pi 2B v1.2, 3 and Zero 2.
	BCM2837
	// BCM2711 is the SoC of the Pi 4 and 400.
	BCM2711
)

// Physical base addresses of the GPIO register block.
const (
	BCM2837Base uint64 = 0x3F200000
	BCM2711Base uint64 = 0xFE200000
)

var chipNames = map[Chip]string{
	UnknownChip: "unknown",
	BCM2837:     "bcm2837",
	BCM2711:     "bcm2711",
}

func (c Chip) String() string {
	return chipNames[c]
}

// Base returns the physical base address of the GPIO block for the chip.
func (c Chip) Base() (uint64, bool) {
	switch c {
	case BCM2837:
		return BCM2837Base, true
	case BCM2711:
		return BCM2711Base, true
	}
	return 0, false
}

// ParseBase converts a chip name or a numeric address to a physical base
// address. Numeric addresses may be in any base accepted by
// strconv.ParseUint with base 0, e.g. 0x3f200000.
func ParseBase(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.NotValidf("empty base address")
	}
	for c, name := range chipNames {
		if strings.EqualFold(s, name) {
			if base, ok := c.Base(); ok {
				return base, nil
			}
		}
	}
	base, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, errors.NotValidf("base address %q", s)
	}
	return base, nil
}

// DetectChip identifies the chip from the device tree.
// The result is informational and is not used to select a base address.
func DetectChip() Chip {
	return chipFromCompatible(distro.DTCompatible())
}

func chipFromCompatible(cc []string) Chip {
	for _, c := range cc {
		switch c {
		case "brcm,bcm2837":
			return BCM2837
		case "brcm,bcm2711":
			return BCM2711
		}
	}
	return UnknownChip
}
