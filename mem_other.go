// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build !linux
// +build !linux

package gpio

import "github.com/juju/errors"

type unsupportedMapper struct{}

func (unsupportedMapper) Map(base uint64, length int) (Registers, error) {
	return nil, errors.NotSupportedf("memory mapped GPIO on this platform")
}

var defaultMapper Mapper = unsupportedMapper{}
