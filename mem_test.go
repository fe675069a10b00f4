// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

// Test suite for mem module.
package gpio_test

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/btl/gpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// regFile creates a zeroed file standing in for a memory device.
func regFile(t *testing.T, size int64) string {
	path := filepath.Join(t.TempDir(), "gpiomem")
	f, err := os.Create(path)
	require.Nil(t, err)
	require.Nil(t, f.Truncate(size))
	require.Nil(t, f.Close())
	return path
}

func reg(t *testing.T, path string, offset int) uint32 {
	b, err := os.ReadFile(path)
	require.Nil(t, err)
	return binary.LittleEndian.Uint32(b[offset:])
}

func TestOpenDevMem(t *testing.T) {
	path := regFile(t, gpio.PageSize)
	c, err := gpio.Open(0, gpio.WithMapper(gpio.DevMem{Path: path}))
	require.Nil(t, err)
	assert.Nil(t, c.Activate(17))
	assert.Nil(t, c.Deactivate(4))
	require.Nil(t, c.Close())

	assert.Equal(t, uint32(1)<<21, reg(t, path, 4))
	assert.Equal(t, uint32(1)<<17, reg(t, path, 0x1c))
	assert.Equal(t, uint32(1)<<4, reg(t, path, 0x28))
}

func TestOpenWindow(t *testing.T) {
	path := regFile(t, gpio.PageSize)
	// the window ignores the base when selecting the file offset
	c, err := gpio.Open(gpio.BCM2711Base, gpio.WithMapper(gpio.DevMem{Path: path, Window: true}))
	require.Nil(t, err)
	assert.Equal(t, gpio.BCM2711Base, c.Base())
	assert.Nil(t, c.Activate(2))
	require.Nil(t, c.Close())
	assert.Equal(t, uint32(1)<<6, reg(t, path, 0))
	assert.Equal(t, uint32(1)<<2, reg(t, path, 0x1c))
}

func TestOpenMissingDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent")
	c, err := gpio.Open(0, gpio.WithMapper(gpio.DevMem{Path: path}))
	assert.Nil(t, c)
	var me *gpio.MappingError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, uint64(0), me.Base)
}

func TestReOpen(t *testing.T) {
	path := regFile(t, gpio.PageSize)
	m := gpio.WithMapper(gpio.DevMem{Path: path})
	c, err := gpio.Open(0, m)
	require.Nil(t, err)
	require.Nil(t, c.Close())
	assert.Equal(t, gpio.ErrClosed, c.Activate(3))
	c, err = gpio.Open(0, m)
	require.Nil(t, err)
	assert.Nil(t, c.Activate(3))
	assert.Nil(t, c.Close())
}
