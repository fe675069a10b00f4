// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/btl/gpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffset(t *testing.T) {
	patterns := []struct {
		in  string
		pin int
	}{
		{"17", 17},
		{"0", 0},
		{"28", 28},
		{"J8p11", 17},
		{"j8p07", 4},
		{"J8P13", 27},
	}
	for _, p := range patterns {
		o, err := parseOffset(p.in)
		assert.Nil(t, err, p.in)
		assert.Equal(t, p.pin, o, p.in)
	}
	for _, in := range []string{"29", "-1", "J8p1", "gpio17", ""} {
		_, err := parseOffset(in)
		assert.NotNil(t, err, in)
	}
}

func TestParseLineLevel(t *testing.T) {
	o, v, err := parseLineLevel("J8p15=high")
	require.Nil(t, err)
	assert.Equal(t, 22, o)
	assert.Equal(t, gpio.High, v)
	o, v, err = parseLineLevel("17=0")
	require.Nil(t, err)
	assert.Equal(t, 17, o)
	assert.Equal(t, gpio.Low, v)
	for _, in := range []string{"17", "17=2", "30=1", "17=1=0"} {
		_, _, err := parseLineLevel(in)
		assert.NotNil(t, err, in)
	}
}

func TestMapConfigDefaults(t *testing.T) {
	cfg := loadConfig(map[string]interface{}{"base": "bcm2711"})
	mc, err := mapConfig(cfg)
	require.Nil(t, err)
	assert.Equal(t, gpio.BCM2711Base, mc.base)
	assert.Equal(t, "/dev/mem", mc.device)
	assert.False(t, mc.window)
	assert.Equal(t, gpio.PageSize, mc.length)

	sc := serveConfigFrom(cfg)
	assert.Equal(t, "/run/gpio", sc.fifo)
	assert.Equal(t, "", sc.broker)
	assert.Equal(t, "gpio", sc.topic)
	assert.Equal(t, "gpioctl", sc.clientID)
	assert.Equal(t, 5*time.Second, sc.timeout)
}

func TestMapConfigNoBase(t *testing.T) {
	cfg := loadConfig(map[string]interface{}{})
	_, err := mapConfig(cfg)
	assert.NotNil(t, err)
}

func TestMapConfigEnv(t *testing.T) {
	t.Setenv("GPIOCTL_BASE", "0x3f200000")
	t.Setenv("GPIOCTL_DEVICE", "/dev/gpiomem")
	cfg := loadConfig(map[string]interface{}{"device": "/dev/mem"})
	mc, err := mapConfig(cfg)
	require.Nil(t, err)
	assert.Equal(t, gpio.BCM2837Base, mc.base)
	// flags override the environment
	assert.Equal(t, "/dev/mem", mc.device)
}

func TestMapConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpioctl.json")
	err := os.WriteFile(path, []byte(`{"base": "bcm2837", "window": true, "device": "/dev/gpiomem"}`), 0644)
	require.Nil(t, err)
	cfg := loadConfig(map[string]interface{}{"configfile": path})
	mc, err := mapConfig(cfg)
	require.Nil(t, err)
	assert.Equal(t, gpio.BCM2837Base, mc.base)
	assert.True(t, mc.window)
	assert.Equal(t, "/dev/gpiomem", mc.device)
}

func TestMapConfigBadBase(t *testing.T) {
	cfg := loadConfig(map[string]interface{}{"base": "bcm9999"})
	_, err := mapConfig(cfg)
	assert.NotNil(t, err)
}
