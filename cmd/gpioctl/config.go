// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"strings"
	"time"

	"github.com/btl/gpio"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
)

var defaultConfig = map[string]interface{}{
	"device":   "/dev/mem",
	"window":   false,
	"length":   gpio.PageSize,
	"fifo":     "/run/gpio",
	"broker":   "",
	"topic":    "gpio",
	"clientid": "gpioctl",
	"timeout":  "5s",
}

// flagValues returns the flags explicitly set on the command line, keyed
// as config keys.
func flagValues(cmd *cobra.Command) map[string]interface{} {
	m := map[string]interface{}{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		m[strings.ReplaceAll(f.Name, "-", "")] = f.Value.String()
	})
	return m
}

// loadConfig builds the configuration from, in order of priority, the
// command line flags, the environment, the config file and the defaults.
func loadConfig(flags map[string]interface{}) *config.Config {
	def := dict.New(dict.WithMap(defaultConfig))
	// highest priority sources first - flags override environment
	cfg := config.New(
		dict.New(dict.WithMap(flags)),
		env.New(env.WithEnvPrefix("GPIOCTL_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "configfile", "gpioctl.json", json.NewDecoder()))
	return cfg
}

type mapping struct {
	base   uint64
	device string
	window bool
	length int
}

// mapConfig extracts the register mapping from the config.
// There is no default base as it depends on the SoC generation.
func mapConfig(cfg *config.Config) (mapping, error) {
	var mc mapping
	v, err := cfg.Get("base")
	if err != nil {
		return mc, errors.New("base address required, e.g. --base bcm2711 or GPIOCTL_BASE=0x3f200000")
	}
	mc.base, err = gpio.ParseBase(v.String())
	if err != nil {
		return mc, err
	}
	mc.device = cfg.MustGet("device").String()
	mc.window = cfg.MustGet("window").Bool()
	mc.length = int(cfg.MustGet("length").Int())
	return mc, nil
}

type serveConfig struct {
	fifo     string
	broker   string
	topic    string
	clientID string
	timeout  time.Duration
}

func serveConfigFrom(cfg *config.Config) serveConfig {
	return serveConfig{
		fifo:     cfg.MustGet("fifo").String(),
		broker:   cfg.MustGet("broker").String(),
		topic:    cfg.MustGet("topic").String(),
		clientID: cfg.MustGet("clientid").String(),
		timeout:  cfg.MustGet("timeout").Duration(),
	}
}
