// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/btl/gpio/internal/mqttsub"
	"github.com/btl/gpio/internal/pinfile"
	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

func init() {
	serveCmd.Flags().StringP("fifo", "f", "", "named pipe accepting <pin>,<value> lines (default /run/gpio)")
	serveCmd.Flags().String("broker", "", "MQTT broker URL, e.g. tcp://localhost:1883 (disabled if empty)")
	serveCmd.Flags().String("topic", "", "MQTT topic prefix (default gpio)")
	serveCmd.Flags().String("client-id", "", "MQTT client ID (default gpioctl)")
	serveCmd.SetHelpTemplate(serveCmd.HelpTemplate() + extendedServeHelp)
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Drive pins from lines written to a named pipe",
	Args:    cobra.NoArgs,
	RunE:    serve,
	Example: "  gpioctl -b bcm2711 serve &\n  echo 17,1 > /run/gpio",
}

var extendedServeHelp = `
Lines:
  Each line written to the pipe has the form <pin>,<value> where value is
  1 to set the pin as an output and drive it high, or 0 to drive it low.
  Malformed lines are logged and ignored.

MQTT:
  If a broker is configured, messages to <topic>/<pin>/set with a level
  payload are applied as well, and the level is published, retained, to
  <topic>/<pin>/state.
`

func serve(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(flagValues(cmd))
	sc := serveConfigFrom(cfg)
	c, err := openController(cmd)
	if err != nil {
		// no transport may start without the registers
		return err
	}
	defer c.Close()
	logger := log.New(os.Stderr, "gpioctl: ", log.LstdFlags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if sc.broker != "" {
		sub := mqttsub.New(mqttsub.Config{
			Broker:   sc.broker,
			ClientID: sc.clientID,
			Topic:    sc.topic,
			Timeout:  sc.timeout,
		}, c, logger)
		if err := sub.Start(); err != nil {
			return errors.Annotatef(err, "mqtt %s", sc.broker)
		}
		defer sub.Stop()
	}
	sdnotify(cmd, daemon.SdNotifyReady)
	logger.Printf("serving %s, base 0x%08x", sc.fifo, c.Base())
	err = pinfile.ServeFIFO(ctx, sc.fifo, c, logger)
	sdnotify(cmd, daemon.SdNotifyStopping)
	return err
}

func sdnotify(cmd *cobra.Command, s string) {
	if _, err := daemon.SdNotify(false, s); err != nil {
		logErr(cmd, errors.Annotate(err, "sd_notify"))
	}
}
