// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

package pinfile_test

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/btl/gpio"
	"github.com/btl/gpio/internal/pinfile"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type write struct {
	pin   int
	level gpio.Level
}

type recorder struct {
	writes []write
	err    func(pin int) error
}

func (r *recorder) Write(pin int, level gpio.Level) error {
	if r.err != nil {
		if err := r.err(pin); err != nil {
			return err
		}
	}
	r.writes = append(r.writes, write{pin, level})
	return nil
}

func TestParse(t *testing.T) {
	patterns := []struct {
		in    string
		pin   int
		level gpio.Level
	}{
		{"17,1", 17, gpio.High},
		{"17,0", 17, gpio.Low},
		{" 4 , 0 \n", 4, gpio.Low},
		{"0,1", 0, gpio.High},
		{"29,1", 29, gpio.High},
	}
	for _, p := range patterns {
		pin, level, err := pinfile.Parse(p.in)
		assert.Nil(t, err, p.in)
		assert.Equal(t, p.pin, pin, p.in)
		assert.Equal(t, p.level, level, p.in)
	}
}

func TestParseInvalid(t *testing.T) {
	patterns := []string{
		"",
		"17",
		"17,",
		",1",
		"a,1",
		"17,a",
		"17,2",
		"-1,1",
		"17,1,0",
		"17;1",
		strings.Repeat(" ", pinfile.MaxLine) + "17,1",
	}
	for _, p := range patterns {
		_, _, err := pinfile.Parse(p)
		assert.True(t, errors.IsNotValid(err), p)
	}
}

func TestServe(t *testing.T) {
	var logbuf bytes.Buffer
	logger := log.New(&logbuf, "", 0)
	r := strings.NewReader("17,1\nbogus\n\n4,0\n29,1\n17,0\n")
	w := &recorder{err: func(pin int) error {
		if pin > gpio.MaxPin {
			return &gpio.InvalidPinError{Pin: pin}
		}
		return nil
	}}
	err := pinfile.Serve(context.Background(), r, w, logger)
	assert.Nil(t, err)
	assert.Equal(t, []write{
		{17, gpio.High},
		{4, gpio.Low},
		{17, gpio.Low},
	}, w.writes)
	assert.Contains(t, logbuf.String(), "bogus")
	assert.Contains(t, logbuf.String(), "invalid pin 29")
}

func TestServeClosed(t *testing.T) {
	logger := log.New(&bytes.Buffer{}, "", 0)
	r := strings.NewReader("17,1\n4,1\n")
	w := &recorder{err: func(pin int) error {
		return gpio.ErrClosed
	}}
	err := pinfile.Serve(context.Background(), r, w, logger)
	assert.Equal(t, gpio.ErrClosed, errors.Cause(err))
	assert.Empty(t, w.writes)
}

func TestServeCancelled(t *testing.T) {
	logger := log.New(&bytes.Buffer{}, "", 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &recorder{}
	err := pinfile.Serve(ctx, strings.NewReader("17,1\n"), w, logger)
	require.Equal(t, context.Canceled, err)
	assert.Empty(t, w.writes)
}

func TestServeLongLine(t *testing.T) {
	var logbuf bytes.Buffer
	logger := log.New(&logbuf, "", 0)
	long := strings.Repeat("1", 70*1024)
	r := strings.NewReader(long + "\n17,1\n")
	w := &recorder{}
	err := pinfile.Serve(context.Background(), r, w, logger)
	assert.Nil(t, err)
	assert.Equal(t, []write{{17, gpio.High}}, w.writes)
	assert.Contains(t, logbuf.String(), "not valid")
	assert.Contains(t, logbuf.String(), "line of 71681 bytes")
}

func TestServeUnterminated(t *testing.T) {
	logger := log.New(&bytes.Buffer{}, "", 0)
	w := &recorder{}
	err := pinfile.Serve(context.Background(), strings.NewReader("4,0\n17,1"), w, logger)
	assert.Nil(t, err)
	assert.Equal(t, []write{{4, gpio.Low}, {17, gpio.High}}, w.writes)
}
