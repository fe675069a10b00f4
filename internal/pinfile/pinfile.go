// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

// Package pinfile serves pin writes from a text stream.
//
// Each line has the form "<pin>,<value>", where value is 0 or 1, e.g. "17,1".
// Malformed lines and invalid pins are logged and ignored.
package pinfile

import (
	"bufio"
	"context"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/btl/gpio"
	"github.com/juju/errors"
)

// MaxLine is the longest line accepted.
const MaxLine = 1024

// Writer drives a pin to a level.
type Writer interface {
	Write(pin int, level gpio.Level) error
}

// Parse decodes a "<pin>,<value>" line.
// The pin range is left to the controller.
func Parse(line string) (int, gpio.Level, error) {
	if len(line) > MaxLine {
		return 0, gpio.Low, errors.NotValidf("line of %d bytes", len(line))
	}
	aa := strings.Split(strings.TrimSpace(line), ",")
	if len(aa) != 2 {
		return 0, gpio.Low, errors.NotValidf("format %q", line)
	}
	pin, err := strconv.ParseUint(strings.TrimSpace(aa[0]), 10, 32)
	if err != nil {
		return 0, gpio.Low, errors.NotValidf("pin %q", aa[0])
	}
	switch strings.TrimSpace(aa[1]) {
	case "0":
		return int(pin), gpio.Low, nil
	case "1":
		return int(pin), gpio.High, nil
	}
	return 0, gpio.Low, errors.NotValidf("value %q", aa[1])
}

// Serve reads lines from r and applies them to w until r is exhausted or
// ctx is done.
//
// Lines longer than MaxLine are discarded in full and logged.
// gpio.ErrClosed from w terminates serving. Other write errors are logged.
func Serve(ctx context.Context, r io.Reader, w Writer, logger *log.Logger) error {
	br := bufio.NewReaderSize(r, MaxLine+1)
	for {
		b, err := br.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			n := len(b)
			for err == bufio.ErrBufferFull {
				b, err = br.ReadSlice('\n')
				n += len(b)
			}
			logger.Printf("pinfile: ignoring %s", errors.NotValidf("line of %d bytes", n))
			b = nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if werr := apply(string(b), w, logger); werr != nil {
			return werr
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Trace(err)
		}
	}
}

// apply parses and writes a single line, returning only errors that end
// serving.
func apply(line string, w Writer, logger *log.Logger) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	pin, level, err := Parse(line)
	if err != nil {
		logger.Printf("pinfile: ignoring %s", err)
		return nil
	}
	err = w.Write(pin, level)
	if errors.Cause(err) == gpio.ErrClosed {
		return errors.Trace(err)
	}
	if err != nil {
		logger.Printf("pinfile: write %d,%d: %s", pin, levelValue(level), err)
		return nil
	}
	logger.Printf("pinfile: pin %d, value %d", pin, levelValue(level))
	return nil
}

func levelValue(l gpio.Level) int {
	if l == gpio.Low {
		return 0
	}
	return 1
}
