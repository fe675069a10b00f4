// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package pinfile

import (
	"context"
	"log"
	"os"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

// OpenFIFO opens the named pipe at path, creating it if necessary.
//
// The pipe is opened read/write so it never reports EOF when the last writer
// closes, and the open does not block waiting for a writer.
func OpenFIFO(path string) (*os.File, error) {
	fi, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		if err := unix.Mkfifo(path, 0666); err != nil {
			return nil, errors.Annotatef(err, "mkfifo %s", path)
		}
		// mkfifo is subject to the umask
		if err := os.Chmod(path, 0666); err != nil {
			return nil, errors.Trace(err)
		}
	case err != nil:
		return nil, errors.Trace(err)
	case fi.Mode()&os.ModeNamedPipe == 0:
		return nil, errors.NotValidf("%s is not a named pipe", path)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return f, nil
}

// ServeFIFO serves the named pipe at path until ctx is done.
func ServeFIFO(ctx context.Context, path string, w Writer, logger *log.Logger) error {
	f, err := OpenFIFO(path)
	if err != nil {
		return err
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// unblocks the pending read
			f.Close()
		case <-done:
			f.Close()
		}
	}()
	err = Serve(ctx, f, w, logger)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
