// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package serial opens a local RS-232/USB-RS485 device node for a directly
// wired ecoMAX controller, §5. It configures the line discipline with
// golang.org/x/sys/unix termios calls rather than shelling out to stty.
package serial

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/denpamusic/pyplumio/conn"
)

// baudRates maps the handful of rates ecoNET hardware actually uses to
// their termios Bxxx constants.
var baudRates = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

// Dialer opens Path at Baud (default 115200, the ecoMAX default), §5.
type Dialer struct {
	Path string
	Baud int
}

// New returns a Dialer for the device node at path.
func New(path string) *Dialer {
	return &Dialer{Path: path, Baud: 115200}
}

func (d *Dialer) String() string {
	return "serial://" + d.Path
}

// Dial implements conn.Dialer. ctx is only consulted before the blocking
// open call; once opened, reads/writes are not individually cancellable.
func (d *Dialer) Dial(ctx context.Context) (conn.Transport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(d.Path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "serial: open %s", d.Path)
	}

	baud := d.Baud
	if baud == 0 {
		baud = 115200
	}
	rate, ok := baudRates[baud]
	if !ok {
		f.Close()
		return nil, errors.Errorf("serial: unsupported baud rate %d", baud)
	}

	if err := configure(int(f.Fd()), rate); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "serial: configure %s", d.Path)
	}

	return f, nil
}

// configure puts fd into raw 8N1 mode at rate, with VMIN=1/VTIME=0 so a
// single Read blocks until at least one byte is available, matching the
// behaviour frame.Decode's bufio.Reader expects.
func configure(fd int, rate uint32) error {
	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return err
	}

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, t); err != nil {
		return err
	}
	return setSpeed(fd, rate)
}
