// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package serial

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETS
)

// setSpeed sets both input and output baud rate on a Linux termios
// struct: it replaces Cflag's CBAUD bits with the Bxxx constant rate, and
// Ispeed/Ospeed additionally let glibc-style tools report the rate
// accurately.
func setSpeed(fd int, rate uint32) error {
	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return err
	}
	t.Cflag &^= unix.CBAUD
	t.Cflag |= rate
	t.Ispeed = rate
	t.Ospeed = rate
	return unix.IoctlSetTermios(fd, ioctlSetTermios, t)
}
