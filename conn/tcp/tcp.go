// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tcp dials an ecoNET controller's RS-485-over-TCP bridge, the
// common way an ecoMAX is exposed to a network, §5.
package tcp

import (
	"context"
	"fmt"
	"net"

	"github.com/pkg/errors"

	"github.com/denpamusic/pyplumio/conn"
)

// Dialer opens a TCP connection to host:port, §5.
type Dialer struct {
	Host string
	Port int

	// NetDialer lets tests substitute a fake net.Dialer. Nil uses
	// net.Dialer's zero value.
	NetDialer interface {
		DialContext(ctx context.Context, network, address string) (net.Conn, error)
	}
}

// New returns a Dialer for host:port.
func New(host string, port int) *Dialer {
	return &Dialer{Host: host, Port: port}
}

func (d *Dialer) String() string {
	return fmt.Sprintf("tcp://%s:%d", d.Host, d.Port)
}

// Dial implements conn.Dialer.
func (d *Dialer) Dial(ctx context.Context) (conn.Transport, error) {
	nd := d.NetDialer
	if nd == nil {
		nd = &net.Dialer{}
	}
	address := net.JoinHostPort(d.Host, fmt.Sprintf("%d", d.Port))
	c, err := nd.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "tcp: dial %s", address)
	}
	return c, nil
}

var _ conn.Dialer = (*Dialer)(nil)
