// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pyplumio is a client library for the ecoNET wire protocol used
// by Plum ecoMAX pellet boiler controllers, §1. OpenTCP and OpenSerial are
// the two entry points; both return a Connection whose EcoMAX field is the
// live, continuously updated device model and whose Bus field is where
// sensor/regulator-data updates are published, §2.
package pyplumio

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/denpamusic/pyplumio/conn"
	"github.com/denpamusic/pyplumio/conn/serial"
	"github.com/denpamusic/pyplumio/conn/tcp"
	"github.com/denpamusic/pyplumio/device"
	"github.com/denpamusic/pyplumio/event"
	"github.com/denpamusic/pyplumio/protocol"
)

// Option configures connection-wide behaviour shared by OpenTCP and
// OpenSerial: keep-alive interval, reply timeout, reconnect backoff,
// logger.
type Option = protocol.Option

// re-export the protocol.With* constructors so callers only ever import
// this root package for the common case.
var (
	WithKeepAlive        = protocol.WithKeepAlive
	WithReplyTimeout     = protocol.WithReplyTimeout
	WithReconnectBackoff = protocol.WithReconnectBackoff
	WithMaxSendAttempts  = protocol.WithMaxSendAttempts
	WithLogger           = protocol.WithLogger
)

// State names a Connection's position in the dial/handshake/connected
// lifecycle; see protocol.State for the full set of values.
type State = protocol.State

// Connection bundles a running Driver, the EcoMAX device model it feeds,
// the event.Bus device publishes on, and Statistics for observability,
// §2.
type Connection struct {
	EcoMAX *device.EcoMAX
	Bus    *event.Bus
	Stats  *Statistics

	driver *protocol.Driver

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan error
}

// OpenTCP dials an ecoNET controller's RS-485-over-TCP bridge at
// host:port and starts the connection loop in the background, §5. Call
// Close to stop it.
func OpenTCP(host string, port int, opts ...Option) *Connection {
	return open(tcp.New(host, port), opts...)
}

// OpenSerial opens a local serial device node, §5.
func OpenSerial(path string, opts ...Option) *Connection {
	return open(serial.New(path), opts...)
}

func open(dialer conn.Dialer, opts ...Option) *Connection {
	bus := event.NewBus()
	stats := newStatistics()
	logger := logrus.StandardLogger()

	ecomax := device.New(bus, logger)

	allOpts := append([]Option{protocol.WithMetrics(stats), protocol.WithLogger(logger)}, opts...)
	driver := protocol.New(dialer, ecomax, allOpts...)
	ecomax.Attach(driver)

	ctx, cancel := context.WithCancel(context.Background())
	c := &Connection{
		EcoMAX: ecomax,
		Bus:    bus,
		Stats:  stats,
		driver: driver,
		cancel: cancel,
		done:   make(chan error, 1),
	}

	go func() {
		c.done <- driver.Run(ctx)
	}()

	return c
}

// Connected reports whether the underlying transport is currently open
// and past the handshake.
func (c *Connection) Connected() bool {
	return c.driver.Connected()
}

// State returns the connection's current position in the
// dial/handshake/connected lifecycle.
func (c *Connection) State() State {
	return c.driver.State()
}

// Close stops the connection loop and waits for it to exit.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	err := <-c.done
	c.cancel = nil
	return err
}
