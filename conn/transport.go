// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package conn defines the duplex byte-stream abstraction the protocol
// driver reads frames from and writes frames to, §5. Concrete transports
// live in subpackages: conn/tcp dials ecoNET over TCP (the usual path for a
// network-attached ecoMAX controller), conn/serial opens a local RS-232/USB
// device node.
package conn

import (
	"context"
	"io"
)

// Transport is a duplex byte stream. frame.Decode/frame.Encode operate
// directly on it; nothing above this layer cares whether the bytes
// travelled over TCP or a serial line.
type Transport interface {
	io.ReadWriteCloser
}

// Dialer opens a Transport. protocol.Driver calls Dial once at startup and
// again, with exponential backoff, every time the Transport returns an
// error from Read or Write, §5 reconnection.
type Dialer interface {
	// Dial opens a new Transport, blocking until connected or ctx is done.
	Dial(ctx context.Context) (Transport, error)
	// String names the dialer for logging, e.g. "tcp://1.2.3.4:8899".
	String() string
}
