// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package conntest implements fake conn.Transport values for testing the
// protocol driver without a real serial port or TCP socket.
package conntest

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/denpamusic/pyplumio/conn"
)

// IO registers one write/read pair that happened on a transport.
type IO struct {
	Write []byte
	Read  []byte
}

// Record wraps an underlying Transport (nil if only writes matter) and
// remembers every Write/Read that passes through it, so a test can assert
// on the exact bytes the driver put on the wire.
type Record struct {
	sync.Mutex
	Transport conn.Transport
	Ops       []IO
	pending   []byte
}

func (r *Record) String() string { return "record" }

// Write implements conn.Transport.
func (r *Record) Write(p []byte) (int, error) {
	r.Lock()
	defer r.Unlock()
	if r.Transport != nil {
		if _, err := r.Transport.Write(p); err != nil {
			return 0, err
		}
	}
	w := make([]byte, len(p))
	copy(w, p)
	r.Ops = append(r.Ops, IO{Write: w})
	return len(p), nil
}

// Read implements conn.Transport.
func (r *Record) Read(p []byte) (int, error) {
	var n int
	var err error
	if r.Transport != nil {
		n, err = r.Transport.Read(p)
	} else {
		err = io.EOF
	}
	r.Lock()
	if n > 0 {
		read := make([]byte, n)
		copy(read, p[:n])
		r.Ops = append(r.Ops, IO{Read: read})
	}
	r.Unlock()
	return n, err
}

// Close implements conn.Transport.
func (r *Record) Close() error {
	if r.Transport != nil {
		return r.Transport.Close()
	}
	return nil
}

// Playback implements conn.Transport and replays a scripted byte stream:
// Reads are satisfied from Script in order, and every Write is checked
// against Expect at the matching position. The protocol driver's
// handshake/reconnect tests do not use it: they dial net.Pipe connections
// through a fake conn.Dialer.
type Playback struct {
	sync.Mutex
	Script [][]byte // successive Read() contents
	Expect [][]byte // successive Write() contents to verify, or nil to skip

	readIdx  int
	writeIdx int
	readBuf  bytes.Buffer
	closed   bool
}

func (p *Playback) String() string { return "playback" }

// Read implements conn.Transport.
func (p *Playback) Read(dst []byte) (int, error) {
	p.Lock()
	defer p.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	for p.readBuf.Len() == 0 {
		if p.readIdx >= len(p.Script) {
			return 0, io.EOF
		}
		p.readBuf.Write(p.Script[p.readIdx])
		p.readIdx++
	}
	return p.readBuf.Read(dst)
}

// Write implements conn.Transport.
func (p *Playback) Write(src []byte) (int, error) {
	p.Lock()
	defer p.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	if p.Expect != nil {
		if p.writeIdx >= len(p.Expect) {
			return 0, fmt.Errorf("conntest: unexpected write #%d: %#v", p.writeIdx, src)
		}
		if !bytes.Equal(p.Expect[p.writeIdx], src) {
			return 0, fmt.Errorf("conntest: write #%d mismatch: got %#v want %#v", p.writeIdx, src, p.Expect[p.writeIdx])
		}
	}
	p.writeIdx++
	return len(src), nil
}

// Close implements conn.Transport and marks the playback exhausted.
func (p *Playback) Close() error {
	p.Lock()
	defer p.Unlock()
	p.closed = true
	return nil
}

// Verify reports whether every expected write was consumed.
func (p *Playback) Verify() error {
	p.Lock()
	defer p.Unlock()
	if p.Expect != nil && p.writeIdx != len(p.Expect) {
		return fmt.Errorf("conntest: expected %d writes, got %d", len(p.Expect), p.writeIdx)
	}
	return nil
}

// FailAfter wraps a Transport and fails every Read/Write once N
// operations have gone through, simulating a dropped link for the
// reconnect-backoff test, §8 S6.
type FailAfter struct {
	Transport conn.Transport
	N         int

	mu    sync.Mutex
	count int
}

func (f *FailAfter) String() string { return "failafter" }

func (f *FailAfter) tripped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return f.count > f.N
}

// Read implements conn.Transport.
func (f *FailAfter) Read(p []byte) (int, error) {
	if f.tripped() {
		return 0, io.ErrClosedPipe
	}
	return f.Transport.Read(p)
}

// Write implements conn.Transport.
func (f *FailAfter) Write(p []byte) (int, error) {
	if f.tripped() {
		return 0, io.ErrClosedPipe
	}
	return f.Transport.Write(p)
}

// Close implements conn.Transport.
func (f *FailAfter) Close() error { return f.Transport.Close() }

var (
	_ conn.Transport = (*Record)(nil)
	_ conn.Transport = (*Playback)(nil)
	_ conn.Transport = (*FailAfter)(nil)
)
