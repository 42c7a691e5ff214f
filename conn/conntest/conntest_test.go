// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package conntest

import (
	"bytes"
	"io"
	"testing"
)

func TestRecord_noUnderlying(t *testing.T) {
	r := &Record{}
	if s := r.String(); s != "record" {
		t.Fatal(s)
	}
	if _, err := r.Write([]byte{'a', 'b'}); err != nil {
		t.Fatal(err)
	}
	if len(r.Ops) != 1 || !bytes.Equal(r.Ops[0].Write, []byte{'a', 'b'}) {
		t.Fatalf("unexpected ops: %+v", r.Ops)
	}
	if _, err := r.Read(make([]byte, 1)); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPlayback(t *testing.T) {
	p := &Playback{
		Script: [][]byte{{0x68, 0x07}},
		Expect: [][]byte{{0x01, 0x02}},
	}
	if s := p.String(); s != "playback" {
		t.Fatal(s)
	}

	buf := make([]byte, 2)
	n, err := p.Read(buf)
	if err != nil || n != 2 || !bytes.Equal(buf, []byte{0x68, 0x07}) {
		t.Fatalf("n=%d err=%v buf=%v", n, err, buf)
	}
	if _, err := p.Read(buf); err != io.EOF {
		t.Fatalf("expected EOF after script exhausted, got %v", err)
	}

	if _, err := p.Write([]byte{0x01, 0x02}); err != nil {
		t.Fatal(err)
	}
	if err := p.Verify(); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Write([]byte{0xff}); err == nil {
		t.Fatal("expected unexpected-write error")
	}
}

func TestPlayback_writeMismatch(t *testing.T) {
	p := &Playback{Expect: [][]byte{{0x01}}}
	if _, err := p.Write([]byte{0x02}); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestFailAfter(t *testing.T) {
	p := &Playback{Script: [][]byte{{1}, {2}, {3}}}
	f := &FailAfter{Transport: p, N: 1}
	buf := make([]byte, 1)
	if _, err := f.Read(buf); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Read(buf); err == nil {
		t.Fatal("expected failure after N ops")
	}
}
