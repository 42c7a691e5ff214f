// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bytesio

import (
	"math"
	"testing"
	"time"
)

func TestReaderWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteByte(0x42)
	w.WriteInt8(-5)
	w.WriteUint16(0xBEEF)
	w.WriteInt16(-1234)
	w.WriteUint32(0xDEADBEEF)
	w.WriteInt32(-123456)
	w.WriteFloat32(3.5)
	w.WriteBytes([]byte{1, 2, 3})
	w.WriteString("ecomax")
	ts := time.Unix(1700000000, 500*int64(time.Millisecond)).UTC()
	w.WriteTimestamp(ts)
	w.WriteVersion(Version{Major: 1, Minor: 2, Patch: 3})

	r := NewReader(w.Bytes())

	if b, err := r.ReadByte(); err != nil || b != 0x42 {
		t.Fatalf("ReadByte: %v %v", b, err)
	}
	if v, err := r.ReadInt8(); err != nil || v != -5 {
		t.Fatalf("ReadInt8: %v %v", v, err)
	}
	if v, err := r.ReadUint16(); err != nil || v != 0xBEEF {
		t.Fatalf("ReadUint16: %v %v", v, err)
	}
	if v, err := r.ReadInt16(); err != nil || v != -1234 {
		t.Fatalf("ReadInt16: %v %v", v, err)
	}
	if v, err := r.ReadUint32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("ReadUint32: %v %v", v, err)
	}
	if v, err := r.ReadInt32(); err != nil || v != -123456 {
		t.Fatalf("ReadInt32: %v %v", v, err)
	}
	if v, err := r.ReadFloat32(); err != nil || v != 3.5 {
		t.Fatalf("ReadFloat32: %v %v", v, err)
	}
	if b, err := r.ReadBytes(3); err != nil || b[0] != 1 || b[2] != 3 {
		t.Fatalf("ReadBytes: %v %v", b, err)
	}
	if s, err := r.ReadString(); err != nil || s != "ecomax" {
		t.Fatalf("ReadString: %v %v", s, err)
	}
	if got, err := r.ReadTimestamp(); err != nil || !got.Equal(ts) {
		t.Fatalf("ReadTimestamp: %v %v (want %v)", got, err, ts)
	}
	if v, err := r.ReadVersion(); err != nil || v != (Version{1, 2, 3}) {
		t.Fatalf("ReadVersion: %v %v", v, err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected reader exhausted, %d bytes left", r.Len())
	}
}

func TestReaderOutOfRange(t *testing.T) {
	r := NewReader([]byte{1})
	if _, err := r.ReadUint16(); err == nil {
		t.Fatal("expected error reading past end")
	}
}

func TestReadFloat32NaN(t *testing.T) {
	w := NewWriter()
	w.WriteFloat32(float32(math.NaN()))
	r := NewReader(w.Bytes())
	v, err := r.ReadFloat32()
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(float64(v)) {
		t.Fatalf("expected NaN, got %v", v)
	}
}

func TestBCDRoundTrip(t *testing.T) {
	for v := uint8(0); v <= 99; v++ {
		if got := bcdToDecimal(decimalToBCD(v)); got != v {
			t.Fatalf("bcd round trip broke at %d: got %d", v, got)
		}
	}
}
