// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bytesio

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// Writer accumulates an encoded payload. The zero value is ready to use.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteByte writes a single unsigned byte.
func (w *Writer) WriteByte(v byte) {
	w.buf.WriteByte(v)
}

// WriteInt8 writes a signed byte.
func (w *Writer) WriteInt8(v int8) {
	w.WriteByte(byte(v))
}

// WriteUint16 writes a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteInt16 writes a little-endian int16.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteUint32 writes a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteInt32 writes a little-endian int32.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteFloat32 writes a little-endian IEEE-754 single precision float.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteBytes writes raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// WriteVarBytes writes a one-byte length prefix followed by b.
func (w *Writer) WriteVarBytes(b []byte) {
	w.WriteByte(byte(len(b)))
	w.buf.Write(b)
}

// WriteString writes a one-byte length prefix followed by the ASCII bytes
// of s.
func (w *Writer) WriteString(s string) {
	w.WriteVarBytes([]byte(s))
}

// WriteTimestamp writes t as a u32 unix-seconds value followed by a u16
// milliseconds value.
func (w *Writer) WriteTimestamp(t time.Time) {
	w.WriteUint32(uint32(t.Unix()))
	w.WriteUint16(uint16(t.Nanosecond() / int(time.Millisecond)))
}

// WriteVersion writes a BCD-style {major, minor, patch} version triple.
func (w *Writer) WriteVersion(v Version) {
	w.WriteByte(decimalToBCD(v.Major))
	w.WriteByte(decimalToBCD(v.Minor))
	w.WriteByte(decimalToBCD(v.Patch))
}
