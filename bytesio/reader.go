// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bytesio

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/pkg/errors"
)

// Reader is a forward-only cursor over a fixed byte buffer.
//
// It mirrors the register-access helpers in the teacher's conn/mmr package
// (ReadUint8/ReadUint16/...) but walks a single in-memory payload rather
// than issuing bus transactions, and fails closed with ErrOutOfRange
// instead of propagating a bus error.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes remaining.
func (r *Reader) Len() int {
	return len(r.buf) - r.pos
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the unread tail of the buffer without consuming it.
func (r *Reader) Remaining() []byte {
	return r.buf[r.pos:]
}

func (r *Reader) need(n int) error {
	if r.Len() < n {
		return errors.Wrapf(ErrOutOfRange, "need %d bytes, have %d", n, r.Len())
	}
	return nil
}

// ReadByte reads a single unsigned byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadByte()
	return int8(v), err
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadInt16 reads a little-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadFloat32 reads a little-endian IEEE-754 single precision float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// ReadVarBytes reads a one-byte length prefix followed by that many bytes,
// the "VarBytes" encoding used for UIDs, SSIDs and model names.
func (r *Reader) ReadVarBytes() ([]byte, error) {
	n, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// ReadString reads a one-byte length prefix followed by that many bytes of
// ASCII text.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadVarBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadTimestamp reads a u32 unix-seconds value followed by a u16
// milliseconds value, per §4.1.
func (r *Reader) ReadTimestamp() (time.Time, error) {
	sec, err := r.ReadUint32()
	if err != nil {
		return time.Time{}, err
	}
	ms, err := r.ReadUint16()
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(sec), int64(ms)*int64(time.Millisecond)).UTC(), nil
}

// ReadVersion reads a BCD-style {major, minor, patch} version triple.
func (r *Reader) ReadVersion() (Version, error) {
	b, err := r.ReadBytes(3)
	if err != nil {
		return Version{}, err
	}
	return Version{
		Major: bcdToDecimal(b[0]),
		Minor: bcdToDecimal(b[1]),
		Patch: bcdToDecimal(b[2]),
	}, nil
}

// Version is a decoded BCD major/minor/patch triple.
type Version struct {
	Major, Minor, Patch uint8
}

func bcdToDecimal(b byte) uint8 {
	return (b>>4)*10 + (b & 0x0f)
}

func decimalToBCD(v uint8) byte {
	return byte((v/10)<<4 | (v % 10))
}
