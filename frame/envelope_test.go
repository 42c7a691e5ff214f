// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"bufio"
	"bytes"
	"testing"
)

func TestRawEnvelopeRoundTrip(t *testing.T) {
	e := &rawEnvelope{
		Recipient: AddressEcoMAX,
		Sender:    AddressBroadcast,
		Type:      TypeProgramVersion,
		Payload:   []byte{1, 2, 3, 4},
	}

	var buf bytes.Buffer
	if err := writeRawEnvelope(&buf, e); err != nil {
		t.Fatal(err)
	}

	got, err := readRawEnvelope(bufio.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if got.Recipient != e.Recipient || got.Sender != e.Sender || got.Type != e.Type {
		t.Fatalf("got %+v want %+v", got, e)
	}
	if !bytes.Equal(got.Payload, e.Payload) {
		t.Fatalf("payload mismatch: got %x want %x", got.Payload, e.Payload)
	}
}

func TestRawEnvelopeSkipsLeadingNoise(t *testing.T) {
	e := &rawEnvelope{Recipient: AddressEcoMAX, Sender: AddressBroadcast, Type: TypeCheckDevice}
	var buf bytes.Buffer
	buf.Write([]byte{0xAA, 0xBB, 0xCC})
	if err := writeRawEnvelope(&buf, e); err != nil {
		t.Fatal(err)
	}

	got, err := readRawEnvelope(bufio.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != TypeCheckDevice {
		t.Fatalf("got type %v", got.Type)
	}
}

func TestRawEnvelopeChecksumMismatch(t *testing.T) {
	e := &rawEnvelope{Recipient: AddressEcoMAX, Sender: AddressBroadcast, Type: TypeUID, Payload: []byte{9, 9}}
	var buf bytes.Buffer
	if err := writeRawEnvelope(&buf, e); err != nil {
		t.Fatal(err)
	}

	raw := buf.Bytes()
	raw[len(raw)-2] ^= 0xFF // flip the CRC byte

	if _, err := readRawEnvelope(bufio.NewReader(bytes.NewReader(raw))); err != ErrChecksumError {
		t.Fatalf("expected ErrChecksumError, got %v", err)
	}
}

func TestRawEnvelopeMissingEndDelimiter(t *testing.T) {
	e := &rawEnvelope{Recipient: AddressEcoMAX, Sender: AddressBroadcast, Type: TypeUID}
	var buf bytes.Buffer
	if err := writeRawEnvelope(&buf, e); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	raw[len(raw)-1] = 0x00

	if _, err := readRawEnvelope(bufio.NewReader(bytes.NewReader(raw))); err == nil {
		t.Fatal("expected malformed frame error")
	}
}

func TestRawEnvelopeUnsupportedProtocol(t *testing.T) {
	e := &rawEnvelope{Recipient: AddressEcoMAX, Sender: AddressBroadcast, Type: TypeUID}
	var buf bytes.Buffer
	if err := writeRawEnvelope(&buf, e); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	raw[6] = 0x99 // corrupt the version byte

	if _, err := readRawEnvelope(bufio.NewReader(bytes.NewReader(raw))); err != ErrUnsupportedProtocol {
		t.Fatalf("expected ErrUnsupportedProtocol, got %v", err)
	}
}
