// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Sentinel errors classifying a single-frame fault, §7. None of these
// poison the stream: the reader logs and discards the offending frame and
// continues with the next StartDelimiter.
var (
	ErrMalformedFrame    = errors.New("frame: malformed frame")
	ErrChecksumError     = errors.New("frame: checksum mismatch")
	ErrUnsupportedProtocol = errors.New("frame: unsupported sender type or protocol version")
)

// rawEnvelope is the wire envelope before its payload is interpreted, §2.
type rawEnvelope struct {
	Recipient Address
	Sender    Address
	Type      Type
	Payload   []byte
}

// readRawEnvelope scans r for the next StartDelimiter, reads the header and
// payload, validates the CRC and end delimiter, and returns the raw
// envelope. It never returns a bare I/O error for single-frame faults:
// those come back as ErrMalformedFrame/ErrChecksumError/
// ErrUnsupportedProtocol so the caller can log-and-continue per §7.
func readRawEnvelope(r *bufio.Reader) (*rawEnvelope, error) {
	if err := seekStart(r); err != nil {
		return nil, err // genuine I/O error, returned as is; the driver reconnects on it
	}

	header := make([]byte, 7)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	length := int(header[0]) | int(header[1])<<8
	recipient := Address(header[2])
	sender := Address(header[3])
	senderType := header[4]
	version := header[5]
	frameType := Type(header[6])

	if senderType != SenderType || version != ProtocolVersion {
		return nil, ErrUnsupportedProtocol
	}

	// length counts the payload bytes after the frame type, the CRC byte
	// and the end delimiter. We have already consumed start delimiter
	// (1), length (2), recipient (1), sender (1), sender type (1), version
	// (1) and frame type (1) = 8 bytes total; `length-2` more payload bytes
	// follow the frame type before CRC+end.
	if length < 2 {
		return nil, errors.Wrap(ErrMalformedFrame, "length field too small")
	}
	remaining := length - 2
	payload := make([]byte, remaining)
	if remaining > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}

	crcByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	end, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if end != EndDelimiter {
		return nil, errors.Wrap(ErrMalformedFrame, "missing end delimiter")
	}

	full := make([]byte, 0, 9+len(payload))
	full = append(full, StartDelimiter, header[0], header[1], header[2], header[3], header[4], header[5], header[6])
	full = append(full, payload...)
	if computeCRC(full) != crcByte {
		return nil, ErrChecksumError
	}

	return &rawEnvelope{
		Recipient: recipient,
		Sender:    sender,
		Type:      frameType,
		Payload:   payload,
	}, nil
}

// seekStart consumes bytes from r until (and including) a StartDelimiter is
// found.
func seekStart(r *bufio.Reader) error {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		if b == StartDelimiter {
			return nil
		}
	}
}

// computeCRC XOR-folds every byte from the start delimiter through the last
// payload byte, §4.2.
func computeCRC(b []byte) byte {
	var crc byte
	for _, c := range b {
		crc ^= c
	}
	return crc
}

// writeRawEnvelope serialises a raw envelope: header, payload, CRC, end
// delimiter.
func writeRawEnvelope(w io.Writer, e *rawEnvelope) error {
	length := 2 + len(e.Payload)
	buf := make([]byte, 0, 9+len(e.Payload)+2)
	buf = append(buf, StartDelimiter)
	buf = append(buf, byte(length), byte(length>>8))
	buf = append(buf, byte(e.Recipient), byte(e.Sender), SenderType, ProtocolVersion, byte(e.Type))
	buf = append(buf, e.Payload...)

	crc := computeCRC(buf)
	buf = append(buf, crc, EndDelimiter)

	_, err := w.Write(buf)
	return err
}
