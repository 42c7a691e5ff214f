// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bytesio

import "strings"

// uidAlphabet is the 32-symbol alphabet used to render a UID's 12 raw bytes
// as text, five bits at a time (a Crockford-style base32).
//
// spec.md names the exclusion set as {I, L, O, S, Z}, but 0-9A-Z minus those
// five letters is 31 symbols, one short of the 32 a 5-bit grouping needs.
// DESIGN.md records the resolution: Z is kept in the alphabet so every
// 5-bit group maps to exactly one symbol.
const uidAlphabet = "0123456789ABCDEFGHJKMNPQRTUVWXYZ"

// uidCRCPoly is the CRC-16/CCITT-FALSE polynomial used for the UID check
// character.
const uidCRCPoly = 0x1021

// crc16CCITT computes the CRC-16/CCITT-FALSE checksum (initial value
// 0xFFFF) of b.
func crc16CCITT(b []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, c := range b {
		crc ^= uint16(c) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ uidCRCPoly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// EncodeUID renders 12 raw UID bytes as an alphabet-encoded string with a
// trailing CRC-16/CCITT check character.
func EncodeUID(raw [12]byte) string {
	var sb strings.Builder
	var acc uint32
	bits := 0
	for _, b := range raw {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			idx := (acc >> uint(bits)) & 0x1f
			sb.WriteByte(uidAlphabet[idx])
		}
	}
	if bits > 0 {
		idx := (acc << uint(5-bits)) & 0x1f
		sb.WriteByte(uidAlphabet[idx])
	}
	encoded := sb.String()
	check := crc16CCITT(raw[:])
	return encoded + string(uidAlphabet[check%32])
}

// DecodeUID parses a UID string produced by EncodeUID, validating its check
// character.
func DecodeUID(s string) ([12]byte, error) {
	var raw [12]byte
	if len(s) == 0 {
		return raw, ErrInvalidUID
	}
	body, check := s[:len(s)-1], s[len(s)-1]

	index := make(map[byte]uint32, len(uidAlphabet))
	for i := 0; i < len(uidAlphabet); i++ {
		index[uidAlphabet[i]] = uint32(i)
	}

	var acc uint32
	bits := 0
	out := make([]byte, 0, 12)
	for i := 0; i < len(body); i++ {
		v, ok := index[body[i]]
		if !ok {
			return raw, ErrInvalidUID
		}
		acc = acc<<5 | v
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>uint(bits)))
		}
	}
	if len(out) < 12 {
		return raw, ErrInvalidUID
	}
	copy(raw[:], out[:12])

	want := crc16CCITT(raw[:])
	if uidAlphabet[want%32] != check {
		return raw, ErrInvalidUID
	}
	return raw, nil
}
