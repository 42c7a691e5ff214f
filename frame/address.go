// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

// Address identifies a device on the ecoNET bus, §2 DeviceAddress.
type Address byte

// Well-known bus addresses.
const (
	AddressBroadcast Address = 0x00
	AddressEcoMAX    Address = 0x45
	AddressEcoSTER   Address = 0x51
	AddressLibrary   Address = 0x56
)

func (a Address) String() string {
	switch a {
	case AddressBroadcast:
		return "broadcast"
	case AddressEcoMAX:
		return "ecomax"
	case AddressEcoSTER:
		return "ecoster"
	case AddressLibrary:
		return "library"
	default:
		return "unknown"
	}
}

// SenderType is the fixed "sender type" byte every frame envelope carries.
const SenderType = 0x30

// ProtocolVersion is the fixed protocol version byte every frame envelope
// carries.
const ProtocolVersion = 0x05

// StartDelimiter and EndDelimiter bracket every frame on the wire.
const (
	StartDelimiter = 0x68
	EndDelimiter   = 0x16
)
