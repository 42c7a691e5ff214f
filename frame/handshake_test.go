// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"net"
	"testing"
)

func TestDeviceAvailableResponseRoundTrip(t *testing.T) {
	f := &Frame{
		Recipient: AddressBroadcast,
		Sender:    AddressEcoMAX,
		Payload: &DeviceAvailableResponse{
			Network: NetworkInfo{
				Ethernet: NetworkInterface{
					Status:  true,
					IP:      net.IPv4(192, 168, 1, 10),
					Netmask: net.IPv4(255, 255, 255, 0),
					Gateway: net.IPv4(192, 168, 1, 1),
				},
				Wireless: WirelessInterface{
					NetworkInterface: NetworkInterface{
						Status: false,
						IP:     net.IPv4(0, 0, 0, 0),
					},
					SignalQuality: 80,
					Encryption:    EncryptionWPA2,
					SSID:          "home-network",
				},
				Server:  true,
				WANType: 1,
			},
		},
	}
	got := roundTrip(t, f)
	resp, ok := got.Payload.(*DeviceAvailableResponse)
	if !ok {
		t.Fatalf("got payload type %T", got.Payload)
	}
	if !resp.Network.Ethernet.IP.Equal(net.IPv4(192, 168, 1, 10)) {
		t.Fatalf("got ethernet ip %v", resp.Network.Ethernet.IP)
	}
	if resp.Network.Wireless.SSID != "home-network" {
		t.Fatalf("got ssid %q", resp.Network.Wireless.SSID)
	}
	if resp.Network.Wireless.Encryption != EncryptionWPA2 {
		t.Fatalf("got encryption %v", resp.Network.Wireless.Encryption)
	}
	if !resp.Network.Server {
		t.Fatal("expected Server=true to round-trip")
	}
}

func TestPasswordResponseTakesRemainingPayload(t *testing.T) {
	f := &Frame{
		Recipient: AddressBroadcast,
		Sender:    AddressEcoMAX,
		Payload:   &PasswordResponse{Password: "s3cr3t"},
	}
	got := roundTrip(t, f)
	resp, ok := got.Payload.(*PasswordResponse)
	if !ok || resp.Password != "s3cr3t" {
		t.Fatalf("got %+v", got.Payload)
	}
}
