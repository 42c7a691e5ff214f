// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"net"

	"github.com/denpamusic/pyplumio/bytesio"
)

// EncryptionKind enumerates the wireless encryption options the
// configuration surface recognises, §6.
type EncryptionKind uint8

// Recognised EncryptionKind values.
const (
	EncryptionNone EncryptionKind = iota
	EncryptionWEP
	EncryptionWPA
	EncryptionWPA2
	EncryptionUnknown EncryptionKind = 0xff
)

// NetworkInfo describes the host network configuration the library
// advertises to the controller in DeviceAvailableResponse, §4.3/§6.
type NetworkInfo struct {
	Ethernet NetworkInterface
	Wireless WirelessInterface
	Server   bool
	WANType  uint8
}

// NetworkInterface is the {status, ip, netmask, gateway} shape shared by
// the ethernet and wireless sub-blocks.
type NetworkInterface struct {
	Status  bool
	IP      net.IP
	Netmask net.IP
	Gateway net.IP
}

// WirelessInterface extends NetworkInterface with the wireless-only
// fields.
type WirelessInterface struct {
	NetworkInterface
	SignalQuality uint8
	Encryption    EncryptionKind
	SSID          string
}

func decodeIPv4(r *bytesio.Reader) (net.IP, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	ip := make(net.IP, 4)
	copy(ip, b)
	return ip, nil
}

func encodeIPv4(w *bytesio.Writer, ip net.IP) {
	v4 := ip.To4()
	if v4 == nil {
		v4 = make(net.IP, 4)
	}
	w.WriteBytes(v4)
}

func decodeNetworkInterface(r *bytesio.Reader) (NetworkInterface, error) {
	var iface NetworkInterface
	status, err := r.ReadByte()
	if err != nil {
		return iface, err
	}
	iface.Status = status != 0
	if iface.IP, err = decodeIPv4(r); err != nil {
		return iface, err
	}
	if iface.Netmask, err = decodeIPv4(r); err != nil {
		return iface, err
	}
	if iface.Gateway, err = decodeIPv4(r); err != nil {
		return iface, err
	}
	return iface, nil
}

func encodeNetworkInterface(w *bytesio.Writer, iface NetworkInterface) {
	if iface.Status {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
	encodeIPv4(w, iface.IP)
	encodeIPv4(w, iface.Netmask)
	encodeIPv4(w, iface.Gateway)
}

func decodeNetworkInfo(r *bytesio.Reader) (NetworkInfo, error) {
	var info NetworkInfo
	eth, err := decodeNetworkInterface(r)
	if err != nil {
		return info, err
	}
	info.Ethernet = eth

	wifiBase, err := decodeNetworkInterface(r)
	if err != nil {
		return info, err
	}
	sq, err := r.ReadByte()
	if err != nil {
		return info, err
	}
	enc, err := r.ReadByte()
	if err != nil {
		return info, err
	}
	ssid, err := r.ReadString()
	if err != nil {
		return info, err
	}
	info.Wireless = WirelessInterface{
		NetworkInterface: wifiBase,
		SignalQuality:    sq,
		Encryption:       EncryptionKind(enc),
		SSID:             ssid,
	}

	server, err := r.ReadByte()
	if err != nil {
		return info, err
	}
	info.Server = server != 0

	wan, err := r.ReadByte()
	if err != nil {
		return info, err
	}
	info.WANType = wan
	return info, nil
}

func encodeNetworkInfo(w *bytesio.Writer, info NetworkInfo) {
	encodeNetworkInterface(w, info.Ethernet)
	encodeNetworkInterface(w, info.Wireless.NetworkInterface)
	w.WriteByte(info.Wireless.SignalQuality)
	w.WriteByte(byte(info.Wireless.Encryption))
	w.WriteString(info.Wireless.SSID)
	if info.Server {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
	w.WriteByte(info.WANType)
}
