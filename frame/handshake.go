// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import "github.com/denpamusic/pyplumio/bytesio"

// CheckDeviceRequest is sent by the controller once it has received
// ProgramVersionResponse, §4.4 S1.
type CheckDeviceRequest struct{}

func (*CheckDeviceRequest) FrameType() Type            { return TypeCheckDevice }
func (*CheckDeviceRequest) decode(r *bytesio.Reader) error { return nil }
func (*CheckDeviceRequest) encode(w *bytesio.Writer)       {}

// DeviceAvailableResponse answers CheckDeviceRequest with the configured
// NetworkInfo, §4.4 S1.
type DeviceAvailableResponse struct {
	Network NetworkInfo
}

func (*DeviceAvailableResponse) FrameType() Type { return ResponseType(TypeCheckDevice) }

func (d *DeviceAvailableResponse) decode(r *bytesio.Reader) error {
	info, err := decodeNetworkInfo(r)
	d.Network = info
	return err
}

func (d *DeviceAvailableResponse) encode(w *bytesio.Writer) {
	encodeNetworkInfo(w, d.Network)
}

// UIDRequest asks the controller for its ProductInfo/UID, §4.3.
type UIDRequest struct{}

func (*UIDRequest) FrameType() Type            { return TypeUID }
func (*UIDRequest) decode(r *bytesio.Reader) error { return nil }
func (*UIDRequest) encode(w *bytesio.Writer)       {}

// UIDResponse carries the controller's ProductInfo.
type UIDResponse struct {
	Product ProductInfo
}

func (*UIDResponse) FrameType() Type { return ResponseType(TypeUID) }

func (u *UIDResponse) decode(r *bytesio.Reader) error {
	p, err := decodeProductInfo(r)
	u.Product = p
	return err
}

func (u *UIDResponse) encode(w *bytesio.Writer) {
	encodeProductInfo(w, u.Product)
}

// PasswordRequest asks the controller for its service password.
type PasswordRequest struct{}

func (*PasswordRequest) FrameType() Type            { return TypePassword }
func (*PasswordRequest) decode(r *bytesio.Reader) error { return nil }
func (*PasswordRequest) encode(w *bytesio.Writer)       {}

// PasswordResponse carries the controller's service password as opaque
// text.
type PasswordResponse struct {
	Password string
}

func (*PasswordResponse) FrameType() Type { return ResponseType(TypePassword) }

func (p *PasswordResponse) decode(r *bytesio.Reader) error {
	// The password occupies the whole remaining payload rather than being
	// length-prefixed.
	p.Password = string(r.Remaining())
	return nil
}

func (p *PasswordResponse) encode(w *bytesio.Writer) {
	w.WriteBytes([]byte(p.Password))
}

// StartMasterRequest instructs the controller to resume normal operation.
type StartMasterRequest struct{}

func (*StartMasterRequest) FrameType() Type            { return TypeStartMaster }
func (*StartMasterRequest) decode(r *bytesio.Reader) error { return nil }
func (*StartMasterRequest) encode(w *bytesio.Writer)       {}

// StopMasterRequest instructs the controller to stop acting as bus master.
type StopMasterRequest struct{}

func (*StopMasterRequest) FrameType() Type            { return TypeStopMaster }
func (*StopMasterRequest) decode(r *bytesio.Reader) error { return nil }
func (*StopMasterRequest) encode(w *bytesio.Writer)       {}

// EcomaxControlRequest turns the boiler's master switch on or off.
type EcomaxControlRequest struct {
	On bool
}

func (*EcomaxControlRequest) FrameType() Type { return TypeEcomaxControl }

func (e *EcomaxControlRequest) decode(r *bytesio.Reader) error {
	v, err := r.ReadByte()
	e.On = v != 0
	return err
}

func (e *EcomaxControlRequest) encode(w *bytesio.Writer) {
	if e.On {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}
