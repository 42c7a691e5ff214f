// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import "github.com/denpamusic/pyplumio/bytesio"

// ProductInfo identifies the controller model, §4.3.
type ProductInfo struct {
	ProductType uint8
	ProductID   uint16
	UID         [12]byte
	Logo        uint16
	Image       uint16
	Model       string
}

func decodeProductInfo(r *bytesio.Reader) (ProductInfo, error) {
	var p ProductInfo
	var err error
	if p.ProductType, err = r.ReadByte(); err != nil {
		return p, err
	}
	if p.ProductID, err = r.ReadUint16(); err != nil {
		return p, err
	}
	uidBytes, err := r.ReadBytes(12)
	if err != nil {
		return p, err
	}
	copy(p.UID[:], uidBytes)
	if p.Logo, err = r.ReadUint16(); err != nil {
		return p, err
	}
	if p.Image, err = r.ReadUint16(); err != nil {
		return p, err
	}
	if p.Model, err = r.ReadString(); err != nil {
		return p, err
	}
	return p, nil
}

func encodeProductInfo(w *bytesio.Writer, p ProductInfo) {
	w.WriteByte(p.ProductType)
	w.WriteUint16(p.ProductID)
	w.WriteBytes(p.UID[:])
	w.WriteUint16(p.Logo)
	w.WriteUint16(p.Image)
	w.WriteString(p.Model)
}

// ProgramVersionInfo is the BCD version + device index + processor
// identification block carried by ProgramVersionRequest/Response, §4.3.
type ProgramVersionInfo struct {
	Version     bytesio.Version
	DeviceIndex uint8
	Processor   uint16
}

func decodeProgramVersionInfo(r *bytesio.Reader) (ProgramVersionInfo, error) {
	var v ProgramVersionInfo
	var err error
	if v.Version, err = r.ReadVersion(); err != nil {
		return v, err
	}
	if v.DeviceIndex, err = r.ReadByte(); err != nil {
		return v, err
	}
	if v.Processor, err = r.ReadUint16(); err != nil {
		return v, err
	}
	return v, nil
}

func encodeProgramVersionInfo(w *bytesio.Writer, v ProgramVersionInfo) {
	w.WriteVersion(v.Version)
	w.WriteByte(v.DeviceIndex)
	w.WriteUint16(v.Processor)
}

// ProgramVersionRequest is sent by the controller during the handshake,
// §4.4 S1.
type ProgramVersionRequest struct{}

func (*ProgramVersionRequest) FrameType() Type { return TypeProgramVersion }
func (*ProgramVersionRequest) decode(r *bytesio.Reader) error { return nil }
func (*ProgramVersionRequest) encode(w *bytesio.Writer)       {}

// ProgramVersionResponse answers ProgramVersionRequest with this library's
// own version information, §4.4 S1.
type ProgramVersionResponse struct {
	Info ProgramVersionInfo
}

func (*ProgramVersionResponse) FrameType() Type { return ResponseType(TypeProgramVersion) }

func (p *ProgramVersionResponse) decode(r *bytesio.Reader) error {
	info, err := decodeProgramVersionInfo(r)
	p.Info = info
	return err
}

func (p *ProgramVersionResponse) encode(w *bytesio.Writer) {
	encodeProgramVersionInfo(w, p.Info)
}
