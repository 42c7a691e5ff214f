// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"bufio"
	"fmt"
	"io"

	"github.com/denpamusic/pyplumio/bytesio"
)

// Payload is implemented by every decoded frame body. Per the "dynamic
// dispatch over frame types" design note, there is one concrete Go type per
// known FrameType plus Unknown for anything newPayload below does not
// recognise; decode dispatch is the switch in newPayload and encoding goes
// through each payload's own encode method, not a map of encoder/decoder
// callables.
type Payload interface {
	// FrameType returns the wire Type this payload encodes as.
	FrameType() Type
}

// Unknown retains the raw bytes of a frame type this build does not know
// how to interpret. It is not an error condition, §7: Decode returns it as
// an ordinary Frame and the driver passes it to its Handler. EcoMAX's
// handler ignores it, and no event topic carries Unknown frames.
type Unknown struct {
	Code Type
	Raw  []byte
}

// FrameType implements Payload.
func (u *Unknown) FrameType() Type { return u.Code }

// decoder is implemented by payload structs that parse themselves from a
// bytesio.Reader.
type decoder interface {
	Payload
	decode(r *bytesio.Reader) error
}

// encoder is implemented by payload structs that serialise themselves onto
// a bytesio.Writer.
type encoder interface {
	Payload
	encode(w *bytesio.Writer)
}

// Frame is a fully decoded ecoNET frame: envelope addressing plus an
// interpreted Payload, §2.
type Frame struct {
	Recipient Address
	Sender    Address
	Payload   Payload
}

// newPayload returns the zero value of the concrete payload type registered
// for t, or nil if t has no registered type (Decode then wraps the raw
// bytes in an *Unknown).
func newPayload(t Type) decoder {
	switch t {
	case TypeProgramVersion:
		return &ProgramVersionRequest{}
	case ResponseType(TypeProgramVersion):
		return &ProgramVersionResponse{}
	case TypeCheckDevice:
		return &CheckDeviceRequest{}
	case ResponseType(TypeCheckDevice):
		return &DeviceAvailableResponse{}
	case TypeUID:
		return &UIDRequest{}
	case ResponseType(TypeUID):
		return &UIDResponse{}
	case TypePassword:
		return &PasswordRequest{}
	case ResponseType(TypePassword):
		return &PasswordResponse{}
	case TypeEcomaxParameters:
		return &EcomaxParametersRequest{}
	case ResponseType(TypeEcomaxParameters):
		return &EcomaxParametersResponse{}
	case TypeMixerParameters:
		return &MixerParametersRequest{}
	case ResponseType(TypeMixerParameters):
		return &MixerParametersResponse{}
	case TypeThermostatParameters:
		return &ThermostatParametersRequest{}
	case ResponseType(TypeThermostatParameters):
		return &ThermostatParametersResponse{}
	case TypeSetEcomaxParameter:
		return &SetEcomaxParameterRequest{}
	case ResponseType(TypeSetEcomaxParameter):
		return &SetParameterResponse{code: ResponseType(TypeSetEcomaxParameter)}
	case TypeSetMixerParameter:
		return &SetMixerParameterRequest{}
	case ResponseType(TypeSetMixerParameter):
		return &SetParameterResponse{code: ResponseType(TypeSetMixerParameter)}
	case TypeSetThermostatParameter:
		return &SetThermostatParameterRequest{}
	case ResponseType(TypeSetThermostatParameter):
		return &SetParameterResponse{code: ResponseType(TypeSetThermostatParameter)}
	case TypeSchedules:
		return &SchedulesRequest{}
	case ResponseType(TypeSchedules):
		return &SchedulesResponse{}
	case TypeSetSchedule:
		return &SetScheduleRequest{}
	case ResponseType(TypeSetSchedule):
		return &SetParameterResponse{code: ResponseType(TypeSetSchedule)}
	case TypeAlerts:
		return &AlertsRequest{}
	case ResponseType(TypeAlerts):
		return &AlertsResponse{}
	case TypeRegulatorDataSchema:
		return &RegulatorDataSchemaRequest{}
	case ResponseType(TypeRegulatorDataSchema):
		return &RegulatorDataSchemaResponse{}
	case TypeRegulatorData:
		return &RegulatorDataMessage{}
	case TypeSensorData:
		return &SensorDataMessage{}
	case TypeStartMaster:
		return &StartMasterRequest{}
	case TypeStopMaster:
		return &StopMasterRequest{}
	case TypeEcomaxControl:
		return &EcomaxControlRequest{}
	default:
		return nil
	}
}

// Decode reads one frame from r, including waiting for the start
// delimiter. Single-frame faults come back as ErrMalformedFrame,
// ErrChecksumError or ErrUnsupportedProtocol, possibly wrapped with detail,
// so callers match them with errors.Is; a payload that fails to decode is
// reported as ErrMalformedFrame wrapping the underlying bytesio error. Any
// other error is a transport-level read failure.
func Decode(r *bufio.Reader) (*Frame, error) {
	raw, err := readRawEnvelope(r)
	if err != nil {
		return nil, err
	}

	p := newPayload(raw.Type)
	if p == nil {
		return &Frame{
			Recipient: raw.Recipient,
			Sender:    raw.Sender,
			Payload:   &Unknown{Code: raw.Type, Raw: raw.Payload},
		}, nil
	}

	br := bytesio.NewReader(raw.Payload)
	if err := p.decode(br); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}

	return &Frame{Recipient: raw.Recipient, Sender: raw.Sender, Payload: p}, nil
}

// Encode serialises f onto w.
func Encode(w io.Writer, f *Frame) error {
	var payload []byte
	if enc, ok := f.Payload.(encoder); ok {
		bw := bytesio.NewWriter()
		enc.encode(bw)
		payload = bw.Bytes()
	} else if unk, ok := f.Payload.(*Unknown); ok {
		payload = unk.Raw
	}

	return writeRawEnvelope(w, &rawEnvelope{
		Recipient: f.Recipient,
		Sender:    f.Sender,
		Type:      f.Payload.FrameType(),
		Payload:   payload,
	})
}
