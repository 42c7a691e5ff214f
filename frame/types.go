// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

// Type is the single-byte frame type field, §6.
type Type byte

// Direction categorises a frame as request, response, or unsolicited
// message, §2.
type Direction int

const (
	// DirectionRequest frames expect a correlated Response.
	DirectionRequest Direction = iota
	// DirectionResponse frames answer a prior Request.
	DirectionResponse
	// DirectionMessage frames are unsolicited, broadcast or unicast.
	DirectionMessage
)

// responseBit is or'd into a request's Type to produce its Response Type,
// §4.2.
const responseBit = 0x80

// Core frame types, §6.
const (
	TypeStopMaster             Type = 0x18
	TypeStartMaster            Type = 0x19
	TypeCheckDevice            Type = 0x30
	TypeEcomaxParameters       Type = 0x31
	TypeMixerParameters        Type = 0x32
	TypeSetEcomaxParameter     Type = 0x33
	TypeSetMixerParameter      Type = 0x34
	TypeUID                    Type = 0x39
	TypePassword               Type = 0x3A
	TypeEcomaxControl          Type = 0x3B
	TypeAlerts                 Type = 0x3D
	TypeProgramVersion         Type = 0x40
	TypeSchedules              Type = 0x46
	TypeSetSchedule            Type = 0x47
	TypeThermostatParameters   Type = 0x52
	TypeSetThermostatParameter Type = 0x53
	TypeRegulatorDataSchema    Type = 0x55

	TypeRegulatorData Type = 0x08
	TypeSensorData    Type = 0x35
)

// ResponseType returns the response Type paired with a request Type.
func ResponseType(request Type) Type {
	return request | responseBit
}

// IsResponse reports whether t has the high response bit set.
func (t Type) IsResponse() bool {
	return t&responseBit != 0
}

// RequestType strips the response bit, returning the request this Type
// answers. If t is already a request type, it is returned unchanged.
func (t Type) RequestType() Type {
	return t &^ responseBit
}

// messageTypes are wire types with no correlated response at all:
// unsolicited broadcasts and the bus-control frames the controller never
// acknowledges, §4.4. Driver.Send uses this to decide whether to wait for
// a reply after writing a frame.
var messageTypes = map[Type]bool{
	TypeSensorData:    true,
	TypeRegulatorData: true,
	TypeStartMaster:   true,
	TypeStopMaster:    true,
	TypeEcomaxControl: true,
}

// Direction classifies t as a request awaiting a correlated Response, the
// Response itself, or an unsolicited Message, §2.
func (t Type) Direction() Direction {
	switch {
	case t.IsResponse():
		return DirectionResponse
	case messageTypes[t]:
		return DirectionMessage
	default:
		return DirectionRequest
	}
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

var typeNames = map[Type]string{
	TypeStopMaster:             "StopMaster",
	TypeStartMaster:            "StartMaster",
	TypeCheckDevice:             "CheckDevice",
	TypeEcomaxParameters:       "EcomaxParameters",
	TypeMixerParameters:        "MixerParameters",
	TypeSetEcomaxParameter:     "SetEcomaxParameter",
	TypeSetMixerParameter:      "SetMixerParameter",
	TypeUID:                    "UID",
	TypePassword:               "Password",
	TypeEcomaxControl:          "EcomaxControl",
	TypeAlerts:                 "Alerts",
	TypeProgramVersion:         "ProgramVersion",
	TypeSchedules:              "Schedules",
	TypeSetSchedule:            "SetSchedule",
	TypeThermostatParameters:   "ThermostatParameters",
	TypeSetThermostatParameter: "SetThermostatParameter",
	TypeRegulatorDataSchema:    "RegulatorDataSchema",
	TypeRegulatorData:          "RegulatorData",
	TypeSensorData:             "SensorData",

	ResponseType(TypeCheckDevice):            "DeviceAvailableResponse",
	ResponseType(TypeEcomaxParameters):       "EcomaxParametersResponse",
	ResponseType(TypeMixerParameters):        "MixerParametersResponse",
	ResponseType(TypeSetEcomaxParameter):     "SetEcomaxParameterResponse",
	ResponseType(TypeSetMixerParameter):      "SetMixerParameterResponse",
	ResponseType(TypeUID):                    "UIDResponse",
	ResponseType(TypePassword):               "PasswordResponse",
	ResponseType(TypeAlerts):                 "AlertsResponse",
	ResponseType(TypeProgramVersion):         "ProgramVersionResponse",
	ResponseType(TypeSchedules):               "SchedulesResponse",
	ResponseType(TypeSetSchedule):             "SetScheduleResponse",
	ResponseType(TypeThermostatParameters):    "ThermostatParametersResponse",
	ResponseType(TypeSetThermostatParameter):  "SetThermostatParameterResponse",
	ResponseType(TypeRegulatorDataSchema):     "RegulatorDataSchemaResponse",
}
