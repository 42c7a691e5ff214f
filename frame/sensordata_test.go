// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"testing"
)

func TestSensorDataRoundTrip(t *testing.T) {
	f := &Frame{
		Recipient: AddressBroadcast,
		Sender:    AddressEcoMAX,
		Payload: &SensorDataMessage{
			Versions: FrameVersions{TypeRegulatorData: 1},
			Flags:    Flags{Fan: true, PumpCO: true},
			Temperatures: Temperatures{
				Heating:     65.5,
				Feedwater:   notPresent,
				WaterHeater: 48.0,
			},
			HeatingTarget: 60,
			State:         2,
			FuelLevel:     75.5,
			Mixers: []MixerSensorBlock{
				{Temperature: 40.0, Target: 45, Status: 1},
			},
			Thermostats: []ThermostatSensorBlock{
				{Temperature: 21.5, Target: 22.0, Status: 0},
			},
		},
	}
	got := roundTrip(t, f)
	msg, ok := got.Payload.(*SensorDataMessage)
	if !ok {
		t.Fatalf("got payload type %T", got.Payload)
	}
	if !msg.Flags.Fan || !msg.Flags.PumpCO || msg.Flags.Feeder {
		t.Fatalf("got flags %+v", msg.Flags)
	}
	if msg.Temperatures.Heating != 65.5 {
		t.Fatalf("got heating %v", msg.Temperatures.Heating)
	}
	if IsSensorPresent(msg.Temperatures.Feedwater) {
		t.Fatalf("expected feedwater to round-trip as not-present, got %v", msg.Temperatures.Feedwater)
	}
	if !IsSensorPresent(msg.Temperatures.Heating) {
		t.Fatal("expected heating to be reported present")
	}
	if len(msg.Mixers) != 1 || msg.Mixers[0].Target != 45 {
		t.Fatalf("got mixers %+v", msg.Mixers)
	}
	if len(msg.Thermostats) != 1 || msg.Thermostats[0].Target != 22.0 {
		t.Fatalf("got thermostats %+v", msg.Thermostats)
	}
	if msg.Versions[TypeRegulatorData] != 1 {
		t.Fatalf("got versions %+v", msg.Versions)
	}
}
