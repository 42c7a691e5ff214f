// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"math"

	"github.com/denpamusic/pyplumio/bytesio"
)

// Flags are the bit-packed fan/feeder/pump states carried at the head of
// SensorDataMessage, §4.3.
type Flags struct {
	Fan         bool
	Feeder      bool
	PumpCO      bool
	PumpCWU     bool
	PumpCirculation bool
	Lighter     bool
}

func decodeFlags(r *bytesio.Reader) (Flags, error) {
	var f Flags
	b, err := r.ReadByte()
	if err != nil {
		return f, err
	}
	br := bytesio.NewBitReader([]byte{b})
	bits, err := br.ReadBits(6)
	if err != nil {
		return f, err
	}
	f.Fan, f.Feeder, f.PumpCO, f.PumpCWU, f.PumpCirculation, f.Lighter =
		bits[0], bits[1], bits[2], bits[3], bits[4], bits[5]
	return f, nil
}

func encodeFlags(w *bytesio.Writer, f Flags) {
	bw := bytesio.NewBitWriter()
	bw.WriteBits([]bool{f.Fan, f.Feeder, f.PumpCO, f.PumpCWU, f.PumpCirculation, f.Lighter})
	w.WriteBytes(bw.Bytes())
}

// Temperatures names the fixed set of f32 temperature sensors SensorData
// reports, §4.3. A value of NaN means the sensor is not present on this
// controller.
type Temperatures struct {
	Heating  float32
	Feedwater float32
	Return    float32
	Exhaust   float32
	Outside   float32
	WaterHeater float32
}

func decodeTemperatures(r *bytesio.Reader) (Temperatures, error) {
	var t Temperatures
	fields := []*float32{&t.Heating, &t.Feedwater, &t.Return, &t.Exhaust, &t.Outside, &t.WaterHeater}
	for _, f := range fields {
		v, err := r.ReadFloat32()
		if err != nil {
			return t, err
		}
		*f = v
	}
	return t, nil
}

func encodeTemperatures(w *bytesio.Writer, t Temperatures) {
	for _, v := range []float32{t.Heating, t.Feedwater, t.Return, t.Exhaust, t.Outside, t.WaterHeater} {
		w.WriteFloat32(v)
	}
}

// notPresent is the sentinel the controller writes on the wire for a
// temperature sensor that isn't fitted on this model, §4.3.
var notPresent = float32(math.NaN())

// IsSensorPresent reports whether v is an actual reading rather than the
// controller's not-present sentinel. float32 equality can't detect NaN
// (NaN != NaN, even against itself), so this goes through math.IsNaN
// instead of comparing against notPresent directly.
func IsSensorPresent(v float32) bool {
	return !math.IsNaN(float64(v))
}

// ModuleVersions are the BCD version triples for the controller's
// sub-modules (main regulator, lambda/oxygen sensor controller, panel),
// §4.3.
type ModuleVersions struct {
	Module bytesio.Version
	Lambda bytesio.Version
	Panel  bytesio.Version
}

func decodeModuleVersions(r *bytesio.Reader) (ModuleVersions, error) {
	var m ModuleVersions
	var err error
	if m.Module, err = r.ReadVersion(); err != nil {
		return m, err
	}
	if m.Lambda, err = r.ReadVersion(); err != nil {
		return m, err
	}
	if m.Panel, err = r.ReadVersion(); err != nil {
		return m, err
	}
	return m, nil
}

func encodeModuleVersions(w *bytesio.Writer, m ModuleVersions) {
	w.WriteVersion(m.Module)
	w.WriteVersion(m.Lambda)
	w.WriteVersion(m.Panel)
}

// MixerSensorBlock is one mixer sub-device's telemetry within SensorData.
type MixerSensorBlock struct {
	Temperature float32
	Target      uint8
	Status      byte
}

// ThermostatSensorBlock is one thermostat sub-device's telemetry within
// SensorData.
type ThermostatSensorBlock struct {
	Temperature float32
	Target      float32
	Status      byte
}

// SensorDataMessage is the fixed-layout telemetry broadcast, §4.3. It is
// preceded by FrameVersions like RegulatorData and drives the same
// version-triggered re-fetch, §4.4.
type SensorDataMessage struct {
	Versions     FrameVersions
	Flags        Flags
	Temperatures Temperatures
	HeatingTarget    float32
	WaterHeaterTarget float32
	State        uint8
	Modules      ModuleVersions
	FuelLevel    float32
	FuelConsumption float32
	PowerUsage   float32
	Mixers       []MixerSensorBlock
	Thermostats  []ThermostatSensorBlock
}

func (*SensorDataMessage) FrameType() Type { return TypeSensorData }

func (s *SensorDataMessage) decode(r *bytesio.Reader) error {
	versions, err := decodeFrameVersions(r)
	if err != nil {
		return err
	}
	s.Versions = versions

	if s.Flags, err = decodeFlags(r); err != nil {
		return err
	}
	if s.Temperatures, err = decodeTemperatures(r); err != nil {
		return err
	}
	if s.HeatingTarget, err = r.ReadFloat32(); err != nil {
		return err
	}
	if s.WaterHeaterTarget, err = r.ReadFloat32(); err != nil {
		return err
	}
	if s.State, err = r.ReadByte(); err != nil {
		return err
	}
	if s.Modules, err = decodeModuleVersions(r); err != nil {
		return err
	}
	if s.FuelLevel, err = r.ReadFloat32(); err != nil {
		return err
	}
	if s.FuelConsumption, err = r.ReadFloat32(); err != nil {
		return err
	}
	if s.PowerUsage, err = r.ReadFloat32(); err != nil {
		return err
	}

	mixerCount, err := r.ReadByte()
	if err != nil {
		return err
	}
	s.Mixers = make([]MixerSensorBlock, mixerCount)
	for i := range s.Mixers {
		temp, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		target, err := r.ReadByte()
		if err != nil {
			return err
		}
		status, err := r.ReadByte()
		if err != nil {
			return err
		}
		s.Mixers[i] = MixerSensorBlock{Temperature: temp, Target: target, Status: status}
	}

	thermostatCount, err := r.ReadByte()
	if err != nil {
		return err
	}
	s.Thermostats = make([]ThermostatSensorBlock, thermostatCount)
	for i := range s.Thermostats {
		temp, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		target, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		status, err := r.ReadByte()
		if err != nil {
			return err
		}
		s.Thermostats[i] = ThermostatSensorBlock{Temperature: temp, Target: target, Status: status}
	}

	return nil
}

func (s *SensorDataMessage) encode(w *bytesio.Writer) {
	encodeFrameVersions(w, s.Versions)
	encodeFlags(w, s.Flags)
	encodeTemperatures(w, s.Temperatures)
	w.WriteFloat32(s.HeatingTarget)
	w.WriteFloat32(s.WaterHeaterTarget)
	w.WriteByte(s.State)
	encodeModuleVersions(w, s.Modules)
	w.WriteFloat32(s.FuelLevel)
	w.WriteFloat32(s.FuelConsumption)
	w.WriteFloat32(s.PowerUsage)

	w.WriteByte(byte(len(s.Mixers)))
	for _, m := range s.Mixers {
		w.WriteFloat32(m.Temperature)
		w.WriteByte(m.Target)
		w.WriteByte(m.Status)
	}

	w.WriteByte(byte(len(s.Thermostats)))
	for _, t := range s.Thermostats {
		w.WriteFloat32(t.Temperature)
		w.WriteFloat32(t.Target)
		w.WriteByte(t.Status)
	}
}
