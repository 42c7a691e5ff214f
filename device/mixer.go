// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"context"
	"sync"

	"github.com/denpamusic/pyplumio/frame"
)

// mixerParameterNames names the known 1-byte mixer parameter indices;
// everything else is reported as "mixer_parameter".
var mixerParameterNames = map[uint8]string{
	0: "target_temp",
	1: "target_temp_hysteresis",
}

// Mixer is a sub-device of EcoMAX representing one heating circuit mixing
// valve, §3. Its Index is the wire sub-device number used to address
// MixerParametersRequest/SetMixerParameterRequest; EcoMAX assigns it from
// the mixer's position in SensorData's Mixers list.
type Mixer struct {
	index uint8

	mu         sync.RWMutex
	parameters map[uint8]*Parameter
	sensor     frame.MixerSensorBlock
}

func newMixer(index uint8) *Mixer {
	return &Mixer{index: index, parameters: map[uint8]*Parameter{}}
}

// Index returns the mixer's sub-device number.
func (m *Mixer) Index() uint8 { return m.index }

// Temperature returns the mixer circuit's last reported temperature.
func (m *Mixer) Temperature() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sensor.Temperature
}

// Parameter returns the mixer parameter at index, or nil if unknown.
func (m *Mixer) Parameter(index uint8) *Parameter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parameters[index]
}

// Parameters returns a snapshot of every known mixer parameter.
func (m *Mixer) Parameters() []*Parameter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Parameter, 0, len(m.parameters))
	for _, p := range m.parameters {
		out = append(out, p)
	}
	return out
}

func (m *Mixer) applySensor(s frame.MixerSensorBlock) {
	m.mu.Lock()
	m.sensor = s
	m.mu.Unlock()
}

func (m *Mixer) applyParameters(startIndex uint8, params []frame.IndexedParameter, send func(ctx context.Context, index uint8, raw uint16) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range params {
		name, ok := mixerParameterNames[p.Index]
		if !ok {
			name = "mixer_parameter"
		}
		index := p.Index
		if existing, ok := m.parameters[p.Index]; ok {
			existing.update(rawParameter(p.Values))
			continue
		}
		m.parameters[p.Index] = newParameter(name, p.Index, rawParameter(p.Values), 1, 0, func(ctx context.Context, raw uint16) error {
			return send(ctx, index, raw)
		})
	}
}
