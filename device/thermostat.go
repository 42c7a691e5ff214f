// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"context"
	"sync"

	"github.com/denpamusic/pyplumio/frame"
)

// thermostatParameterNames names the known 1-byte thermostat parameter
// indices; everything else is reported generically.
var thermostatParameterNames = map[uint8]string{
	0: "day_target_temp",
	1: "night_target_temp",
}

// Thermostat is a sub-device of EcoMAX representing one ecoSTER room
// panel, §3.
type Thermostat struct {
	index uint8

	mu         sync.RWMutex
	parameters map[uint8]*Parameter
	sensor     frame.ThermostatSensorBlock
}

func newThermostat(index uint8) *Thermostat {
	return &Thermostat{index: index, parameters: map[uint8]*Parameter{}}
}

// Index returns the thermostat's sub-device number.
func (t *Thermostat) Index() uint8 { return t.index }

// Temperature returns the room's last reported temperature.
func (t *Thermostat) Temperature() float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sensor.Temperature
}

// Target returns the room's last reported target temperature.
func (t *Thermostat) Target() float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sensor.Target
}

// Parameter returns the thermostat parameter at index, or nil if unknown.
func (t *Thermostat) Parameter(index uint8) *Parameter {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.parameters[index]
}

// Parameters returns a snapshot of every known thermostat parameter.
func (t *Thermostat) Parameters() []*Parameter {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Parameter, 0, len(t.parameters))
	for _, p := range t.parameters {
		out = append(out, p)
	}
	return out
}

func (t *Thermostat) applySensor(s frame.ThermostatSensorBlock) {
	t.mu.Lock()
	t.sensor = s
	t.mu.Unlock()
}

func (t *Thermostat) applyParameters(params []frame.IndexedParameter, send func(ctx context.Context, index uint8, raw uint16) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range params {
		name, ok := thermostatParameterNames[p.Index]
		if !ok {
			name = "thermostat_parameter"
		}
		index := p.Index
		if existing, ok := t.parameters[p.Index]; ok {
			existing.update(rawParameter(p.Values))
			continue
		}
		t.parameters[p.Index] = newParameter(name, p.Index, rawParameter(p.Values), 0.1, 0, func(ctx context.Context, raw uint16) error {
			return send(ctx, index, raw)
		})
	}
}
