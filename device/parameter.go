// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrOutOfRange is returned by Parameter.Set when value falls outside
// [Min, Max], §3 Parameter invariant.
var ErrOutOfRange = errors.New("device: value out of range")

// setFunc writes a parameter's new raw value to the controller and waits
// for the set-parameter acknowledgement, §4.5.
type setFunc func(ctx context.Context, raw uint16) error

// Parameter is a single mutable, range-bounded controller setting, §3. Its
// wire representation is an unsigned integer; Scale and Offset convert
// that to the physical unit callers see (e.g. raw/2 for a 0.5degC step, or
// raw-0 for a plain count).
type Parameter struct {
	mu sync.RWMutex

	name  string
	index uint8

	rawValue uint16
	rawMin   uint16
	rawMax   uint16

	scale  float64
	offset float64

	set setFunc
}

func newParameter(name string, index uint8, raw rawParameter, scale, offset float64, set setFunc) *Parameter {
	if scale == 0 {
		scale = 1
	}
	return &Parameter{
		name:     name,
		index:    index,
		rawValue: raw.Value,
		rawMin:   raw.Min,
		rawMax:   raw.Max,
		scale:    scale,
		offset:   offset,
		set:      set,
	}
}

// rawParameter is the {value,min,max} triple a Parameter is built from;
// it matches frame.ParameterValues without importing frame into a
// type callers outside device need to know about.
type rawParameter struct {
	Value, Min, Max uint16
}

// Name returns the parameter's descriptive name.
func (p *Parameter) Name() string { return p.name }

// Index returns the parameter's catalogue index.
func (p *Parameter) Index() uint8 { return p.index }

// Value returns the current value in physical units.
func (p *Parameter) Value() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.toPhysical(p.rawValue)
}

// Min returns the minimum permitted value in physical units.
func (p *Parameter) Min() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.toPhysical(p.rawMin)
}

// Max returns the maximum permitted value in physical units.
func (p *Parameter) Max() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.toPhysical(p.rawMax)
}

func (p *Parameter) toPhysical(raw uint16) float64 {
	return float64(raw)*p.scale + p.offset
}

func (p *Parameter) toRaw(value float64) uint16 {
	return uint16((value - p.offset) / p.scale)
}

// Set validates value against [Min, Max], asks the controller to apply it,
// and on success updates the cached value, §4.5 S4.
func (p *Parameter) Set(ctx context.Context, value float64) error {
	p.mu.RLock()
	raw := p.toRaw(value)
	min, max := p.rawMin, p.rawMax
	p.mu.RUnlock()

	if raw < min || raw > max {
		return errors.Wrapf(ErrOutOfRange, "%s: %v not in [%v, %v]", p.name, value, p.toPhysical(min), p.toPhysical(max))
	}

	if err := p.set(ctx, raw); err != nil {
		return errors.Wrapf(err, "device: set %s", p.name)
	}

	p.mu.Lock()
	p.rawValue = raw
	p.mu.Unlock()
	return nil
}

// update refreshes the cached value/range from a freshly fetched
// catalogue entry without going through Set's controller round trip.
func (p *Parameter) update(raw rawParameter) {
	p.mu.Lock()
	p.rawValue, p.rawMin, p.rawMax = raw.Value, raw.Min, raw.Max
	p.mu.Unlock()
}
