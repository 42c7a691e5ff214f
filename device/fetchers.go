// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"context"

	"github.com/denpamusic/pyplumio/frame"
)

// uidFetcher retrieves the controller's ProductInfo/UID, §4.3. It has no
// prerequisites and runs first in the resolution order every other
// fetcher below depends on, §4.4.
type uidFetcher struct{ ecomax *EcoMAX }

func (*uidFetcher) String() string          { return "uid" }
func (*uidFetcher) Prerequisites() []string { return nil }

func (f *uidFetcher) Fetch(ctx context.Context) error {
	return f.ecomax.FetchIdentity(ctx)
}

// parametersFetcher refreshes the ecomax-level parameter catalogue plus
// every currently known mixer/thermostat's parameters, §4.4. It resolves
// after uid and regulator-schema, per spec.md's stated resolution order
// (UID, regulator data schema, ecomax/mixer/thermostat parameters,
// schedules, alerts).
type parametersFetcher struct{ ecomax *EcoMAX }

func (*parametersFetcher) String() string          { return "parameters" }
func (*parametersFetcher) Prerequisites() []string { return []string{"uid", "regulator-schema"} }

func (f *parametersFetcher) Fetch(ctx context.Context) error {
	e := f.ecomax
	reply, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.EcomaxParametersRequest{Index: 0, Count: 0xff})
	if err != nil {
		return err
	}
	if resp, ok := reply.Payload.(*frame.EcomaxParametersResponse); ok {
		e.mu.Lock()
		for _, p := range resp.Parameters {
			name, ok := ecomaxParameterNames[p.Index]
			if !ok {
				name = "ecomax_parameter"
			}
			index := p.Index
			if existing, ok := e.parameters[p.Index]; ok {
				existing.update(rawParameter(p.Values))
				continue
			}
			e.parameters[p.Index] = newParameter(name, p.Index, rawParameter(p.Values), 1, 0, func(ctx context.Context, raw uint16) error {
				return e.setEcomaxParameter(ctx, index, raw)
			})
		}
		e.mu.Unlock()
	}

	e.mu.RLock()
	mixerIndices := make([]uint8, 0, len(e.mixers))
	for idx := range e.mixers {
		mixerIndices = append(mixerIndices, idx)
	}
	thermostatIndices := make([]uint8, 0, len(e.thermostats))
	for idx := range e.thermostats {
		thermostatIndices = append(thermostatIndices, idx)
	}
	e.mu.RUnlock()

	for _, idx := range mixerIndices {
		if err := f.fetchMixer(ctx, idx); err != nil {
			return err
		}
	}
	for _, idx := range thermostatIndices {
		if err := f.fetchThermostat(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

func (f *parametersFetcher) fetchMixer(ctx context.Context, index uint8) error {
	e := f.ecomax
	reply, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.MixerParametersRequest{MixerIndex: index})
	if err != nil {
		return err
	}
	resp, ok := reply.Payload.(*frame.MixerParametersResponse)
	if !ok {
		return nil
	}
	e.mu.RLock()
	mx := e.mixers[index]
	e.mu.RUnlock()
	if mx == nil {
		return nil
	}
	mx.applyParameters(resp.StartIndex, resp.Parameters, func(ctx context.Context, idx uint8, raw uint16) error {
		return e.setMixerParameter(ctx, index, idx, raw)
	})
	return nil
}

func (f *parametersFetcher) fetchThermostat(ctx context.Context, index uint8) error {
	e := f.ecomax
	reply, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.ThermostatParametersRequest{ThermostatIndex: index})
	if err != nil {
		return err
	}
	resp, ok := reply.Payload.(*frame.ThermostatParametersResponse)
	if !ok {
		return nil
	}
	e.mu.RLock()
	th := e.thermostats[index]
	e.mu.RUnlock()
	if th == nil {
		return nil
	}
	th.applyParameters(resp.Parameters, func(ctx context.Context, idx uint8, raw uint16) error {
		return e.setThermostatParameter(ctx, index, idx, raw)
	})
	return nil
}

// schedulesFetcher refreshes every named weekly schedule, §4.4/§4.5.
type schedulesFetcher struct{ ecomax *EcoMAX }

func (*schedulesFetcher) String() string          { return "schedules" }
func (*schedulesFetcher) Prerequisites() []string { return []string{"parameters"} }

func (f *schedulesFetcher) Fetch(ctx context.Context) error {
	e := f.ecomax
	reply, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.SchedulesRequest{})
	if err != nil {
		return err
	}
	resp, ok := reply.Payload.(*frame.SchedulesResponse)
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, entry := range resp.Schedules {
		if existing, ok := e.schedules[entry.Kind]; ok {
			existing.update(entry)
			continue
		}
		e.schedules[entry.Kind] = newSchedule(entry.Kind, entry, e.sendSchedule)
	}
	return nil
}

// alertsFetcher refreshes the most recent page of the alert log, §4.3.
type alertsFetcher struct{ ecomax *EcoMAX }

func (*alertsFetcher) String() string          { return "alerts" }
func (*alertsFetcher) Prerequisites() []string { return []string{"schedules"} }

func (f *alertsFetcher) Fetch(ctx context.Context) error {
	e := f.ecomax
	reply, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.AlertsRequest{Start: 0, Count: 16})
	if err != nil {
		return err
	}
	resp, ok := reply.Payload.(*frame.AlertsResponse)
	if !ok {
		return nil
	}
	e.mu.Lock()
	e.alerts = resp.Alerts
	e.mu.Unlock()
	return nil
}

// regulatorSchemaFetcher refreshes the RegulatorDataSchema that
// RegulatorData payloads are decoded against, §4.3. It must run before
// any stale "regulator-data" fetch, though this package currently has no
// separate fetcher for RegulatorData itself: the schema is all a
// RegulatorDataMessage handler needs, decoded on arrival in
// onRegulatorData.
type regulatorSchemaFetcher struct{ ecomax *EcoMAX }

func (*regulatorSchemaFetcher) String() string          { return "regulator-schema" }
func (*regulatorSchemaFetcher) Prerequisites() []string { return []string{"uid"} }

func (f *regulatorSchemaFetcher) Fetch(ctx context.Context) error {
	e := f.ecomax
	reply, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.RegulatorDataSchemaRequest{})
	if err != nil {
		return err
	}
	resp, ok := reply.Payload.(*frame.RegulatorDataSchemaResponse)
	if !ok {
		return nil
	}
	e.mu.Lock()
	e.regulatorSchema = resp.Schema
	e.mu.Unlock()
	return nil
}
