// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"context"
	"testing"
	"time"

	"github.com/denpamusic/pyplumio/frame"
)

func TestUIDFetcherPopulatesIdentity(t *testing.T) {
	e, server, r := newTestEcoMAX(t)

	go func() {
		req, err := frame.Decode(r)
		if err != nil {
			return
		}
		if _, ok := req.Payload.(*frame.UIDRequest); !ok {
			return
		}
		frame.Encode(server, &frame.Frame{
			Recipient: frame.AddressLibrary,
			Sender:    frame.AddressEcoMAX,
			Payload:   &frame.UIDResponse{Product: frame.ProductInfo{Model: "ecoMAX 850i"}},
		})
	}()

	f := &uidFetcher{ecomax: e}
	if err := f.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if e.Product().Model != "ecoMAX 850i" {
		t.Fatalf("got product %+v", e.Product())
	}
}

func TestParametersFetcherPopulatesEcomaxAndSubDevices(t *testing.T) {
	e, server, r := newTestEcoMAX(t)

	// Pre-create a mixer the way a prior SensorData broadcast would.
	e.mu.Lock()
	e.mixers[0] = newMixer(0)
	e.mu.Unlock()

	go func() {
		req, err := frame.Decode(r)
		if err != nil {
			return
		}
		if _, ok := req.Payload.(*frame.EcomaxParametersRequest); !ok {
			return
		}
		frame.Encode(server, &frame.Frame{
			Recipient: frame.AddressLibrary,
			Sender:    frame.AddressEcoMAX,
			Payload: &frame.EcomaxParametersResponse{
				Parameters: []frame.IndexedParameter{
					{Index: 0, Values: frame.ParameterValues{Value: 650, Min: 400, Max: 800}, Available: true},
				},
			},
		})

		req, err = frame.Decode(r)
		if err != nil {
			return
		}
		if _, ok := req.Payload.(*frame.MixerParametersRequest); !ok {
			return
		}
		frame.Encode(server, &frame.Frame{
			Recipient: frame.AddressLibrary,
			Sender:    frame.AddressEcoMAX,
			Payload: &frame.MixerParametersResponse{
				Parameters: []frame.IndexedParameter{
					{Index: 0, Values: frame.ParameterValues{Value: 45, Min: 20, Max: 60}, Available: true},
				},
			},
		})
	}()

	f := &parametersFetcher{ecomax: e}
	if err := f.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}

	if p := e.Parameter(0); p == nil || p.Name() != "heating_target_temp" {
		t.Fatalf("got ecomax parameter %+v", p)
	}
	if p := e.Mixer(0).Parameter(0); p == nil || p.Name() != "target_temp" {
		t.Fatalf("got mixer parameter %+v", p)
	}
}

func TestSchedulesFetcherPopulatesSchedules(t *testing.T) {
	e, server, r := newTestEcoMAX(t)

	go func() {
		if _, err := frame.Decode(r); err != nil {
			return
		}
		frame.Encode(server, &frame.Frame{
			Recipient: frame.AddressLibrary,
			Sender:    frame.AddressEcoMAX,
			Payload: &frame.SchedulesResponse{
				Schedules: []frame.ScheduleEntry{
					{Kind: frame.ScheduleHeating, Switch: true},
				},
			},
		})
	}()

	f := &schedulesFetcher{ecomax: e}
	if err := f.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if e.Schedule(frame.ScheduleHeating) == nil {
		t.Fatal("expected heating schedule to be populated")
	}
}

func TestAlertsFetcherPopulatesAlerts(t *testing.T) {
	e, server, r := newTestEcoMAX(t)

	go func() {
		if _, err := frame.Decode(r); err != nil {
			return
		}
		frame.Encode(server, &frame.Frame{
			Recipient: frame.AddressLibrary,
			Sender:    frame.AddressEcoMAX,
			Payload: &frame.AlertsResponse{
				Alerts: []frame.Alert{{Code: 5, From: time.Unix(1000, 0).UTC()}},
			},
		})
	}()

	f := &alertsFetcher{ecomax: e}
	if err := f.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	alerts := e.Alerts()
	if len(alerts) != 1 || alerts[0].Code != 5 {
		t.Fatalf("got %+v", alerts)
	}
}

func TestRegulatorSchemaFetcherPopulatesSchema(t *testing.T) {
	e, server, r := newTestEcoMAX(t)

	go func() {
		if _, err := frame.Decode(r); err != nil {
			return
		}
		frame.Encode(server, &frame.Frame{
			Recipient: frame.AddressLibrary,
			Sender:    frame.AddressEcoMAX,
			Payload:   &frame.RegulatorDataSchemaResponse{},
		})
	}()

	f := &regulatorSchemaFetcher{ecomax: e}
	if err := f.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}

	e.mu.RLock()
	schema := e.regulatorSchema
	e.mu.RUnlock()
	if schema == nil {
		t.Fatal("expected regulator schema to be set (even if empty)")
	}
}
