// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"bufio"
	"context"
	"math"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/denpamusic/pyplumio/conn"
	"github.com/denpamusic/pyplumio/event"
	"github.com/denpamusic/pyplumio/frame"
	"github.com/denpamusic/pyplumio/protocol"
)

// pipeDialer hands out net.Pipe connections and keeps the server half so a
// test can drive the wire side directly.
type pipeDialer struct {
	mu      sync.Mutex
	servers []net.Conn
}

func (d *pipeDialer) String() string { return "pipe" }

func (d *pipeDialer) Dial(ctx context.Context) (conn.Transport, error) {
	client, server := net.Pipe()
	d.mu.Lock()
	d.servers = append(d.servers, server)
	d.mu.Unlock()
	return client, nil
}

func (d *pipeDialer) waitForServer(t *testing.T) net.Conn {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		d.mu.Lock()
		n := len(d.servers)
		var s net.Conn
		if n > 0 {
			s = d.servers[0]
		}
		d.mu.Unlock()
		if s != nil {
			return s
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for a dial")
	return nil
}

func doHandshake(t *testing.T, server net.Conn, r *bufio.Reader) {
	t.Helper()
	if err := frame.Encode(server, &frame.Frame{
		Recipient: frame.AddressLibrary,
		Sender:    frame.AddressEcoMAX,
		Payload:   &frame.ProgramVersionRequest{},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := frame.Decode(r); err != nil {
		t.Fatal(err)
	}

	if err := frame.Encode(server, &frame.Frame{
		Recipient: frame.AddressLibrary,
		Sender:    frame.AddressEcoMAX,
		Payload:   &frame.CheckDeviceRequest{},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := frame.Decode(r); err != nil {
		t.Fatal(err)
	}
}

// newTestEcoMAX wires an EcoMAX to a live Driver over a net.Pipe transport
// and returns the server half of the pipe so the test can play the
// controller's side of the conversation.
func newTestEcoMAX(t *testing.T) (*EcoMAX, net.Conn, *bufio.Reader) {
	t.Helper()
	bus := event.NewBus()
	e := New(bus, nil)
	dialer := &pipeDialer{}
	d := protocol.New(dialer, e, protocol.WithKeepAlive(time.Hour), protocol.WithReplyTimeout(2*time.Second))
	e.Attach(d)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go d.Run(ctx)

	server := dialer.waitForServer(t)
	r := bufio.NewReader(server)
	doHandshake(t, server, r)
	return e, server, r
}

func TestFetchIdentityPopulatesProductAndUID(t *testing.T) {
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
			Payload: &frame.UIDResponse{
				Product: frame.ProductInfo{Model: "ecoMAX 850i P", UID: [12]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
			},
		})
	}()

	if err := e.FetchIdentity(context.Background()); err != nil {
		t.Fatal(err)
	}
	if e.Product().Model != "ecoMAX 850i P" {
		t.Fatalf("got model %q", e.Product().Model)
	}
	if e.UID() == "" {
		t.Fatal("expected a decoded UID string")
	}
}

func TestHandleFrameCreatesSubDevicesFromSensorData(t *testing.T) {
	e, _, _ := newTestEcoMAX(t)

	msg := &frame.SensorDataMessage{
		Mixers:      []frame.MixerSensorBlock{{Temperature: 45.0}},
		Thermostats: []frame.ThermostatSensorBlock{{Temperature: 21.0}},
	}
	if err := e.HandleFrame(context.Background(), &frame.Frame{Payload: msg}); err != nil {
		t.Fatal(err)
	}

	mx := e.Mixer(0)
	if mx == nil {
		t.Fatal("expected mixer 0 to be created from SensorData")
	}
	if mx.Temperature() != 45.0 {
		t.Fatalf("got mixer temperature %v", mx.Temperature())
	}

	th := e.Thermostat(0)
	if th == nil {
		t.Fatal("expected thermostat 0 to be created from SensorData")
	}
	if th.Temperature() != 21.0 {
		t.Fatalf("got thermostat temperature %v", th.Temperature())
	}
}

func TestHandleFrameTriggersRefetchOnVersionBump(t *testing.T) {
	e, server, r := newTestEcoMAX(t)

	fetched := make(chan struct{}, 1)
	go func() {
		req, err := frame.Decode(r)
		if err != nil {
			return
		}
		if _, ok := req.Payload.(*frame.AlertsRequest); !ok {
			return
		}
		frame.Encode(server, &frame.Frame{
			Recipient: frame.AddressLibrary,
			Sender:    frame.AddressEcoMAX,
			Payload:   &frame.AlertsResponse{},
		})
		fetched <- struct{}{}
	}()

	msg := &frame.SensorDataMessage{Versions: frame.FrameVersions{frame.TypeAlerts: 1}}
	if err := e.HandleFrame(context.Background(), &frame.Frame{Payload: msg}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a FrameVersions bump to trigger an alerts re-fetch")
	}
}

func TestSetEcomaxParameterReturnsErrorOnNak(t *testing.T) {
	e, server, r := newTestEcoMAX(t)

	go func() {
		req, err := frame.Decode(r)
		if err != nil {
			return
		}
		if _, ok := req.Payload.(*frame.SetEcomaxParameterRequest); !ok {
			return
		}
		frame.Encode(server, &frame.Frame{
			Recipient: frame.AddressLibrary,
			Sender:    frame.AddressEcoMAX,
			Payload:   &frame.SetParameterResponse{},
		})
	}()

	e.mu.Lock()
	e.parameters[0] = newParameter("heating_target_temp", 0, rawParameter{Value: 650, Min: 400, Max: 800}, 1, 0,
		func(ctx context.Context, raw uint16) error { return e.setEcomaxParameter(ctx, 0, raw) })
	e.mu.Unlock()

	p := e.Parameter(0)
	if err := p.Set(context.Background(), 700); err == nil {
		t.Fatal("expected a controller NAK to surface as an error")
	}
	if p.Value() != 650 {
		t.Fatalf("got cached value %v, want the NAK'd write to leave it unchanged at 650", p.Value())
	}
}

func TestDataSnapshotOmitsAbsentSensors(t *testing.T) {
	e, _, _ := newTestEcoMAX(t)

	msg := &frame.SensorDataMessage{
		Flags: frame.Flags{Fan: true},
		Temperatures: frame.Temperatures{
			Heating:   65.5,
			Feedwater: float32(math.NaN()),
		},
		State:     2,
		FuelLevel: 80,
	}
	if err := e.HandleFrame(context.Background(), &frame.Frame{Payload: msg}); err != nil {
		t.Fatal(err)
	}

	data := e.Data()
	if v, ok := data["heating_temp"]; !ok || v.(float32) != 65.5 {
		t.Fatalf("got heating_temp %v", data["heating_temp"])
	}
	if _, ok := data["feedwater_temp"]; ok {
		t.Fatal("expected the absent feedwater sensor to be omitted from Data()")
	}
	if state, ok := data["state"]; !ok || state.(uint8) != 2 {
		t.Fatalf("got state %v", data["state"])
	}
}

func TestTurnIsFireAndForget(t *testing.T) {
	e, _, r := newTestEcoMAX(t)

	done := make(chan error, 1)
	go func() {
		done <- e.Turn(context.Background(), true)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("Turn did not return")
	}

	got, err := frame.Decode(r)
	if err != nil {
		t.Fatal(err)
	}
	if ctl, ok := got.Payload.(*frame.EcomaxControlRequest); !ok || !ctl.On {
		t.Fatalf("got %+v", got.Payload)
	}
}
