// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package device builds the ecoMAX data model - parameters, schedules,
// mixer/thermostat sub-devices, sensor readings - on top of package
// protocol's correlated request/response Driver, and keeps it fresh via
// the FrameVersions-triggered re-fetch mechanism, §3/§4.4.
package device

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/denpamusic/pyplumio/bytesio"
	"github.com/denpamusic/pyplumio/event"
	"github.com/denpamusic/pyplumio/frame"
	"github.com/denpamusic/pyplumio/protocol"
)

// ecomaxParameterNames names the known 1-byte ecomax parameter indices.
var ecomaxParameterNames = map[uint8]string{
	0: "heating_target_temp",
	1: "heating_target_temp_hysteresis",
	2: "water_heater_target_temp",
	3: "water_heater_target_temp_hysteresis",
}

// fetcherForVersionedType maps the frame.Type carried in a FrameVersions
// map to the protocol.Fetcher name responsible for refreshing it, §4.4.
var fetcherForVersionedType = map[frame.Type]string{
	frame.TypeUID:                  "uid",
	frame.TypeEcomaxParameters:     "parameters",
	frame.TypeMixerParameters:      "parameters",
	frame.TypeThermostatParameters: "parameters",
	frame.TypeSchedules:            "schedules",
	frame.TypeAlerts:               "alerts",
	frame.TypeRegulatorDataSchema:  "regulator-schema",
}

// EcoMAX is the root device representing the boiler controller itself,
// §3. It owns Mixer and Thermostat sub-devices and publishes every state
// change on its event.Bus.
type EcoMAX struct {
	driver *protocol.Driver
	bus    *event.Bus
	log    logrus.FieldLogger

	registry *protocol.Registry

	mu              sync.RWMutex
	product         frame.ProductInfo
	uid             string
	programVersion  frame.ProgramVersionInfo
	versions        frame.FrameVersions
	parameters      map[uint8]*Parameter
	mixers          map[uint8]*Mixer
	thermostats     map[uint8]*Thermostat
	schedules       map[frame.ScheduleKind]*Schedule
	regulatorSchema frame.RegulatorDataSchema
	sensors         frame.SensorDataMessage
	alerts          []frame.Alert
}

// New builds an EcoMAX publishing onto bus. Call Attach once its
// protocol.Driver exists; the two are constructed separately because the
// Driver takes the EcoMAX as its Handler and the EcoMAX needs the Driver
// to send requests, §2.
func New(bus *event.Bus, log logrus.FieldLogger) *EcoMAX {
	if log == nil {
		log = logrus.StandardLogger()
	}
	e := &EcoMAX{
		bus:         bus,
		log:         log,
		registry:    protocol.NewRegistry(),
		parameters:  map[uint8]*Parameter{},
		mixers:      map[uint8]*Mixer{},
		thermostats: map[uint8]*Thermostat{},
		schedules:   map[frame.ScheduleKind]*Schedule{},
	}
	e.registry.MustRegister(&uidFetcher{ecomax: e})
	e.registry.MustRegister(&regulatorSchemaFetcher{ecomax: e})
	e.registry.MustRegister(&parametersFetcher{ecomax: e})
	e.registry.MustRegister(&schedulesFetcher{ecomax: e})
	e.registry.MustRegister(&alertsFetcher{ecomax: e})
	return e
}

// Attach gives the EcoMAX the Driver it sends requests through.
func (e *EcoMAX) Attach(driver *protocol.Driver) {
	e.mu.Lock()
	e.driver = driver
	e.mu.Unlock()
}

// UID returns the controller's decoded unique identifier, populated once
// FetchIdentity has run.
func (e *EcoMAX) UID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.uid
}

// Product returns the controller's ProductInfo.
func (e *EcoMAX) Product() frame.ProductInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.product
}

// Parameter returns an ecomax-level parameter by index, or nil.
func (e *EcoMAX) Parameter(index uint8) *Parameter {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.parameters[index]
}

// Parameters returns a snapshot of every known ecomax-level parameter.
func (e *EcoMAX) Parameters() []*Parameter {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Parameter, 0, len(e.parameters))
	for _, p := range e.parameters {
		out = append(out, p)
	}
	return out
}

// Mixer returns the mixer sub-device at index, or nil if not discovered.
func (e *EcoMAX) Mixer(index uint8) *Mixer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mixers[index]
}

// Thermostat returns the thermostat sub-device at index, or nil.
func (e *EcoMAX) Thermostat(index uint8) *Thermostat {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.thermostats[index]
}

// Schedule returns the named weekly schedule, or nil if not yet fetched.
func (e *EcoMAX) Schedule(kind frame.ScheduleKind) *Schedule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.schedules[kind]
}

// Alerts returns the last fetched page of the controller's alert log.
func (e *EcoMAX) Alerts() []frame.Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]frame.Alert(nil), e.alerts...)
}

// Data returns a name-to-value snapshot of the controller's most recently
// reported sensor readings, consistent as of one mutex acquisition so a
// caller never observes a torn read across fields the reader task is
// concurrently updating, §5. Sensors the controller reports as absent
// (NaN on the wire) are omitted rather than surfaced as a bogus zero
// reading.
func (e *EcoMAX) Data() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	data := map[string]interface{}{
		"state":            e.sensors.State,
		"fan":              e.sensors.Flags.Fan,
		"feeder":           e.sensors.Flags.Feeder,
		"pump_co":          e.sensors.Flags.PumpCO,
		"pump_cwu":         e.sensors.Flags.PumpCWU,
		"pump_circulation": e.sensors.Flags.PumpCirculation,
		"lighter":          e.sensors.Flags.Lighter,
	}
	for name, v := range map[string]float32{
		"heating_temp":             e.sensors.Temperatures.Heating,
		"feedwater_temp":           e.sensors.Temperatures.Feedwater,
		"return_temp":              e.sensors.Temperatures.Return,
		"exhaust_temp":             e.sensors.Temperatures.Exhaust,
		"outside_temp":             e.sensors.Temperatures.Outside,
		"water_heater_temp":        e.sensors.Temperatures.WaterHeater,
		"heating_target_temp":      e.sensors.HeatingTarget,
		"water_heater_target_temp": e.sensors.WaterHeaterTarget,
		"fuel_level":               e.sensors.FuelLevel,
		"fuel_consumption":         e.sensors.FuelConsumption,
		"power_usage":              e.sensors.PowerUsage,
	} {
		if frame.IsSensorPresent(v) {
			data[name] = v
		}
	}
	return data
}

// FetchIdentity retrieves the controller's ProductInfo/UID, §4.3. It is
// normally called once right after the handshake completes.
func (e *EcoMAX) FetchIdentity(ctx context.Context) error {
	reply, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.UIDRequest{})
	if err != nil {
		return err
	}
	resp, ok := reply.Payload.(*frame.UIDResponse)
	if !ok {
		return nil
	}
	e.mu.Lock()
	e.product = resp.Product
	e.uid = bytesio.EncodeUID(resp.Product.UID)
	e.mu.Unlock()
	return nil
}

// HandleFrame implements protocol.Handler for frames that are not replies
// to an outstanding Send call: the periodic SensorData/RegulatorData
// broadcasts and the bump-triggered re-fetch they drive, §4.4.
func (e *EcoMAX) HandleFrame(ctx context.Context, f *frame.Frame) error {
	switch p := f.Payload.(type) {
	case *frame.SensorDataMessage:
		e.onSensorData(ctx, p)
	case *frame.RegulatorDataMessage:
		e.onRegulatorData(ctx, p)
	}
	return nil
}

func (e *EcoMAX) onSensorData(ctx context.Context, m *frame.SensorDataMessage) {
	e.mu.Lock()
	oldVersions := e.versions
	e.versions = m.Versions
	e.sensors = *m
	e.ensureSubDevicesLocked(m)
	e.mu.Unlock()

	e.bus.Publish(event.TopicSensorData, m)
	e.refetchStale(ctx, oldVersions, m.Versions)
}

// ensureSubDevicesLocked creates Mixer/Thermostat sub-devices the first
// time SensorData reports them and applies their latest sensor block.
// Callers hold e.mu.
func (e *EcoMAX) ensureSubDevicesLocked(m *frame.SensorDataMessage) {
	for i, block := range m.Mixers {
		idx := uint8(i)
		mx, ok := e.mixers[idx]
		if !ok {
			mx = newMixer(idx)
			e.mixers[idx] = mx
		}
		mx.applySensor(block)
	}
	for i, block := range m.Thermostats {
		idx := uint8(i)
		th, ok := e.thermostats[idx]
		if !ok {
			th = newThermostat(idx)
			e.thermostats[idx] = th
		}
		th.applySensor(block)
	}
}

func (e *EcoMAX) onRegulatorData(ctx context.Context, m *frame.RegulatorDataMessage) {
	e.mu.Lock()
	oldVersions := e.versions
	e.versions = m.Versions
	schema := e.regulatorSchema
	e.mu.Unlock()

	if schema != nil {
		values, err := frame.DecodeRegulatorData(schema, m.Raw)
		if err != nil {
			e.log.WithError(err).Warn("device: failed to decode regulator data")
		} else {
			e.bus.Publish(event.TopicRegulatorData, values)
		}
	}
	e.refetchStale(ctx, oldVersions, m.Versions)
}

// refetchStale compares old and new FrameVersions and re-runs every
// fetcher whose watched type changed, §4.4.
func (e *EcoMAX) refetchStale(ctx context.Context, old, new frame.FrameVersions) {
	stale := map[string]struct{}{}
	for t, v := range new {
		if old[t] == v {
			continue
		}
		if name, ok := fetcherForVersionedType[t]; ok {
			stale[name] = struct{}{}
		}
	}
	if len(stale) == 0 {
		return
	}
	failures, err := e.registry.RunStale(ctx, stale)
	if err != nil {
		e.log.WithError(err).Warn("device: refetch scheduling failed")
		return
	}
	for _, f := range failures {
		e.log.WithError(f.Err).WithField("fetcher", f.F.String()).Warn("device: refetch failed")
	}
}

// checkSetParameterReply type-asserts a Send reply to the shared
// SetParameterResponse ack/nak and turns an explicit controller rejection
// into an error, so a NAK is never silently committed to the local
// parameter cache, §9 Open Question 2.
func checkSetParameterReply(reply *frame.Frame, err error) error {
	if err != nil {
		return err
	}
	resp, ok := reply.Payload.(*frame.SetParameterResponse)
	if !ok {
		return nil
	}
	if !resp.Success {
		return errors.Errorf("device: controller rejected parameter write for %s", resp.FrameType().RequestType())
	}
	return nil
}

// setEcomaxParameter sets an ecomax-level parameter by index, §4.5 S4.
func (e *EcoMAX) setEcomaxParameter(ctx context.Context, index uint8, raw uint16) error {
	reply, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.SetEcomaxParameterRequest{Index: index, Value: raw})
	return checkSetParameterReply(reply, err)
}

func (e *EcoMAX) setMixerParameter(ctx context.Context, mixerIndex, index uint8, raw uint16) error {
	reply, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.SetMixerParameterRequest{MixerIndex: mixerIndex, Index: index, Value: raw})
	return checkSetParameterReply(reply, err)
}

func (e *EcoMAX) setThermostatParameter(ctx context.Context, thermostatIndex, index uint8, raw uint16) error {
	reply, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.SetThermostatParameterRequest{ThermostatIndex: thermostatIndex, Index: index, Value: raw})
	return checkSetParameterReply(reply, err)
}

// Turn switches the boiler's master control on or off, §4.5 S5. The
// controller never acknowledges this frame, so Send returns as soon as the
// write completes.
func (e *EcoMAX) Turn(ctx context.Context, on bool) error {
	_, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.EcomaxControlRequest{On: on})
	return err
}

// StartMaster resumes the controller acting as bus master after StopMaster,
// §4.5 S5.
func (e *EcoMAX) StartMaster(ctx context.Context) error {
	_, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.StartMasterRequest{})
	return err
}

// StopMaster asks the controller to stop acting as bus master, freeing the
// bus for another party to poll it, §4.5 S5.
func (e *EcoMAX) StopMaster(ctx context.Context) error {
	_, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.StopMasterRequest{})
	return err
}

func (e *EcoMAX) sendSchedule(ctx context.Context, entry frame.ScheduleEntry) error {
	e.mu.RLock()
	all := make([]frame.ScheduleEntry, 0, len(e.schedules))
	for kind, s := range e.schedules {
		if kind == entry.Kind {
			all = append(all, entry)
			continue
		}
		s.mu.Lock()
		all = append(all, frame.ScheduleEntry{Kind: s.kind, Week: s.week, Switch: s.switchOn, Parameter: s.parameter})
		s.mu.Unlock()
	}
	e.mu.RUnlock()

	_, err := e.driver.Send(ctx, frame.AddressEcoMAX, &frame.SetScheduleRequest{Schedules: all})
	return err
}
