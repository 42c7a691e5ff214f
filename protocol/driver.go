// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package protocol runs the reader/writer tasks that turn a conn.Transport
// into correlated ecoNET frame exchanges, §5. It owns the handshake
// sequence, read-idle watchdog, request/response correlation and reconnect
// backoff; package device builds the controller's data model on top of it.
package protocol

import (
	"bufio"
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/denpamusic/pyplumio/bytesio"
	"github.com/denpamusic/pyplumio/conn"
	"github.com/denpamusic/pyplumio/frame"
)

// libraryVersion is reported to the controller in our ProgramVersionResponse
// during the handshake, §4.4 S1. It tracks this module, not the firmware.
var libraryVersion = bytesio.Version{Major: 0, Minor: 1, Patch: 0}

// Metrics receives Driver lifecycle counters. Package pyplumio's
// Statistics implements it backed by Prometheus collectors; tests and
// callers that don't care about metrics get noopMetrics by default.
type Metrics interface {
	FrameSent()
	FrameReceived()
	FrameError()
	Reconnect()
	SetConnected(bool)
}

type noopMetrics struct{}

func (noopMetrics) FrameSent()        {}
func (noopMetrics) FrameReceived()    {}
func (noopMetrics) FrameError()       {}
func (noopMetrics) Reconnect()        {}
func (noopMetrics) SetConnected(bool) {}

// State is the Driver's connection lifecycle position, §5.
type State int32

const (
	// StateDisconnected is the initial state and the state after a
	// connection is lost, before a new dial has started.
	StateDisconnected State = iota
	// StateConnecting is set for the duration of a Dial call.
	StateConnecting
	// StateHandshaking is set once the Transport is open but before the
	// ProgramVersion/CheckDevice exchange has completed.
	StateHandshaking
	// StateConnected is set once the handshake completes; Send may now
	// correlate replies and the read-idle watchdog is armed.
	StateConnected
	// StateClosed is set once Run's context is cancelled; a Driver never
	// leaves this state.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateHandshaking:
		return "handshaking"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Config tunes Driver timing, §5.
type Config struct {
	// KeepAliveInterval bounds how long the Driver will tolerate silence
	// from the controller before treating the link as dead and forcing a
	// reconnect. It is a read-idle watchdog, not an outbound ping: this
	// library never writes unsolicited traffic to keep a quiet bus alive.
	// Zero uses a 10s default.
	KeepAliveInterval time.Duration
	// ReplyTimeout bounds how long a single Send attempt waits for a
	// correlated response before retrying. Zero uses a 5s default.
	ReplyTimeout time.Duration
	// MaxSendAttempts bounds how many times Send will write a request and
	// wait ReplyTimeout for its reply before giving up, re-correlating
	// with a fresh trace id on every attempt. Zero/negative uses 3.
	MaxSendAttempts int
	// ReconnectMinDelay/ReconnectMaxDelay bound the exponential backoff
	// between dial attempts, §5 reconnection. Zero uses 1s/1m defaults.
	ReconnectMinDelay time.Duration
	ReconnectMaxDelay time.Duration
	// Logger receives structured connection-lifecycle events. Nil uses
	// logrus's standard logger.
	Logger logrus.FieldLogger
	// Metrics receives frame/reconnect counters. Nil discards them.
	Metrics Metrics
}

func (c Config) withDefaults() Config {
	if c.KeepAliveInterval == 0 {
		c.KeepAliveInterval = 10 * time.Second
	}
	if c.ReplyTimeout == 0 {
		c.ReplyTimeout = 5 * time.Second
	}
	if c.MaxSendAttempts <= 0 {
		c.MaxSendAttempts = 3
	}
	if c.ReconnectMinDelay == 0 {
		c.ReconnectMinDelay = time.Second
	}
	if c.ReconnectMaxDelay == 0 {
		c.ReconnectMaxDelay = time.Minute
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	if c.Metrics == nil {
		c.Metrics = noopMetrics{}
	}
	return c
}

// Option configures a Driver at construction time, the functional-options
// idiom this library uses throughout instead of a mutable builder.
type Option func(*Config)

// WithKeepAlive overrides the read-idle watchdog interval.
func WithKeepAlive(d time.Duration) Option { return func(c *Config) { c.KeepAliveInterval = d } }

// WithReplyTimeout overrides how long a single Send attempt waits for a
// response before retrying.
func WithReplyTimeout(d time.Duration) Option { return func(c *Config) { c.ReplyTimeout = d } }

// WithMaxSendAttempts overrides how many times Send retries a timed-out
// request before giving up.
func WithMaxSendAttempts(n int) Option { return func(c *Config) { c.MaxSendAttempts = n } }

// WithReconnectBackoff overrides the reconnect backoff bounds.
func WithReconnectBackoff(min, max time.Duration) Option {
	return func(c *Config) { c.ReconnectMinDelay, c.ReconnectMaxDelay = min, max }
}

// WithLogger overrides the logger.
func WithLogger(l logrus.FieldLogger) Option { return func(c *Config) { c.Logger = l } }

// WithMetrics overrides the metrics sink.
func WithMetrics(m Metrics) Option { return func(c *Config) { c.Metrics = m } }

// Handler processes frames the Driver did not originate as a Send reply:
// unsolicited messages (SensorData, RegulatorData) and requests the
// controller addresses to us (CheckDevice), §4.4.
type Handler interface {
	HandleFrame(ctx context.Context, f *frame.Frame) error
}

// correlationKey identifies one outstanding Send registration. index
// disambiguates replies that share a response Type across mixer/thermostat
// sub-devices; it is the real wire-carried MixerIndex/ThermostatIndex for
// the handful of payloads that carry one, and 0 (a shared key) for every
// other request, §4.4 correlation.
type correlationKey struct {
	responseType frame.Type
	index        uint8
}

type pendingReply struct {
	ch chan *frame.Frame
}

// Driver owns one logical connection's lifecycle: dial, handshake, a
// reader task decoding frames off the wire, a writer task serialising Send
// calls, a read-idle watchdog, and automatic reconnect with exponential
// backoff whenever the Transport errors or falls silent, §5.
type Driver struct {
	dialer  conn.Dialer
	handler Handler
	cfg     Config

	sendCh chan sendRequest

	state    atomic.Int32
	lastRecv atomic.Int64

	mu        sync.Mutex
	pending   map[correlationKey]*pendingReply
	sendLocks map[correlationKey]*sync.Mutex
}

type sendRequest struct {
	frame *frame.Frame
	done  chan error
}

// New returns a Driver that dials through dialer and delivers unsolicited
// frames to handler. Run must be called to start the connection loop.
func New(dialer conn.Dialer, handler Handler, opts ...Option) *Driver {
	cfg := Config{}.withDefaults()
	for _, o := range opts {
		o(&cfg)
	}
	return &Driver{
		dialer:    dialer,
		handler:   handler,
		cfg:       cfg,
		sendCh:    make(chan sendRequest),
		pending:   map[correlationKey]*pendingReply{},
		sendLocks: map[correlationKey]*sync.Mutex{},
	}
}

func (d *Driver) setState(s State) {
	d.state.Store(int32(s))
	d.cfg.Metrics.SetConnected(s == StateConnected)
}

// State reports the Driver's current connection lifecycle position.
func (d *Driver) State() State {
	return State(d.state.Load())
}

// Connected reports whether the Driver currently has a completed
// handshake and a live Transport.
func (d *Driver) Connected() bool {
	return d.State() == StateConnected
}

// Run drives the connect/handshake/serve/reconnect loop until ctx is
// cancelled. It always returns ctx.Err(); a connection error is logged and
// followed by a redial, never returned.
func (d *Driver) Run(ctx context.Context) error {
	defer d.setState(StateClosed)

	delay := d.cfg.ReconnectMinDelay
	first := true
	for {
		if !first {
			d.cfg.Metrics.Reconnect()
		}
		first = false

		err := d.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log := d.cfg.Logger.WithField("dialer", d.dialer.String())
		log.WithError(err).Warn("protocol: connection lost, reconnecting")

		var jitter time.Duration
		if max := int64(delay) / 2; max > 0 {
			jitter = time.Duration(rand.Int63n(max))
		}
		select {
		case <-time.After(delay + jitter):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
		if delay > d.cfg.ReconnectMaxDelay {
			delay = d.cfg.ReconnectMaxDelay
		}
	}
}

// runOnce dials once, performs the handshake, and serves the connection
// until it errors, falls silent past the watchdog deadline, or ctx is
// cancelled.
func (d *Driver) runOnce(ctx context.Context) error {
	d.setState(StateConnecting)

	transport, err := d.dialer.Dial(ctx)
	if err != nil {
		d.setState(StateDisconnected)
		return errors.Wrap(err, "protocol: dial")
	}
	defer transport.Close()
	defer d.setState(StateDisconnected)

	d.setState(StateHandshaking)
	d.markReceived()

	group, gctx := errgroup.WithContext(ctx)
	reader := bufio.NewReader(transport)

	if err := d.handshake(gctx, transport, reader); err != nil {
		return errors.Wrap(err, "protocol: handshake")
	}
	d.setState(StateConnected)

	group.Go(func() error { return d.readLoop(gctx, reader) })
	group.Go(func() error { return d.writeLoop(gctx, transport) })
	group.Go(func() error { return d.watchdog(gctx) })
	return group.Wait()
}

// handshake performs the ProgramVersion/CheckDevice exchange the
// controller initiates on every fresh connection, §4.4 S1. The ecoMAX
// sends ProgramVersionRequest first; we answer with our own version info
// and wait for CheckDeviceRequest, which we answer with DeviceAvailable.
func (d *Driver) handshake(ctx context.Context, w conn.Transport, r *bufio.Reader) error {
	for i := 0; i < 2; i++ {
		f, err := frame.Decode(r)
		if err != nil {
			return err
		}
		d.markReceived()
		switch f.Payload.(type) {
		case *frame.ProgramVersionRequest:
			reply := &frame.Frame{
				Recipient: f.Sender,
				Sender:    frame.AddressEcoMAX,
				Payload: &frame.ProgramVersionResponse{Info: frame.ProgramVersionInfo{
					Version:     libraryVersion,
					DeviceIndex: 0,
				}},
			}
			if err := frame.Encode(w, reply); err != nil {
				return err
			}
		case *frame.CheckDeviceRequest:
			reply := &frame.Frame{
				Recipient: f.Sender,
				Sender:    frame.AddressEcoMAX,
				Payload:   &frame.DeviceAvailableResponse{},
			}
			if err := frame.Encode(w, reply); err != nil {
				return err
			}
			return nil
		}
	}
	return errors.New("protocol: handshake did not complete in two frames")
}

func (d *Driver) readLoop(ctx context.Context, r *bufio.Reader) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f, err := frame.Decode(r)
		if err != nil {
			if isFrameFault(err) {
				d.cfg.Metrics.FrameError()
				d.cfg.Logger.WithError(err).Debug("protocol: discarding malformed frame")
				continue
			}
			return err
		}
		d.markReceived()
		d.cfg.Metrics.FrameReceived()
		d.dispatch(ctx, f)
	}
}

func (d *Driver) dispatch(ctx context.Context, f *frame.Frame) {
	key := correlationKey{responseType: f.Payload.FrameType(), index: subDeviceIndex(f.Payload)}

	d.mu.Lock()
	p, ok := d.pending[key]
	if ok {
		delete(d.pending, key)
	}
	d.mu.Unlock()

	if ok {
		p.ch <- f
		return
	}

	if d.handler != nil {
		if err := d.handler.HandleFrame(ctx, f); err != nil {
			d.cfg.Logger.WithError(err).WithField("type", key.responseType).Warn("protocol: handler error")
		}
	}
}

func (d *Driver) writeLoop(ctx context.Context, w conn.Transport) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-d.sendCh:
			err := frame.Encode(w, req.frame)
			if err == nil {
				d.cfg.Metrics.FrameSent()
			}
			req.done <- err
			if err != nil {
				return errors.Wrap(err, "protocol: write")
			}
		}
	}
}

// markReceived records that a frame (or handshake byte) just arrived,
// resetting the read-idle watchdog's clock.
func (d *Driver) markReceived() {
	d.lastRecv.Store(time.Now().UnixNano())
}

func (d *Driver) sinceLastReceived() time.Duration {
	last := d.lastRecv.Load()
	if last == 0 {
		return 0
	}
	return time.Since(time.Unix(0, last))
}

// watchdog detects a bus that has gone quiet for longer than
// cfg.KeepAliveInterval, §5. The ecoNET bus is polled by the controller,
// not by us: a healthy link produces SensorData broadcasts on a steady
// cadence, so silence past the configured interval means the link (or the
// controller) is gone, not that nobody had anything to say. It never
// writes a ping of its own.
func (d *Driver) watchdog(ctx context.Context) error {
	interval := d.cfg.KeepAliveInterval
	ticker := time.NewTicker(watchdogPollInterval(interval))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if since := d.sinceLastReceived(); since > interval {
				return errors.Errorf("protocol: no frame received in %s, treating link as dead", since.Round(time.Millisecond))
			}
		}
	}
}

// watchdogPollInterval samples more often than the idle deadline itself so
// the deadline isn't overshot by a full tick.
func watchdogPollInterval(idle time.Duration) time.Duration {
	poll := idle / 4
	if poll < 10*time.Millisecond {
		poll = 10 * time.Millisecond
	}
	return poll
}

// subDeviceIndex extracts the wire-carried mixer/thermostat sub-device
// index from payload, when it has one. MixerParameters and
// ThermostatParameters requests/responses are the only payloads that carry
// their index on the wire in both directions; SetMixerParameter/
// SetThermostatParameter share the indexless SetParameterResponse reply, so
// they (and everything else) fall back to the shared index 0, §4.4
// correlation.
func subDeviceIndex(payload frame.Payload) uint8 {
	switch p := payload.(type) {
	case *frame.MixerParametersRequest:
		return p.MixerIndex
	case *frame.MixerParametersResponse:
		return p.MixerIndex
	case *frame.ThermostatParametersRequest:
		return p.ThermostatIndex
	case *frame.ThermostatParametersResponse:
		return p.ThermostatIndex
	default:
		return 0
	}
}

// lockFor returns the per-correlationKey mutex serialising Send attempts
// that share a key. Payloads like SetMixerParameterRequest carry no index
// on their reply, so two concurrent Sends for different mixers would
// otherwise race for the same pending-reply slot; the mutex closes that
// window without inventing wire data the reply doesn't carry.
func (d *Driver) lockFor(key correlationKey) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.sendLocks[key]
	if !ok {
		m = &sync.Mutex{}
		d.sendLocks[key] = m
	}
	return m
}

// errReplyTimeout distinguishes a timed-out attempt, which Send retries,
// from every other send failure, which it does not.
var errReplyTimeout = errors.New("protocol: timed out waiting for reply")

// Send writes payload addressed to recipient and, if payload's FrameType
// is a request (response bit clear), waits for the correlated response up
// to cfg.ReplyTimeout. On a timeout it retries with a fresh correlation up
// to cfg.MaxSendAttempts times total, since a single dropped reply on a
// shared RS-485 bus is routine rather than exceptional. Message-direction
// payloads (no response bit, not a recognised request either) are
// fire-and-forget: Send returns as soon as the write completes.
func (d *Driver) Send(ctx context.Context, recipient frame.Address, payload frame.Payload) (*frame.Frame, error) {
	t := payload.FrameType()
	direction := t.Direction()

	var key correlationKey
	var keyMu *sync.Mutex
	if direction == frame.DirectionRequest {
		key = correlationKey{responseType: frame.ResponseType(t), index: subDeviceIndex(payload)}
		keyMu = d.lockFor(key)
		keyMu.Lock()
		defer keyMu.Unlock()
	}

	attempts := d.cfg.MaxSendAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		reply, err := d.sendOnce(ctx, recipient, payload, direction, key)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if ctx.Err() != nil || !errors.Is(err, errReplyTimeout) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (d *Driver) sendOnce(ctx context.Context, recipient frame.Address, payload frame.Payload, direction frame.Direction, key correlationKey) (*frame.Frame, error) {
	id := xid.New()
	log := d.cfg.Logger.WithField("trace", id.String())

	f := &frame.Frame{Recipient: recipient, Sender: frame.AddressLibrary, Payload: payload}

	var replyCh chan *frame.Frame
	if direction == frame.DirectionRequest {
		replyCh = make(chan *frame.Frame, 1)
		d.mu.Lock()
		d.pending[key] = &pendingReply{ch: replyCh}
		d.mu.Unlock()
	}

	done := make(chan error, 1)
	select {
	case d.sendCh <- sendRequest{frame: f, done: done}:
	case <-ctx.Done():
		d.clearPending(key)
		return nil, ctx.Err()
	}

	if err := <-done; err != nil {
		d.clearPending(key)
		log.WithError(err).Debug("protocol: send failed")
		return nil, errors.Wrap(err, "protocol: send")
	}
	if replyCh == nil {
		return nil, nil
	}

	select {
	case reply := <-replyCh:
		return reply, nil
	case <-time.After(d.cfg.ReplyTimeout):
		d.clearPending(key)
		return nil, errReplyTimeout
	case <-ctx.Done():
		d.clearPending(key)
		return nil, ctx.Err()
	}
}

func (d *Driver) clearPending(key correlationKey) {
	d.mu.Lock()
	delete(d.pending, key)
	d.mu.Unlock()
}

func isFrameFault(err error) bool {
	return errors.Is(err, frame.ErrMalformedFrame) ||
		errors.Is(err, frame.ErrChecksumError) ||
		errors.Is(err, frame.ErrUnsupportedProtocol)
}
