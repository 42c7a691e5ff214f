// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pyplumio

import "github.com/prometheus/client_golang/prometheus"

// Statistics are the Prometheus counters/gauges a Connection exposes for
// its own health, distinct from the boiler telemetry package device
// models. Register it with a prometheus.Registerer to scrape it.
type Statistics struct {
	FramesSent     prometheus.Counter
	FramesReceived prometheus.Counter
	FrameErrors    prometheus.Counter
	Reconnects     prometheus.Counter
	Connected      prometheus.Gauge
}

// newStatistics builds a fresh, unregistered Statistics.
func newStatistics() *Statistics {
	return &Statistics{
		FramesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pyplumio",
			Name:      "frames_sent_total",
			Help:      "Frames written to the transport.",
		}),
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pyplumio",
			Name:      "frames_received_total",
			Help:      "Frames successfully decoded from the transport.",
		}),
		FrameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pyplumio",
			Name:      "frame_errors_total",
			Help:      "Frames discarded for a checksum or framing fault, §7.",
		}),
		Reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pyplumio",
			Name:      "reconnects_total",
			Help:      "Times the connection loop redialed the transport.",
		}),
		Connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pyplumio",
			Name:      "connected",
			Help:      "1 while a Transport is open and the handshake has completed.",
		}),
	}
}

// Register registers every Statistics collector with r.
func (s *Statistics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{s.FramesSent, s.FramesReceived, s.FrameErrors, s.Reconnects, s.Connected} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// FrameSent implements protocol.Metrics.
func (s *Statistics) FrameSent() { s.FramesSent.Inc() }

// FrameReceived implements protocol.Metrics.
func (s *Statistics) FrameReceived() { s.FramesReceived.Inc() }

// FrameError implements protocol.Metrics.
func (s *Statistics) FrameError() { s.FrameErrors.Inc() }

// Reconnect implements protocol.Metrics.
func (s *Statistics) Reconnect() { s.Reconnects.Inc() }

// SetConnected implements protocol.Metrics.
func (s *Statistics) SetConnected(connected bool) {
	if connected {
		s.Connected.Set(1)
		return
	}
	s.Connected.Set(0)
}
