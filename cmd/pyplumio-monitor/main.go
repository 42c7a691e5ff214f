// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Command pyplumio-monitor connects to an ecoMAX controller and logs
// sensor updates to stdout, a thin example of wiring package pyplumio end
// to end.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/denpamusic/pyplumio"
	"github.com/denpamusic/pyplumio/event"
	"github.com/denpamusic/pyplumio/frame"
)

func main() {
	var (
		host       = flag.String("host", "", "ecoNET TCP bridge host (mutually exclusive with -serial)")
		port       = flag.Int("port", 8899, "ecoNET TCP bridge port")
		serialPath = flag.String("serial", "", "serial device path, e.g. /dev/ttyUSB0")
		metricsAddr = flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
	)
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var conn *pyplumio.Connection
	switch {
	case *serialPath != "":
		conn = pyplumio.OpenSerial(*serialPath)
	case *host != "":
		conn = pyplumio.OpenTCP(*host, *port)
	default:
		logrus.Fatal("one of -host or -serial is required")
	}
	defer conn.Close()

	if *metricsAddr != "" {
		registry := prometheus.NewRegistry()
		if err := conn.Stats.Register(registry); err != nil {
			logrus.WithError(err).Fatal("failed to register metrics")
		}
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			logrus.WithField("addr", *metricsAddr).Info("serving metrics")
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logrus.WithError(err).Warn("metrics server stopped")
			}
		}()
	}

	conn.Bus.Subscribe(event.TopicSensorData, func(value interface{}) {
		data := value.(*frame.SensorDataMessage)
		logrus.WithFields(logrus.Fields{
			"heating":    data.Temperatures.Heating,
			"exhaust":    data.Temperatures.Exhaust,
			"fuel_level": data.FuelLevel,
		}).Info("sensor data")
	}, event.OnChange())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logrus.WithField("connected", conn.Connected()).Info("status")
		}
	}
}
