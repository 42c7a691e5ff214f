// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"testing"
	"time"
)

func TestAlertsRoundTripActiveAndClosed(t *testing.T) {
	from := time.Unix(1700000000, 0).UTC()
	to := time.Unix(1700003600, 0).UTC()
	f := &Frame{
		Recipient: AddressBroadcast,
		Sender:    AddressEcoMAX,
		Payload: &AlertsResponse{
			Start: 0,
			Total: 2,
			Alerts: []Alert{
				{Code: 1, From: from, To: to},
				{Code: 2, From: from},
			},
		},
	}
	got := roundTrip(t, f)
	resp, ok := got.Payload.(*AlertsResponse)
	if !ok {
		t.Fatalf("got payload type %T", got.Payload)
	}
	if len(resp.Alerts) != 2 {
		t.Fatalf("got %d alerts", len(resp.Alerts))
	}
	if !resp.Alerts[0].To.Equal(to) {
		t.Fatalf("got To %v want %v", resp.Alerts[0].To, to)
	}
	if !resp.Alerts[1].To.IsZero() {
		t.Fatalf("expected second alert still active, got %v", resp.Alerts[1].To)
	}
	if !resp.Alerts[1].From.Equal(from) {
		t.Fatalf("got From %v want %v", resp.Alerts[1].From, from)
	}
}
