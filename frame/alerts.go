// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"time"

	"github.com/denpamusic/pyplumio/bytesio"
)

// alertEndSentinel marks an alert with no recorded end time (still
// active), §4.3.
const alertEndSentinel = 0xffffffff

// Alert is a single logged controller fault, §4.3.
type Alert struct {
	Code uint8
	From time.Time
	To   time.Time // zero value if the alert is still active
}

// AlertsRequest asks for a page of the controller's alert log.
type AlertsRequest struct {
	Start uint8
	Count uint8
}

func (*AlertsRequest) FrameType() Type { return TypeAlerts }

func (a *AlertsRequest) decode(r *bytesio.Reader) error {
	var err error
	if a.Start, err = r.ReadByte(); err != nil {
		return err
	}
	a.Count, err = r.ReadByte()
	return err
}

func (a *AlertsRequest) encode(w *bytesio.Writer) {
	w.WriteByte(a.Start)
	w.WriteByte(a.Count)
}

// AlertsResponse carries a page of the controller's alert log, §4.3.
type AlertsResponse struct {
	Start  uint8
	Total  uint8
	Alerts []Alert
}

func (*AlertsResponse) FrameType() Type { return ResponseType(TypeAlerts) }

func (a *AlertsResponse) decode(r *bytesio.Reader) error {
	var err error
	if a.Start, err = r.ReadByte(); err != nil {
		return err
	}
	if a.Total, err = r.ReadByte(); err != nil {
		return err
	}
	count, err := r.ReadByte()
	if err != nil {
		return err
	}
	a.Alerts = make([]Alert, 0, count)
	for i := 0; i < int(count); i++ {
		code, err := r.ReadByte()
		if err != nil {
			return err
		}
		from, err := r.ReadTimestamp()
		if err != nil {
			return err
		}
		toRaw, err := r.ReadUint32()
		if err != nil {
			return err
		}
		toMs, err := r.ReadUint16()
		if err != nil {
			return err
		}
		var to time.Time
		if toRaw != alertEndSentinel {
			to = time.Unix(int64(toRaw), int64(toMs)*int64(time.Millisecond)).UTC()
		}
		a.Alerts = append(a.Alerts, Alert{Code: code, From: from, To: to})
	}
	return nil
}

func (a *AlertsResponse) encode(w *bytesio.Writer) {
	w.WriteByte(a.Start)
	w.WriteByte(a.Total)
	w.WriteByte(byte(len(a.Alerts)))
	for _, alert := range a.Alerts {
		w.WriteByte(alert.Code)
		w.WriteTimestamp(alert.From)
		if alert.To.IsZero() {
			w.WriteUint32(alertEndSentinel)
			w.WriteUint16(0)
		} else {
			w.WriteTimestamp(alert.To)
		}
	}
}
