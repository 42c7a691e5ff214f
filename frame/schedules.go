// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import "github.com/denpamusic/pyplumio/bytesio"

// ScheduleKind enumerates the weekly schedules the controller tracks.
type ScheduleKind uint8

// Recognised ScheduleKind values. The controller firmware's full catalogue
// is manufacturer documentation this port does not have; new kinds can be
// added here without touching the wire codec, which treats the byte
// opaquely.
const (
	ScheduleHeating ScheduleKind = iota
	ScheduleWater
)

// slotsPerDay is the half-hour resolution bitfield width, §3/§4.3.
const slotsPerDay = 48

// DaySchedule is one weekday's 48 half-hour on/off slots.
type DaySchedule [slotsPerDay]bool

// WeekSchedule holds all seven days, indexed Monday=0 .. Sunday=6.
type WeekSchedule [7]DaySchedule

// ScheduleEntry is one named schedule's full wire representation: its
// weekly bitfield plus the switch bit and parameter byte that ride
// alongside it, §4.3.
type ScheduleEntry struct {
	Kind      ScheduleKind
	Week      WeekSchedule
	Switch    bool
	Parameter uint8
}

func decodeDaySchedule(r *bytesio.Reader) (DaySchedule, error) {
	var day DaySchedule
	raw, err := r.ReadBytes(slotsPerDay / 8)
	if err != nil {
		return day, err
	}
	br := bytesio.NewBitReader(raw)
	bits, err := br.ReadBits(slotsPerDay)
	if err != nil {
		return day, err
	}
	copy(day[:], bits)
	return day, nil
}

func encodeDaySchedule(w *bytesio.Writer, day DaySchedule) {
	bw := bytesio.NewBitWriter()
	bw.WriteBits(day[:])
	w.WriteBytes(bw.Bytes())
}

func decodeScheduleEntry(r *bytesio.Reader) (ScheduleEntry, error) {
	var e ScheduleEntry
	kind, err := r.ReadByte()
	if err != nil {
		return e, err
	}
	e.Kind = ScheduleKind(kind)
	for day := 0; day < 7; day++ {
		ds, err := decodeDaySchedule(r)
		if err != nil {
			return e, err
		}
		e.Week[day] = ds
	}
	sw, err := r.ReadByte()
	if err != nil {
		return e, err
	}
	e.Switch = sw != 0
	if e.Parameter, err = r.ReadByte(); err != nil {
		return e, err
	}
	return e, nil
}

func encodeScheduleEntry(w *bytesio.Writer, e ScheduleEntry) {
	w.WriteByte(byte(e.Kind))
	for day := 0; day < 7; day++ {
		encodeDaySchedule(w, e.Week[day])
	}
	if e.Switch {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
	w.WriteByte(e.Parameter)
}

// SchedulesRequest asks the controller for its full set of schedules.
type SchedulesRequest struct{}

func (*SchedulesRequest) FrameType() Type            { return TypeSchedules }
func (*SchedulesRequest) decode(r *bytesio.Reader) error { return nil }
func (*SchedulesRequest) encode(w *bytesio.Writer)       {}

// SchedulesResponse carries the controller's full set of schedules.
type SchedulesResponse struct {
	Schedules []ScheduleEntry
}

func (*SchedulesResponse) FrameType() Type { return ResponseType(TypeSchedules) }

func (s *SchedulesResponse) decode(r *bytesio.Reader) error {
	count, err := r.ReadByte()
	if err != nil {
		return err
	}
	s.Schedules = make([]ScheduleEntry, 0, count)
	for i := 0; i < int(count); i++ {
		e, err := decodeScheduleEntry(r)
		if err != nil {
			return err
		}
		s.Schedules = append(s.Schedules, e)
	}
	return nil
}

func (s *SchedulesResponse) encode(w *bytesio.Writer) {
	w.WriteByte(byte(len(s.Schedules)))
	for _, e := range s.Schedules {
		encodeScheduleEntry(w, e)
	}
}

// SetScheduleRequest writes back the full set of schedules. §4.5/§9 Open
// Question 1: the wire protocol has no way to update a single schedule, so
// Schedule.Commit always resends every schedule the device last observed,
// changed or not.
type SetScheduleRequest struct {
	Schedules []ScheduleEntry
}

func (*SetScheduleRequest) FrameType() Type { return TypeSetSchedule }

func (s *SetScheduleRequest) decode(r *bytesio.Reader) error {
	resp := SchedulesResponse{}
	if err := resp.decode(r); err != nil {
		return err
	}
	s.Schedules = resp.Schedules
	return nil
}

func (s *SetScheduleRequest) encode(w *bytesio.Writer) {
	(&SchedulesResponse{Schedules: s.Schedules}).encode(w)
}
