// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"context"
	"testing"

	"github.com/denpamusic/pyplumio/frame"
)

func TestScheduleSetDayThenCommitResendsFullWeek(t *testing.T) {
	var sent frame.ScheduleEntry
	initial := frame.ScheduleEntry{Kind: frame.ScheduleHeating, Switch: true, Parameter: 1}
	initial.Week[2][10] = true // Wednesday slot already on, untouched by this test

	s := newSchedule(frame.ScheduleHeating, initial, func(ctx context.Context, e frame.ScheduleEntry) error {
		sent = e
		return nil
	})

	var monday frame.DaySchedule
	monday[0] = true
	s.SetDay(0, monday)

	if err := s.Commit(context.Background()); err != nil {
		t.Fatal(err)
	}

	if !sent.Week[0][0] {
		t.Fatal("expected the newly set Monday slot to be resent")
	}
	if !sent.Week[2][10] {
		t.Fatal("expected the untouched Wednesday slot to still be present in the resend")
	}
	if !sent.Switch {
		t.Fatal("expected Switch to be resent")
	}
}

func TestScheduleSetEnabled(t *testing.T) {
	var sent frame.ScheduleEntry
	s := newSchedule(frame.ScheduleWater, frame.ScheduleEntry{Kind: frame.ScheduleWater, Switch: false},
		func(ctx context.Context, e frame.ScheduleEntry) error {
			sent = e
			return nil
		})

	s.SetEnabled(true)
	if err := s.Commit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !sent.Switch {
		t.Fatal("expected Switch=true to be committed")
	}
}

func TestScheduleSetOnMarksHalfHourRange(t *testing.T) {
	s := newSchedule(frame.ScheduleHeating, frame.ScheduleEntry{Kind: frame.ScheduleHeating}, nil)

	if err := s.SetOn(0, "06:00", "08:30"); err != nil {
		t.Fatal(err)
	}

	day := s.Day(0)
	for i := 12; i < 17; i++ {
		if !day[i] {
			t.Fatalf("expected slot %d to be on", i)
		}
	}
	if day[11] || day[17] {
		t.Fatalf("expected the range to stop exactly at 06:00-08:30, got %+v", day)
	}
}

func TestScheduleSetOffMarksHalfHourRange(t *testing.T) {
	var initial frame.DaySchedule
	for i := range initial {
		initial[i] = true
	}
	entry := frame.ScheduleEntry{Kind: frame.ScheduleWater}
	entry.Week[1] = initial
	s := newSchedule(frame.ScheduleWater, entry, nil)

	if err := s.SetOff(1, "22:00", "24:00"); err != nil {
		t.Fatal(err)
	}

	day := s.Day(1)
	if day[44] || day[47] {
		t.Fatal("expected 22:00-24:00 to be turned off")
	}
	if !day[43] {
		t.Fatal("expected the slot just before 22:00 to be untouched")
	}
}

func TestScheduleSetStateWrapsPastMidnight(t *testing.T) {
	s := newSchedule(frame.ScheduleHeating, frame.ScheduleEntry{Kind: frame.ScheduleHeating}, nil)

	if err := s.SetOn(6, "23:00", "01:00"); err != nil {
		t.Fatal(err)
	}

	sunday := s.Day(6)
	if !sunday[46] || !sunday[47] {
		t.Fatalf("expected 23:00-24:00 on Sunday to be on, got %+v", sunday)
	}
	monday := s.Day(0)
	if !monday[0] || !monday[1] {
		t.Fatalf("expected 00:00-01:00 on Monday to be on, got %+v", monday)
	}
	if monday[2] {
		t.Fatal("expected the wraparound range to stop at 01:00 on Monday")
	}
}

func TestScheduleSetStateRejectsUnalignedClock(t *testing.T) {
	s := newSchedule(frame.ScheduleHeating, frame.ScheduleEntry{Kind: frame.ScheduleHeating}, nil)

	if err := s.SetOn(0, "06:15", "07:00"); err == nil {
		t.Fatal("expected an error for a non-half-hour-aligned start")
	}
	if err := s.SetOn(7, "06:00", "07:00"); err == nil {
		t.Fatal("expected an error for an out-of-range weekday")
	}
}

func TestScheduleUpdateFromFetch(t *testing.T) {
	s := newSchedule(frame.ScheduleHeating, frame.ScheduleEntry{Kind: frame.ScheduleHeating}, nil)

	var week frame.WeekSchedule
	week[5][47] = true
	s.update(frame.ScheduleEntry{Kind: frame.ScheduleHeating, Week: week, Switch: true, Parameter: 9})

	if !s.Day(5)[47] {
		t.Fatal("expected updated bitfield to be visible via Day")
	}
}
