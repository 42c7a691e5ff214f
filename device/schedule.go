// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/denpamusic/pyplumio/frame"
)

// slotsPerDay is the number of half-hour slots a DaySchedule packs, §4.3.
const slotsPerDay = 48

// Schedule is one named weekly on/off program, §3/§4.3. The ecoNET wire
// protocol has no way to update a single day or slot: Commit always
// resends the entire WeekSchedule the controller last reported, changed
// entries and unchanged ones alike, §9 Open Question 1.
type Schedule struct {
	mu sync.Mutex

	kind      frame.ScheduleKind
	week      frame.WeekSchedule
	switchOn  bool
	parameter uint8

	send func(ctx context.Context, entry frame.ScheduleEntry) error
}

func newSchedule(kind frame.ScheduleKind, entry frame.ScheduleEntry, send func(context.Context, frame.ScheduleEntry) error) *Schedule {
	return &Schedule{kind: kind, week: entry.Week, switchOn: entry.Switch, parameter: entry.Parameter, send: send}
}

// Kind returns which weekly program this is (heating, water heater, ...).
func (s *Schedule) Kind() frame.ScheduleKind {
	return s.kind
}

// Day returns the 48-slot on/off bitfield for weekday (Monday=0..Sunday=6).
func (s *Schedule) Day(weekday int) frame.DaySchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week[weekday]
}

// SetDay replaces weekday's bitfield locally. Call Commit to push the
// change to the controller.
func (s *Schedule) SetDay(weekday int, day frame.DaySchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.week[weekday] = day
}

// SetEnabled toggles whether this schedule is active at all.
func (s *Schedule) SetEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.switchOn = on
}

// parseHalfHourSlot parses an "HH:MM" clock reading aligned to a half-hour
// boundary into its slot index (0..48), §4.3. "24:00" is accepted as the
// end-of-day sentinel and parses to 48.
func parseHalfHourSlot(clock string) (int, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, errors.Errorf("device: %q is not an HH:MM clock reading", clock)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 24 {
		return 0, errors.Errorf("device: %q has an invalid hour", clock)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || (minute != 0 && minute != 30) {
		return 0, errors.Errorf("device: %q is not aligned to a half-hour boundary", clock)
	}
	if hour == 24 && minute != 0 {
		return 0, errors.Errorf("device: %q is not a valid clock reading", clock)
	}
	return hour*2 + minute/30, nil
}

// SetState marks every half-hour slot in [start, end) as on within
// weekday's bitfield, wrapping past midnight into (weekday+1)%7 when end
// does not come after start, §4.5 S5. start and end are "HH:MM" strings on
// half-hour boundaries; "24:00" is a valid end meaning midnight. Call
// Commit to push the change to the controller.
func (s *Schedule) SetState(weekday int, start, end string, on bool) error {
	if weekday < 0 || weekday > 6 {
		return errors.Errorf("device: weekday %d out of range [0, 6]", weekday)
	}
	startIdx, err := parseHalfHourSlot(start)
	if err != nil {
		return err
	}
	if startIdx == slotsPerDay {
		return errors.Errorf("device: start %q cannot be 24:00", start)
	}
	endIdx, err := parseHalfHourSlot(end)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if endIdx > startIdx {
		for i := startIdx; i < endIdx; i++ {
			s.week[weekday][i] = on
		}
		return nil
	}

	// end does not come after start: the range wraps past midnight into
	// tomorrow.
	for i := startIdx; i < slotsPerDay; i++ {
		s.week[weekday][i] = on
	}
	tomorrow := (weekday + 1) % 7
	for i := 0; i < endIdx; i++ {
		s.week[tomorrow][i] = on
	}
	return nil
}

// SetOn marks [start, end) as on for weekday, §4.5 S5.
func (s *Schedule) SetOn(weekday int, start, end string) error {
	return s.SetState(weekday, start, end, true)
}

// SetOff marks [start, end) as off for weekday, §4.5 S5.
func (s *Schedule) SetOff(weekday int, start, end string) error {
	return s.SetState(weekday, start, end, false)
}

// Commit resends the full schedule, §4.5 S5.
func (s *Schedule) Commit(ctx context.Context) error {
	s.mu.Lock()
	entry := frame.ScheduleEntry{Kind: s.kind, Week: s.week, Switch: s.switchOn, Parameter: s.parameter}
	s.mu.Unlock()

	if err := s.send(ctx, entry); err != nil {
		return errors.Wrapf(err, "device: commit schedule %d", s.kind)
	}
	return nil
}

func (s *Schedule) update(entry frame.ScheduleEntry) {
	s.mu.Lock()
	s.week, s.switchOn, s.parameter = entry.Week, entry.Switch, entry.Parameter
	s.mu.Unlock()
}
