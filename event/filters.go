// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package event

import (
	"reflect"
	"sync"
	"time"
)

// OnChange drops a publish that is reflect.DeepEqual to the last one
// delivered, so a subscriber only sees actual changes.
func OnChange() Filter {
	return func(next Handler) Handler {
		var (
			mu   sync.Mutex
			last interface{}
			seen bool
		)
		return func(value interface{}) {
			mu.Lock()
			if seen && reflect.DeepEqual(last, value) {
				mu.Unlock()
				return
			}
			last, seen = value, true
			mu.Unlock()
			next(value)
		}
	}
}

// Throttle delivers at most one publish per interval, keeping the first
// value seen in each window and dropping the rest.
func Throttle(interval time.Duration) Filter {
	return func(next Handler) Handler {
		var (
			mu   sync.Mutex
			last time.Time
		)
		return func(value interface{}) {
			mu.Lock()
			now := time.Now()
			if !last.IsZero() && now.Sub(last) < interval {
				mu.Unlock()
				return
			}
			last = now
			mu.Unlock()
			next(value)
		}
	}
}

// Debounce forwards a value only once the same value (by reflect.DeepEqual)
// has been presented minCalls consecutive times, §6 Filter Law
// "debounce(n) forwards only when the last n inputs are equal". Each
// subsequent repeat of the same value past the minCalls'th is dropped;
// a differing value resets the counter. minCalls < 1 is treated as 1.
func Debounce(minCalls int) Filter {
	if minCalls < 1 {
		minCalls = 1
	}
	return func(next Handler) Handler {
		var (
			mu    sync.Mutex
			last  interface{}
			seen  bool
			count int
		)
		return func(value interface{}) {
			mu.Lock()
			if seen && reflect.DeepEqual(last, value) {
				count++
			} else {
				last, seen, count = value, true, 1
			}
			n := count
			mu.Unlock()

			if n == minCalls {
				next(value)
			}
		}
	}
}

// Delta calls extract on each value and only delivers when it differs
// from the last delivered extraction by at least threshold.
func Delta(threshold float64, extract func(interface{}) float64) Filter {
	return func(next Handler) Handler {
		var (
			mu   sync.Mutex
			last float64
			seen bool
		)
		return func(value interface{}) {
			v := extract(value)
			mu.Lock()
			if seen {
				diff := v - last
				if diff < 0 {
					diff = -diff
				}
				if diff < threshold {
					mu.Unlock()
					return
				}
			}
			last, seen = v, true
			mu.Unlock()
			next(value)
		}
	}
}

// Aggregate batches every value published within window and delivers one
// call to next with combine applied to the batch when the window closes.
// An empty window at close time delivers nothing.
func Aggregate(window time.Duration, combine func([]interface{}) interface{}) Filter {
	return func(next Handler) Handler {
		var (
			mu      sync.Mutex
			batch   []interface{}
			timer   *time.Timer
		)
		flush := func() {
			mu.Lock()
			pending := batch
			batch = nil
			timer = nil
			mu.Unlock()
			if len(pending) > 0 {
				next(combine(pending))
			}
		}
		return func(value interface{}) {
			mu.Lock()
			batch = append(batch, value)
			if timer == nil {
				timer = time.AfterFunc(window, flush)
			}
			mu.Unlock()
		}
	}
}

// Custom only delivers values for which predicate returns true.
func Custom(predicate func(value interface{}) bool) Filter {
	return func(next Handler) Handler {
		return func(value interface{}) {
			if predicate(value) {
				next(value)
			}
		}
	}
}
