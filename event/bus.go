// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package event is a small publish/subscribe bus that package device
// publishes sensor and regulator-data updates onto, with a filter
// pipeline (OnChange, Throttle, Debounce, Delta, Aggregate, Custom) a
// subscriber can compose to shape delivery, §6.
package event

import (
	"sync"
	"sync/atomic"
)

// Topic names a category of published values.
type Topic string

// Topics package device publishes on.
const (
	TopicSensorData    Topic = "sensor_data"
	TopicRegulatorData Topic = "regulator_data"
)

// Handler receives one published value.
type Handler func(value interface{})

// Filter wraps a Handler to shape when/how it is actually invoked; see
// OnChange, Throttle, Debounce, Delta, Aggregate and Custom.
type Filter func(next Handler) Handler

// Bus is a fan-out publish/subscribe registry. The zero value is not
// usable; construct with NewBus.
type Bus struct {
	mu      sync.RWMutex
	subs    map[Topic][]*subscription
	counter uint64
}

type subscription struct {
	id      uint64
	handler Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: map[Topic][]*subscription{}}
}

// Subscription unsubscribes a Handler previously registered with
// Bus.Subscribe.
type Subscription struct {
	bus   *Bus
	topic Topic
	id    uint64
}

// Unsubscribe removes the handler. Safe to call more than once.
func (s Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	subs := s.bus.subs[s.topic]
	for i, sub := range subs {
		if sub.id == s.id {
			s.bus.subs[s.topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Subscribe registers handler on topic, wrapped by filters in the order
// given (the first filter is the outermost, seeing every publish before
// deciding whether to call the next one). It returns a Subscription that
// can later Unsubscribe.
func (b *Bus) Subscribe(topic Topic, handler Handler, filters ...Filter) Subscription {
	wrapped := handler
	for i := len(filters) - 1; i >= 0; i-- {
		wrapped = filters[i](wrapped)
	}

	id := atomic.AddUint64(&b.counter, 1)
	sub := &subscription{id: id, handler: wrapped}

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	return Subscription{bus: b, topic: topic, id: id}
}

// SubscribeOnce registers handler on topic like Subscribe, but
// unsubscribes it after its first delivery, §4.6. It is implemented as a
// filter-chain wrapper that unsubscribes itself from inside its own
// callback, rather than as separate Bus bookkeeping.
func (b *Bus) SubscribeOnce(topic Topic, handler Handler, filters ...Filter) Subscription {
	var (
		mu  sync.Mutex
		sub Subscription
	)
	once := func(value interface{}) {
		handler(value)
		mu.Lock()
		s := sub
		mu.Unlock()
		s.Unsubscribe()
	}

	mu.Lock()
	sub = b.Subscribe(topic, once, filters...)
	mu.Unlock()
	return sub
}

// Publish delivers value to every current subscriber of topic, in
// registration order. Publish does not block on slow subscribers beyond
// calling their Handler synchronously; a subscriber that needs to do
// slow work should hand off to its own goroutine.
func (b *Bus) Publish(topic Topic, value interface{}) {
	b.mu.RLock()
	subs := make([]*subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(value)
	}
}
