// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package protocol

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

var errFetchFailed = errors.New("protocol: fetch failed")

type fakeFetcher struct {
	name string
	deps []string
	fn   func() error
}

func (f *fakeFetcher) String() string          { return f.name }
func (f *fakeFetcher) Prerequisites() []string { return f.deps }
func (f *fakeFetcher) Fetch(ctx context.Context) error {
	if f.fn != nil {
		return f.fn()
	}
	return nil
}

func TestRegistryRunsOnlyStaleFetchers(t *testing.T) {
	r := NewRegistry()
	var mu sync.Mutex
	ran := map[string]bool{}
	record := func(name string) func() error {
		return func() error {
			mu.Lock()
			ran[name] = true
			mu.Unlock()
			return nil
		}
	}
	r.MustRegister(&fakeFetcher{name: "a", fn: record("a")})
	r.MustRegister(&fakeFetcher{name: "b", fn: record("b")})

	failures, err := r.RunStale(context.Background(), map[string]struct{}{"a": {}})
	if err != nil {
		t.Fatal(err)
	}
	if len(failures) != 0 {
		t.Fatalf("got failures %+v", failures)
	}
	if !ran["a"] || ran["b"] {
		t.Fatalf("got ran=%v, want only a", ran)
	}
}

func TestRegistryRespectsDependencyOrder(t *testing.T) {
	r := NewRegistry()
	var mu sync.Mutex
	var order []string
	record := func(name string) func() error {
		return func() error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}
	r.MustRegister(&fakeFetcher{name: "schema", fn: record("schema")})
	r.MustRegister(&fakeFetcher{name: "data", deps: []string{"schema"}, fn: record("data")})

	_, err := r.RunStale(context.Background(), map[string]struct{}{"schema": {}, "data": {}})
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "schema" || order[1] != "data" {
		t.Fatalf("got order %v, want [schema data]", order)
	}
}

func TestRegistryReportsFetchFailure(t *testing.T) {
	r := NewRegistry()
	wantErr := errFetchFailed
	r.MustRegister(&fakeFetcher{name: "a", fn: func() error { return wantErr }})

	failures, err := r.RunStale(context.Background(), map[string]struct{}{"a": {}})
	if err != nil {
		t.Fatal(err)
	}
	if len(failures) != 1 || failures[0].F.String() != "a" {
		t.Fatalf("got %+v", failures)
	}
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&fakeFetcher{name: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&fakeFetcher{name: "a"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestRegistryRejectsUnknownStaleName(t *testing.T) {
	r := NewRegistry()
	if _, err := r.RunStale(context.Background(), map[string]struct{}{"ghost": {}}); err == nil {
		t.Fatal("expected an error for an unregistered fetcher name")
	}
}
