// Copyright 2026 The pyplumio-go Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package protocol

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Fetcher refreshes one slice of device state guarded by a FrameVersions
// counter, §4.4. Ecomax/Mixer/Thermostat parameter sets, schedules, alerts
// and the regulator-data schema each register a Fetcher; a version bump in
// a FrameVersions map marks the matching name stale and the driver re-runs
// exactly the stale fetchers, in dependency order.
type Fetcher interface {
	// String names the fetcher, must be unique within a Registry.
	String() string
	// Prerequisites lists fetcher names that must have already completed
	// (regardless of staleness) before this one runs, e.g. RegulatorData
	// depends on RegulatorDataSchema.
	Prerequisites() []string
	// Fetch asks the controller to refresh this fetcher's state.
	Fetch(ctx context.Context) error
}

// FetchFailure pairs a Fetcher with the error it returned.
type FetchFailure struct {
	F   Fetcher
	Err error
}

func (f FetchFailure) String() string {
	return fmt.Sprintf("%s: %v", f.F, f.Err)
}

// Registry holds the fetchers registered for one device and runs a given
// stale subset in dependency-respecting concurrent stages: this is the
// same driver-registry shape a host bus library uses to initialise
// hardware drivers in prerequisite order, repurposed here for refreshing
// device state instead of loading drivers once at startup.
type Registry struct {
	mu     sync.Mutex
	byName map[string]Fetcher
	order  []Fetcher
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]Fetcher{}}
}

// Register adds f to the registry. f.String() must be unique.
func (r *Registry) Register(f Fetcher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := f.String()
	if _, ok := r.byName[n]; ok {
		return errors.Errorf("protocol: fetcher %q already registered", n)
	}
	r.byName[n] = f
	r.order = append(r.order, f)
	return nil
}

// MustRegister calls Register and panics on error; meant for use from a
// device constructor, mirroring a driver's package init() pattern.
func (r *Registry) MustRegister(f Fetcher) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// RunStale runs every fetcher named in stale, plus any prerequisite not
// itself stale is assumed already satisfied (its last successful run still
// holds), honouring dependency order between the stale set. It returns one
// FetchFailure per fetcher whose Fetch call returned an error; fetchers
// downstream of a failed prerequisite are skipped and reported too.
func (r *Registry) RunStale(ctx context.Context, stale map[string]struct{}) ([]FetchFailure, error) {
	r.mu.Lock()
	fetchers := make([]Fetcher, 0, len(stale))
	for name := range stale {
		f, ok := r.byName[name]
		if !ok {
			r.mu.Unlock()
			return nil, errors.Errorf("protocol: unknown fetcher %q", name)
		}
		fetchers = append(fetchers, f)
	}
	r.mu.Unlock()

	stages, err := explodeStages(fetchers)
	if err != nil {
		return nil, err
	}

	var failures []FetchFailure
	satisfied := map[string]struct{}{}
	for _, stage := range stages {
		var runnable []Fetcher
	next:
		for _, f := range stage {
			for _, dep := range f.Prerequisites() {
				_, inRun := stale[dep]
				if _, ok := satisfied[dep]; inRun && !ok {
					failures = append(failures, FetchFailure{F: f, Err: errors.Errorf("protocol: prerequisite %q failed", dep)})
					continue next
				}
			}
			runnable = append(runnable, f)
		}
		stageFailures := runStage(ctx, runnable, satisfied)
		failures = append(failures, stageFailures...)
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].F.String() < failures[j].F.String() })
	return failures, nil
}

// explodeStages groups fetchers so that every prerequisite of a fetcher in
// stage N appears in some stage < N. Prerequisites not present in the
// input set are assumed already satisfied and impose no ordering.
func explodeStages(fetchers []Fetcher) ([][]Fetcher, error) {
	present := map[string]struct{}{}
	for _, f := range fetchers {
		present[f.String()] = struct{}{}
	}

	remaining := map[string]map[string]struct{}{}
	for _, f := range fetchers {
		deps := map[string]struct{}{}
		for _, dep := range f.Prerequisites() {
			if _, ok := present[dep]; ok {
				deps[dep] = struct{}{}
			}
		}
		remaining[f.String()] = deps
	}

	byName := map[string]Fetcher{}
	for _, f := range fetchers {
		byName[f.String()] = f
	}

	var stages [][]Fetcher
	for len(remaining) != 0 {
		var stageNames []string
		for name, deps := range remaining {
			if len(deps) == 0 {
				stageNames = append(stageNames, name)
			}
		}
		if len(stageNames) == 0 {
			return nil, errors.Errorf("protocol: cycle in fetcher prerequisites: %v", remaining)
		}
		sort.Strings(stageNames)

		var stage []Fetcher
		for _, name := range stageNames {
			stage = append(stage, byName[name])
			delete(remaining, name)
		}
		stages = append(stages, stage)

		for _, passed := range stageNames {
			for name := range remaining {
				delete(remaining[name], passed)
			}
		}
	}
	return stages, nil
}

// runStage runs every fetcher in stage concurrently, marking each as
// satisfied only on success so later stages can detect a failed
// prerequisite.
func runStage(ctx context.Context, stage []Fetcher, satisfied map[string]struct{}) []FetchFailure {
	var (
		mu       sync.Mutex
		failures []FetchFailure
		wg       sync.WaitGroup
	)
	for _, f := range stage {
		wg.Add(1)
		go func(f Fetcher) {
			defer wg.Done()
			if err := f.Fetch(ctx); err != nil {
				mu.Lock()
				failures = append(failures, FetchFailure{F: f, Err: err})
				mu.Unlock()
				return
			}
			mu.Lock()
			satisfied[f.String()] = struct{}{}
			mu.Unlock()
		}(f)
	}
	wg.Wait()
	return failures
}
