// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing simulations.
//
package simtest

import (
	"testing"

	"github.com/db47h/simrt"
	"github.com/db47h/simrt/trace"
)

// A BuildFn assembles one module instance into s, creating whatever
// register arrays it needs and registering them as tickers, and returns
// the module. It must not schedule events; the caller owns the schedule.
//
type BuildFn func(t *testing.T, s *simrt.Simulator) simrt.Module

// Run builds a simulator around the module returned by build, seeds its
// event queue from the schedule specification, runs the simulation and
// returns the recorded trace along with the run stats. The tracer of cfg
// is replaced by the returned recorder. Any setup or run error fails t.
//
func Run(t *testing.T, cfg simrt.Config, schedule string, build BuildFn) (*trace.Recorder, simrt.Stats) {
	t.Helper()

	rec := &trace.Recorder{}
	cfg.Tracer = rec
	s, err := simrt.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	m := build(t, s)
	if err := s.Add(m); err != nil {
		t.Fatal(err)
	}
	stamps, err := simrt.ParseSchedule(schedule)
	if err != nil {
		t.Fatal(err)
	}
	for _, at := range stamps {
		if err := s.Schedule(m.Name(), at); err != nil {
			t.Fatal(err)
		}
	}
	st, err := s.Run()
	if err != nil {
		t.Fatal(err)
	}
	return rec, st
}

// CompareModules runs two module implementations over the same schedule
// and fails t where their observable behavior diverges: logged output by
// stamp and text, committed register writes by stamp, cell and value, and
// the final run stats. Module and array names may differ between the two
// implementations; source lines of log output are ignored.
//
func CompareModules(t *testing.T, cfg simrt.Config, schedule string, build1, build2 BuildFn) {
	t.Helper()

	r1, st1 := Run(t, cfg, schedule, build1)
	r2, st2 := Run(t, cfg, schedule, build2)

	if st1 != st2 {
		t.Fatalf("\nExpected stats %+v\nGot %+v", st1, st2)
	}
	if len(r1.Entries) != len(r2.Entries) {
		t.Fatalf("logged %d lines, expected %d", len(r2.Entries), len(r1.Entries))
	}
	for i, e1 := range r1.Entries {
		e2 := r2.Entries[i]
		if e1.Stamp != e2.Stamp || e1.Text != e2.Text {
			t.Fatalf("\nExpected log line %d: @%d %q\nGot @%d %q", i, e1.Stamp, e1.Text, e2.Stamp, e2.Text)
		}
	}
	if len(r1.Changes) != len(r2.Changes) {
		t.Fatalf("committed %d writes, expected %d", len(r2.Changes), len(r1.Changes))
	}
	for i, c1 := range r1.Changes {
		c2 := r2.Changes[i]
		if c1.Stamp != c2.Stamp || c1.Index != c2.Index || c1.Value != c2.Value {
			t.Fatalf("\nExpected commit %d: @%d [%d]=%s\nGot @%d [%d]=%s",
				i, c1.Stamp, c1.Index, c1.Value, c2.Stamp, c2.Index, c2.Value)
		}
	}
	if r1.Halted != r2.Halted {
		t.Fatalf("halted = %v, expected %v", r2.Halted, r1.Halted)
	}
}
