// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simrt

import "github.com/pkg/errors"

// A Stamp is a point in simulated time, in abstract time units.
//
type Stamp uint64

// Cycles converts the stamp to fractional scheduler cycles for the given
// slot width. A zero slot assumes DefaultSlot.
//
func (s Stamp) Cycles(slot Stamp) float64 {
	if slot == 0 {
		slot = DefaultSlot
	}
	return float64(s) / float64(slot)
}

// Scheduler defaults. They reproduce the harness emitted for generated
// designs: 100 iterations over 100 unit slots, registers committing 50
// units past each slot, early stop after 100 consecutive idle ticks.
const (
	DefaultCycles        = 100
	DefaultSlot          = 100
	DefaultCommitOffset  = 50
	DefaultIdleThreshold = 100
)

// Config parameterizes a Simulator. The zero value of a field assumes its
// default, so a literal zero cannot be configured.
//
type Config struct {
	// Cycles bounds the number of scheduler iterations.
	Cycles uint64
	// Slot is the simulated-time distance between scheduling slots. On
	// iteration i simulated time starts at i*Slot.
	Slot Stamp
	// CommitOffset is how far past the slot simulated time advances before
	// registers commit. It must be smaller than Slot so that time never
	// moves backwards between iterations.
	CommitOffset Stamp
	// IdleThreshold is the number of consecutive iterations without any
	// triggered module after which the run stops early.
	IdleThreshold int
	// Tracer receives module output, committed register writes and the
	// idle stop notice. Nil disables tracing.
	Tracer Tracer
}

func (c Config) withDefaults() Config {
	if c.Cycles == 0 {
		c.Cycles = DefaultCycles
	}
	if c.Slot == 0 {
		c.Slot = DefaultSlot
	}
	if c.CommitOffset == 0 {
		c.CommitOffset = DefaultCommitOffset
	}
	if c.IdleThreshold == 0 {
		c.IdleThreshold = DefaultIdleThreshold
	}
	if c.Tracer == nil {
		c.Tracer = nopTracer{}
	}
	return c
}

func (c Config) validate() error {
	if c.CommitOffset >= c.Slot {
		return errors.Errorf("commit offset %d not below slot %d", c.CommitOffset, c.Slot)
	}
	if c.IdleThreshold < 0 {
		return errors.Errorf("negative idle threshold %d", c.IdleThreshold)
	}
	return nil
}

// Stats describes a completed run.
//
type Stats struct {
	// Ticks is the number of scheduler iterations entered.
	Ticks uint64
	// Triggered is the number of successful module executions.
	Triggered uint64
	// Idle reports whether the run stopped early at the idle threshold.
	Idle bool
	// Stamp is the simulated time the run stopped at.
	Stamp Stamp
}
