// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simlib

import "github.com/db47h/simrt"

// A Probe is an observer module: every triggered execution samples a value
// and logs it.
//
//	Function: log(sample(t))
//
// Registered downstream of the modules it observes, a Probe sees their
// same-tick effects on everything except registers, which keep their
// pre-commit values until the scheduler ticks them. A Probe never fails
// its execution.
//
type Probe struct {
	name   string
	sample func(s *simrt.Simulator) string
}

// NewProbe returns a Probe logging the text produced by sample.
//
func NewProbe(name string, sample func(s *simrt.Simulator) string) *Probe {
	return &Probe{name: name, sample: sample}
}

// Name implements simrt.Module.
//
func (p *Probe) Name() string { return p.name }

// Run implements simrt.Module.
//
func (p *Probe) Run(s *simrt.Simulator) bool {
	s.Logf(p.name, "%s", p.sample(s))
	return true
}
