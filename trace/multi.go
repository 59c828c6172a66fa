// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import "github.com/db47h/simrt"

// Multi returns a Tracer that forwards every event to each of the given
// tracers, in argument order.
//
func Multi(tracers ...simrt.Tracer) simrt.Tracer {
	return multi(tracers)
}

type multi []simrt.Tracer

func (m multi) Log(now simrt.Stamp, line int, module, text string) {
	for _, t := range m {
		t.Log(now, line, module, text)
	}
}

func (m multi) Commit(now simrt.Stamp, c simrt.Change) {
	for _, t := range m {
		t.Commit(now, c)
	}
}

func (m multi) Idle(now simrt.Stamp, count int) {
	for _, t := range m {
		t.Idle(now, count)
	}
}
