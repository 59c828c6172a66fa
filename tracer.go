// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simrt

// A Tracer observes a running simulation. The trace package provides
// implementations for console output, in-memory recording and SQLite
// storage; a simulation configured without a tracer runs silent.
//
// The scheduler is single threaded, so Tracer implementations need no
// locking of their own.
//
type Tracer interface {
	// Log records one line of module output. line is the source line the
	// output was emitted from.
	Log(now Stamp, line int, module, text string)
	// Commit records a committed register write. now is the commit time;
	// c.Stamp holds the stamp the write was staged for.
	Commit(now Stamp, c Change)
	// Idle records the early stop of a run after count consecutive ticks
	// without a triggered module.
	Idle(now Stamp, count int)
}

type nopTracer struct{}

func (nopTracer) Log(Stamp, int, string, string) {}
func (nopTracer) Commit(Stamp, Change)           {}
func (nopTracer) Idle(Stamp, int)                {}
