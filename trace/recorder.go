// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package trace

import "github.com/db47h/simrt"

// An Entry is one recorded line of module output.
//
type Entry struct {
	Stamp  simrt.Stamp
	Line   int
	Module string
	Text   string
}

// A Recorder captures trace events in memory, in emission order. It is
// meant for tests and post-run verification.
//
type Recorder struct {
	Entries []Entry
	Changes []simrt.Change
	// Halted reports an idle stop; HaltStamp is the stamp it happened at.
	Halted    bool
	HaltStamp simrt.Stamp
}

// Log implements simrt.Tracer.
//
func (r *Recorder) Log(now simrt.Stamp, line int, module, text string) {
	r.Entries = append(r.Entries, Entry{Stamp: now, Line: line, Module: module, Text: text})
}

// Commit implements simrt.Tracer.
//
func (r *Recorder) Commit(now simrt.Stamp, c simrt.Change) {
	r.Changes = append(r.Changes, c)
}

// Idle implements simrt.Tracer.
//
func (r *Recorder) Idle(now simrt.Stamp, count int) {
	r.Halted = true
	r.HaltStamp = now
}
