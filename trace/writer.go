// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package trace provides Tracer implementations for simrt simulations:
// console text output, an in-memory recorder, a SQLite backed store, and a
// fan-out combinator to drive several tracers at once.
package trace

import (
	"fmt"
	"io"

	"github.com/db47h/simrt"
)

// A Writer renders module output as text, one line per log entry, in the
// format printed by generated simulators:
//
//	@line:85    Cycle @1.00: [Driver]	cnt: 0
//
// Committed register writes are not part of the console format and are
// ignored. The idle stop prints a final notice line.
//
type Writer struct {
	out  io.Writer
	slot simrt.Stamp
}

// NewWriter returns a Writer printing to out. slot is the scheduling slot
// width used to convert stamps to cycles; 0 assumes simrt.DefaultSlot.
//
func NewWriter(out io.Writer, slot simrt.Stamp) *Writer {
	if slot == 0 {
		slot = simrt.DefaultSlot
	}
	return &Writer{out: out, slot: slot}
}

// Log implements simrt.Tracer.
//
func (w *Writer) Log(now simrt.Stamp, line int, module, text string) {
	fmt.Fprintf(w.out, "@line:%-5d %-10s: [%s]\t%s\n", line, w.cycle(now), module, text)
}

// Commit implements simrt.Tracer. It is a no-op.
//
func (w *Writer) Commit(simrt.Stamp, simrt.Change) {}

// Idle implements simrt.Tracer.
//
func (w *Writer) Idle(now simrt.Stamp, count int) {
	fmt.Fprintf(w.out, "Simulation stopped due to reaching idle threshold of %d\n", count)
}

func (w *Writer) cycle(now simrt.Stamp) string {
	return fmt.Sprintf("Cycle @%.2f", now.Cycles(w.slot))
}
