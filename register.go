// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simrt

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// A Write stages a value for one cell of a register array. The value
// becomes readable once the array ticks at or past Stamp.
//
type Write[T any] struct {
	// Stamp is the simulated time the write commits at.
	Stamp Stamp
	// Index is the target cell.
	Index int
	// Value is the value to commit.
	Value T
	// Writer names the module that issued the write.
	Writer string
}

// A Change records one committed register write, as reported by a Ticker
// to the simulation tracer. Value carries the committed value already
// formatted, so tracers need not know the element type of the array.
//
type Change struct {
	Array  string
	Stamp  Stamp
	Index  int
	Value  string
	Writer string
}

// A RegArray is a register file of cells of type T with write staging and
// stamped commits. Reads return the last committed value of a cell; writes
// stage through a write port and commit when the array ticks at or past
// the stamp of the write. All cells start at the zero value of T.
//
// RegArray methods panic on out of range cells and ports: both are fixed
// when the design is generated, so a bad index is a programming error and
// not a runtime condition.
//
type RegArray[T any] struct {
	name    string
	payload []T
	pending []Write[T] // ordered by stamp, staging order breaking ties
	ports   int
}

// NewRegArray returns a register array with size cells and the given
// number of write ports.
//
func NewRegArray[T any](name string, size, ports int) (*RegArray[T], error) {
	if name == "" {
		return nil, errors.New("register array has no name")
	}
	if size < 1 {
		return nil, errors.Errorf("register array %s: size %d below 1", name, size)
	}
	if ports < 1 {
		return nil, errors.Errorf("register array %s: %d write ports below 1", name, ports)
	}
	return &RegArray[T]{
		name:    name,
		payload: make([]T, size),
		ports:   ports,
	}, nil
}

// Name returns the array name used in trace records.
//
func (a *RegArray[T]) Name() string { return a.name }

// Size returns the number of cells.
//
func (a *RegArray[T]) Size() int { return len(a.payload) }

// Read returns the last committed value of the given cell. Writes staged
// for the current tick are not visible until the array ticks.
//
func (a *RegArray[T]) Read(index int) T {
	if index < 0 || index >= len(a.payload) {
		panic("cell " + strconv.Itoa(index) + " does not exist in register array " + a.name)
	}
	return a.payload[index]
}

// Write stages w through the given write port. Staged writes commit on the
// first Tick at or past their stamp, in stamp order with staging order
// breaking ties, so of two writes to the same cell committing on the same
// tick the later one wins.
//
func (a *RegArray[T]) Write(port int, w Write[T]) {
	if port < 0 || port >= a.ports {
		panic("write port " + strconv.Itoa(port) + " does not exist on register array " + a.name)
	}
	if w.Index < 0 || w.Index >= len(a.payload) {
		panic("cell " + strconv.Itoa(w.Index) + " does not exist in register array " + a.name)
	}
	// stable insert: keep pending ordered by stamp, preserving staging
	// order between equal stamps
	i := len(a.pending)
	for i > 0 && a.pending[i-1].Stamp > w.Stamp {
		i--
	}
	a.pending = append(a.pending, Write[T]{})
	copy(a.pending[i+1:], a.pending[i:])
	a.pending[i] = w
}

// Tick commits every staged write whose stamp is at or before now and
// reports the committed writes in commit order. Writes staged for a later
// stamp stay pending.
//
func (a *RegArray[T]) Tick(now Stamp) []Change {
	n := 0
	for n < len(a.pending) && a.pending[n].Stamp <= now {
		n++
	}
	if n == 0 {
		return nil
	}
	changes := make([]Change, n)
	for i, w := range a.pending[:n] {
		a.payload[w.Index] = w.Value
		changes[i] = Change{
			Array:  a.name,
			Stamp:  w.Stamp,
			Index:  w.Index,
			Value:  fmt.Sprint(w.Value),
			Writer: w.Writer,
		}
	}
	a.pending = a.pending[:copy(a.pending, a.pending[n:])]
	return changes
}
