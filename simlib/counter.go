// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simlib provides a library of reusable modules for simrt.
//
// Copyright 2026 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package simlib

import "github.com/db47h/simrt"

// A Counter is the self incrementing driver module of generated counter
// designs.
//
//	State: one cell of a 32 bit register array
//	Function: cell(t+1) = cell(t) + 1 // mod 2^32
//
// On every triggered execution the Counter reads its cell, stages the
// incremented value for the commit point of the current slot, and logs the
// value the cell still holds. Staged writes only commit when the array
// ticks, so the logged value always lags the staged one by a tick. A
// Counter never fails its execution.
//
type Counter struct {
	name   string
	cnt    *simrt.RegArray[uint32]
	slot   simrt.Stamp
	offset simrt.Stamp
}

// NewCounter returns a Counter incrementing cell 0 of cnt through write
// port 0. slot and offset place the commit stamp of each increment at the
// start of the current slot plus offset; zero values assume the scheduler
// defaults.
//
func NewCounter(name string, cnt *simrt.RegArray[uint32], slot, offset simrt.Stamp) *Counter {
	if slot == 0 {
		slot = simrt.DefaultSlot
	}
	if offset == 0 {
		offset = simrt.DefaultCommitOffset
	}
	return &Counter{name: name, cnt: cnt, slot: slot, offset: offset}
}

// Name implements simrt.Module.
//
func (c *Counter) Name() string { return c.name }

// Run implements simrt.Module.
//
func (c *Counter) Run(s *simrt.Simulator) bool {
	now := s.Now()
	v := c.cnt.Read(0) + 1 // wraps at 2^32
	c.cnt.Write(0, simrt.Write[uint32]{
		Stamp:  now - now%c.slot + c.offset,
		Index:  0,
		Value:  v,
		Writer: c.name,
	})
	s.Logf(c.name, "%s: %d", c.cnt.Name(), c.cnt.Read(0))
	return true
}
