// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simrt

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// A Module is a simulated hardware module. The scheduler calls Run on every
// tick where the module's front event has come due. Run reports whether the
// module completed its work for that event: on true the event is consumed,
// on false it stays queued and the module is run again on the next tick.
//
// Run executes with simulated time set to the current tick stamp and must
// only observe it through the Simulator it is given.
//
type Module interface {
	Name() string
	Run(s *Simulator) bool
}

// ModuleFunc wraps a plain function into a Module.
//
func ModuleFunc(name string, fn func(s *Simulator) bool) Module {
	return &funcModule{name: name, fn: fn}
}

type funcModule struct {
	name string
	fn   func(s *Simulator) bool
}

func (m *funcModule) Name() string          { return m.name }
func (m *funcModule) Run(s *Simulator) bool { return m.fn(s) }

// A Ticker commits staged state when simulated time advances. Register
// arrays implement Ticker; the scheduler ticks every registered Ticker once
// per iteration, after all modules have run and time has moved to the
// commit point.
//
type Ticker interface {
	Name() string
	Tick(now Stamp) []Change
}

// A Resetter is an external resource, such as a memory model, that must be
// returned to a neutral state at the end of every scheduler iteration.
//
type Resetter interface {
	Reset()
}

// moduleState pairs a registered module with its scheduling state.
type moduleState struct {
	mod       Module
	events    eventQueue
	triggered bool // module ran successfully on the current tick
}

// Simulator is a runnable simulation. It owns simulated time: modules read
// the current stamp with Now and log through Logf, while the scheduler
// alone advances time and commits registers.
//
// A Simulator is single use. Assemble it with Add, AddTicker and Schedule,
// then call Run once.
//
type Simulator struct {
	cfg        Config
	stamp      Stamp
	modules    []*moduleState // primary modules, in registration order
	downstream []*moduleState
	index      map[string]*moduleState
	tickers    []Ticker
	resetters  []Resetter
	tracer     Tracer

	// RequestStamps correlates in-flight request identifiers with the
	// stamp they were issued at. The scheduler never reads it; it is
	// allocated for generated designs whose modules track request
	// round-trips.
	RequestStamps map[int64]Stamp
}

// New returns a Simulator for the given configuration. Zero valued fields
// of cfg assume their defaults.
//
func New(cfg Config) (*Simulator, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid simulator configuration")
	}
	return &Simulator{
		cfg:           cfg,
		index:         make(map[string]*moduleState),
		tracer:        cfg.Tracer,
		RequestStamps: make(map[int64]Stamp),
	}, nil
}

// Add registers a primary module. On every tick, primary modules run before
// downstream modules, in registration order.
//
func (s *Simulator) Add(m Module) error {
	ms, err := s.newModuleState(m)
	if err != nil {
		return err
	}
	s.modules = append(s.modules, ms)
	return nil
}

// AddDownstream registers a downstream module. Downstream modules run after
// all primary modules, in registration order. They use the same event queue
// and retry machinery as primary modules.
//
func (s *Simulator) AddDownstream(m Module) error {
	ms, err := s.newModuleState(m)
	if err != nil {
		return err
	}
	s.downstream = append(s.downstream, ms)
	return nil
}

func (s *Simulator) newModuleState(m Module) (*moduleState, error) {
	name := m.Name()
	if name == "" {
		return nil, errors.New("module has no name")
	}
	if _, ok := s.index[name]; ok {
		return nil, errors.Errorf("duplicate module %s", name)
	}
	ms := &moduleState{mod: m}
	s.index[name] = ms
	return ms, nil
}

// AddTicker registers a Ticker. All tickers tick once per scheduler
// iteration, in registration order.
//
func (s *Simulator) AddTicker(t Ticker) {
	s.tickers = append(s.tickers, t)
}

// AddResetter registers a Resetter to be reset at the end of every
// scheduler iteration.
//
func (s *Simulator) AddResetter(r Resetter) {
	s.resetters = append(s.resetters, r)
}

// Schedule queues a trigger event for the named module at the given stamp.
// Events must be queued in non-decreasing stamp order per module.
//
func (s *Simulator) Schedule(module string, at Stamp) error {
	ms, ok := s.index[module]
	if !ok {
		return errors.Errorf("schedule: unknown module %s", module)
	}
	if err := ms.events.push(at); err != nil {
		return errors.Wrapf(err, "schedule %s", module)
	}
	return nil
}

// ScheduleEvery queues count trigger events for the named module, the first
// at start and each following one every units of simulated time later.
//
func (s *Simulator) ScheduleEvery(module string, start, every Stamp, count int) error {
	at := start
	for i := 0; i < count; i++ {
		if err := s.Schedule(module, at); err != nil {
			return err
		}
		at += every
	}
	return nil
}

// Pending returns the number of queued events for the named module. The
// second return value is false if no such module is registered.
//
func (s *Simulator) Pending(module string) (int, bool) {
	ms, ok := s.index[module]
	if !ok {
		return 0, false
	}
	return ms.events.len(), true
}

// Now returns the current simulated time.
//
func (s *Simulator) Now() Stamp {
	return s.stamp
}

// Logf emits a line of module output through the simulation tracer. The
// source line of the caller is part of the trace record.
//
func (s *Simulator) Logf(module, format string, args ...any) {
	_, _, line, _ := runtime.Caller(1)
	s.tracer.Log(s.stamp, line, module, fmt.Sprintf(format, args...))
}

// Run drives the simulation until either the configured cycle bound or the
// idle threshold stops it. Each iteration moves simulated time to the next
// slot, runs all due modules, then advances time to the commit point and
// ticks the registered tickers. When the idle threshold is hit the run
// stops before the commit step, leaving staged writes uncommitted.
//
func (s *Simulator) Run() (Stats, error) {
	if len(s.modules)+len(s.downstream) == 0 {
		return Stats{}, errors.New("empty module list")
	}

	var st Stats
	idle := 0
	for i := uint64(1); i <= s.cfg.Cycles; i++ {
		s.stamp = Stamp(i) * s.cfg.Slot
		st.Ticks++

		for _, ms := range s.modules {
			ms.triggered = false
		}
		for _, ms := range s.downstream {
			ms.triggered = false
		}

		for _, ms := range s.modules {
			s.runModule(ms, &st)
		}
		for _, ms := range s.downstream {
			s.runModule(ms, &st)
		}

		if s.anyTriggered() {
			idle = 0
		} else {
			idle++
			if idle >= s.cfg.IdleThreshold {
				s.tracer.Idle(s.stamp, idle)
				st.Idle = true
				break
			}
		}

		s.stamp += s.cfg.CommitOffset
		for _, t := range s.tickers {
			for _, c := range t.Tick(s.stamp) {
				s.tracer.Commit(s.stamp, c)
			}
		}
		for _, r := range s.resetters {
			r.Reset()
		}
	}
	st.Stamp = s.stamp
	return st, nil
}

func (s *Simulator) runModule(ms *moduleState, st *Stats) {
	if !ms.events.due(s.stamp) {
		return
	}
	ok := ms.mod.Run(s)
	if ok {
		ms.events.pop()
		st.Triggered++
	}
	ms.triggered = ok
}

func (s *Simulator) anyTriggered() bool {
	for _, ms := range s.modules {
		if ms.triggered {
			return true
		}
	}
	for _, ms := range s.downstream {
		if ms.triggered {
			return true
		}
	}
	return false
}
