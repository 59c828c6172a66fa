package simrt_test

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/pkg/errors"

	rt "github.com/db47h/simrt"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

type logLine struct {
	at     rt.Stamp
	module string
	text   string
}

// capture records tracer callbacks for inspection.
type capture struct {
	logs    []logLine
	commits []rt.Change
	idle    bool
	idleAt  rt.Stamp
}

func (c *capture) Log(now rt.Stamp, line int, module, text string) {
	c.logs = append(c.logs, logLine{at: now, module: module, text: text})
}

func (c *capture) Commit(now rt.Stamp, ch rt.Change) {
	c.commits = append(c.commits, ch)
}

func (c *capture) Idle(now rt.Stamp, count int) {
	c.idle = true
	c.idleAt = now
}

// Run the default harness: a driver incrementing cnt[0] once per slot over
// the whole run. The committed values must count 1..100 and the logged
// values 0..99, one slot behind.
func TestRun_counter(t *testing.T) {
	c := &capture{}
	s, err := rt.New(rt.Config{Tracer: c})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	cnt, err := rt.NewRegArray[uint32]("cnt", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	s.AddTicker(cnt)
	driver := rt.ModuleFunc("Driver", func(s *rt.Simulator) bool {
		now := s.Now()
		v := cnt.Read(0) + 1
		cnt.Write(0, rt.Write[uint32]{Stamp: now - now%100 + 50, Index: 0, Value: v, Writer: "Driver"})
		s.Logf("Driver", "cnt: %d", cnt.Read(0))
		return true
	})
	if err := s.Add(driver); err != nil {
		t.Fatal(err)
	}
	if err := s.ScheduleEvery("Driver", 100, 100, 100); err != nil {
		t.Fatal(err)
	}

	st, err := s.Run()
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	if st.Ticks != 100 || st.Triggered != 100 || st.Idle {
		t.Errorf("stats = %+v, expected 100 ticks, 100 triggered, no idle stop", st)
	}
	if st.Stamp != 10050 {
		t.Errorf("final stamp = %d, expected 10050", st.Stamp)
	}
	if c.idle {
		t.Error("unexpected idle notice")
	}
	if n := len(c.logs); n != 100 {
		t.Fatalf("logged %d lines, expected 100", n)
	}
	for i, l := range c.logs {
		at := rt.Stamp(i+1) * 100
		text := fmt.Sprintf("cnt: %d", i)
		if l.at != at || l.module != "Driver" || l.text != text {
			t.Fatalf("log %d = @%d [%s] %q, expected @%d [Driver] %q", i, l.at, l.module, l.text, at, text)
		}
	}
	if n := len(c.commits); n != 100 {
		t.Fatalf("committed %d writes, expected 100", n)
	}
	for i, ch := range c.commits {
		want := rt.Change{
			Array:  "cnt",
			Stamp:  rt.Stamp(i+1)*100 + 50,
			Index:  0,
			Value:  strconv.Itoa(i + 1),
			Writer: "Driver",
		}
		if ch != want {
			t.Fatalf("commit %d = %+v, expected %+v", i, ch, want)
		}
	}
	if v := cnt.Read(0); v != 100 {
		t.Errorf("cnt[0] = %d, expected 100", v)
	}
	if n, ok := s.Pending("Driver"); !ok || n != 0 {
		t.Errorf("pending = %d, expected 0", n)
	}
}

// A failing module keeps its event queued and is retried on every
// following tick until it reports success.
func TestRun_retry(t *testing.T) {
	var calls []rt.Stamp
	fails := 3
	s, err := rt.New(rt.Config{Cycles: 8})
	if err != nil {
		t.Fatal(err)
	}
	flaky := rt.ModuleFunc("flaky", func(s *rt.Simulator) bool {
		calls = append(calls, s.Now())
		if fails > 0 {
			fails--
			return false
		}
		return true
	})
	if err := s.Add(flaky); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("flaky", 100); err != nil {
		t.Fatal(err)
	}

	st, err := s.Run()
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	want := []rt.Stamp{100, 200, 300, 400}
	if len(calls) != len(want) {
		t.Fatalf("module ran %d times at %v, expected %v", len(calls), calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d at stamp %d, expected %d", i, calls[i], want[i])
		}
	}
	if st.Triggered != 1 {
		t.Errorf("triggered = %d, expected 1", st.Triggered)
	}
	if st.Ticks != 8 || st.Idle {
		t.Errorf("stats = %+v, expected 8 ticks and no idle stop", st)
	}
	if n, ok := s.Pending("flaky"); !ok || n != 0 {
		t.Errorf("pending = %d, expected 0", n)
	}
}

// A module that never succeeds leaves its queue full and the run stops at
// the idle threshold, before the commit step of the stopping tick.
func TestRun_idle_stop(t *testing.T) {
	c := &capture{}
	s, err := rt.New(rt.Config{Tracer: c})
	if err != nil {
		t.Fatal(err)
	}
	cnt, err := rt.NewRegArray[uint32]("cnt", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	s.AddTicker(cnt)
	stuck := rt.ModuleFunc("stuck", func(*rt.Simulator) bool { return false })
	if err := s.Add(stuck); err != nil {
		t.Fatal(err)
	}
	if err := s.ScheduleEvery("stuck", 100, 100, 100); err != nil {
		t.Fatal(err)
	}

	st, err := s.Run()
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	if !st.Idle || st.Ticks != 100 || st.Triggered != 0 {
		t.Errorf("stats = %+v, expected idle stop after 100 ticks and 0 triggered", st)
	}
	if st.Stamp != 10000 {
		t.Errorf("final stamp = %d, expected 10000", st.Stamp)
	}
	if !c.idle || c.idleAt != 10000 {
		t.Errorf("idle notice at %d (%v), expected at 10000", c.idleAt, c.idle)
	}
	if len(c.commits) != 0 {
		t.Errorf("%d commits, expected none", len(c.commits))
	}
	if v := cnt.Read(0); v != 0 {
		t.Errorf("cnt[0] = %d, expected 0", v)
	}
	if n, ok := s.Pending("stuck"); !ok || n != 100 {
		t.Errorf("pending = %d, expected 100", n)
	}
}

// An empty event queue counts as idle. With a lowered threshold the run
// stops early even though the cycle bound is higher.
func TestRun_idle_threshold(t *testing.T) {
	s, err := rt.New(rt.Config{Cycles: 50, IdleThreshold: 10})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Add(rt.ModuleFunc("noop", func(*rt.Simulator) bool { return true })); err != nil {
		t.Fatal(err)
	}

	st, err := s.Run()
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	if !st.Idle || st.Ticks != 10 {
		t.Errorf("stats = %+v, expected idle stop after 10 ticks", st)
	}
	if st.Stamp != 1000 {
		t.Errorf("final stamp = %d, expected 1000", st.Stamp)
	}
}

// Within a tick, primary modules run before downstream modules and
// register commits happen after both: a downstream module reads the value
// staged by a primary only on the next tick.
func TestRun_ordering(t *testing.T) {
	var order []string
	var seen []uint32
	r, err := rt.NewRegArray[uint32]("r", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	s, err := rt.New(rt.Config{Cycles: 2})
	if err != nil {
		t.Fatal(err)
	}
	s.AddTicker(r)
	prim := rt.ModuleFunc("prim", func(s *rt.Simulator) bool {
		order = append(order, "prim")
		r.Write(0, rt.Write[uint32]{Stamp: s.Now() + 50, Index: 0, Value: 7, Writer: "prim"})
		return true
	})
	down := rt.ModuleFunc("down", func(s *rt.Simulator) bool {
		order = append(order, "down")
		seen = append(seen, r.Read(0))
		return true
	})
	if err := s.Add(prim); err != nil {
		t.Fatal(err)
	}
	if err := s.AddDownstream(down); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("prim", 100); err != nil {
		t.Fatal(err)
	}
	if err := s.ScheduleEvery("down", 100, 100, 2); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Run(); err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	wantOrder := []string{"prim", "down", "down"}
	if len(order) != len(wantOrder) {
		t.Fatalf("execution order %v, expected %v", order, wantOrder)
	}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Fatalf("execution order %v, expected %v", order, wantOrder)
		}
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 7 {
		t.Errorf("downstream read %v, expected [0 7]", seen)
	}
}

// A module may schedule events for other modules while the simulation
// runs.
func TestRun_schedule_chain(t *testing.T) {
	c := &capture{}
	s, err := rt.New(rt.Config{Cycles: 5, Tracer: c})
	if err != nil {
		t.Fatal(err)
	}
	a := rt.ModuleFunc("a", func(s *rt.Simulator) bool {
		if err := s.Schedule("b", s.Now()+100); err != nil {
			t.Error(err)
		}
		return true
	})
	b := rt.ModuleFunc("b", func(s *rt.Simulator) bool {
		s.Logf("b", "ran")
		return true
	})
	if err := s.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(b); err != nil {
		t.Fatal(err)
	}
	if err := s.Schedule("a", 100); err != nil {
		t.Fatal(err)
	}

	st, err := s.Run()
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	if st.Triggered != 2 {
		t.Errorf("triggered = %d, expected 2", st.Triggered)
	}
	if len(c.logs) != 1 || c.logs[0].at != 200 || c.logs[0].module != "b" {
		t.Errorf("logs = %+v, expected one entry from b at stamp 200", c.logs)
	}
}

func TestSimulator_errors(t *testing.T) {
	t.Run("bad_config", func(t *testing.T) {
		_, err := rt.New(rt.Config{Slot: 100, CommitOffset: 100})
		want := "invalid simulator configuration: commit offset 100 not below slot 100"
		if err == nil || err.Error() != want {
			t.Errorf("Got error %q, expected %q", err, want)
		}
		_, err = rt.New(rt.Config{IdleThreshold: -1})
		want = "invalid simulator configuration: negative idle threshold -1"
		if err == nil || err.Error() != want {
			t.Errorf("Got error %q, expected %q", err, want)
		}
	})

	t.Run("add", func(t *testing.T) {
		s, err := rt.New(rt.Config{})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Add(rt.ModuleFunc("", nil)); err == nil || err.Error() != "module has no name" {
			t.Errorf("Got error %q, expected %q", err, "module has no name")
		}
		if err := s.Add(rt.ModuleFunc("m", nil)); err != nil {
			t.Fatal(err)
		}
		if err := s.AddDownstream(rt.ModuleFunc("m", nil)); err == nil || err.Error() != "duplicate module m" {
			t.Errorf("Got error %q, expected %q", err, "duplicate module m")
		}
	})

	t.Run("schedule", func(t *testing.T) {
		s, err := rt.New(rt.Config{})
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Schedule("ghost", 100); err == nil || err.Error() != "schedule: unknown module ghost" {
			t.Errorf("Got error %q, expected %q", err, "schedule: unknown module ghost")
		}
		if err := s.Add(rt.ModuleFunc("m", nil)); err != nil {
			t.Fatal(err)
		}
		if err := s.Schedule("m", 200); err != nil {
			t.Fatal(err)
		}
		want := "schedule m: event stamp 100 before queued stamp 200"
		if err := s.Schedule("m", 100); err == nil || err.Error() != want {
			t.Errorf("Got error %q, expected %q", err, want)
		}
		if _, ok := s.Pending("ghost"); ok {
			t.Error("Pending found a module that was never added")
		}
	})

	t.Run("empty_run", func(t *testing.T) {
		s, err := rt.New(rt.Config{})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.Run(); err == nil || err.Error() != "empty module list" {
			t.Errorf("Got error %q, expected %q", err, "empty module list")
		}
	})
}
