package simrt

import "github.com/pkg/errors"

// An eventQueue holds the pending trigger stamps of one module, front to
// back in non-decreasing order. Only a successful module execution consumes
// the front event.
type eventQueue struct {
	q []Stamp
}

func (e *eventQueue) push(at Stamp) error {
	if n := len(e.q); n > 0 && at < e.q[n-1] {
		return errors.Errorf("event stamp %d before queued stamp %d", at, e.q[n-1])
	}
	e.q = append(e.q, at)
	return nil
}

// due reports whether the front event has come due at the given time.
func (e *eventQueue) due(now Stamp) bool {
	return len(e.q) > 0 && e.q[0] <= now
}

func (e *eventQueue) pop() {
	e.q = e.q[1:]
}

func (e *eventQueue) len() int {
	return len(e.q)
}
