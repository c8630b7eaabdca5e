package mesh

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Timer slots owned by one peer record. A slot holds at most one pending
// timer; arming it again replaces the previous one.
const (
	timerEstablish = "establish"
	timerGrace     = "grace"
	timerCleanup   = "cleanup"
)

// timerSet centralizes the delayed callbacks of one record so that
// replacement or close cancels all of them in a single call. A timer left
// running against a discarded record is the bug class this exists to kill.
type timerSet struct {
	clock clock.Clock

	mu      sync.Mutex
	timers  map[string]*clock.Timer
	stopped bool
}

func newTimerSet(c clock.Clock) *timerSet {
	return &timerSet{
		clock:  c,
		timers: make(map[string]*clock.Timer),
	}
}

// set arms the named slot, replacing any pending timer in it
func (ts *timerSet) set(name string, d time.Duration, fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.stopped {
		return
	}
	if old, ok := ts.timers[name]; ok {
		old.Stop()
	}
	ts.timers[name] = ts.clock.AfterFunc(d, fn)
}

// stop cancels the named slot if pending
func (ts *timerSet) stop(name string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if t, ok := ts.timers[name]; ok {
		t.Stop()
		delete(ts.timers, name)
	}
}

// stopAll cancels every slot and rejects further arming. Called exactly
// when the owning record is replaced or closed.
func (ts *timerSet) stopAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.stopped = true
	for name, t := range ts.timers {
		t.Stop()
		delete(ts.timers, name)
	}
}
