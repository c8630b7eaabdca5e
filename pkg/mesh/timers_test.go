package mesh

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestTimerSetFires(t *testing.T) {
	mock := clock.NewMock()
	ts := newTimerSet(mock)

	var fired int32
	ts.set(timerEstablish, 15*time.Second, func() { atomic.AddInt32(&fired, 1) })

	mock.Add(14 * time.Second)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("Timer fired early")
	}
	mock.Add(time.Second)
	if atomic.LoadInt32(&fired) != 1 {
		t.Error("Timer did not fire at the deadline")
	}
}

func TestTimerSetSlotReplacement(t *testing.T) {
	mock := clock.NewMock()
	ts := newTimerSet(mock)

	var first, second int32
	ts.set(timerGrace, time.Second, func() { atomic.AddInt32(&first, 1) })
	ts.set(timerGrace, 5*time.Second, func() { atomic.AddInt32(&second, 1) })

	mock.Add(10 * time.Second)
	if atomic.LoadInt32(&first) != 0 {
		t.Error("Replaced timer must not fire")
	}
	if atomic.LoadInt32(&second) != 1 {
		t.Error("Replacement timer should fire")
	}
}

func TestTimerSetStop(t *testing.T) {
	mock := clock.NewMock()
	ts := newTimerSet(mock)

	var fired int32
	ts.set(timerCleanup, time.Second, func() { atomic.AddInt32(&fired, 1) })
	ts.stop(timerCleanup)

	mock.Add(10 * time.Second)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("Stopped timer must not fire")
	}

	// Stopping an empty slot is a no-op.
	ts.stop(timerCleanup)
	ts.stop("nonexistent")
}

func TestTimerSetStopAllRejectsRearm(t *testing.T) {
	mock := clock.NewMock()
	ts := newTimerSet(mock)

	var fired int32
	ts.set(timerEstablish, time.Second, func() { atomic.AddInt32(&fired, 1) })
	ts.set(timerGrace, time.Second, func() { atomic.AddInt32(&fired, 1) })
	ts.stopAll()

	// Arming after stopAll must be ignored; the owning record is gone.
	ts.set(timerCleanup, time.Second, func() { atomic.AddInt32(&fired, 1) })

	mock.Add(time.Minute)
	if atomic.LoadInt32(&fired) != 0 {
		t.Errorf("No timer may fire after stopAll, got %d", fired)
	}
}

func TestTimerSetIndependentSlots(t *testing.T) {
	mock := clock.NewMock()
	ts := newTimerSet(mock)

	var establish, grace int32
	ts.set(timerEstablish, time.Second, func() { atomic.AddInt32(&establish, 1) })
	ts.set(timerGrace, 2*time.Second, func() { atomic.AddInt32(&grace, 1) })
	ts.stop(timerEstablish)

	mock.Add(3 * time.Second)
	if atomic.LoadInt32(&establish) != 0 {
		t.Error("Stopped slot fired")
	}
	if atomic.LoadInt32(&grace) != 1 {
		t.Error("Unrelated slot should fire")
	}
}
