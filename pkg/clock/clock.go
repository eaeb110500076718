// Package clock provides the time source and the repeating-task scheduler
// that drive cost accrual.
//
// Production code uses Real, which is backed by the runtime timers. Tests use
// Virtual, whose time only moves when Advance is called, so a run of ticks is
// fully deterministic and needs no sleeping.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Clock is a source of time that can schedule callbacks
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback created by Clock.AfterFunc
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or was stopped.
	Stop() bool
}

// Real is a Clock backed by the time package
type Real struct{}

// NewReal returns the wall clock
func NewReal() Real {
	return Real{}
}

// Now returns time.Now()
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc wraps time.AfterFunc
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Virtual is a manually advanced Clock. Callbacks fire synchronously on the
// goroutine that calls Advance, in deadline order, ties in scheduling order.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*virtualTimer
}

type virtualTimer struct {
	clock    *Virtual
	deadline time.Time
	seq      uint64
	f        func()
	done     bool
}

// NewVirtual returns a virtual clock starting at start
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the current virtual time
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// AfterFunc schedules f to run once virtual time reaches Now()+d
func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	t := &virtualTimer{clock: v, deadline: v.now.Add(d), seq: v.seq, f: f}
	v.pending = append(v.pending, t)
	return t
}

// Stop cancels the timer
func (t *virtualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	t.clock.removeLocked(t)
	return true
}

func (v *Virtual) removeLocked(t *virtualTimer) {
	for i, p := range v.pending {
		if p == t {
			v.pending = append(v.pending[:i], v.pending[i+1:]...)
			return
		}
	}
}

// Advance moves virtual time forward by d, firing every callback whose
// deadline is reached. Callbacks scheduled while advancing fire too if their
// deadline falls inside the window.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		next := v.nextDueLocked(target)
		if next == nil {
			v.now = target
			v.mu.Unlock()
			return
		}
		v.now = next.deadline
		next.done = true
		v.removeLocked(next)
		v.mu.Unlock()

		next.f()
	}
}

func (v *Virtual) nextDueLocked(target time.Time) *virtualTimer {
	if len(v.pending) == 0 {
		return nil
	}
	sort.SliceStable(v.pending, func(i, j int) bool {
		a, b := v.pending[i], v.pending[j]
		if a.deadline.Equal(b.deadline) {
			return a.seq < b.seq
		}
		return a.deadline.Before(b.deadline)
	})
	if v.pending[0].deadline.After(target) {
		return nil
	}
	return v.pending[0]
}

// Pending returns the number of callbacks waiting to fire
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}
