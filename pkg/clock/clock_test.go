package clock

import (
	"reflect"
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualAdvanceFiresInOrder(t *testing.T) {
	v := NewVirtual(epoch)
	var fired []int

	v.AfterFunc(300*time.Millisecond, func() { fired = append(fired, 3) })
	v.AfterFunc(100*time.Millisecond, func() { fired = append(fired, 1) })
	v.AfterFunc(100*time.Millisecond, func() { fired = append(fired, 2) })

	v.Advance(150 * time.Millisecond)
	if !reflect.DeepEqual(fired, []int{1, 2}) {
		t.Errorf("fired = %v, want [1 2]", fired)
	}
	if want := epoch.Add(150 * time.Millisecond); !v.Now().Equal(want) {
		t.Errorf("Now() = %v, want %v", v.Now(), want)
	}
	if v.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", v.Pending())
	}

	v.Advance(150 * time.Millisecond)
	if !reflect.DeepEqual(fired, []int{1, 2, 3}) {
		t.Errorf("fired = %v, want [1 2 3]", fired)
	}
	if v.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", v.Pending())
	}
}

func TestVirtualStop(t *testing.T) {
	v := NewVirtual(epoch)
	called := false

	timer := v.AfterFunc(time.Second, func() { called = true })
	if !timer.Stop() {
		t.Error("first Stop should report true")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}

	v.Advance(2 * time.Second)
	if called {
		t.Error("stopped callback fired")
	}
}

func TestVirtualChainedCallbacks(t *testing.T) {
	v := NewVirtual(epoch)
	count := 0

	var rearm func()
	rearm = func() {
		count++
		v.AfterFunc(100*time.Millisecond, rearm)
	}
	v.AfterFunc(100*time.Millisecond, rearm)

	v.Advance(time.Second)
	if count != 10 {
		t.Errorf("count = %d, want 10", count)
	}
}

func TestSchedulerRunsUntilTaskStops(t *testing.T) {
	v := NewVirtual(epoch)
	runs := 0
	s := NewScheduler(v, 100*time.Millisecond, func() bool {
		runs++
		return runs < 5
	})

	if !s.Start() {
		t.Fatal("Start returned false")
	}
	if s.Start() {
		t.Error("second Start should be a no-op")
	}

	v.Advance(10 * time.Second)
	if runs != 5 {
		t.Errorf("runs = %d, want 5", runs)
	}
	if s.Running() {
		t.Error("scheduler still running after the task stopped it")
	}
	if s.Ticks() != 5 {
		t.Errorf("Ticks() = %d, want 5", s.Ticks())
	}
}

func TestSchedulerStopCancelsPendingTick(t *testing.T) {
	v := NewVirtual(epoch)
	runs := 0
	s := NewScheduler(v, 100*time.Millisecond, func() bool {
		runs++
		return true
	})

	s.Start()
	v.Advance(250 * time.Millisecond)
	if runs != 2 {
		t.Fatalf("runs = %d, want 2", runs)
	}

	if !s.Stop() {
		t.Error("Stop should report true while running")
	}
	if s.Stop() {
		t.Error("Stop should report false when already stopped")
	}
	v.Advance(time.Second)
	if runs != 2 {
		t.Errorf("runs = %d after Stop, want 2", runs)
	}
	if v.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", v.Pending())
	}
}

func TestSchedulerRestartDropsStaleCallback(t *testing.T) {
	v := NewVirtual(epoch)
	runs := 0
	s := NewScheduler(v, 100*time.Millisecond, func() bool {
		runs++
		return true
	})

	s.Start()
	v.Advance(50 * time.Millisecond)
	s.Stop()
	s.Start()

	// The restarted schedule ticks at 150ms, not at the old 100ms deadline.
	v.Advance(60 * time.Millisecond)
	if runs != 0 {
		t.Errorf("runs = %d at 110ms, want 0", runs)
	}
	v.Advance(40 * time.Millisecond)
	if runs != 1 {
		t.Errorf("runs = %d at 150ms, want 1", runs)
	}
}

func TestSchedulerManualTick(t *testing.T) {
	v := NewVirtual(epoch)
	stop := false
	s := NewScheduler(v, time.Second, func() bool { return !stop })

	if !s.Tick() {
		t.Error("Tick should return the task result")
	}
	if s.Running() {
		t.Error("manual Tick must not start the schedule")
	}

	s.Start()
	stop = true
	if s.Tick() {
		t.Error("Tick should return false")
	}
	if s.Running() {
		t.Error("a false task result should stop the schedule")
	}
}

func TestSchedulerSerializer(t *testing.T) {
	v := NewVirtual(epoch)
	var mu sync.Mutex
	entered := 0
	unlocked := 0

	var s *Scheduler
	s = NewScheduler(v, 100*time.Millisecond, func() bool {
		// The serializer holds mu while the task runs.
		if mu.TryLock() {
			unlocked++
			mu.Unlock()
		}
		entered++
		return entered < 3
	}, WithSerializer(func(fn func()) {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}))

	mu.Lock()
	s.Start()
	mu.Unlock()

	v.Advance(time.Second)
	if entered != 3 {
		t.Errorf("entered = %d, want 3", entered)
	}
	if unlocked != 0 {
		t.Errorf("task ran %d times outside the serializer", unlocked)
	}
}

func TestRealClock(t *testing.T) {
	c := NewReal()
	done := make(chan struct{})

	start := c.Now()
	c.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("real timer did not fire")
	}
	if c.Now().Before(start) {
		t.Error("real clock went backwards")
	}
}
