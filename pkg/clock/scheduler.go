package clock

import "time"

// Task is one tick of a scheduled job. It returns false to stop the schedule.
type Task func() bool

// Serializer runs fn in the owner's critical section
type Serializer func(fn func())

// Scheduler runs a single Task repeatedly at a fixed interval.
//
// Only one tick is in flight at a time: the next tick is armed after the
// previous one returns true. Scheduler itself does no locking; Start, Stop,
// Tick and Running must be called from the owner's critical section, and
// timer callbacks enter that section through the Serializer.
type Scheduler struct {
	clock     Clock
	interval  time.Duration
	task      Task
	serialize Serializer

	timer   Timer
	running bool
	gen     uint64
	ticks   uint64
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithSerializer routes timer callbacks through s
func WithSerializer(s Serializer) SchedulerOption {
	return func(sc *Scheduler) {
		sc.serialize = s
	}
}

// NewScheduler creates a stopped scheduler
func NewScheduler(clock Clock, interval time.Duration, task Task, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		clock:     clock,
		interval:  interval,
		task:      task,
		serialize: func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start arms the first tick. It returns false if the scheduler is already
// running.
func (s *Scheduler) Start() bool {
	if s.running {
		return false
	}
	s.running = true
	s.gen++
	s.arm(s.gen)
	return true
}

// Stop cancels the pending tick. It returns false if the scheduler was not
// running.
func (s *Scheduler) Stop() bool {
	if !s.running {
		return false
	}
	s.running = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return true
}

// Running reports whether a tick is armed
func (s *Scheduler) Running() bool {
	return s.running
}

// Ticks returns the number of ticks run so far
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Interval returns the tick interval
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Tick runs the task once, immediately, without waiting for the clock.
// A running schedule stops if the task returns false; the pending tick of a
// running schedule is left in place.
func (s *Scheduler) Tick() bool {
	s.ticks++
	cont := s.task()
	if !cont && s.running {
		s.Stop()
	}
	return cont
}

func (s *Scheduler) arm(gen uint64) {
	s.timer = s.clock.AfterFunc(s.interval, func() {
		s.serialize(func() { s.fire(gen) })
	})
}

// fire runs inside the owner's critical section. A callback from a schedule
// that was stopped or restarted since it was armed is dropped.
func (s *Scheduler) fire(gen uint64) {
	if !s.running || gen != s.gen {
		return
	}
	s.timer = nil
	s.ticks++
	if !s.task() {
		s.running = false
		s.gen++
		return
	}
	if s.running && gen == s.gen {
		s.arm(gen)
	}
}
