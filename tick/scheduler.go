// Package tick schedules countdown tasks against the global tick clock.
// Something upstream posts a TickEvent per pulse (the reactor does this
// at 20 ticks per second); the scheduler subscribes once and steps every
// task countdown on each pulse.
package tick

import (
	"sync"

	"github.com/mvoss/evkit/event"
	"github.com/mvoss/evkit/events"
)

// Tick cadence at the conventional 20 pulses per second.
const (
	Sec  = 20
	Min  = 60 * Sec
	Hour = 60 * Min
)

// Forever makes a task repeat until cancelled.
const Forever int64 = -1

// TV is one task's countdown bookkeeping: the configured gap between
// firings, the pulses left until the next one, how many firings have
// happened, and how many are allowed in total.
type TV struct {
	Gap       int64
	Countdown int64
	Spent     int64
	Total     int64
}

// MakeTV builds the bookkeeping for a task firing every gap pulses,
// times times (Forever for no limit).
func MakeTV(gap, times int64) TV {
	return TV{Gap: gap, Countdown: gap, Total: times}
}

// Invalid is what Query reports for an unknown task.
var Invalid = TV{Gap: -1, Countdown: -1, Spent: -1, Total: -1}

// TaskID identifies one scheduled task. Ids are never reused.
type TaskID int

// Callback runs when a task fires, on the goroutine posting the tick.
type Callback func(TaskID, TV)

type task struct {
	tv TV
	cb Callback
}

// Scheduler runs countdown tasks off tick events. The task table is
// mutex-guarded, so Add and Cancel are safe from any goroutine even
// while ticks are being delivered.
type Scheduler struct {
	mu    sync.Mutex
	tasks map[TaskID]*task
	next  TaskID
}

func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[TaskID]*task)}
}

// Add registers a task and returns its id.
func (s *Scheduler) Add(tv TV, cb Callback) TaskID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.tasks[id] = &task{tv: tv, cb: cb}
	return id
}

// Cancel removes a task, reporting whether it existed.
func (s *Scheduler) Cancel(id TaskID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// Query reports a task's current bookkeeping, or Invalid when unknown.
func (s *Scheduler) Query(id TaskID) TV {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		return t.tv
	}
	return Invalid
}

// Run subscribes the scheduler to tick events on ch and returns the
// callback id, so the owner can unsubscribe to stop it.
func (s *Scheduler) Run(ch *event.Channel) event.CallbackID {
	return event.Subscribe(ch, events.DecodeTick, func(events.TickEvent) {
		s.step()
	})
}

type firing struct {
	id TaskID
	tv TV
	cb Callback
}

// step advances every countdown by one pulse. Bookkeeping happens under
// the mutex; callbacks run after it is dropped so a callback can Add or
// Cancel without deadlocking.
func (s *Scheduler) step() {
	s.mu.Lock()
	var due []firing
	for id, t := range s.tasks {
		t.tv.Countdown--
		if t.tv.Countdown > 0 {
			continue
		}
		t.tv.Spent++
		due = append(due, firing{id: id, tv: t.tv, cb: t.cb})
		if t.tv.Total >= 0 && t.tv.Spent >= t.tv.Total {
			delete(s.tasks, id)
			continue
		}
		t.tv.Countdown = t.tv.Gap
	}
	s.mu.Unlock()

	for _, f := range due {
		f.cb(f.id, f.tv)
	}
}
