package scheduler

import (
	"invui/internal/profiling"
)

// Redrawer redraws one slot of a surface.
type Redrawer interface {
	Redraw(slot int)
}

type task struct {
	target Redrawer
	slot   int
}

// Scheduler is a single-shot work list of slot redraws processed once per
// tick. Requests for the same (target, slot) collapse into one until the
// next Tick. It is driven from the host's main loop and is not safe for
// concurrent use.
type Scheduler struct {
	queue  []task
	queued map[task]bool
}

func New() *Scheduler {
	return &Scheduler{queued: make(map[task]bool)}
}

// Schedule queues a redraw of slot on target for the next tick. It reports
// whether the request was new. Targets must be comparable.
func (s *Scheduler) Schedule(target Redrawer, slot int) bool {
	t := task{target: target, slot: slot}
	if s.queued[t] {
		return false
	}
	s.queued[t] = true
	s.queue = append(s.queue, t)
	return true
}

// Cancel drops every queued redraw for target.
func (s *Scheduler) Cancel(target Redrawer) {
	kept := s.queue[:0]
	for _, t := range s.queue {
		if t.target == target {
			delete(s.queued, t)
			continue
		}
		kept = append(kept, t)
	}
	s.queue = kept
}

// Pending returns the number of queued redraws.
func (s *Scheduler) Pending() int { return len(s.queue) }

// Tick runs the redraws queued before the call, in the order they were first
// requested. Redraws scheduled while ticking wait for the next tick.
func (s *Scheduler) Tick() int {
	defer profiling.Track("scheduler.Tick")()

	batch := s.queue
	s.queue = nil
	s.queued = make(map[task]bool)
	for _, t := range batch {
		t.target.Redraw(t.slot)
	}
	return len(batch)
}
