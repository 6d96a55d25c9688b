package nav

import "github.com/talgya/hexpath/internal/hexgrid"

// deferredRequest is a re-submission instruction recorded when the tick
// quota is exhausted. It carries no callback; the original caller has
// already received a deferred result.
type deferredRequest struct {
	from hexgrid.HexCoord
	to   hexgrid.HexCoord
}

// Scheduler enforces a per-tick quota on path computations and defers
// excess requests to a FIFO queue. The quota counts requests, not search
// cost: a request that will hit the cache still consumes quota.
type Scheduler struct {
	quota int
	count int
	queue []deferredRequest
}

// NewScheduler creates a scheduler admitting up to quota requests per tick.
func NewScheduler(quota int) *Scheduler {
	return &Scheduler{quota: quota}
}

// BeginTick resets the per-tick counter.
func (s *Scheduler) BeginTick() {
	s.count = 0
}

// Admit reports whether another request may execute this tick, consuming
// one unit of quota when it may.
func (s *Scheduler) Admit() bool {
	if s.count >= s.quota {
		return false
	}
	s.count++
	return true
}

// Defer appends an over-quota request to the queue.
func (s *Scheduler) Defer(from, to hexgrid.HexCoord) {
	s.queue = append(s.queue, deferredRequest{from: from, to: to})
}

// popDeferred removes and returns the oldest queued request.
func (s *Scheduler) popDeferred() (deferredRequest, bool) {
	if len(s.queue) == 0 {
		return deferredRequest{}, false
	}
	req := s.queue[0]
	s.queue = s.queue[1:]
	return req, true
}

// TickCount returns the number of requests admitted this tick.
func (s *Scheduler) TickCount() int {
	return s.count
}

// QueueLen returns the number of deferred requests waiting.
func (s *Scheduler) QueueLen() int {
	return len(s.queue)
}
