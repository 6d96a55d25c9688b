package nav

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/hexpath/internal/hexgrid"
)

// Config holds path service tuning parameters.
type Config struct {
	HexSize       float64 // World-space distance from hex center to corner.
	CacheCapacity int     // Maximum cached paths.
	TickQuota     int     // Path requests admitted per tick.
}

// DefaultConfig returns a reasonable starting configuration.
func DefaultConfig() Config {
	return Config{
		HexSize:       16,
		CacheCapacity: 100,
		TickQuota:     32,
	}
}

// Result is the outcome of a path request. Deferred means the request was
// over quota: its endpoints were queued for a warm-up re-attempt on a later
// tick, and the caller decides whether to retry.
type Result struct {
	Path     []hexgrid.HexCoord `json:"path"`
	Deferred bool               `json:"deferred"`
}

// Service is the path-finding façade: it owns the graph, the result cache,
// and the request scheduler. All operations serialize on one mutex; the
// observer callback runs under that lock and must not call back in.
type Service struct {
	mu     sync.Mutex
	cfg    Config
	graph  *Graph
	cache  *PathCache
	sched  *Scheduler
	oracle Oracle
	ready  bool

	// Observer, when set before Initialize, receives identity-only
	// notifications: graph rebuilt, cache invalidated, request queued.
	Observer func(Event)
}

// NewService creates an uninitialized path service. Every query fails
// closed until Initialize is called.
func NewService(cfg Config) *Service {
	return &Service{
		cfg:   cfg,
		graph: NewGraph(hexgrid.NewLayout(cfg.HexSize)),
		cache: NewPathCache(cfg.CacheCapacity),
		sched: NewScheduler(cfg.TickQuota),
	}
}

// Initialize builds the graph from the oracle and marks the service ready.
func (s *Service) Initialize(oracle Oracle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.oracle = oracle
	s.graph.Build(oracle)
	s.ready = true

	slog.Info("path service initialized",
		"vertices", s.graph.VertexCount(),
		"edges", s.graph.EdgeCount(),
		"cache_capacity", s.cfg.CacheCapacity,
		"tick_quota", s.cfg.TickQuota,
	)
}

// BeginTick resets the per-tick quota and re-attempts queued requests, up
// to the quota, before new callers consume it. Re-attempt results are
// discarded: they are cache warm-ups, not promises resolved to any caller.
func (s *Service) BeginTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sched.BeginTick()
	if !s.ready {
		return
	}
	for s.sched.QueueLen() > 0 {
		if !s.sched.Admit() {
			break
		}
		req, _ := s.sched.popDeferred()
		s.servePath(req.from, req.to)
	}
}

// RequestPath answers a shortest-path query through the full pipeline:
// quota check, cache lookup, search, cache store. Quota is consumed before
// the cache is consulted, so a cache hit still counts against the tick.
func (s *Service) RequestPath(from, to hexgrid.HexCoord) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		slog.Warn("path requested before initialization", "from", from, "to", to)
		return Result{}
	}
	if !s.sched.Admit() {
		s.sched.Defer(from, to)
		s.emit(Event{Kind: EventRequestQueued, Hexes: []hexgrid.HexCoord{from, to}})
		return Result{Deferred: true}
	}
	return Result{Path: s.servePath(from, to)}
}

// PathExists reports whether the destination is reachable from the origin.
// Runs the same graph search but bypasses both cache and quota, so one-off
// probes neither pollute the cache nor starve the tick.
func (s *Service) PathExists(from, to hexgrid.HexCoord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return false
	}
	return len(s.graph.FindPath(from, to)) > 0
}

// UpdateHex reconnects a single hex after its passability changed, then
// drops every cached path traversing it.
func (s *Service) UpdateHex(hex hexgrid.HexCoord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		slog.Warn("hex update before initialization", "hex", hex)
		return
	}
	s.graph.Update(hex)
	removed := s.cache.Invalidate(hex)
	if removed > 0 {
		s.emit(Event{Kind: EventCacheInvalidated, Hexes: []hexgrid.HexCoord{hex}})
	}
	slog.Debug("hex updated", "hex", hex, "cache_dropped", removed)
}

// InvalidateCache clears every cached path.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.InvalidateAll()
	s.emit(Event{Kind: EventCacheInvalidated})
}

// BuildGraph fully rebuilds the graph from the oracle and clears the cache.
// Heavy; intended for bulk terrain change, not per-hex edits.
func (s *Service) BuildGraph() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		slog.Warn("graph rebuild before initialization")
		return
	}
	s.graph.Build(s.oracle)
	s.cache.InvalidateAll()
	s.emit(Event{Kind: EventGraphRebuilt})
	slog.Info("graph rebuilt", "vertices", s.graph.VertexCount(), "edges", s.graph.EdgeCount())
}

// CacheSize returns the number of cached paths.
func (s *Service) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// TickRequestCount returns the number of requests admitted this tick.
func (s *Service) TickRequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.TickCount()
}

// QueueSize returns the number of deferred requests waiting.
func (s *Service) QueueSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.QueueLen()
}

// GraphStats returns the current vertex and edge counts.
func (s *Service) GraphStats() (vertices, edges int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.VertexCount(), s.graph.EdgeCount()
}

// servePath is the unthrottled pipeline tail: cache lookup, then search,
// then store. Trivial single-cell paths are answered without caching.
// Caller holds s.mu.
func (s *Service) servePath(from, to hexgrid.HexCoord) []hexgrid.HexCoord {
	key := PathKey{From: from, To: to}
	if path, ok := s.cache.Lookup(key); ok {
		return path
	}
	path := s.graph.FindPath(from, to)
	if len(path) > 1 {
		s.cache.Store(key, path)
	}
	return path
}

func (s *Service) emit(ev Event) {
	if s.Observer == nil {
		return
	}
	ev.ID = uuid.New()
	s.Observer(ev)
}
