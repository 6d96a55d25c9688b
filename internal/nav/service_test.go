package nav

import (
	"testing"

	"github.com/talgya/hexpath/internal/hexgrid"
)

func newTestService(t *testing.T, cfg Config, radius int) (*Service, *stubOracle) {
	t.Helper()
	oracle := newStubOracle()
	oracle.addDisc(hexgrid.HexCoord{}, radius)
	svc := NewService(cfg)
	svc.Initialize(oracle)
	return svc, oracle
}

func equalPaths(a, b []hexgrid.HexCoord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestServiceFailsClosedBeforeInitialize(t *testing.T) {
	svc := NewService(DefaultConfig())
	res := svc.RequestPath(hexgrid.HexCoord{}, hexgrid.HexCoord{Q: 1, R: 0})
	if len(res.Path) != 0 || res.Deferred {
		t.Errorf("RequestPath before Initialize = %+v, want empty", res)
	}
	if svc.PathExists(hexgrid.HexCoord{}, hexgrid.HexCoord{Q: 1, R: 0}) {
		t.Error("PathExists before Initialize reported true")
	}
}

func TestServiceSameCellFastPath(t *testing.T) {
	svc, _ := newTestService(t, DefaultConfig(), 7)
	origin := hexgrid.HexCoord{}
	res := svc.RequestPath(origin, origin)
	if !equalPaths(res.Path, []hexgrid.HexCoord{origin}) {
		t.Errorf("same-cell request = %v, want [%v]", res.Path, origin)
	}
	if svc.CacheSize() != 0 {
		t.Error("trivial same-cell path was cached")
	}
}

func TestServiceRequestIdempotentAndCached(t *testing.T) {
	svc, _ := newTestService(t, DefaultConfig(), 7)
	from := hexgrid.HexCoord{}
	to := hexgrid.HexCoord{Q: 3, R: -1}

	first := svc.RequestPath(from, to)
	if len(first.Path) == 0 {
		t.Fatal("no path on open terrain")
	}
	if svc.CacheSize() != 1 {
		t.Fatalf("CacheSize() = %d after one request, want 1", svc.CacheSize())
	}

	// Corrupting the returned slice must not affect the cached copy.
	first.Path[0] = hexgrid.HexCoord{Q: 50, R: 50}

	second := svc.RequestPath(from, to)
	if second.Path[0] != from || !equalPaths(second.Path[1:], first.Path[1:]) {
		t.Error("second request did not return the original path")
	}
	if svc.CacheSize() != 1 {
		t.Errorf("CacheSize() = %d after repeat request, want 1", svc.CacheSize())
	}
}

func TestServiceAroundObstacleScenario(t *testing.T) {
	svc, oracle := newTestService(t, DefaultConfig(), 7)
	blocked := hexgrid.HexCoord{Q: 1, R: 0}
	oracle.set(blocked, false)
	svc.UpdateHex(blocked)

	res := svc.RequestPath(hexgrid.HexCoord{}, hexgrid.HexCoord{Q: 2, R: 0})
	if len(res.Path) == 0 {
		t.Fatal("no path around blocked hex")
	}
	for _, h := range res.Path {
		if h == blocked {
			t.Errorf("path traverses blocked hex %v", blocked)
		}
	}
}

func TestServiceThrottling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickQuota = 2
	svc, _ := newTestService(t, cfg, 7)

	targets := []hexgrid.HexCoord{{Q: 2, R: 0}, {Q: 0, R: 2}, {Q: -2, R: 2}}
	var results []Result
	for _, to := range targets {
		results = append(results, svc.RequestPath(hexgrid.HexCoord{}, to))
	}

	if results[0].Deferred || results[1].Deferred {
		t.Error("requests under quota were deferred")
	}
	third := results[2]
	if !third.Deferred || len(third.Path) != 0 {
		t.Errorf("over-quota request = %+v, want empty deferred", third)
	}
	if svc.QueueSize() != 1 {
		t.Fatalf("QueueSize() = %d, want 1", svc.QueueSize())
	}

	// Next tick drains the deferred request as a warm-up before new work.
	svc.BeginTick()
	if svc.QueueSize() != 0 {
		t.Errorf("QueueSize() = %d after BeginTick, want 0", svc.QueueSize())
	}
	if svc.TickRequestCount() != 1 {
		t.Errorf("TickRequestCount() = %d after drain, want 1", svc.TickRequestCount())
	}
	if svc.CacheSize() != 3 {
		t.Errorf("CacheSize() = %d, want 3 (drained request warmed the cache)", svc.CacheSize())
	}
}

func TestServiceQuotaConsumedOnCacheHits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickQuota = 2
	svc, _ := newTestService(t, cfg, 7)
	from := hexgrid.HexCoord{}
	to := hexgrid.HexCoord{Q: 2, R: 0}

	svc.RequestPath(from, to)
	svc.RequestPath(from, to) // cache hit, still counts
	res := svc.RequestPath(from, to)
	if !res.Deferred {
		t.Error("third request admitted: cache hits did not consume quota")
	}
}

func TestServicePathExistsBypassesCacheAndQuota(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickQuota = 1
	svc, _ := newTestService(t, cfg, 7)
	from := hexgrid.HexCoord{}
	to := hexgrid.HexCoord{Q: 3, R: 0}

	for i := 0; i < 5; i++ {
		if !svc.PathExists(from, to) {
			t.Fatal("PathExists reported unreachable on open terrain")
		}
	}
	if svc.CacheSize() != 0 {
		t.Error("PathExists populated the cache")
	}
	if svc.TickRequestCount() != 0 {
		t.Error("PathExists consumed quota")
	}
}

func TestServiceUpdateHexInvalidatesAffectedPaths(t *testing.T) {
	svc, oracle := newTestService(t, DefaultConfig(), 7)

	through := hexgrid.HexCoord{Q: 1, R: 0}
	svc.RequestPath(hexgrid.HexCoord{}, hexgrid.HexCoord{Q: 2, R: 0}) // passes through (1, 0)
	svc.RequestPath(hexgrid.HexCoord{Q: 0, R: -2}, hexgrid.HexCoord{Q: 0, R: -4})
	if svc.CacheSize() != 2 {
		t.Fatalf("CacheSize() = %d, want 2", svc.CacheSize())
	}

	oracle.set(through, false)
	svc.UpdateHex(through)
	if svc.CacheSize() != 1 {
		t.Errorf("CacheSize() = %d after invalidation, want 1", svc.CacheSize())
	}

	res := svc.RequestPath(hexgrid.HexCoord{}, hexgrid.HexCoord{Q: 2, R: 0})
	for _, h := range res.Path {
		if h == through {
			t.Error("recomputed path still traverses the blocked hex")
		}
	}
}

func TestServiceInvalidateCache(t *testing.T) {
	svc, _ := newTestService(t, DefaultConfig(), 7)
	svc.RequestPath(hexgrid.HexCoord{}, hexgrid.HexCoord{Q: 2, R: 0})
	svc.RequestPath(hexgrid.HexCoord{}, hexgrid.HexCoord{Q: 0, R: 2})
	if svc.CacheSize() != 2 {
		t.Fatalf("CacheSize() = %d, want 2", svc.CacheSize())
	}
	svc.InvalidateCache()
	if svc.CacheSize() != 0 {
		t.Errorf("CacheSize() = %d after InvalidateCache, want 0", svc.CacheSize())
	}
}

func TestServiceBuildGraphClearsCache(t *testing.T) {
	svc, _ := newTestService(t, DefaultConfig(), 7)
	svc.RequestPath(hexgrid.HexCoord{}, hexgrid.HexCoord{Q: 2, R: 0})
	if svc.CacheSize() == 0 {
		t.Fatal("expected a cached path")
	}
	svc.BuildGraph()
	if svc.CacheSize() != 0 {
		t.Errorf("CacheSize() = %d after rebuild, want 0", svc.CacheSize())
	}
	vertices, edges := svc.GraphStats()
	if vertices == 0 || edges == 0 {
		t.Errorf("rebuilt graph is empty: %d vertices, %d edges", vertices, edges)
	}
}

func TestServiceCacheCapacityScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheCapacity = 100
	cfg.TickQuota = 200
	svc, _ := newTestService(t, cfg, 9)

	// 101 unique successful requests: each origin in the inner disc paired
	// with its mirrored destination.
	issued := 0
	var firstKey PathKey
	for _, from := range hexgrid.InRange(hexgrid.HexCoord{}, 6) {
		if from == (hexgrid.HexCoord{}) {
			continue // mirrored pair would be a trivial same-cell path
		}
		to := hexgrid.HexCoord{Q: -from.Q, R: -from.R}
		res := svc.RequestPath(from, to)
		if len(res.Path) < 2 {
			t.Fatalf("request %d (%v -> %v) returned %v", issued, from, to, res.Path)
		}
		if issued == 0 {
			firstKey = PathKey{From: from, To: to}
		}
		issued++
		if issued == 101 {
			break
		}
	}

	if svc.CacheSize() != 100 {
		t.Errorf("CacheSize() = %d after 101 unique requests, want 100", svc.CacheSize())
	}
	// First-inserted key must have been the one evicted. Reach into the
	// cache directly: RequestPath would re-insert it.
	if _, ok := svc.cache.Lookup(firstKey); ok {
		t.Error("first-inserted key still cached")
	}
}

func TestServiceEmitsEvents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickQuota = 1
	oracle := newStubOracle()
	oracle.addDisc(hexgrid.HexCoord{}, 5)
	svc := NewService(cfg)

	var kinds []EventKind
	svc.Observer = func(e Event) {
		if e.ID.String() == "00000000-0000-0000-0000-000000000000" {
			t.Error("event emitted without an ID")
		}
		kinds = append(kinds, e.Kind)
	}
	svc.Initialize(oracle)

	svc.RequestPath(hexgrid.HexCoord{}, hexgrid.HexCoord{Q: 2, R: 0})
	svc.RequestPath(hexgrid.HexCoord{}, hexgrid.HexCoord{Q: 0, R: 2}) // over quota
	svc.BuildGraph()

	want := []EventKind{EventRequestQueued, EventGraphRebuilt}
	if len(kinds) != len(want) {
		t.Fatalf("got events %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, kinds[i], want[i])
		}
	}
}
