package manager

import (
	"sync/atomic"
	"time"
)

// Statistics holds the manager's running counters. All fields are atomic
// so reads never contend with compilation.
type Statistics struct {
	totalCompiles atomic.Uint64
	cacheHits     atomic.Uint64
	cacheMisses   atomic.Uint64
	compileErrors atomic.Uint64
	asyncCompiles atomic.Uint64
	hotReloads    atomic.Uint64
	compileNanos  atomic.Int64
	timedCompiles atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	TotalCompiles uint64
	CacheHits     uint64
	CacheMisses   uint64
	CompileErrors uint64
	AsyncCompiles uint64
	HotReloads    uint64

	AverageCompileTime time.Duration
}

// HitRatio returns hits / (hits + misses), or zero with no lookups.
func (s StatsSnapshot) HitRatio() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}

	return float64(s.CacheHits) / float64(total)
}

func (s *Statistics) recordLatency(d time.Duration) {
	s.compileNanos.Add(int64(d))
	s.timedCompiles.Add(1)
}

// Snapshot copies the current counter values.
func (s *Statistics) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		TotalCompiles: s.totalCompiles.Load(),
		CacheHits:     s.cacheHits.Load(),
		CacheMisses:   s.cacheMisses.Load(),
		CompileErrors: s.compileErrors.Load(),
		AsyncCompiles: s.asyncCompiles.Load(),
		HotReloads:    s.hotReloads.Load(),
	}

	if timed := s.timedCompiles.Load(); timed > 0 {
		snap.AverageCompileTime = time.Duration(s.compileNanos.Load() / int64(timed))
	}

	return snap
}

// Reset zeroes every counter.
func (s *Statistics) Reset() {
	s.totalCompiles.Store(0)
	s.cacheHits.Store(0)
	s.cacheMisses.Store(0)
	s.compileErrors.Store(0)
	s.asyncCompiles.Store(0)
	s.hotReloads.Store(0)
	s.compileNanos.Store(0)
	s.timedCompiles.Store(0)
}
