// Package profiler - Per-stage timing for the frame pipeline with periodic zerolog
// reports.
package profiler

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StageStats is a snapshot of the timings recorded for one stage.
type StageStats struct {
	Name  string
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Avg returns the mean duration, or zero when nothing was recorded.
func (s StageStats) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// timeTracker tracks operation timing statistics.
type timeTracker struct {
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// StageProfiler accumulates durations per named stage. It keeps running totals only, so
// recording does not allocate once a stage has been seen.
//
// It is safe for concurrent use, though the pipeline records from a single goroutine.
type StageProfiler struct {
	mu          sync.Mutex
	startTime   time.Time
	order       []string
	stages      map[string]*timeTracker
	memStats    runtime.MemStats
	lastGCCount uint32
	now         func() time.Time
}

// New returns an empty profiler.
func New() *StageProfiler {
	return &StageProfiler{
		startTime: time.Now(),
		stages:    make(map[string]*timeTracker),
		now:       time.Now,
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
//   - name: The name of the stage to track.
//
// Returns:
//   - func(): Call it when the stage completes.
//
// @example
// done := prof.StartOperation("otsu")
// t := threshold.Otsu(gray)
// done()
func (p *StageProfiler) StartOperation(name string) func() {
	start := p.now()
	return func() {
		p.Record(name, p.now().Sub(start))
	}
}

// Record adds one duration to a stage.
func (p *StageProfiler) Record(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.stages[name]
	if !exists {
		tracker = &timeTracker{minTime: d, maxTime: d}
		p.stages[name] = tracker
		p.order = append(p.order, name)
	}

	tracker.totalTime += d
	tracker.count++
	if d < tracker.minTime {
		tracker.minTime = d
	}
	if d > tracker.maxTime {
		tracker.maxTime = d
	}
}

// Stats returns a copy of every stage's statistics in first-seen order.
func (p *StageProfiler) Stats() []StageStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]StageStats, 0, len(p.order))
	for _, name := range p.order {
		t := p.stages[name]
		out = append(out, StageStats{Name: name, Count: t.count, Total: t.totalTime, Min: t.minTime, Max: t.maxTime})
	}
	return out
}

// Reset forgets every recorded stage.
func (p *StageProfiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.order = p.order[:0]
	clear(p.stages)
	p.startTime = p.now()
}

// Report logs one info line per stage (slowest average first) and a memory summary.
func (p *StageProfiler) Report(log zerolog.Logger) {
	stats := p.Stats()
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Avg() > stats[j].Avg() })

	for _, s := range stats {
		log.Info().
			Str("stage", s.Name).
			Int64("count", s.Count).
			Dur("avg", s.Avg()).
			Dur("min", s.Min).
			Dur("max", s.Max).
			Msg("stage timing")
	}

	p.mu.Lock()
	runtime.ReadMemStats(&p.memStats)
	newGC := p.memStats.NumGC - p.lastGCCount
	p.lastGCCount = p.memStats.NumGC
	uptime := p.now().Sub(p.startTime)
	p.mu.Unlock()

	log.Info().
		Dur("uptime", uptime.Truncate(time.Millisecond)).
		Str("heap_alloc", formatBytes(p.memStats.HeapAlloc)).
		Uint64("heap_objects", p.memStats.HeapObjects).
		Uint32("gc_new", newGC).
		Int("goroutines", runtime.NumGoroutine()).
		Msg("runtime")
}

// formatBytes formats byte counts in human-readable format.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
