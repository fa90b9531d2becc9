// Package stats tracks processing latencies over a rolling window.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at time.Time
	ms int64
}

// Snapshot aggregates the samples currently inside the window.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Latency records durations and reports percentiles over the last window.
type Latency struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = time.Hour
	}
	return &Latency{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one duration. Negative durations count as zero.
func (l *Latency) Record(d time.Duration) {
	ms := max(d.Milliseconds(), 0)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)
	l.samples = append(l.samples, sample{at: now, ms: ms})
}

// Since records the time elapsed since start.
func (l *Latency) Since(start time.Time) {
	l.Record(l.now().Sub(start))
}

func (l *Latency) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(l.now())
	if len(l.samples) == 0 {
		return Snapshot{}
	}

	values := make([]int64, len(l.samples))
	var sum int64
	for i, s := range l.samples {
		values[i] = s.ms
		sum += s.ms
	}
	slices.Sort(values)

	return Snapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	l.samples = slices.DeleteFunc(l.samples, func(s sample) bool {
		return s.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	idx := float64(len(sorted)-1) * pct / 100
	lower := int(idx)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(idx-float64(lower))
}

// Tracker groups the latencies the service reports.
type Tracker struct {
	Decode   *Latency
	Analysis *Latency
	Outline  *Latency
}

func NewTracker(window time.Duration) *Tracker {
	return &Tracker{
		Decode:   NewLatency(window),
		Analysis: NewLatency(window),
		Outline:  NewLatency(window),
	}
}

// Snapshot reports every latency keyed by name.
func (t *Tracker) Snapshot() map[string]Snapshot {
	return map[string]Snapshot{
		"decode":   t.Decode.Snapshot(),
		"analysis": t.Analysis.Snapshot(),
		"outline":  t.Outline.Snapshot(),
	}
}
