package llm

import (
	"math"
	"slices"
	"sort"
	"sync"
	"time"
)

// Outcome classifies a model call that reached the backend.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeEmpty   Outcome = "empty"   // Backend answered without text.
	OutcomeTimeout Outcome = "timeout" // Per-call deadline hit.
	OutcomeAuth    Outcome = "auth"    // Credential rejected.
	OutcomeFailed  Outcome = "failed"
)

type call struct {
	at      time.Time
	latency time.Duration
	outcome Outcome
}

// Latency summarizes successful call durations in milliseconds.
type Latency struct {
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
}

// CallSnapshot aggregates the calls inside the stats window. Rejected counts
// calls refused by a disabled guard since startup; those never reach the
// backend and carry no latency.
type CallSnapshot struct {
	Calls       int     `json:"calls"`
	OK          int     `json:"ok"`
	Empty       int     `json:"empty"`
	Timeouts    int     `json:"timeouts"`
	Auth        int     `json:"auth_failures"`
	Failed      int     `json:"failed"`
	FailureRate float64 `json:"failure_rate"`
	Latency     Latency `json:"latency"`
	Rejected    int64   `json:"rejected"`
}

// CallStats keeps a rolling window of model call outcomes. Latency
// percentiles cover successful calls only; failures are counted per kind.
type CallStats struct {
	mu       sync.Mutex
	window   time.Duration
	calls    []call
	rejected int64
	now      func() time.Time
}

func NewCallStats(window time.Duration) *CallStats {
	if window <= 0 {
		window = time.Hour
	}
	return &CallStats{window: window, now: time.Now}
}

// Record adds one finished call.
func (s *CallStats) Record(outcome Outcome, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.pruneLocked(now)
	s.calls = append(s.calls, call{at: now, latency: max(latency, 0), outcome: outcome})
}

// Reject counts a call refused before reaching the backend.
func (s *CallStats) Reject() {
	s.mu.Lock()
	s.rejected++
	s.mu.Unlock()
}

func (s *CallStats) Snapshot() CallSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.now())

	snap := CallSnapshot{Calls: len(s.calls), Rejected: s.rejected}
	var ok []time.Duration
	for _, c := range s.calls {
		switch c.outcome {
		case OutcomeOK:
			snap.OK++
			ok = append(ok, c.latency)
		case OutcomeEmpty:
			snap.Empty++
		case OutcomeTimeout:
			snap.Timeouts++
		case OutcomeAuth:
			snap.Auth++
		default:
			snap.Failed++
		}
	}
	if snap.Calls > 0 {
		snap.FailureRate = float64(snap.Calls-snap.OK) / float64(snap.Calls)
	}
	snap.Latency = summarizeLatency(ok)
	return snap
}

// pruneLocked drops calls older than the window. Calls are appended in time
// order, so the expired ones form a prefix.
func (s *CallStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := sort.Search(len(s.calls), func(i int) bool { return !s.calls[i].at.Before(cutoff) })
	if i > 0 {
		s.calls = append(s.calls[:0], s.calls[i:]...)
	}
}

func summarizeLatency(d []time.Duration) Latency {
	if len(d) == 0 {
		return Latency{}
	}
	slices.Sort(d)
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return Latency{
		MinMs: ms(d[0]),
		MaxMs: ms(d[len(d)-1]),
		AvgMs: ms(sum) / float64(len(d)),
		P50Ms: ms(nearestRank(d, 50)),
		P95Ms: ms(nearestRank(d, 95)),
	}
}

// nearestRank returns the smallest sample with at least pct percent of the
// samples at or below it. sorted must be non-empty.
func nearestRank(sorted []time.Duration, pct float64) time.Duration {
	rank := int(math.Ceil(pct / 100 * float64(len(sorted))))
	return sorted[min(max(rank, 1), len(sorted))-1]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
