package progress

import (
	"sync"
	"time"
)

// State is a step of the download state machine.
type State string

const (
	StatePending     State = "PENDING"
	StateDownloading State = "DOWNLOADING"
	StateMerging     State = "MERGING"
	StateConverting  State = "CONVERTING"
	StateFinished    State = "FINISHED"
	StateCanceled    State = "CANCELED"
	StateFailed      State = "FAILED"
)

// IsTerminal reports whether no further transitions can follow s.
func (s State) IsTerminal() bool {
	return s == StateFinished || s == StateCanceled || s == StateFailed
}

// Fractions reported for each stage. Transfer progress is scaled into [0, DownloadCeiling]
// so the bar never looks complete before post-processing starts.
const (
	DownloadCeiling    = 0.8
	MergingFraction    = 0.85
	ConvertingFraction = 0.9
)

// Update conveys one progress event of an execution.
type Update struct {
	JobID      string
	State      State
	Fraction   float64 // 0..1
	Downloaded int64   // cumulative bytes across all fetched streams
	Total      *int64  // best-known total; nil when unknown
	OutputPath string  // set on FINISHED
	Err        error   // set on FAILED
	Message    string  // short human-friendly status line
}

// Reporter receives progress events. Executors call it synchronously, in state order,
// from the goroutine that runs the execution.
type Reporter interface {
	Update(u Update)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Update)

func (f ReporterFunc) Update(u Update) { f(u) }

type multiReporter []Reporter

func (m multiReporter) Update(u Update) {
	for _, r := range m {
		r.Update(u)
	}
}

// Multi fans updates out to every non-nil reporter.
func Multi(reporters ...Reporter) Reporter {
	out := make(multiReporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Nop discards every update.
var Nop Reporter = ReporterFunc(func(Update) {})

// Throttle limits how often transfer updates pass through.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// NewThrottle returns a throttle admitting at most one event per interval.
// A non-positive interval admits everything.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, now: time.Now}
}

// Allow reports whether an event may be emitted now and, if so, records it.
func (t *Throttle) Allow() bool {
	if t == nil || t.interval <= 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// Reset makes the next Allow succeed.
func (t *Throttle) Reset() {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.last = time.Time{}
	t.mu.Unlock()
}
