package logic

import "time"

// Window accumulates depths between two report instants.
type Window struct {
	Sum   int64
	Count int
}

// Add includes one depth in the window.
func (w *Window) Add(d Depth) {
	w.Sum += int64(d)
	w.Count++
}

// Mean returns the integer mean of the window. ok is false when the window is
// empty and the mean is undefined.
func (w Window) Mean() (mean Depth, ok bool) {
	if w.Count == 0 {
		return 0, false
	}
	return Depth(w.Sum / int64(w.Count)), true
}

// Reset empties the window.
func (w *Window) Reset() {
	w.Sum = 0
	w.Count = 0
}

// Trigger decides when a report is due. Due mutates the trigger's own state
// when it fires, so each call is one evaluation of the due-condition.
type Trigger interface {
	Due(now time.Time) bool
}

// IntervalTrigger fires when Interval has elapsed since Last. Missed
// intervals are not caught up: firing moves Last to now.
type IntervalTrigger struct {
	Interval time.Duration
	Last     time.Time
}

// NewIntervalTrigger creates a trigger whose first report is due one interval
// after start.
func NewIntervalTrigger(interval time.Duration, start time.Time) *IntervalTrigger {
	return &IntervalTrigger{Interval: interval, Last: start}
}

// Due reports whether now >= Last + Interval.
func (t *IntervalTrigger) Due(now time.Time) bool {
	if now.Before(t.Last.Add(t.Interval)) {
		return false
	}
	t.Last = now
	return true
}

// CountTrigger fires on every Nth evaluation and ignores the clock.
type CountTrigger struct {
	N     int
	count int
}

// NewCountTrigger creates a trigger that fires once every n iterations.
func NewCountTrigger(n int) *CountTrigger {
	return &CountTrigger{N: n}
}

// Due counts one iteration and reports whether the counter reached N.
func (t *CountTrigger) Due(time.Time) bool {
	t.count++
	if t.count < t.N {
		return false
	}
	t.count = 0
	return true
}
