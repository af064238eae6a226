package session

import (
	"time"

	"pomobar/internal/core/model"
)

// Interval is one work/break pair inside a session.
type Interval struct {
	WorkSeconds      int
	BreakSeconds     int
	Phase            Phase
	RemainingSeconds int
}

func newInterval(config model.IntervalConfig) Interval {
	work := int(config.Work / time.Second)
	return Interval{
		WorkSeconds:      work,
		BreakSeconds:     int(config.Pause / time.Second),
		Phase:            PhaseNotStarted,
		RemainingSeconds: work,
	}
}

// setRemaining stores a timer value, clamping the transient negative tick.
func (interval *Interval) setRemaining(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	interval.RemainingSeconds = seconds
}

func (interval *Interval) complete() {
	interval.Phase = PhaseCompleted
	interval.RemainingSeconds = 0
}

func buildIntervals(config model.SessionConfig) []Interval {
	entries := config.Intervals()
	intervals := make([]Interval, 0, len(entries))
	for _, entry := range entries {
		intervals = append(intervals, newInterval(entry))
	}
	return intervals
}
