package time_entry

import (
	"time"
)

type State string

const (
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateFinished State = "finished"
)

type TimeEntry struct {
	Id          int
	CustomerId  int
	Description string
	// StartTime marks the beginning of the current segment. While paused it
	// still holds the start of the last segment.
	StartTime time.Time
	// EndTime is set exactly once, when the entry is finished.
	EndTime *time.Time
	// DurationSeconds holds the seconds of all segments folded in so far.
	DurationSeconds int64
	IsRunning       bool
	CreatedAt       time.Time
}

func (e TimeEntry) State() State {
	switch {
	case e.EndTime != nil:
		return StateFinished
	case e.IsRunning:
		return StateRunning
	default:
		return StatePaused
	}
}

// AccumulatedSeconds is the stored duration used for cost accounting.
func (e TimeEntry) AccumulatedSeconds() int64 {
	return e.DurationSeconds
}

// WindowDecoupled reports a finished entry whose start/end window does not
// span its accounted duration, as happens for manual entries without a window.
func (e TimeEntry) WindowDecoupled() bool {
	if e.EndTime == nil {
		return false
	}
	return segmentSeconds(e.StartTime, *e.EndTime) != e.DurationSeconds
}

// RunningEntry is an unfinished entry as shown on the stopwatch dashboard.
type RunningEntry struct {
	TimeEntry
	CustomerName   string
	ElapsedSeconds int64
}
