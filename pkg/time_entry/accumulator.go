package time_entry

import (
	"time"

	"github.com/timebudget/timebudget/internal/apperr"
)

var (
	ErrTimeEntryNotFound   = apperr.NotFound("time entry not found")
	ErrEntryFinished       = apperr.InvalidState("time entry is already finished")
	ErrEntryNotRunning     = apperr.InvalidState("time entry is not running")
	ErrEntryAlreadyRunning = apperr.InvalidState("time entry is already running")
)

// segmentSeconds returns the whole seconds between start and now, never negative.
func segmentSeconds(start, now time.Time) int64 {
	seconds := int64(now.Sub(start) / time.Second)
	if seconds < 0 {
		return 0
	}
	return seconds
}

// Start creates a new running entry whose first segment begins at now.
func Start(customerId int, description string, now time.Time) TimeEntry {
	return TimeEntry{
		CustomerId:      customerId,
		Description:     description,
		StartTime:       now,
		DurationSeconds: 0,
		IsRunning:       true,
	}
}

// Elapsed returns the seconds worked on the entry as of now. The running
// segment is only included while the entry is running.
func Elapsed(e TimeEntry, now time.Time) int64 {
	if !e.IsRunning {
		return e.DurationSeconds
	}
	return e.DurationSeconds + segmentSeconds(e.StartTime, now)
}

// Pause folds the running segment into DurationSeconds.
func Pause(e TimeEntry, now time.Time) (TimeEntry, error) {
	switch e.State() {
	case StateFinished:
		return e, ErrEntryFinished
	case StatePaused:
		return e, ErrEntryNotRunning
	}
	e.DurationSeconds += segmentSeconds(e.StartTime, now)
	e.IsRunning = false
	return e, nil
}

// Resume starts a new segment at now.
func Resume(e TimeEntry, now time.Time) (TimeEntry, error) {
	switch e.State() {
	case StateFinished:
		return e, ErrEntryFinished
	case StateRunning:
		return e, ErrEntryAlreadyRunning
	}
	e.StartTime = now
	e.IsRunning = true
	return e, nil
}

// Finish closes the entry. A running segment is folded in first; a paused
// entry keeps its duration.
func Finish(e TimeEntry, now time.Time) (TimeEntry, error) {
	switch e.State() {
	case StateFinished:
		return e, ErrEntryFinished
	case StateRunning:
		e.DurationSeconds += segmentSeconds(e.StartTime, now)
	}
	end := now
	e.EndTime = &end
	e.IsRunning = false
	return e, nil
}
