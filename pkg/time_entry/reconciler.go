package time_entry

import (
	"strings"
	"time"

	"github.com/timebudget/timebudget/internal/apperr"
)

var ErrEntryNotFinished = apperr.InvalidState("only finished time entries can be edited")

// maxDurationHours caps a single entry at ten years, far below int64 overflow.
const maxDurationHours = 10 * 366 * 24

// DurationInput is a duration given either as hours and minutes or as total
// seconds.
type DurationInput struct {
	Hours   int64
	Minutes int64
	// Seconds, when non-zero, replaces Hours and Minutes.
	Seconds int64
}

func (d DurationInput) TotalSeconds() (int64, error) {
	if d.Hours < 0 || d.Minutes < 0 || d.Seconds < 0 {
		return 0, apperr.Validation("duration must not be negative")
	}
	if d.Hours > maxDurationHours || d.Minutes > maxDurationHours*60 || d.Seconds > maxDurationHours*3600 {
		return 0, apperr.Validation("duration must not exceed %d hours", maxDurationHours)
	}
	if d.Seconds != 0 && (d.Hours != 0 || d.Minutes != 0) {
		return 0, apperr.Validation("duration must be given either in seconds or in hours and minutes")
	}
	total := d.Seconds
	if total == 0 {
		total = d.Hours*3600 + d.Minutes*60
	}
	if total <= 0 {
		return 0, apperr.Validation("duration must be greater than zero")
	}
	return total, nil
}

// EntryInput describes a finished entry recorded by hand.
type EntryInput struct {
	Description string
	Duration    DurationInput
	StartTime   *time.Time
	EndTime     *time.Time
}

// Reconciled is a validated manual entry. The duration is authoritative; the
// window is kept as given and may not match it.
type Reconciled struct {
	Description     string
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int64
}

// Reconcile validates in. Missing window bounds fall back to defaultStart
// and defaultEnd.
func Reconcile(in EntryInput, defaultStart, defaultEnd time.Time) (Reconciled, error) {
	description, err := validDescription(in.Description)
	if err != nil {
		return Reconciled{}, err
	}
	total, err := in.Duration.TotalSeconds()
	if err != nil {
		return Reconciled{}, err
	}

	start, end := defaultStart, defaultEnd
	if in.StartTime != nil {
		start = in.StartTime.UTC()
	}
	if in.EndTime != nil {
		end = in.EndTime.UTC()
	}
	if end.Before(start) {
		return Reconciled{}, apperr.Validation("end time must not be before start time")
	}

	return Reconciled{
		Description:     description,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: total,
	}, nil
}

// NewManualEntry builds a finished entry from in. Both window bounds default to now.
func NewManualEntry(customerId int, in EntryInput, now time.Time) (TimeEntry, error) {
	reconciled, err := Reconcile(in, now, now)
	if err != nil {
		return TimeEntry{}, err
	}
	end := reconciled.EndTime
	return TimeEntry{
		CustomerId:      customerId,
		Description:     reconciled.Description,
		StartTime:       reconciled.StartTime,
		EndTime:         &end,
		DurationSeconds: reconciled.DurationSeconds,
		IsRunning:       false,
	}, nil
}

// EditInput is a partial update of an entry. Nil fields are left unchanged.
type EditInput struct {
	Description *string
	Duration    *DurationInput
	StartTime   *time.Time
	EndTime     *time.Time
}

// DescriptionOnly reports whether the edit touches nothing but the description.
func (in EditInput) DescriptionOnly() bool {
	return in.Duration == nil && in.StartTime == nil && in.EndTime == nil
}

// ApplyEdit applies in to e. Changing only the description is allowed in any
// state; changing duration or window requires a finished entry.
func ApplyEdit(e TimeEntry, in EditInput) (TimeEntry, error) {
	if in.DescriptionOnly() {
		if in.Description == nil {
			return e, apperr.Validation("nothing to update")
		}
		description, err := validDescription(*in.Description)
		if err != nil {
			return e, err
		}
		e.Description = description
		return e, nil
	}

	if e.State() != StateFinished {
		return e, ErrEntryNotFinished
	}

	input := EntryInput{
		Description: e.Description,
		Duration:    DurationInput{Seconds: e.DurationSeconds},
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
	}
	if in.Description != nil {
		input.Description = *in.Description
	}
	if in.Duration != nil {
		input.Duration = *in.Duration
	}

	reconciled, err := Reconcile(input, e.StartTime, *e.EndTime)
	if err != nil {
		return e, err
	}
	end := reconciled.EndTime
	e.Description = reconciled.Description
	e.StartTime = reconciled.StartTime
	e.EndTime = &end
	e.DurationSeconds = reconciled.DurationSeconds
	return e, nil
}

func validDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", apperr.Validation("description is required")
	}
	return description, nil
}
