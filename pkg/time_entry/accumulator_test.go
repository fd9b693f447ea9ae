package time_entry

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timebudget/timebudget/internal/apperr"
)

var t0 = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func TestAccumulator_Lifecycle(t *testing.T) {
	// given
	entry := Start(1, "Design review", t0)

	// when
	paused, err := Pause(entry, t0.Add(90*time.Second))
	require.NoError(t, err)
	// then
	assert.Equal(t, int64(90), paused.DurationSeconds)
	assert.Equal(t, StatePaused, paused.State())
	assert.Equal(t, int64(90), Elapsed(paused, t0.Add(150*time.Second)))

	resumed, err := Resume(paused, t0.Add(200*time.Second))
	require.NoError(t, err)
	assert.Equal(t, StateRunning, resumed.State())
	assert.Equal(t, t0.Add(200*time.Second), resumed.StartTime)
	assert.Equal(t, int64(120), Elapsed(resumed, t0.Add(230*time.Second)))

	finished, err := Finish(resumed, t0.Add(260*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(150), finished.DurationSeconds)
	assert.Equal(t, StateFinished, finished.State())
	assert.False(t, finished.IsRunning)
	require.NotNil(t, finished.EndTime)
	assert.Equal(t, t0.Add(260*time.Second), *finished.EndTime)
}

func TestAccumulator_InvalidTransitions(t *testing.T) {
	running := Start(1, "Support", t0)
	paused, err := Pause(running, t0.Add(time.Minute))
	require.NoError(t, err)
	finished, err := Finish(running, t0.Add(time.Minute))
	require.NoError(t, err)

	t.Run("should not pause a paused entry", func(t *testing.T) {
		_, err := Pause(paused, t0.Add(2*time.Minute))
		assert.ErrorIs(t, err, ErrEntryNotRunning)
		assert.ErrorIs(t, err, apperr.ErrInvalidState)
	})

	t.Run("should not resume a running entry", func(t *testing.T) {
		_, err := Resume(running, t0.Add(2*time.Minute))
		assert.ErrorIs(t, err, ErrEntryAlreadyRunning)
	})

	t.Run("should reject every transition on a finished entry", func(t *testing.T) {
		for _, apply := range []func(TimeEntry, time.Time) (TimeEntry, error){Pause, Resume, Finish} {
			unchanged, err := apply(finished, t0.Add(time.Hour))
			assert.ErrorIs(t, err, ErrEntryFinished)
			assert.Equal(t, finished, unchanged)
		}
	})
}

func TestAccumulator_FinishWhilePaused(t *testing.T) {
	paused, err := Pause(Start(1, "Support", t0), t0.Add(45*time.Second))
	require.NoError(t, err)

	finished, err := Finish(paused, t0.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, int64(45), finished.DurationSeconds)
	assert.Equal(t, t0.Add(time.Hour), *finished.EndTime)
}

func TestAccumulator_ClockSkew(t *testing.T) {
	entry := Start(1, "Support", t0)

	assert.Equal(t, int64(0), Elapsed(entry, t0.Add(-time.Minute)))
	paused, err := Pause(entry, t0.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(0), paused.DurationSeconds)
}

func TestAccumulator_SubSecondSegmentsAreFloored(t *testing.T) {
	paused, err := Pause(Start(1, "Support", t0), t0.Add(2999*time.Millisecond))

	require.NoError(t, err)
	assert.Equal(t, int64(2), paused.DurationSeconds)
}

func TestAccumulator_DurationMatchesRunningTime(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	entry := Start(1, "Random walk", t0)
	now := t0
	segmentStart := t0
	var runningSeconds int64

	for i := 0; i < 200; i++ {
		now = now.Add(time.Duration(rng.IntN(600)) * time.Second)
		before := entry.DurationSeconds
		if rng.IntN(2) == 0 {
			paused, err := Pause(entry, now)
			if entry.IsRunning {
				require.NoError(t, err)
				runningSeconds += int64(now.Sub(segmentStart) / time.Second)
				entry = paused
				assert.Equal(t, runningSeconds, entry.DurationSeconds)
			} else {
				assert.ErrorIs(t, err, ErrEntryNotRunning)
			}
		} else {
			resumed, err := Resume(entry, now)
			if entry.IsRunning {
				assert.ErrorIs(t, err, ErrEntryAlreadyRunning)
			} else {
				require.NoError(t, err)
				segmentStart = now
				entry = resumed
			}
		}
		assert.GreaterOrEqual(t, entry.DurationSeconds, before)
		assert.GreaterOrEqual(t, Elapsed(entry, now), entry.DurationSeconds)
	}

	end := now.Add(time.Minute)
	if entry.IsRunning {
		runningSeconds += int64(end.Sub(segmentStart) / time.Second)
	}
	finished, err := Finish(entry, end)
	require.NoError(t, err)
	assert.Equal(t, runningSeconds, finished.DurationSeconds)
}
