package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStop(t *testing.T) {
	s := NewScheduler(nil, nil)

	require.NoError(t, s.Start())
	assert.False(t, s.NextRun().IsZero())

	s.Stop()
}

func TestAddJob(t *testing.T) {
	s := NewScheduler(nil, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	var ran atomic.Bool
	_, err := s.AddJob("* * * * * *", func() { ran.Store(true) })
	require.NoError(t, err)

	require.Eventually(t, func() bool { return ran.Load() },
		3*time.Second, 50*time.Millisecond)
}

func TestMinuteChecksSkipAfterSleep(t *testing.T) {
	s := NewScheduler(nil, nil)

	// A last check far in the past looks like a wake from sleep; the
	// tick must be dropped but the clock still advances.
	s.lastCheck = time.Now().Add(-2 * time.Hour)
	s.runMinuteChecks()

	assert.WithinDuration(t, time.Now(), s.lastCheck, time.Second)
}

func TestMinuteChecksWithoutManagers(t *testing.T) {
	s := NewScheduler(nil, nil)
	s.lastCheck = time.Now()

	// Nil managers: both jobs are skipped without panicking.
	s.runMinuteChecks()
}
