package compute

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/timeutil"
)

func testEntries() []*model.TimeEntry {
	return []*model.TimeEntry{
		model.NewTimeEntry("", "2026-08-26", "09:00", "12:00", 100),
		model.NewTimeEntry("", "2026-08-27", "13:00", "17:00", 100),
		model.NewTimeEntry("", "2026-08-28", "09:00", "11:00", 150),
	}
}

func statsRequest(kind Kind) Request {
	return Request{
		Kind:    kind,
		Entries: testEntries(),
		Period:  timeutil.PeriodAll,
		Now:     time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func TestRequestValidate(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"valid statistics", Request{Kind: KindStatistics, Now: now}, false},
		{"unknown kind", Request{Kind: "forecast", Now: now}, true},
		{"missing reference time", Request{Kind: KindStatistics}, true},
		{"empty batch", Request{Kind: KindBatch, Now: now}, true},
		{"nested batch", Request{Kind: KindBatch, BatchKinds: []Kind{KindBatch}, Now: now}, true},
		{"valid batch", Request{Kind: KindBatch, BatchKinds: []Kind{KindScore}, Now: now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestComputeSyncPath(t *testing.T) {
	c := NewCoordinator(100)
	defer c.Close()

	handle, err := c.Compute(context.Background(), statsRequest(KindStatistics))
	require.NoError(t, err)

	// Under the threshold the handle resolves before Compute returns.
	assert.False(t, handle.IsLoading())

	rs, err := handle.Result()
	require.NoError(t, err)
	require.NotNil(t, rs.Statistics)
	assert.InDelta(t, 9.0, rs.Statistics.TotalHours, 1e-9)
}

func TestComputeOffloadMatchesSync(t *testing.T) {
	syncCoord := NewCoordinator(100)
	defer syncCoord.Close()
	asyncCoord := NewCoordinator(0)
	defer asyncCoord.Close()

	syncHandle, err := syncCoord.Compute(context.Background(), statsRequest(KindStatistics))
	require.NoError(t, err)
	syncRS, err := syncHandle.Wait(context.Background())
	require.NoError(t, err)

	asyncHandle, err := asyncCoord.Compute(context.Background(), statsRequest(KindStatistics))
	require.NoError(t, err)
	asyncRS, err := asyncHandle.Wait(context.Background())
	require.NoError(t, err)

	// Both paths run the same pure functions over the same input.
	require.NotNil(t, syncRS.Statistics)
	require.NotNil(t, asyncRS.Statistics)
	assert.Equal(t, *syncRS.Statistics, *asyncRS.Statistics)
}

func TestComputeAppliedState(t *testing.T) {
	c := NewCoordinator(100)
	defer c.Close()

	assert.Nil(t, c.Applied(KindScore))

	handle, err := c.Compute(context.Background(), statsRequest(KindScore))
	require.NoError(t, err)
	rs, err := handle.Wait(context.Background())
	require.NoError(t, err)

	applied := c.Applied(KindScore)
	require.NotNil(t, applied)
	assert.Equal(t, rs, applied)
}

func TestStaleResponseDropped(t *testing.T) {
	c := NewCoordinator(100)
	defer c.Close()

	older := c.nextGeneration(KindStatistics)
	newer := c.nextGeneration(KindStatistics)

	staleResult := &ResultSet{}
	staleHandle := newHandle()
	c.finish(response{success: true, kind: KindStatistics, generation: older, result: staleResult}, staleHandle)

	// The superseded response resolves as stale and is never applied.
	<-staleHandle.Done()
	_, err := staleHandle.Result()
	assert.ErrorIs(t, err, ErrStale)
	assert.Nil(t, c.Applied(KindStatistics))

	freshResult := &ResultSet{}
	freshHandle := newHandle()
	c.finish(response{success: true, kind: KindStatistics, generation: newer, result: freshResult}, freshHandle)

	rs, err := freshHandle.Result()
	require.NoError(t, err)
	assert.Same(t, freshResult, rs)
	assert.Same(t, freshResult, c.Applied(KindStatistics))
}

func TestFailureKeepsLastGoodResult(t *testing.T) {
	c := NewCoordinator(100)
	defer c.Close()

	handle, err := c.Compute(context.Background(), statsRequest(KindInsights))
	require.NoError(t, err)
	good, err := handle.Wait(context.Background())
	require.NoError(t, err)

	gen := c.nextGeneration(KindInsights)
	failedHandle := newHandle()
	c.finish(response{
		kind:       KindInsights,
		generation: gen,
		err:        errors.New("worker blew up"),
	}, failedHandle)

	_, err = failedHandle.Result()
	assert.ErrorIs(t, err, errors.ErrComputation)

	// The failed generation must not clobber the cached result.
	assert.Same(t, good, c.Applied(KindInsights))
}

func TestComputeBatch(t *testing.T) {
	c := NewCoordinator(100)
	defer c.Close()

	req := statsRequest(KindBatch)
	req.DailyGoal = 500

	handle, err := c.ComputeBatch(context.Background(), req,
		[]Kind{KindStatistics, KindScore, KindStatistics})
	require.NoError(t, err)

	rs, err := handle.Wait(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, rs.Statistics)
	assert.NotNil(t, rs.Score)
	assert.Nil(t, rs.Insights)
	assert.Nil(t, rs.BestWeekday)

	// Batch members match their standalone equivalents.
	solo, err := c.Compute(context.Background(), statsRequest(KindStatistics))
	require.NoError(t, err)
	soloRS, err := solo.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, *soloRS.Statistics, *rs.Statistics)
}

func TestCoordinatorClose(t *testing.T) {
	c := NewCoordinator(0)

	handle, err := c.Compute(context.Background(), statsRequest(KindStatistics))
	require.NoError(t, err)

	c.Close()
	c.Close() // idempotent

	// The in-flight job resolved before the worker exited.
	_, err = handle.Wait(context.Background())
	require.NoError(t, err)

	_, err = c.Compute(context.Background(), statsRequest(KindStatistics))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestHandleWaitHonorsContext(t *testing.T) {
	h := newHandle()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
