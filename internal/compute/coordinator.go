package compute

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/logging"
	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/stats"
	"github.com/okulov/timeledger/internal/timeutil"
)

// ErrStale marks a request that was superseded by a newer one for the same
// computation key before it resolved. Its result was dropped; the caller
// should read the coordinator's applied state instead.
var ErrStale = errors.New("computation superseded by newer request")

// ErrClosed is returned when dispatching on a closed coordinator.
var ErrClosed = errors.New("coordinator closed")

// Coordinator owns the sync-vs-background decision and the staleness
// bookkeeping. At most one worker goroutine runs; overlapping requests for
// the same key are resolved by generation: only the latest generation's
// response is ever applied.
type Coordinator struct {
	threshold int

	mu          sync.Mutex
	generations map[Kind]uint64
	applied     map[Kind]*ResultSet

	jobs      chan job
	closeOnce sync.Once
	closed    chan struct{}
	wg        sync.WaitGroup
}

type job struct {
	req        Request
	filtered   []*model.TimeEntry
	window     timeutil.Window
	generation uint64
	handle     *Handle
}

// Handle is the caller's view of one in-flight computation. The UI layer
// polls IsLoading while awaiting Done.
type Handle struct {
	done   chan struct{}
	result *ResultSet
	err    error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Done is closed once the computation resolved, failed, or was superseded.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// IsLoading reports whether the computation is still outstanding.
func (h *Handle) IsLoading() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Result returns the outcome. It must only be read after Done is closed.
func (h *Handle) Result() (*ResultSet, error) {
	return h.result, h.err
}

// Wait blocks until the computation resolves or the context is cancelled.
func (h *Handle) Wait(ctx context.Context) (*ResultSet, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handle) resolve(result *ResultSet, err error) {
	h.result = result
	h.err = err
	close(h.done)
}

// NewCoordinator creates a coordinator with the given offload threshold
// and starts its worker goroutine.
func NewCoordinator(threshold int) *Coordinator {
	c := &Coordinator{
		threshold:   threshold,
		generations: make(map[Kind]uint64),
		applied:     make(map[Kind]*ResultSet),
		jobs:        make(chan job, 16),
		closed:      make(chan struct{}),
	}

	c.wg.Add(1)
	go c.worker()

	return c
}

// Compute runs the request, synchronously when the filtered entry count is
// at or below the threshold, otherwise on the background worker. The
// returned handle resolves either way; for the synchronous path it is
// already resolved on return.
func (c *Coordinator) Compute(ctx context.Context, req Request) (*Handle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	select {
	case <-c.closed:
		return nil, ErrClosed
	default:
	}

	filtered := stats.Filter(req.Entries, req.Period, req.From, req.To, req.Now)
	window := timeutil.PeriodWindow(req.Period, req.Now, req.From, req.To)
	generation := c.nextGeneration(req.Kind)

	handle := newHandle()

	if len(filtered) <= c.threshold {
		result, err := evaluate(req, filtered, window)
		c.finish(response{
			success:    err == nil,
			kind:       req.Kind,
			generation: generation,
			result:     result,
			err:        err,
		}, handle)
		return handle, nil
	}

	j := job{
		req:        req,
		filtered:   filtered,
		window:     window,
		generation: generation,
		handle:     handle,
	}

	select {
	case c.jobs <- j:
		return handle, nil
	case <-c.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ComputeBatch runs several computation kinds in one round trip.
func (c *Coordinator) ComputeBatch(ctx context.Context, req Request, kinds []Kind) (*Handle, error) {
	req.Kind = KindBatch
	req.BatchKinds = kinds
	return c.Compute(ctx, req)
}

// Applied returns the last good result applied for a computation key, or
// nil when none has resolved yet. Callers use it as the fallback when a
// dispatched computation fails or is superseded, so they are never left
// without a renderable value.
func (c *Coordinator) Applied(kind Kind) *ResultSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied[kind]
}

// Close stops the worker. Safe to call repeatedly; in-flight jobs resolve
// before the worker exits.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		close(c.jobs)
	})
	c.wg.Wait()
}

func (c *Coordinator) nextGeneration(kind Kind) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[kind]++
	return c.generations[kind]
}

// finish applies a response under the staleness rule and resolves the
// handle. A response whose generation is no longer the latest for its key
// is dropped wholesale: the applied state keeps whatever the newest
// generation produced.
func (c *Coordinator) finish(resp response, handle *Handle) {
	c.mu.Lock()
	latest := c.generations[resp.kind] == resp.generation
	if latest && resp.success {
		c.applied[resp.kind] = resp.result
	}
	c.mu.Unlock()

	switch {
	case !latest:
		logging.DebugLog("dropping stale computation response",
			logging.KeyKind, string(resp.kind),
			logging.KeyGeneration, resp.generation)
		handle.resolve(nil, ErrStale)
	case !resp.success:
		logging.Warn("background computation failed",
			logging.KeyKind, string(resp.kind),
			logging.KeyError, resp.err)
		handle.resolve(nil, errors.NewComputationError(string(resp.kind), resp.err))
	default:
		handle.resolve(resp.result, nil)
	}
}

// worker drains the job queue sequentially. A stuck computation occupies
// only its own slot; callers keep their goroutines.
func (c *Coordinator) worker() {
	defer c.wg.Done()

	for j := range c.jobs {
		result, err := evaluate(j.req, j.filtered, j.window)
		c.finish(response{
			success:    err == nil,
			kind:       j.req.Kind,
			generation: j.generation,
			result:     result,
			err:        err,
		}, j.handle)
	}
}

// evaluate runs the requested kinds against the filtered set. Both the
// synchronous and the offloaded path come through here. Panics become
// failed responses; the engine must never take down the caller.
func evaluate(req Request, filtered []*model.TimeEntry, window timeutil.Window) (result *ResultSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("computation panic: %v", r)
		}
	}()

	kinds := []Kind{req.Kind}
	if req.Kind == KindBatch {
		kinds = dedupeKinds(req.BatchKinds)
	}

	rs := &ResultSet{}

	// Each kind writes a distinct field, so batch members can run
	// concurrently.
	g := new(errgroup.Group)
	for _, kind := range kinds {
		kind := kind
		g.Go(func() error {
			return evalKind(rs, kind, req, filtered, window)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rs, nil
}

func evalKind(rs *ResultSet, kind Kind, req Request, filtered []*model.TimeEntry, window timeutil.Window) error {
	switch kind {
	case KindStatistics:
		res := stats.CalculateDetailedStats(filtered, window, req.Now)
		rs.Statistics = &res
	case KindInsights:
		res := stats.CalculateInsights(filtered, req.Now)
		rs.Insights = &res
	case KindBestWeekday:
		res := stats.BestWeekday(filtered)
		rs.BestWeekday = &res
	case KindScore:
		res := stats.CalculateProductivityScore(filtered, req.DailyGoal, req.Now)
		rs.Score = &res
	default:
		return fmt.Errorf("unknown computation kind %q", kind)
	}
	return nil
}

func dedupeKinds(kinds []Kind) []Kind {
	seen := make(map[Kind]bool, len(kinds))
	out := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
