// Package compute decides whether a statistics computation runs on the
// caller's goroutine or on a background worker, and shields callers from
// stale results when requests overlap. Both execution paths run the same
// pure functions from the stats package, so they are numerically identical
// for the same input.
package compute

import (
	"fmt"
	"time"

	"github.com/okulov/timeledger/internal/model"
	"github.com/okulov/timeledger/internal/stats"
	"github.com/okulov/timeledger/internal/timeutil"
)

// Kind identifies one computation. The set is closed; requests carrying an
// unknown kind are rejected before dispatch.
type Kind string

const (
	KindStatistics  Kind = "statistics"
	KindInsights    Kind = "insights"
	KindBestWeekday Kind = "bestWeekday"
	KindScore       Kind = "score"
	KindBatch       Kind = "batch"
)

// validKinds is the closed request vocabulary.
var validKinds = map[Kind]bool{
	KindStatistics:  true,
	KindInsights:    true,
	KindBestWeekday: true,
	KindScore:       true,
	KindBatch:       true,
}

// Request describes one computation over an entry collection. Now is
// captured by the caller so replays and offloaded runs see the same clock.
type Request struct {
	Kind    Kind
	Entries []*model.TimeEntry
	Period  timeutil.Period
	From    time.Time
	To      time.Time
	Now     time.Time

	// DailyGoal feeds the productivity score computation.
	DailyGoal float64

	// BatchKinds lists the kinds evaluated together when Kind is KindBatch.
	BatchKinds []Kind
}

// Validate checks the request against the closed protocol schema.
func (r *Request) Validate() error {
	if !validKinds[r.Kind] {
		return fmt.Errorf("unknown computation kind %q", r.Kind)
	}
	if r.Kind == KindBatch {
		if len(r.BatchKinds) == 0 {
			return fmt.Errorf("batch request carries no kinds")
		}
		for _, k := range r.BatchKinds {
			if !validKinds[k] || k == KindBatch {
				return fmt.Errorf("invalid kind %q in batch", k)
			}
		}
	}
	if r.Now.IsZero() {
		return fmt.Errorf("request is missing a reference time")
	}
	return nil
}

// ResultSet carries whichever results the request's kinds produced.
type ResultSet struct {
	Statistics  *stats.Result         `json:"statistics,omitempty"`
	Insights    *stats.Insights       `json:"insights,omitempty"`
	BestWeekday *stats.WeekdayInsight `json:"best_weekday,omitempty"`
	Score       *stats.Score          `json:"score,omitempty"`
}

// response is the worker's answer, tagged with the generation of the
// request that produced it.
type response struct {
	success    bool
	kind       Kind
	generation uint64
	result     *ResultSet
	err        error
}
