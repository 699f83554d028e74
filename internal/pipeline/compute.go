package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"chartlab/domain/chart"
	"chartlab/domain/table"
)

// Computer fans out independent chart requests under a weighted semaphore.
// Correctness never depends on this: every request still runs through the
// pure Dispatch, and the serial path produces byte-identical series. This is
// a scheduling optimization for large record sets (KDE dominates at
// O(n * gridSize) per group).
type Computer struct {
	sem *semaphore.Weighted
}

// NewComputer creates a computer allowing maxConcurrent in-flight requests
func NewComputer(maxConcurrent int64) *Computer {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Computer{sem: semaphore.NewWeighted(maxConcurrent)}
}

// Result pairs one request with its series or error. Token echoes the
// request's position so consumers can discard stale results after a
// selection change; cancellation is advisory and never force-terminates a
// running computation.
type Result struct {
	Token  int
	Series *chart.Series
	Err    error
}

// ComputeAll dispatches every request against the same record set, at most
// maxConcurrent at a time. Results are returned in request order. A
// cancelled context stops admitting new work; requests already running
// finish and report normally.
func (c *Computer) ComputeAll(ctx context.Context, rs *table.RecordSet, reqs []chart.Request) []Result {
	results := make([]Result, len(reqs))
	var wg sync.WaitGroup

	for i, req := range reqs {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			results[i] = Result{Token: i, Err: err}
			continue
		}
		wg.Add(1)
		go func(i int, req chart.Request) {
			defer wg.Done()
			defer c.sem.Release(1)
			series, err := Dispatch(rs, req)
			results[i] = Result{Token: i, Series: series, Err: err}
		}(i, req)
	}

	wg.Wait()
	return results
}
