package pipeline

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/tripmeter/internal/model"
)

// LoadResult holds the output of analyzing a batch of trips.
type LoadResult struct {
	Breakdowns  []model.BudgetBreakdown
	TotalTrips  int
	Activities  int
	Overspent   int
	Critical    int
	TotalBudget float64
	TotalSpend  float64
}

// ProgressFunc is called during analysis to report progress.
// current is the number of trips processed so far, total is the total count.
type ProgressFunc func(current, total int)

// AnalyzeAll computes a breakdown for every trip using a bounded worker pool.
// Breakdowns are returned in the same order as trips.
func AnalyzeAll(trips []model.Trip, opts Options, progressFn ProgressFunc) *LoadResult {
	result := &LoadResult{TotalTrips: len(trips)}
	if len(trips) == 0 {
		return result
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(trips) {
		numWorkers = len(trips)
	}

	work := make(chan int, len(trips))
	results := make([]model.BudgetBreakdown, len(trips))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range trips {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = Analyze(trips[idx], opts)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(trips))
				}
			}
		}()
	}

	wg.Wait()

	for i, bd := range results {
		result.Activities += trips[i].Itinerary.ActivityCount()
		result.TotalBudget += bd.Metrics.Total
		result.TotalSpend += bd.Metrics.EstimatedSpend
		if bd.Overspent {
			result.Overspent++
		}
		if bd.Metrics.Health == model.HealthCritical {
			result.Critical++
		}
	}
	result.Breakdowns = results

	return result
}
