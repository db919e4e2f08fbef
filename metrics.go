package faiss

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives one callback per index operation, after the
// native call returns. Implementations must be safe for concurrent use,
// since concurrent facets report from many goroutines.
//
// A Prometheus adapter only needs to map the callbacks:
//
//	func (p *promCollector) RecordSearch(nq, k int, d time.Duration, err error) {
//	    p.latency.Observe(d.Seconds())
//	    p.queries.Add(float64(nq))
//	}
type MetricsCollector interface {
	// RecordTrain is called after each train operation.
	// n is the number of training vectors, err is nil if successful.
	RecordTrain(n int, duration time.Duration, err error)

	// RecordAdd is called after each add or add_with_ids operation.
	// n is the number of vectors in the batch.
	RecordAdd(n int, duration time.Duration, err error)

	// RecordSearch is called after each search or assign operation.
	// nq is the number of query vectors, k the neighbors requested per query.
	RecordSearch(nq, k int, duration time.Duration, err error)

	// RecordRangeSearch is called after each range search operation.
	// results is the total number of (label, distance) pairs returned.
	RecordRangeSearch(nq, results int, duration time.Duration, err error)

	// RecordReset is called after each reset operation.
	RecordReset(duration time.Duration, err error)

	// RecordRemoveIDs is called after each remove_ids operation.
	// n is the number of vectors removed.
	RecordRemoveIDs(n int, duration time.Duration, err error)
}

// NoopMetricsCollector discards every observation. It is the default.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTrain(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordAdd(int, time.Duration, error)              {}
func (NoopMetricsCollector) RecordSearch(int, int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordRangeSearch(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordReset(time.Duration, error)                 {}
func (NoopMetricsCollector) RecordRemoveIDs(int, time.Duration, error)        {}

// BasicMetricsCollector counts operations in atomic counters. Failed adds
// and range searches are counted but contribute no vectors or results.
type BasicMetricsCollector struct {
	TrainCount        atomic.Int64
	TrainErrors       atomic.Int64
	AddCount          atomic.Int64
	AddErrors         atomic.Int64
	AddedVectors      atomic.Int64
	SearchCount       atomic.Int64
	SearchErrors      atomic.Int64
	SearchQueries     atomic.Int64
	SearchTotalNanos  atomic.Int64
	RangeSearchCount  atomic.Int64
	RangeSearchErrors atomic.Int64
	RangeResults      atomic.Int64
	ResetCount        atomic.Int64
	ResetErrors       atomic.Int64
	RemoveCount       atomic.Int64
	RemoveErrors      atomic.Int64
	RemovedVectors    atomic.Int64
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(n int, duration time.Duration, err error) {
	b.TrainCount.Add(1)
	if err != nil {
		b.TrainErrors.Add(1)
	}
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(n int, duration time.Duration, err error) {
	b.AddCount.Add(1)
	if err != nil {
		b.AddErrors.Add(1)
		return
	}
	b.AddedVectors.Add(int64(n))
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(nq, k int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchQueries.Add(int64(nq))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordRangeSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRangeSearch(nq, results int, duration time.Duration, err error) {
	b.RangeSearchCount.Add(1)
	if err != nil {
		b.RangeSearchErrors.Add(1)
		return
	}
	b.RangeResults.Add(int64(results))
}

// RecordReset implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReset(duration time.Duration, err error) {
	b.ResetCount.Add(1)
	if err != nil {
		b.ResetErrors.Add(1)
	}
}

// RecordRemoveIDs implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemoveIDs(n int, duration time.Duration, err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
		return
	}
	b.RemovedVectors.Add(int64(n))
}

// GetStats copies the counters. Fields are read one at a time, so a
// snapshot taken under load may mix adjacent operations.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		TrainCount:        b.TrainCount.Load(),
		TrainErrors:       b.TrainErrors.Load(),
		AddCount:          b.AddCount.Load(),
		AddErrors:         b.AddErrors.Load(),
		AddedVectors:      b.AddedVectors.Load(),
		SearchCount:       b.SearchCount.Load(),
		SearchErrors:      b.SearchErrors.Load(),
		SearchQueries:     b.SearchQueries.Load(),
		SearchAvgNanos:    b.avgSearchNanos(),
		RangeSearchCount:  b.RangeSearchCount.Load(),
		RangeSearchErrors: b.RangeSearchErrors.Load(),
		RangeResults:      b.RangeResults.Load(),
		ResetCount:        b.ResetCount.Load(),
		ResetErrors:       b.ResetErrors.Load(),
		RemoveCount:       b.RemoveCount.Load(),
		RemoveErrors:      b.RemoveErrors.Load(),
		RemovedVectors:    b.RemovedVectors.Load(),
	}
}

func (b *BasicMetricsCollector) avgSearchNanos() int64 {
	if n := b.SearchCount.Load(); n > 0 {
		return b.SearchTotalNanos.Load() / n
	}
	return 0
}

// BasicMetricsStats holds the values returned by GetStats.
type BasicMetricsStats struct {
	TrainCount        int64
	TrainErrors       int64
	AddCount          int64
	AddErrors         int64
	AddedVectors      int64
	SearchCount       int64
	SearchErrors      int64
	SearchQueries     int64
	SearchAvgNanos    int64
	RangeSearchCount  int64
	RangeSearchErrors int64
	RangeResults      int64
	ResetCount        int64
	ResetErrors       int64
	RemoveCount       int64
	RemoveErrors      int64
	RemovedVectors    int64
}
