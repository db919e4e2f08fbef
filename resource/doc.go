// Package resource bounds what searches may consume.
//
// A Controller holds three independent limits:
//
//   - memory reserved for result buffers, refused at once when exceeded
//   - goroutines running query chunks, waited for
//   - query vectors dispatched per second, waited for
//
// Indexes reserve memory through it when built with
// faiss.WithResourceController; faiss.ParallelSearcher takes worker slots
// and query tokens from it.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	    MaxWorkers:       4,
//	    QueriesPerSecond: 5000,
//	})
//
// Methods on a nil *Controller succeed without limiting anything.
package resource
