package faiss

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/go-faiss/resource"
)

// ParallelOptions configures a ParallelSearcher.
type ParallelOptions struct {
	// ChunkSize is the number of queries per native call.
	ChunkSize int

	// Resources bounds the number of chunks in flight (MaxWorkers) and the
	// rate at which queries are dispatched (QueriesPerSecond).
	// If nil, a controller with GOMAXPROCS workers and no rate limit is used.
	Resources *resource.Controller

	// MaxResultBytes bounds the merged result of one call, like
	// WithMaxResultBytes does for an index. 0 or less only rejects overflow.
	MaxResultBytes int64
}

// DefaultParallelOptions contains the default options for a ParallelSearcher.
var DefaultParallelOptions = ParallelOptions{
	ChunkSize:      64,
	MaxResultBytes: DefaultMaxResultBytes,
}

// ParallelSearcher splits large query batches into chunks and searches them
// on several goroutines through the concurrent facet of an index. Results
// are laid out exactly as a single call over the whole batch would return
// them.
type ParallelSearcher struct {
	index ConcurrentIndex
	opts  ParallelOptions
}

// NewParallelSearcher creates a searcher over index.
func NewParallelSearcher(index ConcurrentIndex, optFns ...func(o *ParallelOptions)) *ParallelSearcher {
	opts := DefaultParallelOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultParallelOptions.ChunkSize
	}
	if opts.Resources == nil {
		opts.Resources = resource.NewController(resource.Config{})
	}

	return &ParallelSearcher{index: index, opts: opts}
}

// Search runs Search over q in parallel chunks. Cancelling ctx stops the
// dispatch of further chunks; chunks already running complete.
func (p *ParallelSearcher) Search(ctx context.Context, q []float32, k int) (SearchResult, error) {
	nq, err := p.check(q, k)
	if err != nil {
		return SearchResult{}, err
	}

	out := SearchResult{
		Distances: make([]float32, nq*k),
		Labels:    make([]Idx, nq*k),
		K:         k,
	}

	err = p.run(ctx, nq, func(start, end int) error {
		res, err := p.index.Search(p.rows(q, start, end), k)
		if err != nil {
			return err
		}
		copy(out.Distances[start*k:end*k], res.Distances)
		copy(out.Labels[start*k:end*k], res.Labels)
		return nil
	})
	if err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

// Assign runs Assign over q in parallel chunks.
func (p *ParallelSearcher) Assign(ctx context.Context, q []float32, k int) (AssignSearchResult, error) {
	nq, err := p.check(q, k)
	if err != nil {
		return AssignSearchResult{}, err
	}

	out := AssignSearchResult{Labels: make([]Idx, nq*k), K: k}

	err = p.run(ctx, nq, func(start, end int) error {
		res, err := p.index.Assign(p.rows(q, start, end), k)
		if err != nil {
			return err
		}
		copy(out.Labels[start*k:end*k], res.Labels)
		return nil
	})
	if err != nil {
		return AssignSearchResult{}, err
	}
	return out, nil
}

func (p *ParallelSearcher) check(q []float32, k int) (int, error) {
	if k < 1 {
		return 0, ErrInvalidK
	}
	nq, err := checkVectors("query", q, int(p.index.D()))
	if err != nil {
		return 0, err
	}
	if _, err := resultBytes(nq, k, p.opts.MaxResultBytes); err != nil {
		return 0, err
	}
	return nq, nil
}

func (p *ParallelSearcher) rows(q []float32, start, end int) []float32 {
	d := int(p.index.D())
	return q[start*d : end*d]
}

// run calls fn for consecutive [start, end) query ranges, one goroutine per
// range, holding a worker slot from the controller for each.
func (p *ParallelSearcher) run(ctx context.Context, nq int, fn func(start, end int) error) error {
	rc := p.opts.Resources
	g, gctx := errgroup.WithContext(ctx)

	var dispatchErr error
	for start := 0; start < nq; start += p.opts.ChunkSize {
		end := min(start+p.opts.ChunkSize, nq)

		if err := gctx.Err(); err != nil {
			dispatchErr = err
			break
		}
		if err := rc.AcquireQueries(gctx, end-start); err != nil {
			dispatchErr = err
			break
		}
		if err := rc.AcquireWorker(gctx); err != nil {
			dispatchErr = err
			break
		}

		g.Go(func() error {
			defer rc.ReleaseWorker()
			return fn(start, end)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return dispatchErr
}
