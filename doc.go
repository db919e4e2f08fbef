// Package faiss manages indexes of a handle-based vector similarity search
// engine.
//
// The engine, usually the faiss C library loaded through the native/faissc
// package, implements the search algorithms. This package owns the native
// resources the engine hands out, exposes a uniform operation set over them,
// and adds external labels to indexes that only number vectors by position.
//
// # Quick Start
//
//	idx, _ := faiss.NewFlatIndexL2(8)
//	m, _ := faiss.NewIDMap(idx)  // m now owns idx
//	defer m.Close()
//
//	_ = m.AddWithIDs(vectors, []faiss.Idx{3, 6, 9, 12, 15})
//	res, _ := m.Search(query, 5)
//	fmt.Println(res.Labels, res.Distances)
//
// # Engines
//
// Without WithEngine, indexes are served by a pure-Go reference engine
// (native/reference). To use the native library:
//
//	eng, err := faissc.Open()
//	idx, err := faiss.IndexFactory(128, "IVF256,Flat", faiss.MetricL2, faiss.WithEngine(eng))
//
// # Ownership
//
// Every value that owns native memory has a Close method that frees it
// exactly once; further Close calls are no-ops. Wrapping an index with
// NewIDMap, converting it with IntoFlat or IntoIVFFlat, or unwrapping an id
// map moves ownership to the returned value. Any other use of the value
// that gave up ownership panics.
//
// # Concurrency
//
// Mutating operations must be serialized by the caller. Variants whose
// native read path is reentrant offer a read-only facet:
//
//	if c, ok := idx.Concurrent(); ok {
//	    ps := faiss.NewParallelSearcher(c)
//	    res, err := ps.Search(ctx, queries, 10)
//	}
//
// Reads through the facet may run together but must not overlap a mutation.
//
// # Error Handling
//
// Engine failures are *NativeError values. They are additionally classified
// with ErrUnsupportedOperation and ErrResourceExhausted where applicable:
//
//	err := idx.AddWithIDs(x, ids)
//	if errors.Is(err, faiss.ErrUnsupportedOperation) {
//	    // wrap the index with NewIDMap
//	}
//
// Input buffers that do not fit the index dimension yield a
// *DimensionMismatchError before the engine is called.
//
// Equal-distance neighbors are returned in the engine's order, which is
// stable for a given data layout but otherwise unspecified.
package faiss
