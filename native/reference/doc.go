// Package reference is a pure-Go engine implementing the native boundary.
//
// It mirrors the observable behaviour of the faiss C API closely enough for
// the faiss package to run unmodified on top of it: the same status codes
// and messages, the same own-fields semantics for id maps, the same result
// layouts. It is not tuned for speed; searches are exact scans or scans over
// the probed inverted lists.
//
// # Variants
//
//   - "Flat": exact search, sequential labels, no add_with_ids.
//   - "IVF<nlist>,Flat": k-means trained inverted lists; requires training;
//     supports add_with_ids natively; nprobe defaults to 1.
//   - "IDMap,<sub>": external labels over any sub-index (owns it).
//
// # Usage
//
//	e := reference.New()
//	idx, err := faiss.NewFlatIndexL2(8, faiss.WithEngine(e))
package reference
