// Package native defines the narrow, C-style boundary between go-faiss and a
// vector similarity search engine.
//
// Every resource the engine allocates is identified by an opaque Handle.
// Handles carry no ownership information of their own; the faiss package
// wraps each one in a single-owner value that releases it exactly once.
//
// Two engines satisfy the boundary:
//
//   - native/faissc binds the faiss C API (libfaiss_c) at runtime via purego.
//   - native/reference is a small pure-Go engine speaking the same contract,
//     used when the native library is not installed and in tests.
//
// Slices returned by the *View style accessors (IndexIDMapIDMap,
// IndexFlatXb, RangeSearchResultLims, RangeSearchResultLabels) alias engine
// memory. They are valid until the next mutation or release of the owning
// resource and must be copied before they escape.
package native
