package native

import "fmt"

// Handle is an opaque address of an engine-owned resource.
type Handle uintptr

// Null is the zero handle. Cast functions return it when the cast fails.
const Null Handle = 0

// Kind identifies the class of resource behind a Handle.
// The class decides which free function releases it.
type Kind uint8

const (
	KindIndex Kind = iota
	KindIDMap
	KindRangeSearchResult
	KindIDSelector
)

func (k Kind) String() string {
	switch k {
	case KindIndex:
		return "index"
	case KindIDMap:
		return "id-map index"
	case KindRangeSearchResult:
		return "range-search result"
	case KindIDSelector:
		return "id selector"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// MetricType is the distance function an index is configured with.
// Values follow the faiss numbering.
type MetricType int32

const (
	MetricInnerProduct MetricType = 0
	MetricL2           MetricType = 1
	MetricL1           MetricType = 2
	MetricLinf         MetricType = 3
)

func (m MetricType) String() string {
	switch m {
	case MetricInnerProduct:
		return "InnerProduct"
	case MetricL2:
		return "L2"
	case MetricL1:
		return "L1"
	case MetricLinf:
		return "Linf"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(m))
	}
}

// Status codes reported by the engine. They mirror the faiss C API, which
// returns 0 on success and a negative code per caught exception class.
const (
	CodeOK             = 0
	CodeUnknown        = -1
	CodeFaissException = -2
	CodeStdException   = -4
)

// Error is a failure status reported by the engine, together with the
// diagnostic message the engine attached to it.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("native error %d", e.Code)
	}
	return fmt.Sprintf("native error %d: %s", e.Code, e.Message)
}

// Engine is the set of entry points the faiss package calls.
//
// Implementations must treat mutating calls on one index as externally
// serialized. Read calls (search, assign, range search and the accessors)
// on an index whose variant has a reentrant read path may run concurrently.
type Engine interface {
	// Name identifies the engine in logs.
	Name() string

	IndexFactory(d int, description string, metric MetricType) (Handle, error)
	IndexFree(h Handle)
	CloneIndex(h Handle) (Handle, error)

	IndexIsTrained(h Handle) bool
	IndexNTotal(h Handle) int64
	IndexD(h Handle) int
	IndexMetricType(h Handle) MetricType

	IndexTrain(h Handle, n int64, x []float32) error
	IndexAdd(h Handle, n int64, x []float32) error
	IndexAddWithIDs(h Handle, n int64, x []float32, ids []int64) error
	IndexAssign(h Handle, n int64, x []float32, labels []int64, k int64) error
	IndexSearch(h Handle, n int64, x []float32, k int64, distances []float32, labels []int64) error
	IndexRangeSearch(h Handle, n int64, x []float32, radius float32, result Handle) error
	IndexReset(h Handle) error
	IndexRemoveIDs(h Handle, sel Handle) (int64, error)

	IndexFlatNew(d int, metric MetricType) (Handle, error)
	IndexFlatCast(h Handle) Handle
	IndexFlatXb(h Handle) []float32

	IndexIVFCast(h Handle) Handle
	IndexIVFNList(h Handle) int
	IndexIVFNProbe(h Handle) int
	IndexIVFSetNProbe(h Handle, nprobe int)

	IndexIDMapNew(inner Handle) (Handle, error)
	IndexIDMapOwnFields(h Handle) bool
	IndexIDMapSetOwnFields(h Handle, own bool)
	IndexIDMapIDMap(h Handle) []int64
	IndexIDMapSubIndex(h Handle) Handle

	RangeSearchResultNew(nq int64) (Handle, error)
	RangeSearchResultFree(h Handle)
	RangeSearchResultNQ(h Handle) int64
	RangeSearchResultLims(h Handle) []uint64
	RangeSearchResultLabels(h Handle) ([]int64, []float32)

	IDSelectorBatchNew(ids []int64) (Handle, error)
	IDSelectorRangeNew(imin, imax int64) (Handle, error)
	IDSelectorFree(h Handle)
}
