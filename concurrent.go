package faiss

// ConcurrentIndex is the read-only facet of an index whose read path may be
// called from many goroutines at once without locking.
//
// No mutation of the underlying index may be in flight while any call on
// the facet is running. The facet does not check this.
type ConcurrentIndex interface {
	IsTrained() bool
	NTotal() uint64
	D() uint32
	MetricType() MetricType

	Assign(q []float32, k int) (AssignSearchResult, error)
	Search(q []float32, k int) (SearchResult, error)
	RangeSearch(q []float32, radius float32) (*RangeSearchResult, error)

	concurrentReads()
}

// concurrentView exposes the read operations of an index core.
type concurrentView struct {
	c *indexCore
}

func (concurrentView) concurrentReads() {}

func (v concurrentView) IsTrained() bool        { return v.c.IsTrained() }
func (v concurrentView) NTotal() uint64         { return v.c.NTotal() }
func (v concurrentView) D() uint32              { return v.c.D() }
func (v concurrentView) MetricType() MetricType { return v.c.MetricType() }

func (v concurrentView) Assign(q []float32, k int) (AssignSearchResult, error) {
	return v.c.Assign(q, k)
}

func (v concurrentView) Search(q []float32, k int) (SearchResult, error) {
	return v.c.Search(q, k)
}

func (v concurrentView) RangeSearch(q []float32, radius float32) (*RangeSearchResult, error) {
	return v.c.RangeSearch(q, radius)
}
