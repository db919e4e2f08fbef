//go:build darwin || linux

package faissc

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// symbols holds the bound entry points of libfaiss_c. Pointers to engine
// objects travel as uintptr; they are never Go memory.
type symbols struct {
	getLastError func() string

	indexFactory    func(p *uintptr, d int32, description string, metric int32) int32
	indexFree       func(idx uintptr)
	cloneIndex      func(idx uintptr, p *uintptr) int32
	indexIsTrained  func(idx uintptr) int32
	indexNTotal     func(idx uintptr) int64
	indexD          func(idx uintptr) int32
	indexMetricType func(idx uintptr) int32
	indexTrain      func(idx uintptr, n int64, x *float32) int32
	indexAdd        func(idx uintptr, n int64, x *float32) int32
	indexAddWithIDs func(idx uintptr, n int64, x *float32, ids *int64) int32
	indexAssign     func(idx uintptr, n int64, x *float32, labels *int64, k int64) int32
	indexSearch     func(idx uintptr, n int64, x *float32, k int64, distances *float32, labels *int64) int32
	indexRange      func(idx uintptr, n int64, x *float32, radius float32, result uintptr) int32
	indexReset      func(idx uintptr) int32
	indexRemoveIDs  func(idx uintptr, sel uintptr, nRemoved *uint64) int32

	flatNewWith func(p *uintptr, d int64, metric int32) int32
	flatCast    func(idx uintptr) uintptr
	flatXb      func(idx uintptr, xb **float32, size *uint64)

	ivfCast      func(idx uintptr) uintptr
	ivfNList     func(idx uintptr) uint64
	ivfNProbe    func(idx uintptr) uint64
	ivfSetNProbe func(idx uintptr, nprobe uint64)

	idMapNew          func(p *uintptr, idx uintptr) int32
	idMapOwnFields    func(idx uintptr) int32
	idMapSetOwnFields func(idx uintptr, own int32)
	idMapIDMap        func(idx uintptr, ids **int64, size *uint64)
	idMapSubIndex     func(idx uintptr) uintptr

	rangeNew    func(p *uintptr, nq int64) int32
	rangeFree   func(res uintptr)
	rangeNQ     func(res uintptr) uint64
	rangeLims   func(res uintptr, lims **uint64)
	rangeLabels func(res uintptr, labels **int64, distances **float32)

	selectorBatchNew func(p *uintptr, n uint64, ids *int64) int32
	selectorRangeNew func(p *uintptr, imin, imax int64) int32
	selectorFree     func(sel uintptr)
}

// register binds every entry point. A missing symbol is reported as an
// error instead of the panic purego raises.
func (s *symbols) register(lib uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bind symbols: %v", r)
		}
	}()

	bind := func(fptr any, name string) {
		purego.RegisterLibFunc(fptr, lib, name)
	}

	bind(&s.getLastError, "faiss_get_last_error")

	bind(&s.indexFactory, "faiss_index_factory")
	bind(&s.indexFree, "faiss_Index_free")
	bind(&s.cloneIndex, "faiss_clone_index")
	bind(&s.indexIsTrained, "faiss_Index_is_trained")
	bind(&s.indexNTotal, "faiss_Index_ntotal")
	bind(&s.indexD, "faiss_Index_d")
	bind(&s.indexMetricType, "faiss_Index_metric_type")
	bind(&s.indexTrain, "faiss_Index_train")
	bind(&s.indexAdd, "faiss_Index_add")
	bind(&s.indexAddWithIDs, "faiss_Index_add_with_ids")
	bind(&s.indexAssign, "faiss_Index_assign")
	bind(&s.indexSearch, "faiss_Index_search")
	bind(&s.indexRange, "faiss_Index_range_search")
	bind(&s.indexReset, "faiss_Index_reset")
	bind(&s.indexRemoveIDs, "faiss_Index_remove_ids")

	bind(&s.flatNewWith, "faiss_IndexFlat_new_with")
	bind(&s.flatCast, "faiss_IndexFlat_cast")
	bind(&s.flatXb, "faiss_IndexFlat_xb")

	bind(&s.ivfCast, "faiss_IndexIVF_cast")
	bind(&s.ivfNList, "faiss_IndexIVF_nlist")
	bind(&s.ivfNProbe, "faiss_IndexIVF_nprobe")
	bind(&s.ivfSetNProbe, "faiss_IndexIVF_set_nprobe")

	bind(&s.idMapNew, "faiss_IndexIDMap_new")
	bind(&s.idMapOwnFields, "faiss_IndexIDMap_own_fields")
	bind(&s.idMapSetOwnFields, "faiss_IndexIDMap_set_own_fields")
	bind(&s.idMapIDMap, "faiss_IndexIDMap_id_map")
	bind(&s.idMapSubIndex, "faiss_IndexIDMap_sub_index")

	bind(&s.rangeNew, "faiss_RangeSearchResult_new")
	bind(&s.rangeFree, "faiss_RangeSearchResult_free")
	bind(&s.rangeNQ, "faiss_RangeSearchResult_nq")
	bind(&s.rangeLims, "faiss_RangeSearchResult_lims")
	bind(&s.rangeLabels, "faiss_RangeSearchResult_labels")

	bind(&s.selectorBatchNew, "faiss_IDSelectorBatch_new")
	bind(&s.selectorRangeNew, "faiss_IDSelectorRange_new")
	bind(&s.selectorFree, "faiss_IDSelector_free")

	return nil
}
