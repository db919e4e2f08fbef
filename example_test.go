package faiss_test

import (
	"context"
	"fmt"
	"log"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	faiss "github.com/hupe1980/go-faiss"
)

// Example_flat demonstrates exact search over a flat index.
func Example_flat() {
	idx, err := faiss.NewFlatIndexL2(2)
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	if err := idx.Add([]float32{0, 0, 1, 1, 5, 5}); err != nil {
		log.Fatal(err)
	}

	res, err := idx.Search([]float32{0.9, 0.9}, 2)
	if err != nil {
		log.Fatal(err)
	}

	_, labels := res.Query(0)
	fmt.Println(labels)
	// Output: [1 0]
}

// Example_idMap demonstrates attaching external labels to a flat index.
func Example_idMap() {
	flat, err := faiss.NewFlatIndexL2(2)
	if err != nil {
		log.Fatal(err)
	}

	idx, err := faiss.NewIDMap(flat)
	if err != nil {
		flat.Close()
		log.Fatal(err)
	}
	defer idx.Close()

	if err := idx.AddWithIDs([]float32{0, 0, 3, 3}, []faiss.Idx{42, 7}); err != nil {
		log.Fatal(err)
	}

	res, err := idx.Search([]float32{2.5, 2.5}, 2)
	if err != nil {
		log.Fatal(err)
	}

	_, labels := res.Query(0)
	fmt.Println(labels, idx.IDMap())
	// Output: [7 42] [42 7]
}

// Example_removeIDs demonstrates removing labels selected by a bitmap.
func Example_removeIDs() {
	idx, err := faiss.IndexFactory(1, "IDMap,Flat", faiss.MetricL2)
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	if err := idx.AddWithIDs([]float32{0, 1, 2, 3}, []faiss.Idx{10, 11, 12, 13}); err != nil {
		log.Fatal(err)
	}

	sel, err := faiss.NewIDSelectorBatch(roaring64.BitmapOf(11, 13))
	if err != nil {
		log.Fatal(err)
	}
	defer sel.Close()

	n, err := idx.RemoveIDs(sel)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(n, idx.NTotal())
	// Output: 2 2
}

// Example_parallelSearch demonstrates fanning a query batch out over workers.
func Example_parallelSearch() {
	idx, err := faiss.NewFlatIndexL2(1)
	if err != nil {
		log.Fatal(err)
	}
	defer idx.Close()

	if err := idx.Add([]float32{0, 10, 20, 30}); err != nil {
		log.Fatal(err)
	}

	view, ok := idx.Concurrent()
	if !ok {
		log.Fatal("flat index should allow concurrent reads")
	}

	ps := faiss.NewParallelSearcher(view, func(o *faiss.ParallelOptions) {
		o.ChunkSize = 2
	})

	res, err := ps.Search(context.Background(), []float32{1, 29, 11, 19}, 1)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Labels)
	// Output: [0 3 1 2]
}
