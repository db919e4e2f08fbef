// Package queue provides the bounded heap used for k-nearest-neighbor selection.
package queue

import "slices"

// Item represents a candidate in the queue.
type Item struct {
	Label    int64   // Label reported for the candidate.
	Distance float32 // Distance (or similarity) to the query.
	Seq      int64   // Scan position, used to order equal distances.
}

// TopK keeps the k best candidates seen so far.
// The heap root is the worst retained candidate, so a new candidate only
// needs one comparison against it to be rejected.
type TopK struct {
	k      int
	higher bool // true when larger distances are better (similarities)
	items  []Item
}

// NewTopK creates a queue retaining k candidates.
// higherIsBetter selects similarity ordering (inner product).
func NewTopK(k int, higherIsBetter bool) *TopK {
	return &TopK{
		k:      k,
		higher: higherIsBetter,
		items:  make([]Item, 0, k),
	}
}

// Len returns the number of retained candidates.
func (q *TopK) Len() int { return len(q.items) }

// Reset clears the queue for reuse with the same k.
func (q *TopK) Reset() { q.items = q.items[:0] }

// better reports whether a ranks before b.
func (q *TopK) better(a, b Item) bool {
	if a.Distance != b.Distance {
		if q.higher {
			return a.Distance > b.Distance
		}
		return a.Distance < b.Distance
	}
	return a.Seq < b.Seq
}

// Push offers a candidate. It returns false if the candidate was rejected.
func (q *TopK) Push(item Item) bool {
	if q.k <= 0 {
		return false
	}
	if len(q.items) < q.k {
		q.items = append(q.items, item)
		q.siftUp(len(q.items) - 1)
		return true
	}
	if !q.better(item, q.items[0]) {
		return false
	}
	q.items[0] = item
	q.siftDown(0)
	return true
}

// Sorted returns the retained candidates best first.
// The queue is left empty.
func (q *TopK) Sorted() []Item {
	out := slices.Clone(q.items)
	slices.SortFunc(out, func(a, b Item) int {
		switch {
		case q.better(a, b):
			return -1
		case q.better(b, a):
			return 1
		default:
			return 0
		}
	})
	q.Reset()
	return out
}

// worse orders the heap so the worst candidate sits at the root.
func (q *TopK) worse(i, j int) bool {
	return q.better(q.items[j], q.items[i])
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.worse(i, p) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		worst := l
		if r := l + 1; r < n && q.worse(r, l) {
			worst = r
		}
		if !q.worse(worst, i) {
			return
		}
		q.items[i], q.items[worst] = q.items[worst], q.items[i]
		i = worst
	}
}
