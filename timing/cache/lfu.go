package cache

import "container/heap"

// lfuEntry tracks one block's access count inside a set's LFU heap.
type lfuEntry struct {
	block     int
	count     uint32
	heapIndex int
}

// lfuHeap is a container/heap min-heap ordered by access count, ties
// broken by lowest block index, matching spec.md's LFU tie-break rule.
type lfuHeap []*lfuEntry

func (h lfuHeap) Len() int { return len(h) }

func (h lfuHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count < h[j].count
	}
	return h[i].block < h[j].block
}

func (h lfuHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *lfuHeap) Push(x any) {
	e := x.(*lfuEntry)
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *lfuHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// heapFix re-establishes the heap invariant after entry i's priority
// changed, without removing and reinserting it.
func heapFix(h *lfuHeap, i int) {
	heap.Fix(h, i)
}
