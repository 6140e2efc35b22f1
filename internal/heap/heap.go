// Package heap provides a generic binary min-heap of items that track their own position,
// so any item can be removed in O(log n).
package heap

// Item is an element of a [Heap]. SetIndex is called every time the item moves,
// and with -1 once it leaves the heap.
type Item interface {
	SetIndex(i int)
}

// Heap is a min-heap ordered by less. Items equal by less come out in no particular order.
type Heap[T Item] struct {
	data []T
	less func(item1, item2 T) bool
}

func New[T Item](less func(item1, item2 T) bool) *Heap[T] {
	return &Heap[T]{less: less}
}

func (h *Heap[T]) Len() int {
	return len(h.data)
}

func (h *Heap[T]) Push(item T) {
	h.data = append(h.data, item)
	h.siftUp(len(h.data)-1, item)
}

// Peek returns the minimum item without removing it. Panics if the heap is empty.
func (h *Heap[T]) Peek() T {
	return h.data[0]
}

// Pop removes and returns the minimum item. Panics if the heap is empty.
func (h *Heap[T]) Pop() T {
	return h.Remove(0)
}

// Remove removes the item at index i and returns it.
func (h *Heap[T]) Remove(i int) T {
	res := h.data[i]

	last := len(h.data) - 1
	moved := h.data[last]
	var zero T
	h.data[last] = zero // for GC
	h.data = h.data[:last]

	if i != last {
		// fill the hole with the former last item
		if i > 0 && h.less(moved, h.data[(i-1)/2]) {
			h.siftUp(i, moved)
		} else {
			h.siftDown(i, moved)
		}
	}

	res.SetIndex(-1)
	return res
}

// siftUp moves the hole at i towards the root until item fits into it.
func (h *Heap[T]) siftUp(i int, item T) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(item, h.data[parent]) {
			break
		}
		h.place(i, h.data[parent])
		i = parent
	}
	h.place(i, item)
}

// siftDown moves the hole at i towards the leaves until item fits into it.
func (h *Heap[T]) siftDown(i int, item T) {
	n := len(h.data)
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if right := child + 1; right < n && h.less(h.data[right], h.data[child]) {
			child = right
		}
		if !h.less(h.data[child], item) {
			break
		}
		h.place(i, h.data[child])
		i = child
	}
	h.place(i, item)
}

func (h *Heap[T]) place(i int, item T) {
	h.data[i] = item
	item.SetIndex(i)
}
