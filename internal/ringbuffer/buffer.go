// Package ringbuffer provides an unbounded FIFO queue backed by a growable ring.
// It is not safe for concurrent use.
package ringbuffer

const minCap = 16

type Buffer[T any] struct {
	data         []T
	offset, size int
}

func (b *Buffer[T]) Cap() int {
	return len(b.data)
}

func (b *Buffer[T]) Len() int {
	return b.size
}

// Write appends v to the end.
func (b *Buffer[T]) Write(v T) {
	b.grow(1)

	pos := (b.offset + b.size) % len(b.data)
	b.data[pos] = v
	b.size++
}

// Read removes and returns the first item.
func (b *Buffer[T]) Read() (T, bool) {
	var zero T
	if b.size == 0 {
		return zero, false
	}

	v := b.data[b.offset]
	b.data[b.offset] = zero // let GC do its work

	b.offset = (b.offset + 1) % len(b.data)
	b.size--
	return v, true
}

// ReadAll moves all items, in order, to the end of dst and returns the extended slice.
func (b *Buffer[T]) ReadAll(dst []T) []T {
	for b.size > 0 {
		v, _ := b.Read()
		dst = append(dst, v)
	}
	return dst
}

// change the capacity and defragment the buffer
// panics if newCap is less than buf.size
func (b *Buffer[T]) setCap(newCap int) {
	newData := make([]T, newCap)

	end := b.offset + b.size
	if end <= len(b.data) {
		copy(newData, b.data[b.offset:end])
	} else {
		copied := copy(newData, b.data[b.offset:])
		copy(newData[copied:], b.data[:b.size-copied])
	}

	b.data = newData
	b.offset = 0
}

func (b *Buffer[T]) grow(n int) {
	targetSize := b.size + n
	targetCap := cap(b.data)

	if targetCap >= targetSize {
		return // enough
	}

	if targetCap < minCap {
		targetCap = minCap
	}
	for targetCap < targetSize {
		targetCap <<= 1 // double the capacity
	}

	b.setCap(targetCap)
}

// Compact halves the capacity while the items still fit, releasing memory held after a burst.
func (b *Buffer[T]) Compact() {
	targetCap := cap(b.data)
	for {
		half := targetCap >> 1
		if half >= minCap && half >= b.size {
			targetCap = half
		} else {
			break
		}
	}

	if targetCap < cap(b.data) {
		b.setCap(targetCap)
	}
}
