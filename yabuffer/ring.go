package yabuffer

// Ring is a fixed-capacity circular Buffer. Once full, every write overwrites
// the oldest item, so only the most recent Size() items are retained.
//
// A Ring with capacity 0 accepts nothing and always stays empty.
//
// Example:
//
//	ring := yabuffer.NewRing[string](2)
//	ring.Write([]string{"a", "b", "c"})
//	out := make([]string, 2)
//	n := ring.Read(out) // n == 2, out == ["b", "c"]
type Ring[T any] struct {
	items []T
	// next write slot
	head  int
	count int
}

var _ Buffer[int] = (*Ring[int])(nil)

// NewRing creates a ring holding at most capacity items. A negative capacity
// is treated as 0.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{items: make([]T, max(capacity, 0))}
}

func (r *Ring[T]) Len() int {
	return r.count
}

func (r *Ring[T]) Size() int {
	return len(r.items)
}

// Write appends items, overwriting the oldest ones when the ring is full.
// When len(items) exceeds the capacity only the trailing items are kept.
// The return value counts every accepted item, including those that were
// overwritten by later items of the same call.
func (r *Ring[T]) Write(items []T) int {
	capacity := len(r.items)
	if capacity == 0 || len(items) == 0 {
		return 0
	}

	start := max(len(items)-capacity, 0)

	for _, item := range items[start:] {
		r.items[r.head] = item
		r.head = (r.head + 1) % capacity

		if r.count < capacity {
			r.count++
		}
	}

	return len(items)
}

// Read copies up to len(dst) items, oldest first. It does not move any
// cursor, so repeated calls return the same items until the next Write or
// Clear.
func (r *Ring[T]) Read(dst []T) int {
	if len(dst) == 0 || r.count == 0 {
		return 0
	}

	n := min(len(dst), r.count)
	oldest := r.oldest()

	for i := range n {
		dst[i] = r.items[(oldest+i)%len(r.items)]
	}

	return n
}

func (r *Ring[T]) ForEach(fn func(T)) int {
	oldest := r.oldest()

	for i := range r.count {
		fn(r.items[(oldest+i)%len(r.items)])
	}

	return r.count
}

// Clear drops every item. The capacity is unchanged.
func (r *Ring[T]) Clear() {
	clear(r.items)

	r.head = 0
	r.count = 0
}

func (r *Ring[T]) oldest() int {
	if r.count < len(r.items) {
		return 0
	}

	return r.head
}
