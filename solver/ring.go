package solver

// Ring is a fixed-capacity history buffer. Pushing onto a full ring drops
// the oldest entry, so long explorations keep bounded memory.
type Ring[T any] struct {
	buf      []T
	start    int
	size     int
	capacity int
}

// NewRing creates a ring holding up to capacity entries. Non-positive
// capacities are treated as 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity), capacity: capacity}
}

// Push appends an entry, evicting the oldest when full.
func (r *Ring[T]) Push(v T) {
	if r.size < r.capacity {
		r.buf[(r.start+r.size)%r.capacity] = v
		r.size++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % r.capacity
}

// Len returns the number of stored entries.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int { return r.capacity }

// Items returns the entries oldest-first.
func (r *Ring[T]) Items() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%r.capacity]
	}
	return out
}

// Last returns the most recently pushed entry.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.buf[(r.start+r.size-1)%r.capacity], true
}

// Clear drops every entry.
func (r *Ring[T]) Clear() {
	r.start, r.size = 0, 0
}
