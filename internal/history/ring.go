package history

// Ring is a fixed-capacity circular buffer. Reads are by age: age 0 is the
// most recent push, age Len()-1 the oldest one still held.
type Ring[T any] struct {
	buf  []T
	next int
	n    int
}

// NewRing creates a ring holding at most capacity values. A capacity below
// one is raised to one.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{buf: make([]T, capacity)}
}

func (r *Ring[T]) Cap() int    { return len(r.buf) }
func (r *Ring[T]) Len() int    { return r.n }
func (r *Ring[T]) Full() bool  { return r.n == len(r.buf) }
func (r *Ring[T]) Empty() bool { return r.n == 0 }

// Push stores v as the newest value. When the ring is full the oldest value
// is evicted and returned.
func (r *Ring[T]) Push(v T) (evicted T, ok bool) {
	if r.n == len(r.buf) {
		evicted, ok = r.buf[r.next], true
	} else {
		r.n++
	}
	r.buf[r.next] = v
	r.next = (r.next + 1) % len(r.buf)
	return evicted, ok
}

// At returns the value pushed age pushes ago.
func (r *Ring[T]) At(age int) (T, bool) {
	if age < 0 || age >= r.n {
		var zero T
		return zero, false
	}
	i := r.next - 1 - age
	if i < 0 {
		i += len(r.buf)
	}
	return r.buf[i], true
}

// Reset drops every value.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.buf {
		r.buf[i] = zero
	}
	r.next, r.n = 0, 0
}
