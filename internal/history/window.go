package history

// Window keeps the running sum of the last N doubles.
//
// The sum is updated in O(1) per push: the evicted value is subtracted
// before the new one is added. Floating point drift is bounded by a full
// re-summation every N pushes. When every value in the window is the same,
// Mean returns that value exactly.
type Window struct {
	ring   *Ring[float64]
	sum    float64
	run    int
	pushes int
}

// NewWindow creates a window over the last n values.
func NewWindow(n int) *Window {
	return &Window{ring: NewRing[float64](n)}
}

func (w *Window) Len() int { return w.ring.Len() }
func (w *Window) Cap() int { return w.ring.Cap() }

// Push adds v as the newest value.
func (w *Window) Push(v float64) {
	if last, ok := w.ring.At(0); ok && last == v {
		w.run++
	} else {
		w.run = 1
	}
	if old, evicted := w.ring.Push(v); evicted {
		w.sum -= old
	}
	w.sum += v

	w.pushes++
	if w.pushes >= w.ring.Cap() {
		w.pushes = 0
		w.resum()
	}
}

func (w *Window) resum() {
	sum := 0.0
	for age := w.ring.Len() - 1; age >= 0; age-- {
		v, _ := w.ring.At(age)
		sum += v
	}
	w.sum = sum
}

// Sum returns the sum of the values held.
func (w *Window) Sum() float64 { return w.sum }

// Mean returns the average of the values held, or false when empty.
func (w *Window) Mean() (float64, bool) {
	n := w.ring.Len()
	if n == 0 {
		return 0, false
	}
	if w.run >= n {
		v, _ := w.ring.At(0)
		return v, true
	}
	return w.sum / float64(n), true
}

// Reset drops every value.
func (w *Window) Reset() {
	w.ring.Reset()
	w.sum, w.run, w.pushes = 0, 0, 0
}

// Counter counts the true values among the last N booleans.
type Counter struct {
	ring  *Ring[bool]
	count int
}

// NewCounter creates a counter over the last n values.
func NewCounter(n int) *Counter {
	return &Counter{ring: NewRing[bool](n)}
}

// Push adds v as the newest value.
func (c *Counter) Push(v bool) {
	if old, evicted := c.ring.Push(v); evicted && old {
		c.count--
	}
	if v {
		c.count++
	}
}

func (c *Counter) Count() int { return c.count }
func (c *Counter) Len() int   { return c.ring.Len() }

// Reset drops every value.
func (c *Counter) Reset() {
	c.ring.Reset()
	c.count = 0
}
