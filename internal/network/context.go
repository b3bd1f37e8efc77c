package network

// Context is handed to every primitive call. It is a value, valid only for
// the duration of the call.
type Context struct {
	// CycleTime is the fixed duration of one cycle, in seconds.
	CycleTime float64
	// Cycle counts completed cycles; it is 0 during the first one.
	Cycle int64
	// Time is Cycle * CycleTime.
	Time float64
}

// CyclesFor converts a duration in seconds into a whole number of cycles,
// rounding up.
func (cx Context) CyclesFor(seconds float64) int {
	if cx.CycleTime <= 0 || seconds <= 0 {
		return 0
	}
	n := seconds / cx.CycleTime
	c := int(n)
	// tolerate representation error, 0.1/0.01 must be 10 and not 11
	if n-float64(c) > 1e-9 {
		c++
	}
	return c
}
