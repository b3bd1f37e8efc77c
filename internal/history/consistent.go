package history

import "math"

// Interval is a closed time range in seconds.
type Interval struct {
	Start, End float64
}

// Union returns the smallest interval containing both.
func (i Interval) Union(o Interval) Interval {
	return Interval{Start: math.Min(i.Start, o.Start), End: math.Max(i.End, o.End)}
}

// Span returns End - Start.
func (i Interval) Span() float64 { return i.End - i.Start }

// Range is a reconciled pair of samples from two interval streams.
type Range struct {
	Interval
	AgeA, AgeB int
}

// ConsistentRange looks for a pair of samples, one per stream, whose union
// spans at most maxSize seconds. Starting from the newest samples it steps
// back whichever stream is ahead (starts later; on a tie, ends later) until
// the pair fits. It gives up when either age exceeds maxAge cycles or a
// buffer runs out.
func ConsistentRange(a, b *Ring[Interval], maxSize float64, maxAge int) (Range, bool) {
	ageA, ageB := 0, 0
	for ageA <= maxAge && ageB <= maxAge {
		ia, okA := a.At(ageA)
		ib, okB := b.At(ageB)
		if !okA || !okB {
			return Range{}, false
		}
		u := ia.Union(ib)
		if u.Span() <= maxSize {
			return Range{Interval: u, AgeA: ageA, AgeB: ageB}, true
		}

		switch {
		case ia.Start > ib.Start:
			ageA++
		case ib.Start > ia.Start:
			ageB++
		case ia.End >= ib.End:
			ageA++
		default:
			ageB++
		}
	}
	return Range{}, false
}
