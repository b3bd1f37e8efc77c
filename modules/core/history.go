package core

import (
	"math"

	"github.com/vk/rtnet/internal/history"
	"github.com/vk/rtnet/internal/network"
)

const (
	SearchLinear   = "linear"
	SearchDoubling = "doubling"
)

func checkDuration(d *network.Param[float64]) error {
	if v := d.Get(); v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return network.InvalidParam(d.Name(), "must be a positive number of seconds, got %v", v)
	}
	return nil
}

// windowSize is the number of samples covering d seconds.
func windowSize(cx network.Context, d float64) int {
	return max(1, cx.CyclesFor(d))
}

// bufferSize is the number of samples needed to look d seconds back.
func bufferSize(cx network.Context, d float64) int {
	return cx.CyclesFor(d) + 1
}

// DoubleAverage publishes the mean of its input over the last Duration
// seconds.
type DoubleAverage struct {
	network.Base
	Duration *network.Param[float64]
	in       *network.InPort[float64]
	out      *network.OutPort[float64]

	window *history.Window
}

// NewDoubleAverage returns an average over one second.
func NewDoubleAverage() *DoubleAverage {
	p := &DoubleAverage{}
	p.Duration = network.NewParam(&p.Base, "Duration", 1.0)
	p.in = network.NewIn[float64](&p.Base, "inValue")
	p.out = network.NewOut[float64](&p.Base, "outValue")
	return p
}

func (p *DoubleAverage) Kind() string { return "Core::DoubleAverage" }

// CheckParameters sizes the window for the net's cycle time.
func (p *DoubleAverage) CheckParameters(cx network.Context) error {
	if err := checkDuration(p.Duration); err != nil {
		return err
	}
	p.window = history.NewWindow(windowSize(cx, p.Duration.Get()))
	return nil
}

// UpdateData goes absent with its input without pushing a sample.
func (p *DoubleAverage) UpdateData(network.Context) {
	v, ok := p.in.Resolve()
	if !ok {
		p.Absent()
		return
	}
	p.window.Push(v)
	p.out.SetMaybe(p.window.Mean())
}

// BooleanHistory counts the true values of its input over the last
// Duration seconds.
type BooleanHistory struct {
	network.Base
	Duration *network.Param[float64]
	in       *network.InPort[bool]
	outCount *network.OutPort[int]
	outAny   *network.OutPort[bool]
	outAll   *network.OutPort[bool]

	counter *history.Counter
}

// NewBooleanHistory returns a counter over one second.
func NewBooleanHistory() *BooleanHistory {
	p := &BooleanHistory{}
	p.Duration = network.NewParam(&p.Base, "Duration", 1.0)
	p.in = network.NewIn[bool](&p.Base, "inValue")
	p.outCount = network.NewOut[int](&p.Base, "outCount")
	p.outAny = network.NewOut[bool](&p.Base, "outAny")
	p.outAll = network.NewOut[bool](&p.Base, "outAll")
	return p
}

func (p *BooleanHistory) Kind() string { return "Core::BooleanHistory" }

// CheckParameters sizes the counter for the net's cycle time.
func (p *BooleanHistory) CheckParameters(cx network.Context) error {
	if err := checkDuration(p.Duration); err != nil {
		return err
	}
	p.counter = history.NewCounter(windowSize(cx, p.Duration.Get()))
	return nil
}

// UpdateData publishes how many samples in the window are true, whether any
// are, and whether all are. outAll only counts samples seen so far.
func (p *BooleanHistory) UpdateData(network.Context) {
	v, ok := p.in.Resolve()
	if !ok {
		p.Absent()
		return
	}
	p.counter.Push(v)
	n := p.counter.Count()
	p.outCount.Set(n)
	p.outAny.Set(n > 0)
	p.outAll.Set(n == p.counter.Len())
}

type sample struct {
	v  float64
	ok bool
}

// DoubleHistory publishes the value its input had inAge seconds ago, up to
// Duration seconds back. Ages are rounded to whole cycles.
type DoubleHistory struct {
	network.Base
	Duration *network.Param[float64]
	inValue  *network.InPort[float64]
	inAge    *network.InPort[float64]
	out      *network.OutPort[float64]

	ring *history.Ring[sample]
}

// NewDoubleHistory returns a history reaching one second back.
func NewDoubleHistory() *DoubleHistory {
	p := &DoubleHistory{}
	p.Duration = network.NewParam(&p.Base, "Duration", 1.0)
	p.inValue = network.NewIn[float64](&p.Base, "inValue")
	p.inAge = network.NewInDefault(&p.Base, "inAge", 0.0)
	p.out = network.NewOut[float64](&p.Base, "outValue")
	return p
}

func (p *DoubleHistory) Kind() string { return "Core::DoubleHistory" }

// CheckParameters sizes the buffer to reach Duration seconds back.
func (p *DoubleHistory) CheckParameters(cx network.Context) error {
	if err := checkDuration(p.Duration); err != nil {
		return err
	}
	p.ring = history.NewRing[sample](bufferSize(cx, p.Duration.Get()))
	return nil
}

// UpdateData is absent for a negative age or one past the buffer.
func (p *DoubleHistory) UpdateData(cx network.Context) {
	v, ok := p.inValue.Resolve()
	// absent cycles are stored too, so that ages stay aligned with cycles
	p.ring.Push(sample{v: v, ok: ok})
	age, okAge := p.inAge.Resolve()
	if !ok || !okAge || age < 0 {
		p.Absent()
		return
	}
	s, found := p.ring.At(int(math.Round(age / cx.CycleTime)))
	p.out.SetMaybe(s.v, found && s.ok)
}

// DoubleAtTime stores timestamped samples and publishes the newest one
// whose timestamp is at or before inTime, together with its age in
// seconds. Samples whose timestamp does not increase are dropped. Search
// selects the lookup algorithm, "linear" or "doubling"; both give the same
// answers.
type DoubleAtTime struct {
	network.Base
	Duration    *network.Param[float64]
	Search      *network.Param[string]
	inValue     *network.InPort[float64]
	inTimestamp *network.InPort[float64]
	inTime      *network.InPort[float64]
	out         *network.OutPort[float64]
	outAge      *network.OutPort[float64]

	values *history.Ring[float64]
	stamps *history.Ring[float64]
	search func(*history.Ring[float64], float64) (int, bool)
}

// NewDoubleAtTime returns a linear search over one second of samples.
func NewDoubleAtTime() *DoubleAtTime {
	p := &DoubleAtTime{}
	p.Duration = network.NewParam(&p.Base, "Duration", 1.0)
	p.Search = network.NewParam(&p.Base, "Search", SearchDoubling)
	p.inValue = network.NewIn[float64](&p.Base, "inValue")
	p.inTimestamp = network.NewIn[float64](&p.Base, "inTimestamp")
	p.inTime = network.NewIn[float64](&p.Base, "inTime")
	p.out = network.NewOut[float64](&p.Base, "outValue")
	p.outAge = network.NewOut[float64](&p.Base, "outAge")
	return p
}

func (p *DoubleAtTime) Kind() string { return "Core::DoubleAtTime" }

// CheckParameters picks the search algorithm and sizes both rings.
func (p *DoubleAtTime) CheckParameters(cx network.Context) error {
	if err := checkDuration(p.Duration); err != nil {
		return err
	}
	switch p.Search.Get() {
	case SearchLinear:
		p.search = history.AgeAtLinear
	case SearchDoubling:
		p.search = history.AgeAtDoubling
	default:
		return network.InvalidParam("Search", "must be %q or %q, got %q", SearchLinear, SearchDoubling, p.Search.Get())
	}
	n := bufferSize(cx, p.Duration.Get())
	p.values = history.NewRing[float64](n)
	p.stamps = history.NewRing[float64](n)
	return nil
}

// UpdateData is absent when no stored timestamp is at or before inTime.
func (p *DoubleAtTime) UpdateData(cx network.Context) {
	v, okV := p.inValue.Resolve()
	ts, okTS := p.inTimestamp.Resolve()
	t, okT := p.inTime.Resolve()
	if !okV || !okTS || !okT {
		p.Absent()
		return
	}
	if last, ok := p.stamps.At(0); !ok || ts > last {
		p.values.Push(v)
		p.stamps.Push(ts)
	}
	age, found := p.search(p.stamps, t)
	if !found {
		p.Absent()
		return
	}
	sv, _ := p.values.At(age)
	p.out.Set(sv)
	p.outAge.Set(float64(age) * cx.CycleTime)
}

// ConsistentRange reconciles two interval streams, A and B, such as the
// validity windows of two sensors. It publishes the union of the newest
// pair of samples that spans at most MaxSize seconds, and how old each
// sample is, looking back at most MaxAge seconds.
type ConsistentRange struct {
	network.Base
	Duration  *network.Param[float64]
	MaxSize   *network.Param[float64]
	MaxAge    *network.Param[float64]
	inStartA  *network.InPort[float64]
	inEndA    *network.InPort[float64]
	inStartB  *network.InPort[float64]
	inEndB    *network.InPort[float64]
	outStart  *network.OutPort[float64]
	outEnd    *network.OutPort[float64]
	outAgeA   *network.OutPort[float64]
	outAgeB   *network.OutPort[float64]
	a, b      *history.Ring[history.Interval]
	maxCycles int
}

// NewConsistentRange returns a ConsistentRange over one second of samples
// accepting pairs up to 0.1 seconds wide.
func NewConsistentRange() *ConsistentRange {
	p := &ConsistentRange{}
	p.Duration = network.NewParam(&p.Base, "Duration", 1.0)
	p.MaxSize = network.NewParam(&p.Base, "MaxSize", 0.1)
	p.MaxAge = network.NewParam(&p.Base, "MaxAge", 1.0)
	p.inStartA = network.NewIn[float64](&p.Base, "inStartA")
	p.inEndA = network.NewIn[float64](&p.Base, "inEndA")
	p.inStartB = network.NewIn[float64](&p.Base, "inStartB")
	p.inEndB = network.NewIn[float64](&p.Base, "inEndB")
	p.outStart = network.NewOut[float64](&p.Base, "outStart")
	p.outEnd = network.NewOut[float64](&p.Base, "outEnd")
	p.outAgeA = network.NewOut[float64](&p.Base, "outAgeA")
	p.outAgeB = network.NewOut[float64](&p.Base, "outAgeB")
	return p
}

func (p *ConsistentRange) Kind() string { return "Core::ConsistentRange" }

// CheckParameters rejects negative limits and sizes both rings.
func (p *ConsistentRange) CheckParameters(cx network.Context) error {
	if err := checkDuration(p.Duration); err != nil {
		return err
	}
	if p.MaxSize.Get() < 0 {
		return network.InvalidParam("MaxSize", "must not be negative, got %v", p.MaxSize.Get())
	}
	if p.MaxAge.Get() < 0 {
		return network.InvalidParam("MaxAge", "must not be negative, got %v", p.MaxAge.Get())
	}
	n := bufferSize(cx, p.Duration.Get())
	p.a = history.NewRing[history.Interval](n)
	p.b = history.NewRing[history.Interval](n)
	p.maxCycles = cx.CyclesFor(p.MaxAge.Get())
	return nil
}

// UpdateData publishes the ages in seconds. It is absent when no pair
// qualifies.
func (p *ConsistentRange) UpdateData(cx network.Context) {
	sa, ok1 := p.inStartA.Resolve()
	ea, ok2 := p.inEndA.Resolve()
	sb, ok3 := p.inStartB.Resolve()
	eb, ok4 := p.inEndB.Resolve()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		p.Absent()
		return
	}
	p.a.Push(history.Interval{Start: sa, End: ea})
	p.b.Push(history.Interval{Start: sb, End: eb})

	r, ok := history.ConsistentRange(p.a, p.b, p.MaxSize.Get(), p.maxCycles)
	if !ok {
		p.Absent()
		return
	}
	p.outStart.Set(r.Start)
	p.outEnd.Set(r.End)
	p.outAgeA.Set(float64(r.AgeA) * cx.CycleTime)
	p.outAgeB.Set(float64(r.AgeB) * cx.CycleTime)
}
