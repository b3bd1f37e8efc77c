package core

import (
	"github.com/vk/rtnet/internal/network"
)

// Trigger is a latch. inReset deactivates it, then inOff, then inOn
// activates it; otherwise it keeps its state. outTime is the number of
// seconds it has been active.
type Trigger struct {
	network.Base
	inOn      *network.InPort[bool]
	inOff     *network.InPort[bool]
	inReset   *network.InPort[bool]
	outActive *network.OutPort[bool]
	outTime   *network.OutPort[float64]

	active bool
	time   float64
}

// NewTrigger returns an inactive latch.
func NewTrigger() *Trigger {
	p := &Trigger{}
	p.inOn = network.NewIn[bool](&p.Base, "inOn")
	p.inOff = network.NewIn[bool](&p.Base, "inOff")
	p.inReset = network.NewInDefault(&p.Base, "inReset", false).MarkOptional()
	p.outActive = network.NewOut[bool](&p.Base, "outActive")
	p.outTime = network.NewOut[float64](&p.Base, "outTime")
	return p
}

func (p *Trigger) Kind() string                          { return "Core::Trigger" }
func (p *Trigger) CheckParameters(network.Context) error { return nil }

// UpdateData counts time from the cycle after activation, so outTime is
// zero in the activating cycle.
func (p *Trigger) UpdateData(cx network.Context) {
	on, okOn := p.inOn.Resolve()
	off, okOff := p.inOff.Resolve()
	if !okOn || !okOff {
		p.Absent()
		return
	}
	reset, _ := p.inReset.Resolve()

	was := p.active
	switch {
	case reset, off:
		p.active = false
	case on:
		p.active = true
	}

	switch {
	case !p.active:
		p.time = 0
	case was:
		p.time += cx.CycleTime
	}
	p.outActive.Set(p.active)
	p.outTime.Set(p.time)
}

// EdgeDetection is true for exactly one cycle after its input changed from
// false to true (Direction true) or from true to false (Direction false).
// No edge is reported in the first cycle with a present input.
type EdgeDetection struct {
	network.Base
	Direction *network.Param[bool]
	in        *network.InPort[bool]
	out       *network.OutPort[bool]

	prev    bool
	hasPrev bool
}

// NewEdgeDetection detects rising edges.
func NewEdgeDetection() *EdgeDetection {
	p := &EdgeDetection{}
	p.Direction = network.NewParam(&p.Base, "Direction", true)
	p.in = network.NewIn[bool](&p.Base, "inValue")
	p.out = network.NewOut[bool](&p.Base, "outValue")
	return p
}

func (p *EdgeDetection) Kind() string                          { return "Core::EdgeDetection" }
func (p *EdgeDetection) CheckParameters(network.Context) error { return nil }

func (p *EdgeDetection) UpdateData(network.Context) {
	v, ok := p.in.Resolve()
	if !ok {
		p.Absent()
		return
	}
	edge := p.hasPrev && p.prev != v && v == p.Direction.Get()
	p.prev, p.hasPrev = v, true
	p.out.Set(edge)
}

// Clock publishes a time that advances by inIncrement seconds per second.
// inReset restarts it at zero.
type Clock struct {
	network.Base
	inIncrement *network.InPort[float64]
	inReset     *network.InPort[bool]
	out         *network.OutPort[float64]

	value float64
}

// NewClock returns a clock at zero.
func NewClock() *Clock {
	p := &Clock{}
	p.inIncrement = network.NewInDefault(&p.Base, "inIncrement", 1.0).MarkOptional()
	p.inReset = network.NewInDefault(&p.Base, "inReset", false).MarkOptional()
	p.out = network.NewOut[float64](&p.Base, "outValue")
	return p
}

func (p *Clock) Kind() string                          { return "Core::Clock" }
func (p *Clock) CheckParameters(network.Context) error { return nil }

// UpdateData publishes the time before this cycle's increment, so a
// fresh clock reads zero.
func (p *Clock) UpdateData(cx network.Context) {
	if reset, _ := p.inReset.Resolve(); reset {
		p.value = 0
	}
	p.out.Set(p.value)
	inc, _ := p.inIncrement.Resolve()
	p.value += inc * cx.CycleTime
}

// CycleTime publishes the cycle time of the net.
type CycleTime struct {
	network.Base
	out *network.OutPort[float64]
}

// NewCycleTime returns a CycleTime.
func NewCycleTime() *CycleTime {
	p := &CycleTime{}
	p.out = network.NewOut[float64](&p.Base, "outValue")
	return p
}

func (p *CycleTime) Kind() string                          { return "Core::CycleTime" }
func (p *CycleTime) CheckParameters(network.Context) error { return nil }
func (p *CycleTime) UpdateData(cx network.Context)         { p.out.Set(cx.CycleTime) }

// Time publishes the seconds elapsed since the net started.
type Time struct {
	network.Base
	out *network.OutPort[float64]
}

// NewTime returns a Time.
func NewTime() *Time {
	p := &Time{}
	p.out = network.NewOut[float64](&p.Base, "outValue")
	return p
}

func (p *Time) Kind() string                          { return "Core::Time" }
func (p *Time) CheckParameters(network.Context) error { return nil }
func (p *Time) UpdateData(cx network.Context)         { p.out.Set(cx.Time) }
