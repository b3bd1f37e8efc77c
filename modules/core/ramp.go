package core

import (
	"github.com/vk/rtnet/internal/network"
)

// Interval maps inValue linearly from [Min, Max] onto [0, 1], saturating
// outside. outActive is true while inValue lies within [Min, Max].
type Interval struct {
	network.Base
	Min       *network.Param[float64]
	Max       *network.Param[float64]
	in        *network.InPort[float64]
	out       *network.OutPort[float64]
	outActive *network.OutPort[bool]
}

// NewInterval maps [0, 1] onto itself.
func NewInterval() *Interval {
	p := &Interval{}
	p.Min = network.NewParam(&p.Base, "Min", 0.0)
	p.Max = network.NewParam(&p.Base, "Max", 1.0)
	p.in = network.NewIn[float64](&p.Base, "inValue")
	p.out = network.NewOut[float64](&p.Base, "outValue")
	p.outActive = network.NewOut[bool](&p.Base, "outActive")
	return p
}

func (p *Interval) Kind() string { return "Core::DoubleInterval" }

// CheckParameters rejects Min above Max. Min equal to Max is a step.
func (p *Interval) CheckParameters(network.Context) error {
	if p.Min.Get() > p.Max.Get() {
		return network.InvalidParam("Min", "%v is greater than Max %v", p.Min.Get(), p.Max.Get())
	}
	return nil
}

func (p *Interval) UpdateData(network.Context) {
	v, ok := p.in.Resolve()
	if !ok {
		p.Absent()
		return
	}
	p.out.Set(IntervalOf(v, p.Min.Get(), p.Max.Get()))
	p.outActive.Set(v >= p.Min.Get() && v <= p.Max.Get())
}

// IntervalOf is the mapping published by Interval.
func IntervalOf(v, lo, hi float64) float64 {
	switch {
	case v >= hi:
		return 1
	case v <= lo:
		return 0
	}
	return (v - lo) / (hi - lo)
}

// Rampify maps t in [0, 1] onto a smooth ramp from 0 to 1: a parabola for
// the first and last Fraction of t, linear in between. The ramp's slope is
// continuous.
type Rampify struct {
	network.Base
	Fraction *network.Param[float64]
	in       *network.InPort[float64]
	out      *network.OutPort[float64]
}

// NewRampify accelerates over the first quarter of the ramp.
func NewRampify() *Rampify {
	p := &Rampify{}
	p.Fraction = network.NewParam(&p.Base, "Fraction", 0.25)
	p.in = network.NewIn[float64](&p.Base, "inValue")
	p.out = network.NewOut[float64](&p.Base, "outValue")
	return p
}

func (p *Rampify) Kind() string { return "Core::DoubleRampify" }

// CheckParameters accepts a Fraction in (0, 0.5], as the accelerating and
// braking parts must not overlap.
func (p *Rampify) CheckParameters(network.Context) error {
	if a := p.Fraction.Get(); a <= 0 || a > 0.5 {
		return network.InvalidParam("Fraction", "must be in (0, 0.5], got %v", a)
	}
	return nil
}

func (p *Rampify) UpdateData(network.Context) {
	t, ok := p.in.Resolve()
	if !ok {
		p.Absent()
		return
	}
	p.out.Set(Ramp(t, p.Fraction.Get()))
}

// Ramp is the mapping published by Rampify.
func Ramp(t, a float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	v := 1 / (1 - a)
	switch {
	case t < a:
		return v * t * t / (2 * a)
	case t > 1-a:
		r := 1 - t
		return 1 - v*r*r/(2*a)
	}
	return v * (t - a/2)
}
