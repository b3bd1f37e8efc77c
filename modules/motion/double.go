package motion

import (
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/otg"
)

// DoubleOTG moves one degree of freedom towards inDestPos (Mode position)
// or at inDestVel (Mode velocity) within MaxVel and MaxAcc. inOverride
// scales the velocity limit and defaults to 1.
type DoubleOTG struct {
	network.Base
	Mode   *network.Param[string]
	MaxVel *network.Param[float64]
	MaxAcc *network.Param[float64]

	inDestPos  *network.InPort[float64]
	inDestVel  *network.InPort[float64]
	inOverride *network.InPort[float64]
	inCurPos   *network.InPort[float64]
	inCurVel   *network.InPort[float64]
	outPos     *network.OutPort[float64]
	outVel     *network.OutPort[float64]
	outAcc     *network.OutPort[float64]

	state   otg.State
	lastPos float64
	hasLast bool
	synced  bool
}

// NewDoubleOTG returns a position OTG limited to 1 per second and 1 per
// second squared.
func NewDoubleOTG() *DoubleOTG {
	p := &DoubleOTG{}
	p.Mode = network.NewParam(&p.Base, "Mode", ModePosition)
	p.MaxVel = network.NewParam(&p.Base, "MaxVel", 1.0)
	p.MaxAcc = network.NewParam(&p.Base, "MaxAcc", 1.0)
	return p
}

func (p *DoubleOTG) Kind() string { return "Motion::DoubleOTG" }

// Configure creates the inputs of the selected Mode. A velocity OTG has
// no inDestPos.
func (p *DoubleOTG) Configure() error {
	switch p.Mode.Get() {
	case ModePosition:
		p.inDestPos = network.NewIn[float64](&p.Base, "inDestPos")
		p.inDestVel = network.NewInDefault(&p.Base, "inDestVel", 0.0).MarkOptional()
	case ModeVelocity:
		p.inDestVel = network.NewIn[float64](&p.Base, "inDestVel")
	default:
		return network.InvalidParam("Mode", "must be %q or %q, got %q", ModePosition, ModeVelocity, p.Mode.Get())
	}
	p.inOverride = network.NewInDefault(&p.Base, "inOverride", 1.0).MarkOptional()
	p.inCurPos = network.NewIn[float64](&p.Base, "inCurPos").MarkOptional()
	p.inCurVel = network.NewIn[float64](&p.Base, "inCurVel").MarkOptional()
	p.outPos = network.NewOut[float64](&p.Base, "outPos")
	p.outVel = network.NewOut[float64](&p.Base, "outVel")
	p.outAcc = network.NewOut[float64](&p.Base, "outAcc")
	return nil
}

// CheckParameters requires positive limits.
func (p *DoubleOTG) CheckParameters(network.Context) error {
	if err := checkLimit(p.MaxVel); err != nil {
		return err
	}
	return checkLimit(p.MaxAcc)
}

// UpdateData is absent until the first measurement of a connected
// inCurPos, and while the destination is absent.
func (p *DoubleOTG) UpdateData(cx network.Context) {
	if !p.measure(cx.CycleTime) {
		p.Absent()
		return
	}

	lim := otg.Limits{MaxVel: p.MaxVel.Get(), MaxAcc: p.MaxAcc.Get()}
	override, ok := p.inOverride.Resolve()
	if !ok {
		override = 1
	}
	vel, okVel := p.inDestVel.Resolve()

	if p.inDestPos == nil {
		if !okVel {
			p.Absent()
			return
		}
		p.state = otg.StepVelocity(p.state, vel, lim, override, cx.CycleTime)
	} else {
		pos, okPos := p.inDestPos.Resolve()
		if !okPos {
			p.Absent()
			return
		}
		if !okVel {
			vel = 0
		}
		p.state = otg.Step(p.state, otg.Target{Pos: pos, Vel: vel}, lim, override, cx.CycleTime)
	}
	p.outPos.Set(p.state.Pos)
	p.outVel.Set(p.state.Vel)
	p.outAcc.Set(p.state.Acc)
}

// measure replaces the internal state with whatever is measured this cycle.
// It reports false while a connected inCurPos has never been present, as
// there is no position to start from yet.
func (p *DoubleOTG) measure(dt float64) bool {
	pos, okPos := p.inCurPos.Resolve()
	if !okPos {
		p.hasLast = false
		return p.synced || p.inCurPos.Source() == nil
	}
	if vel, ok := p.inCurVel.Resolve(); ok {
		p.state.Vel = vel
	} else if p.hasLast {
		p.state.Vel = (pos - p.lastPos) / dt
	}
	p.state.Pos = pos
	p.lastPos, p.hasLast = pos, true
	p.synced = true
	return true
}
