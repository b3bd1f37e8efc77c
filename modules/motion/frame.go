package motion

import (
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/otg"
	"github.com/vk/rtnet/internal/value"
)

// FrameOTG moves a frame towards inDestPos, following inDestVel, within
// separate translational and rotational limits.
type FrameOTG struct {
	network.Base
	MaxTransVel *network.Param[float64]
	MaxTransAcc *network.Param[float64]
	MaxRotVel   *network.Param[float64]
	MaxRotAcc   *network.Param[float64]

	inDestPos  *network.InPort[value.Frame]
	inDestVel  *network.InPort[value.Twist]
	inOverride *network.InPort[float64]
	inCurPos   *network.InPort[value.Frame]
	inCurVel   *network.InPort[value.Twist]
	outPos     *network.OutPort[value.Frame]
	outVel     *network.OutPort[value.Twist]

	state   otg.FrameState
	lastPos value.Frame
	hasLast bool
	synced  bool
}

// NewFrameOTG returns a FrameOTG with unit limits.
func NewFrameOTG() *FrameOTG {
	p := &FrameOTG{}
	p.MaxTransVel = network.NewParam(&p.Base, "MaxTransVel", 1.0)
	p.MaxTransAcc = network.NewParam(&p.Base, "MaxTransAcc", 1.0)
	p.MaxRotVel = network.NewParam(&p.Base, "MaxRotVel", 1.0)
	p.MaxRotAcc = network.NewParam(&p.Base, "MaxRotAcc", 1.0)
	p.inDestPos = network.NewIn[value.Frame](&p.Base, "inDestPos")
	p.inDestVel = network.NewInDefault(&p.Base, "inDestVel", value.Twist{}).MarkOptional()
	p.inOverride = network.NewInDefault(&p.Base, "inOverride", 1.0).MarkOptional()
	p.inCurPos = network.NewIn[value.Frame](&p.Base, "inCurPos").MarkOptional()
	p.inCurVel = network.NewIn[value.Twist](&p.Base, "inCurVel").MarkOptional()
	p.outPos = network.NewOut[value.Frame](&p.Base, "outPos")
	p.outVel = network.NewOut[value.Twist](&p.Base, "outVel")
	return p
}

func (p *FrameOTG) Kind() string { return "Motion::FrameOTG" }

// CheckParameters requires all four limits to be positive.
func (p *FrameOTG) CheckParameters(network.Context) error {
	for _, l := range []*network.Param[float64]{p.MaxTransVel, p.MaxTransAcc, p.MaxRotVel, p.MaxRotAcc} {
		if err := checkLimit(l); err != nil {
			return err
		}
	}
	return nil
}

// UpdateData is absent until the first measurement of a connected
// inCurPos, and while the destination is absent.
func (p *FrameOTG) UpdateData(cx network.Context) {
	if !p.measure(cx.CycleTime) {
		p.Absent()
		return
	}

	dest, ok := p.inDestPos.Resolve()
	if !ok {
		p.Absent()
		return
	}
	vel, ok := p.inDestVel.Resolve()
	if !ok {
		vel = value.Twist{}
	}
	override, ok := p.inOverride.Resolve()
	if !ok {
		override = 1
	}
	lim := otg.FrameLimits{
		MaxTransVel: p.MaxTransVel.Get(),
		MaxTransAcc: p.MaxTransAcc.Get(),
		MaxRotVel:   p.MaxRotVel.Get(),
		MaxRotAcc:   p.MaxRotAcc.Get(),
	}
	p.state = otg.StepFrame(p.state, otg.FrameTarget{Pos: dest, Vel: vel}, lim, override, cx.CycleTime)
	p.outPos.Set(p.state.Pos)
	p.outVel.Set(p.state.Vel)
}

// measure works like DoubleOTG.measure.
func (p *FrameOTG) measure(dt float64) bool {
	pos, okPos := p.inCurPos.Resolve()
	if !okPos {
		p.hasLast = false
		return p.synced || p.inCurPos.Source() == nil
	}
	if vel, ok := p.inCurVel.Resolve(); ok {
		p.state.Vel = vel
	} else if p.hasLast {
		p.state.Vel = value.Twist{
			Trans: pos.Pos.Sub(p.lastPos.Pos).Scale(1 / dt),
			Rot:   pos.Rot.Mul(p.lastPos.Rot.Inverse()).Normalize().Vector().Scale(1 / dt),
		}
	}
	p.state.Pos = pos
	p.lastPos, p.hasLast = pos, true
	p.synced = true
	return true
}
