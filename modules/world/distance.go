package world

import "github.com/vk/rtnet/internal/network"

// FrameDistance publishes the translational distance in metres and the
// rotational distance in radians between two frames.
type FrameDistance struct {
	network.Base
	inFirst  *network.InPort[frm]
	inSecond *network.InPort[frm]
	outTrans *network.OutPort[float64]
	outRot   *network.OutPort[float64]
}

// NewFrameDistance returns a FrameDistance.
func NewFrameDistance() *FrameDistance {
	p := &FrameDistance{}
	p.inFirst = network.NewIn[frm](&p.Base, "inFirst")
	p.inSecond = network.NewIn[frm](&p.Base, "inSecond")
	p.outTrans = network.NewOut[float64](&p.Base, "outTrans")
	p.outRot = network.NewOut[float64](&p.Base, "outRot")
	return p
}

func (p *FrameDistance) Kind() string                          { return "World::FrameDistance" }
func (p *FrameDistance) CheckParameters(network.Context) error { return nil }

// UpdateData publishes the translational and the rotational distance.
func (p *FrameDistance) UpdateData(network.Context) {
	a, okA := p.inFirst.Resolve()
	b, okB := p.inSecond.Resolve()
	if !okA || !okB {
		p.Absent()
		return
	}
	p.outTrans.Set(a.Pos.Sub(b.Pos).Norm())
	p.outRot.Set(a.Rot.Inverse().Mul(b.Rot).Angle())
}
