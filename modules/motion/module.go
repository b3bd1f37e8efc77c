// Package motion registers the trajectory generation primitives
// Motion::DoubleOTG and Motion::FrameOTG.
//
// Both recompute their command every cycle from the current state and the
// destination only, so a destination may jump or move while the primitive
// runs. The current state is taken from the optional measurement inputs
// when they are present and from the primitive's own previous command
// otherwise. A measured position without a measured velocity is
// differentiated backwards.
package motion

import (
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/registry"
)

const (
	ModePosition = "position"
	ModeVelocity = "velocity"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register adds the OTG kinds to r.
func (m *Module) Register(r *registry.Registry) {
	r.Register("Motion::DoubleOTG", func() network.Primitive { return NewDoubleOTG() })
	r.Register("Motion::FrameOTG", func() network.Primitive { return NewFrameOTG() })
}

func checkLimit(p *network.Param[float64]) error {
	if v := p.Get(); !(v > 0) {
		return network.InvalidParam(p.Name(), "must be positive, got %v", v)
	}
	return nil
}
