package expr

import "github.com/vk/rtnet/internal/value"

// OTG moves a double towards Dest within MaxVel and MaxAcc. With Velocity
// set, Dest is a velocity instead of a position. DestVel, Override and
// Current are optional. The result is the commanded position; the
// "velocity" and "acceleration" outputs complete the state.
type OTG struct {
	Dest, DestVel, Override, Current Expr
	MaxVel, MaxAcc                   float64
	Velocity                         bool
}

// Type is double when Dest and every optional operand given are doubles.
func (o *OTG) Type() value.Type {
	if o.Dest == nil {
		return value.TypeInvalid
	}
	return only(value.TypeDouble, value.TypeDouble, present(o.Dest, o.DestVel, o.Override, o.Current)...)
}
func (o *OTG) Operands() []Expr { return present(o.Dest, o.DestVel, o.Override, o.Current) }

// FrameOTG moves a frame towards Dest. The result is the commanded frame;
// the "velocity" output is the commanded twist.
type FrameOTG struct {
	Dest, DestVel, Override, Current Expr
	MaxTransVel, MaxTransAcc         float64
	MaxRotVel, MaxRotAcc             float64
}

// Type checks each operand against its own type.
func (o *FrameOTG) Type() value.Type {
	switch {
	case o.Dest == nil || o.Dest.Type() != value.TypeFrame,
		o.DestVel != nil && o.DestVel.Type() != value.TypeTwist,
		o.Override != nil && o.Override.Type() != value.TypeDouble,
		o.Current != nil && o.Current.Type() != value.TypeFrame:
		return value.TypeInvalid
	}
	return value.TypeFrame
}
func (o *FrameOTG) Operands() []Expr { return present(o.Dest, o.DestVel, o.Override, o.Current) }
