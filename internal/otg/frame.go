package otg

import "github.com/vk/rtnet/internal/value"

// FrameLimits bounds the translational and rotational motion of a frame.
type FrameLimits struct {
	MaxTransVel float64
	MaxTransAcc float64
	MaxRotVel   float64
	MaxRotAcc   float64
}

// FrameState is the pose and velocity of a frame.
type FrameState struct {
	Pos value.Frame
	Vel value.Twist
}

// FrameTarget is a goal pose and its velocity.
type FrameTarget struct {
	Pos value.Frame
	Vel value.Twist
}

// StepFrame advances cur by one cycle towards dest. Translation and
// rotation each use the scalar braking law along the direction of their
// error; the target velocity and the velocity change are scaled down to the
// limits without changing their direction.
func StepFrame(cur FrameState, dest FrameTarget, lim FrameLimits, override, dt float64) FrameState {
	ov := clamp(override, 0, 1)

	transErr := dest.Pos.Pos.Sub(cur.Pos.Pos)
	transTarget := dest.Vel.Trans.Add(transErr.Unit().Scale(BrakingVelocity(transErr.Norm(), lim.MaxTransAcc, dt)))
	transVel := approach(cur.Vel.Trans, transTarget, lim.MaxTransVel*ov, lim.MaxTransAcc*dt)

	rotErr := dest.Pos.Rot.Mul(cur.Pos.Rot.Inverse()).Normalize().Vector()
	rotTarget := dest.Vel.Rot.Add(rotErr.Unit().Scale(BrakingVelocity(rotErr.Norm(), lim.MaxRotAcc, dt)))
	rotVel := approach(cur.Vel.Rot, rotTarget, lim.MaxRotVel*ov, lim.MaxRotAcc*dt)

	return FrameState{
		Pos: value.Frame{
			Pos: cur.Pos.Pos.Add(transVel.Scale(dt)),
			Rot: value.RotationFromVector(rotVel.Scale(dt)).Mul(cur.Pos.Rot).Normalize(),
		},
		Vel: value.Twist{Trans: transVel, Rot: rotVel},
	}
}

// approach limits target to maxVel, then moves vel towards it by at most
// maxStep. Both limits keep the direction of the vector they cut.
func approach(vel, target value.Vector, maxVel, maxStep float64) value.Vector {
	target = limitNorm(target, maxVel)
	return vel.Add(limitNorm(target.Sub(vel), maxStep))
}

func limitNorm(v value.Vector, max float64) value.Vector {
	if max <= 0 {
		return value.Vector{}
	}
	if n := v.Norm(); n > max {
		return v.Scale(max / n)
	}
	return v
}
