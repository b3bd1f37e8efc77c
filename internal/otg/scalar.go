package otg

import "math"

// Limits bounds one degree of freedom.
type Limits struct {
	MaxVel float64
	MaxAcc float64
}

// State is the kinematic state of one degree of freedom.
type State struct {
	Pos float64
	Vel float64
	Acc float64
}

// Target is where the degree of freedom should be, and how fast that place
// moves.
type Target struct {
	Pos float64
	Vel float64
}

// BrakingVelocity returns the speed from which decelerating by maxAcc each
// cycle of length dt stops exactly after dist.
func BrakingVelocity(dist, maxAcc, dt float64) float64 {
	if dist <= 0 || maxAcc <= 0 || dt <= 0 {
		return 0
	}
	h := maxAcc * dt * dt
	z := dist / h
	m := math.Floor((1 + math.Sqrt(1+8*z)) / 2)
	n := m - 1
	f := (z - n*(n+1)/2) / m
	// rounding in sqrt can leave f a hair outside [0, 1)
	f = clamp(f, 0, 1)
	return (n + f) * maxAcc * dt
}

// Step advances cur by one cycle towards dest. override scales the velocity
// limit and is clamped to [0, 1].
func Step(cur State, dest Target, lim Limits, override, dt float64) State {
	e := dest.Pos - cur.Pos
	vb := BrakingVelocity(math.Abs(e), lim.MaxAcc, dt)
	if e < 0 {
		vb = -vb
	}
	return track(cur, dest.Vel+vb, lim, override, dt)
}

// StepVelocity advances cur by one cycle towards the velocity vel, scaled by
// override, under the same limits.
func StepVelocity(cur State, vel float64, lim Limits, override, dt float64) State {
	return track(cur, vel*clamp(override, 0, 1), lim, override, dt)
}

func track(cur State, target float64, lim Limits, override, dt float64) State {
	vmax := lim.MaxVel * clamp(override, 0, 1)
	target = clamp(target, -vmax, vmax)

	step := lim.MaxAcc * dt
	var acc float64
	if step > 0 {
		sigma := (target - cur.Vel) / step
		acc = lim.MaxAcc * clamp(sigma, -1, 1)
	}
	vel := cur.Vel + acc*dt
	return State{
		Pos: cur.Pos + vel*dt,
		Vel: vel,
		Acc: acc,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
