package value

import "math"

// Vector is a 3D vector in metres (positions, forces) or metres per second
// (velocities), depending on where it is used.
type Vector struct {
	X float64 `cty:"x"`
	Y float64 `cty:"y"`
	Z float64 `cty:"z"`
}

func (v Vector) Add(o Vector) Vector    { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector) Sub(o Vector) Vector    { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector) Scale(s float64) Vector { return Vector{v.X * s, v.Y * s, v.Z * s} }
func (v Vector) Dot(o Vector) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector) Norm() float64          { return math.Sqrt(v.Dot(v)) }
func (v Vector) Neg() Vector            { return Vector{-v.X, -v.Y, -v.Z} }
func (v Vector) IsZero() bool           { return v.X == 0 && v.Y == 0 && v.Z == 0 }
// Cross is the cross product of v and o.
func (v Vector) Cross(o Vector) Vector {
	return Vector{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Unit returns v scaled to length 1, or the zero vector if v is zero.
func (v Vector) Unit() Vector {
	n := v.Norm()
	if n == 0 {
		return Vector{}
	}
	return v.Scale(1 / n)
}

// ApproxEqual compares component-wise with absolute tolerance eps.
func (v Vector) ApproxEqual(o Vector, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// Rotation is an orientation stored as a unit quaternion. The zero value is
// treated as the identity rotation.
type Rotation struct {
	W float64 `cty:"w"`
	X float64 `cty:"x"`
	Y float64 `cty:"y"`
	Z float64 `cty:"z"`
}

// Identity returns the identity rotation.
func Identity() Rotation { return Rotation{W: 1} }

// RotationFromAxisAngle builds a rotation of angle radians about axis.
func RotationFromAxisAngle(axis Vector, angle float64) Rotation {
	u := axis.Unit()
	if u.IsZero() || angle == 0 {
		return Identity()
	}
	s := math.Sin(angle / 2)
	return Rotation{W: math.Cos(angle / 2), X: u.X * s, Y: u.Y * s, Z: u.Z * s}
}

// RotationFromVector builds a rotation from a rotation vector (axis scaled by
// angle).
func RotationFromVector(r Vector) Rotation {
	return RotationFromAxisAngle(r, r.Norm())
}

// RotationFromABC builds a rotation from A (about z), B (about y) and C
// (about x) angles applied as Rz(A)*Ry(B)*Rx(C).
func RotationFromABC(a, b, c float64) Rotation {
	qa := RotationFromAxisAngle(Vector{Z: 1}, a)
	qb := RotationFromAxisAngle(Vector{Y: 1}, b)
	qc := RotationFromAxisAngle(Vector{X: 1}, c)
	return qa.Mul(qb).Mul(qc)
}

// Normalize returns r scaled to unit length; a zero quaternion becomes the
// identity.
func (r Rotation) Normalize() Rotation {
	n := math.Sqrt(r.W*r.W + r.X*r.X + r.Y*r.Y + r.Z*r.Z)
	if n == 0 {
		return Identity()
	}
	return Rotation{r.W / n, r.X / n, r.Y / n, r.Z / n}
}

// Mul returns the rotation r followed by o in body coordinates (r*o).
func (r Rotation) Mul(o Rotation) Rotation {
	r, o = r.Normalize(), o.Normalize()
	return Rotation{
		W: r.W*o.W - r.X*o.X - r.Y*o.Y - r.Z*o.Z,
		X: r.W*o.X + r.X*o.W + r.Y*o.Z - r.Z*o.Y,
		Y: r.W*o.Y - r.X*o.Z + r.Y*o.W + r.Z*o.X,
		Z: r.W*o.Z + r.X*o.Y - r.Y*o.X + r.Z*o.W,
	}
}

// Inverse returns the inverse rotation.
func (r Rotation) Inverse() Rotation {
	r = r.Normalize()
	return Rotation{r.W, -r.X, -r.Y, -r.Z}
}

// Apply rotates v by r.
func (r Rotation) Apply(v Vector) Vector {
	r = r.Normalize()
	u := Vector{r.X, r.Y, r.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(r.W)).Add(u.Cross(t))
}

// AxisAngle returns the rotation as a unit axis and an angle in [0, pi].
func (r Rotation) AxisAngle() (Vector, float64) {
	r = r.Normalize()
	if r.W < 0 {
		r = Rotation{-r.W, -r.X, -r.Y, -r.Z}
	}
	u := Vector{r.X, r.Y, r.Z}
	s := u.Norm()
	if s < 1e-12 {
		return Vector{X: 1}, 0
	}
	return u.Scale(1 / s), 2 * math.Atan2(s, r.W)
}

// Vector returns the rotation vector (axis scaled by angle).
func (r Rotation) Vector() Vector {
	axis, angle := r.AxisAngle()
	return axis.Scale(angle)
}

// Angle returns the rotation angle in [0, pi].
func (r Rotation) Angle() float64 {
	_, angle := r.AxisAngle()
	return angle
}

// ABC returns the A, B, C angles such that RotationFromABC(a, b, c) == r.
func (r Rotation) ABC() (a, b, c float64) {
	r = r.Normalize()
	r11 := 1 - 2*(r.Y*r.Y+r.Z*r.Z)
	r21 := 2 * (r.X*r.Y + r.W*r.Z)
	r31 := 2 * (r.X*r.Z - r.W*r.Y)
	r32 := 2 * (r.Y*r.Z + r.W*r.X)
	r33 := 1 - 2*(r.X*r.X+r.Y*r.Y)
	b = math.Atan2(-r31, math.Hypot(r11, r21))
	a = math.Atan2(r21, r11)
	c = math.Atan2(r32, r33)
	return a, b, c
}

// ApproxEqual reports whether r and o describe the same orientation within
// eps radians.
func (r Rotation) ApproxEqual(o Rotation, eps float64) bool {
	return r.Inverse().Mul(o).Angle() <= eps
}

// Frame is a rigid transformation: a position plus an orientation.
type Frame struct {
	Pos Vector   `cty:"pos"`
	Rot Rotation `cty:"rot"`
}

// IdentityFrame returns the frame with zero offset and identity rotation.
func IdentityFrame() Frame { return Frame{Rot: Identity()} }

// Compose returns f followed by o, i.e. the transform from f's reference to
// o's target.
func (f Frame) Compose(o Frame) Frame {
	return Frame{
		Pos: f.Pos.Add(f.Rot.Apply(o.Pos)),
		Rot: f.Rot.Mul(o.Rot).Normalize(),
	}
}

// Invert returns the inverse transformation.
func (f Frame) Invert() Frame {
	inv := f.Rot.Inverse()
	return Frame{Pos: inv.Apply(f.Pos).Neg(), Rot: inv}
}

// Transform maps a point given in f's target coordinates into its reference.
func (f Frame) Transform(v Vector) Vector {
	return f.Pos.Add(f.Rot.Apply(v))
}

// ApproxEqual compares position within posEps and orientation within rotEps.
func (f Frame) ApproxEqual(o Frame, posEps, rotEps float64) bool {
	return f.Pos.ApproxEqual(o.Pos, posEps) && f.Rot.ApproxEqual(o.Rot, rotEps)
}

// Twist is a spatial velocity.
type Twist struct {
	Trans Vector `cty:"trans"`
	Rot   Vector `cty:"rot"`
}

func (t Twist) Add(o Twist) Twist     { return Twist{t.Trans.Add(o.Trans), t.Rot.Add(o.Rot)} }
func (t Twist) Sub(o Twist) Twist     { return Twist{t.Trans.Sub(o.Trans), t.Rot.Sub(o.Rot)} }
func (t Twist) Scale(s float64) Twist { return Twist{t.Trans.Scale(s), t.Rot.Scale(s)} }

// Wrench is a spatial force.
type Wrench struct {
	Force  Vector `cty:"force"`
	Torque Vector `cty:"torque"`
}

func (w Wrench) Add(o Wrench) Wrench { return Wrench{w.Force.Add(o.Force), w.Torque.Add(o.Torque)} }
