package expr

import "github.com/vk/rtnet/internal/value"

// Vector builds a vector from three doubles.
type Vector struct {
	X, Y, Z Expr
}

// Type is a vector for three doubles.
func (v *Vector) Type() value.Type { return only(value.TypeVector, value.TypeDouble, v.X, v.Y, v.Z) }
func (v *Vector) Operands() []Expr { return []Expr{v.X, v.Y, v.Z} }

// Component is the "x", "y" or "z" component of a vector.
type Component struct {
	V    Expr
	Axis string
}

// Type is invalid for an unknown Axis.
func (c *Component) Type() value.Type {
	switch c.Axis {
	case "x", "y", "z":
		return only(value.TypeDouble, value.TypeVector, c.V)
	}
	return value.TypeInvalid
}
func (c *Component) Operands() []Expr { return []Expr{c.V} }

// VectorOp adds (Subtract false) or subtracts two vectors.
type VectorOp struct {
	A, B     Expr
	Subtract bool
}

func (v *VectorOp) Type() value.Type { return only(value.TypeVector, value.TypeVector, v.A, v.B) }
func (v *VectorOp) Operands() []Expr { return []Expr{v.A, v.B} }

// Scale multiplies a vector by a double.
type Scale struct {
	V, Factor Expr
}

// Type is a vector for a vector V and a double Factor.
func (s *Scale) Type() value.Type {
	if s.V.Type() != value.TypeVector || s.Factor.Type() != value.TypeDouble {
		return value.TypeInvalid
	}
	return value.TypeVector
}
func (s *Scale) Operands() []Expr { return []Expr{s.V, s.Factor} }

// Norm is the length of a vector.
type Norm struct {
	V Expr
}

// Type is double for a vector.
func (n *Norm) Type() value.Type { return only(value.TypeDouble, value.TypeVector, n.V) }
func (n *Norm) Operands() []Expr { return []Expr{n.V} }

// Compose chains two transformations: A from frame F to G, then B from G
// to H, giving F to H.
type Compose struct {
	A, B Expr
}

// Type is a frame. Whether the frames chain is checked by the mapper.
func (c *Compose) Type() value.Type { return only(value.TypeFrame, value.TypeFrame, c.A, c.B) }
func (c *Compose) Operands() []Expr { return []Expr{c.A, c.B} }

// Invert reverses a transformation.
type Invert struct {
	F Expr
}

// Type is a frame for a frame.
func (i *Invert) Type() value.Type { return only(value.TypeFrame, value.TypeFrame, i.F) }
func (i *Invert) Operands() []Expr { return []Expr{i.F} }

// FramePos is the translation part of a frame.
type FramePos struct {
	F Expr
}

func (f *FramePos) Type() value.Type { return only(value.TypeVector, value.TypeFrame, f.F) }
func (f *FramePos) Operands() []Expr { return []Expr{f.F} }

// FrameRot is the rotation part of a frame.
type FrameRot struct {
	F Expr
}

func (f *FrameRot) Type() value.Type { return only(value.TypeRotation, value.TypeFrame, f.F) }
func (f *FrameRot) Operands() []Expr { return []Expr{f.F} }

// Frame builds a frame from a position and a rotation.
type Frame struct {
	Pos, Rot Expr
}

// Type is a frame for a vector Pos and a rotation Rot.
func (f *Frame) Type() value.Type {
	if f.Pos.Type() != value.TypeVector || f.Rot.Type() != value.TypeRotation {
		return value.TypeInvalid
	}
	return value.TypeFrame
}
func (f *Frame) Operands() []Expr { return []Expr{f.Pos, f.Rot} }

// RotationABC builds a rotation from A, B and C angles in radians.
type RotationABC struct {
	A, B, C Expr
}

// Type is a rotation for three doubles.
func (r *RotationABC) Type() value.Type { return only(value.TypeRotation, value.TypeDouble, r.A, r.B, r.C) }
func (r *RotationABC) Operands() []Expr { return []Expr{r.A, r.B, r.C} }

// Transform maps the vector V through frame F.
type Transform struct {
	F, V Expr
}

// Type is a vector for a frame F and a vector V.
func (t *Transform) Type() value.Type {
	if t.F.Type() != value.TypeFrame || t.V.Type() != value.TypeVector {
		return value.TypeInvalid
	}
	return value.TypeVector
}
func (t *Transform) Operands() []Expr { return []Expr{t.F, t.V} }

// Distance is the translational distance between two frames. Its "rot"
// output is the rotational distance.
type Distance struct {
	A, B Expr
}

// Type is double for two frames.
func (d *Distance) Type() value.Type { return only(value.TypeDouble, value.TypeFrame, d.A, d.B) }
func (d *Distance) Operands() []Expr { return []Expr{d.A, d.B} }

// Frames reports the frames a transformation relates, when they are known.
func Frames(e Expr) (from, to string, ok bool) {
	switch n := e.(type) {
	case *Relation:
		return n.From, n.To, true
	case *Invert:
		if from, to, ok := Frames(n.F); ok {
			return to, from, true
		}
	case *Compose:
		fromA, _, okA := Frames(n.A)
		_, toB, okB := Frames(n.B)
		if okA && okB {
			return fromA, toB, true
		}
	}
	return "", "", false
}
