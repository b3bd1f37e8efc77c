// Package world registers the "World::" primitive kinds: construction,
// decomposition and arithmetic of vectors, rotations, frames, twists and
// wrenches. The transforms they work on come already resolved from the
// frame model; nothing here walks or validates a frame graph.
package world

import (
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/primitive"
	"github.com/vk/rtnet/internal/registry"
	"github.com/vk/rtnet/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type (
	vec = value.Vector
	rot = value.Rotation
	frm = value.Frame
	twi = value.Twist
	wre = value.Wrench
)

var xyz = [3]string{"inX", "inY", "inZ"}

// Register registers every World primitive kind.
func (m *Module) Register(r *registry.Registry) {
	reg := func(kind string, ctor func(kind string) network.Primitive) {
		r.Register(kind, func() network.Primitive { return ctor(kind) })
	}

	// vectors
	reg("World::VectorFromXYZ", func(k string) network.Primitive {
		return primitive.NewTernary(k, xyz, func(x, y, z float64) (vec, bool) { return vec{X: x, Y: y, Z: z}, true })
	})
	reg("World::VectorToXYZ", func(k string) network.Primitive {
		return primitive.NewSplit(k, []string{"outX", "outY", "outZ"}, func(v vec) []float64 { return []float64{v.X, v.Y, v.Z} })
	})
	reg("World::VectorAdd", func(k string) network.Primitive { return primitive.NewBinary(k, primitive.Ok2(vec.Add)) })
	reg("World::VectorSubtract", func(k string) network.Primitive { return primitive.NewBinary(k, primitive.Ok2(vec.Sub)) })
	reg("World::VectorScale", func(k string) network.Primitive {
		return primitive.NewBinaryPorts(k, "inValue", "inFactor", primitive.Ok2(vec.Scale))
	})
	reg("World::VectorDot", func(k string) network.Primitive { return primitive.NewBinary(k, primitive.Ok2(vec.Dot)) })
	reg("World::VectorCross", func(k string) network.Primitive { return primitive.NewBinary(k, primitive.Ok2(vec.Cross)) })
	reg("World::VectorNorm", func(k string) network.Primitive { return primitive.NewUnary(k, primitive.Ok(vec.Norm)) })
	reg("World::VectorNegate", func(k string) network.Primitive { return primitive.NewUnary(k, primitive.Ok(vec.Neg)) })

	// rotations
	reg("World::RotationFromABC", func(k string) network.Primitive {
		return primitive.NewTernary(k, [3]string{"inA", "inB", "inC"}, func(a, b, c float64) (rot, bool) {
			return value.RotationFromABC(a, b, c), true
		})
	})
	reg("World::RotationToABC", func(k string) network.Primitive {
		return primitive.NewSplit(k, []string{"outA", "outB", "outC"}, func(r rot) []float64 {
			a, b, c := r.ABC()
			return []float64{a, b, c}
		})
	})
	reg("World::RotationFromAxisAngle", func(k string) network.Primitive {
		return primitive.NewBinaryPorts(k, "inAxis", "inAngle", func(axis vec, angle float64) (rot, bool) {
			return value.RotationFromAxisAngle(axis, angle), !axis.IsZero() || angle == 0
		})
	})
	reg("World::RotationFromVector", func(k string) network.Primitive {
		return primitive.NewUnary(k, primitive.Ok(value.RotationFromVector))
	})
	reg("World::RotationToVector", func(k string) network.Primitive { return primitive.NewUnary(k, primitive.Ok(rot.Vector)) })
	reg("World::RotationAngle", func(k string) network.Primitive { return primitive.NewUnary(k, primitive.Ok(rot.Angle)) })
	reg("World::RotationInvert", func(k string) network.Primitive { return primitive.NewUnary(k, primitive.Ok(rot.Inverse)) })
	reg("World::RotationMultiply", func(k string) network.Primitive {
		return primitive.NewBinary(k, primitive.Ok2(func(a, b rot) rot { return a.Mul(b).Normalize() }))
	})
	reg("World::RotationApply", func(k string) network.Primitive {
		return primitive.NewBinaryPorts(k, "inRotation", "inVector", primitive.Ok2(rot.Apply))
	})

	// frames
	reg("World::FrameFromPosRot", func(k string) network.Primitive {
		return primitive.NewBinaryPorts(k, "inPos", "inRot", primitive.Ok2(func(p vec, r rot) frm {
			return frm{Pos: p, Rot: r.Normalize()}
		}))
	})
	reg("World::FramePos", func(k string) network.Primitive {
		return primitive.NewUnary(k, primitive.Ok(func(f frm) vec { return f.Pos }))
	})
	reg("World::FrameRot", func(k string) network.Primitive {
		return primitive.NewUnary(k, primitive.Ok(func(f frm) rot { return f.Rot }))
	})
	reg("World::FrameCompose", func(k string) network.Primitive { return primitive.NewBinary(k, primitive.Ok2(frm.Compose)) })
	reg("World::FrameInvert", func(k string) network.Primitive { return primitive.NewUnary(k, primitive.Ok(frm.Invert)) })
	reg("World::FrameTransform", func(k string) network.Primitive {
		return primitive.NewBinaryPorts(k, "inFrame", "inVector", primitive.Ok2(frm.Transform))
	})
	reg("World::FrameDistance", func(k string) network.Primitive { return NewFrameDistance() })

	// twists and wrenches
	reg("World::TwistFromVectors", func(k string) network.Primitive {
		return primitive.NewBinaryPorts(k, "inTrans", "inRot", primitive.Ok2(func(t, r vec) twi { return twi{Trans: t, Rot: r} }))
	})
	reg("World::TwistTrans", func(k string) network.Primitive {
		return primitive.NewUnary(k, primitive.Ok(func(t twi) vec { return t.Trans }))
	})
	reg("World::TwistRot", func(k string) network.Primitive {
		return primitive.NewUnary(k, primitive.Ok(func(t twi) vec { return t.Rot }))
	})
	reg("World::TwistAdd", func(k string) network.Primitive { return primitive.NewBinary(k, primitive.Ok2(twi.Add)) })
	reg("World::TwistSubtract", func(k string) network.Primitive { return primitive.NewBinary(k, primitive.Ok2(twi.Sub)) })
	reg("World::TwistScale", func(k string) network.Primitive {
		return primitive.NewBinaryPorts(k, "inValue", "inFactor", primitive.Ok2(twi.Scale))
	})
	reg("World::WrenchFromVectors", func(k string) network.Primitive {
		return primitive.NewBinaryPorts(k, "inForce", "inTorque", primitive.Ok2(func(f, t vec) wre { return wre{Force: f, Torque: t} }))
	})
	reg("World::WrenchAdd", func(k string) network.Primitive { return primitive.NewBinary(k, primitive.Ok2(wre.Add)) })
}
