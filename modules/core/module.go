// Package core registers the "Core::" primitive kinds: typed constants,
// feedback, selection and null handling for every value type, array
// access, double, integer and boolean arithmetic, triggers and clocks, and
// the windowed history primitives.
package core

import (
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/registry"
	"github.com/vk/rtnet/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers every Core primitive kind.
func (m *Module) Register(r *registry.Registry) {
	registerScalar[float64](r, false)
	registerScalar[bool](r, true)
	registerScalar[int](r, true)
	registerScalar[value.Vector](r, true)
	registerScalar[value.Rotation](r, true)
	registerScalar[value.Frame](r, true)
	registerScalar[value.Twist](r, true)
	registerScalar[value.Wrench](r, true)

	registerDouble(r)
	registerBoolean(r)

	r.Register("Core::Trigger", func() network.Primitive { return NewTrigger() })
	r.Register("Core::EdgeDetection", func() network.Primitive { return NewEdgeDetection() })
	r.Register("Core::Clock", func() network.Primitive { return NewClock() })
	r.Register("Core::CycleTime", func() network.Primitive { return NewCycleTime() })
	r.Register("Core::Time", func() network.Primitive { return NewTime() })

	r.Register("Core::DoubleAverage", func() network.Primitive { return NewDoubleAverage() })
	r.Register("Core::BooleanHistory", func() network.Primitive { return NewBooleanHistory() })
	r.Register("Core::DoubleHistory", func() network.Primitive { return NewDoubleHistory() })
	r.Register("Core::DoubleAtTime", func() network.Primitive { return NewDoubleAtTime() })
	r.Register("Core::ConsistentRange", func() network.Primitive { return NewConsistentRange() })
}

// registerScalar registers the kinds every value type T has, plus the same
// kinds for arrays of T and the array access kinds.
func registerScalar[T comparable](r *registry.Registry, withEquals bool) {
	registerCommon[T](r)
	registerCommon[value.Array[T]](r)
	if withEquals {
		r.Register(kindOf[T]("Equals"), func() network.Primitive { return newEquals[T]() })
	}

	r.Register(kindOf[T]("ArrayGet"), func() network.Primitive { return NewArrayGet[T]() })
	r.Register(kindOf[T]("ArraySet"), func() network.Primitive { return NewArraySet[T]() })
	r.Register(kindOf[T]("ArraySlice"), func() network.Primitive { return NewArraySlice[T]() })
	r.Register(kindOf[T]("ArrayCreate"), func() network.Primitive { return newArrayCreate[T]() })
	r.Register(kindOf[T]("ArrayLength"), func() network.Primitive { return newArrayLength[T]() })
}

func registerCommon[T any](r *registry.Registry) {
	r.Register(kindOf[T]("Value"), func() network.Primitive { return NewValue[T]() })
	r.Register(kindOf[T]("Source"), func() network.Primitive { return network.NewSource[T]() })
	r.Register(kindOf[T]("Pre"), func() network.Primitive { return NewPre[T]() })
	r.Register(kindOf[T]("Snapshot"), func() network.Primitive { return NewSnapshot[T]() })
	r.Register(kindOf[T]("Conditional"), func() network.Primitive { return NewConditional[T]() })
	r.Register(kindOf[T]("IsNull"), func() network.Primitive { return NewIsNull[T]() })
	r.Register(kindOf[T]("OrElse"), func() network.Primitive { return NewOrElse[T]() })
}

// Kind returns the name of the Core kind op for values of type t, e.g.
// Kind(value.TypeDouble, "Pre") is "Core::DoublePre".
func Kind(t value.Type, op string) string {
	return "Core::" + t.KindName() + op
}
