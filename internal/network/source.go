package network

import (
	"fmt"

	"github.com/vk/rtnet/internal/value"
)

// Feeder is a primitive whose single output is set from outside the net,
// between cycles.
type Feeder interface {
	Primitive
	// Feed sets the value published from the next cycle on.
	Feed(v any) error
	// Clear makes the output absent from the next cycle on.
	Clear()
	// Port is the output the fed value is published on.
	Port() OutputPort
}

// Source publishes an externally supplied value, or absent until one is fed.
type Source[T any] struct {
	Base
	out     *OutPort[T]
	v       T
	present bool
}

// NewSource creates a source with no value.
func NewSource[T any]() *Source[T] {
	s := &Source[T]{}
	s.out = NewOut[T](&s.Base, "outValue")
	return s
}

func (s *Source[T]) Kind() string                  { return "Core::" + value.TypeOf[T]().KindName() + "Source" }
func (s *Source[T]) Out() *OutPort[T]              { return s.out }
func (s *Source[T]) Port() OutputPort              { return s.out }
func (s *Source[T]) CheckParameters(Context) error { return nil }

// Set publishes v from the next cycle on.
func (s *Source[T]) Set(v T) { s.v, s.present = v, true }

// Clear makes the output absent from the next cycle on.
func (s *Source[T]) Clear() {
	var zero T
	s.v, s.present = zero, false
}

// Feed is Set for a boxed value. It fails unless v is a T.
func (s *Source[T]) Feed(v any) error {
	t, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: source '%s' takes %s, got %T", ErrTypeMismatch, s.name, value.TypeOf[T](), v)
	}
	s.Set(t)
	return nil
}

// UpdateData publishes the value fed last.
func (s *Source[T]) UpdateData(Context) {
	s.out.SetMaybe(s.v, s.present)
}

// NewSourceOf creates a Source for the value type t.
func NewSourceOf(t value.Type) (Feeder, error) {
	switch t {
	case value.TypeDouble:
		return NewSource[float64](), nil
	case value.TypeBool:
		return NewSource[bool](), nil
	case value.TypeInt:
		return NewSource[int](), nil
	case value.TypeVector:
		return NewSource[value.Vector](), nil
	case value.TypeRotation:
		return NewSource[value.Rotation](), nil
	case value.TypeFrame:
		return NewSource[value.Frame](), nil
	case value.TypeTwist:
		return NewSource[value.Twist](), nil
	case value.TypeWrench:
		return NewSource[value.Wrench](), nil
	case value.TypeDoubleArray:
		return NewSource[value.Array[float64]](), nil
	case value.TypeBoolArray:
		return NewSource[value.Array[bool]](), nil
	case value.TypeIntArray:
		return NewSource[value.Array[int]](), nil
	case value.TypeVectorArray:
		return NewSource[value.Array[value.Vector]](), nil
	case value.TypeRotationArray:
		return NewSource[value.Array[value.Rotation]](), nil
	case value.TypeFrameArray:
		return NewSource[value.Array[value.Frame]](), nil
	case value.TypeTwistArray:
		return NewSource[value.Array[value.Twist]](), nil
	case value.TypeWrenchArray:
		return NewSource[value.Array[value.Wrench]](), nil
	}
	return nil, fmt.Errorf("no source for value type %s", t)
}

// Zero returns the zero value of type t, boxed. Arrays are empty.
func Zero(t value.Type) (any, error) {
	s, err := NewSourceOf(t)
	if err != nil {
		return nil, err
	}
	return s.(interface{ zero() any }).zero(), nil
}

func (s *Source[T]) zero() any {
	var zero T
	return zero
}
