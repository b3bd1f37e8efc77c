package value

import (
	"fmt"
	"strings"
)

// Type tags the kind of value a port, parameter or expression carries.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeDouble
	TypeBool
	TypeInt
	TypeVector
	TypeRotation
	TypeFrame
	TypeTwist
	TypeWrench

	TypeDoubleArray
	TypeBoolArray
	TypeIntArray
	TypeVectorArray
	TypeRotationArray
	TypeFrameArray
	TypeTwistArray
	TypeWrenchArray
)

var typeNames = map[Type]string{
	TypeInvalid:  "invalid",
	TypeDouble:   "double",
	TypeBool:     "bool",
	TypeInt:      "int",
	TypeVector:   "vector",
	TypeRotation: "rotation",
	TypeFrame:    "frame",
	TypeTwist:    "twist",
	TypeWrench:   "wrench",
}

// String returns the canonical name, e.g. "double" or "frame[]".
func (t Type) String() string {
	if t.IsArray() {
		return t.Elem().String() + "[]"
	}
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// IsArray reports whether t is one of the array types.
func (t Type) IsArray() bool {
	return t >= TypeDoubleArray && t <= TypeWrenchArray
}

// Elem returns the element type of an array type, or TypeInvalid.
func (t Type) Elem() Type {
	if !t.IsArray() {
		return TypeInvalid
	}
	return t - TypeDoubleArray + TypeDouble
}

// ArrayOf returns the array type with element type t, or TypeInvalid when t
// is not a scalar or geometric type.
func (t Type) ArrayOf() Type {
	if t < TypeDouble || t > TypeWrench {
		return TypeInvalid
	}
	return t - TypeDouble + TypeDoubleArray
}

// ParseType parses a canonical type name as produced by Type.String.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if elem, ok := strings.CutSuffix(s, "[]"); ok {
		et, err := ParseType(elem)
		if err != nil {
			return TypeInvalid, err
		}
		if at := et.ArrayOf(); at != TypeInvalid {
			return at, nil
		}
		return TypeInvalid, fmt.Errorf("type %q cannot be an array element", elem)
	}
	for t, name := range typeNames {
		if name == s && t != TypeInvalid {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("unknown value type %q", s)
}

// TypeOf returns the type tag for the Go type T.
func TypeOf[T any]() Type {
	var zero T
	switch any(zero).(type) {
	case float64:
		return TypeDouble
	case bool:
		return TypeBool
	case int:
		return TypeInt
	case Vector:
		return TypeVector
	case Rotation:
		return TypeRotation
	case Frame:
		return TypeFrame
	case Twist:
		return TypeTwist
	case Wrench:
		return TypeWrench
	case Array[float64]:
		return TypeDoubleArray
	case Array[bool]:
		return TypeBoolArray
	case Array[int]:
		return TypeIntArray
	case Array[Vector]:
		return TypeVectorArray
	case Array[Rotation]:
		return TypeRotationArray
	case Array[Frame]:
		return TypeFrameArray
	case Array[Twist]:
		return TypeTwistArray
	case Array[Wrench]:
		return TypeWrenchArray
	}
	return TypeInvalid
}

var kindNames = map[Type]string{
	TypeDouble:   "Double",
	TypeBool:     "Boolean",
	TypeInt:      "Int",
	TypeVector:   "Vector",
	TypeRotation: "Rotation",
	TypeFrame:    "Frame",
	TypeTwist:    "Twist",
	TypeWrench:   "Wrench",
}

// KindName returns the name fragment used in primitive kinds, e.g. "Double"
// in "Core::DoubleAdd" or "FrameArray" in "Core::FrameArrayGet".
func (t Type) KindName() string {
	if t.IsArray() {
		return t.Elem().KindName() + "Array"
	}
	return kindNames[t]
}

// Scalars lists every non-array type.
func Scalars() []Type {
	return []Type{TypeDouble, TypeBool, TypeInt, TypeVector, TypeRotation, TypeFrame, TypeTwist, TypeWrench}
}
