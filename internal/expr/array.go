package expr

import "github.com/vk/rtnet/internal/value"

// ArrayGet is element Index of Array.
type ArrayGet struct {
	Array Expr
	Index int
}

// Type is the element type of Array.
func (a *ArrayGet) Type() value.Type {
	if !a.Array.Type().IsArray() {
		return value.TypeInvalid
	}
	return a.Array.Type().Elem()
}
func (a *ArrayGet) Operands() []Expr { return []Expr{a.Array} }

// ArraySet is Array with element Index replaced by Value.
type ArraySet struct {
	Array, Value Expr
	Index        int
}

// Type is the array type when Value fits its elements.
func (a *ArraySet) Type() value.Type {
	t := a.Array.Type()
	if !t.IsArray() || t.Elem() != a.Value.Type() {
		return value.TypeInvalid
	}
	return t
}
func (a *ArraySet) Operands() []Expr { return []Expr{a.Array, a.Value} }

// ArraySlice is Length elements of Array starting at Start.
type ArraySlice struct {
	Array         Expr
	Start, Length int
}

// Type is the type of Array.
func (a *ArraySlice) Type() value.Type {
	if !a.Array.Type().IsArray() {
		return value.TypeInvalid
	}
	return a.Array.Type()
}
func (a *ArraySlice) Operands() []Expr { return []Expr{a.Array} }

// ArrayMake builds an array from its elements.
type ArrayMake struct {
	Elems []Expr
}

// Type is the array of the common element type. Nested arrays are invalid.
func (a *ArrayMake) Type() value.Type {
	t := sameType(a.Elems...)
	if t == value.TypeInvalid || t.IsArray() {
		return value.TypeInvalid
	}
	return t.ArrayOf()
}
func (a *ArrayMake) Operands() []Expr { return a.Elems }
