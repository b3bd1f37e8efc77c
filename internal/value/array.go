package value

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Array is an immutable fixed-size array. Every mutating operation returns a
// fresh copy, so two arrays never share backing storage.
type Array[T any] struct {
	elems []T
}

// NewArray returns an array of n zero elements.
func NewArray[T any](n int) Array[T] {
	if n < 0 {
		n = 0
	}
	return Array[T]{elems: make([]T, n)}
}

// ArrayOf copies elems into a new array.
func ArrayOf[T any](elems ...T) Array[T] {
	out := make([]T, len(elems))
	copy(out, elems)
	return Array[T]{elems: out}
}

// Len returns the number of elements.
func (a Array[T]) Len() int { return len(a.elems) }

// Get returns element i; ok is false when i is out of range.
func (a Array[T]) Get(i int) (v T, ok bool) {
	if i < 0 || i >= len(a.elems) {
		return v, false
	}
	return a.elems[i], true
}

// At is Get with the element boxed, for callers that do not know T.
func (a Array[T]) At(i int) (any, bool) {
	v, ok := a.Get(i)
	return v, ok
}

// Set returns a copy of a with element i replaced.
func (a Array[T]) Set(i int, v T) (Array[T], bool) {
	if i < 0 || i >= len(a.elems) {
		return Array[T]{}, false
	}
	out := ArrayOf(a.elems...)
	out.elems[i] = v
	return out, true
}

// Slice returns a copy of n elements starting at start.
func (a Array[T]) Slice(start, n int) (Array[T], bool) {
	if start < 0 || n < 0 || start+n > len(a.elems) {
		return Array[T]{}, false
	}
	return ArrayOf(a.elems[start : start+n]...), true
}

// Elems returns a copy of the elements.
func (a Array[T]) Elems() []T {
	out := make([]T, len(a.elems))
	copy(out, a.elems)
	return out
}

func (a Array[T]) String() string {
	return fmt.Sprint(a.elems)
}

// DecodeCty fills the array from a cty list or tuple value.
func (a *Array[T]) DecodeCty(v cty.Value) error {
	if v.IsNull() || !v.IsKnown() {
		return fmt.Errorf("array value must be known and not null")
	}
	if !v.CanIterateElements() {
		return fmt.Errorf("cannot decode %s into an array", v.Type().FriendlyName())
	}
	var zero T
	ety, err := gocty.ImpliedType(zero)
	if err != nil {
		return fmt.Errorf("unsupported array element type %T: %w", zero, err)
	}
	elems := make([]T, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		conv, err := convert.Convert(ev, ety)
		if err != nil {
			return fmt.Errorf("element %d: %w", len(elems), err)
		}
		var elem T
		if err := gocty.FromCtyValue(conv, &elem); err != nil {
			return fmt.Errorf("element %d: %w", len(elems), err)
		}
		elems = append(elems, elem)
	}
	a.elems = elems
	return nil
}
