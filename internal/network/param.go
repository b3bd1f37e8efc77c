package network

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Parameter is the type-erased view of a Param.
type Parameter interface {
	Name() string
	Any() any
	// CtyType is the cty type SetCty converts to; cty.DynamicPseudoType for
	// values that decode themselves.
	CtyType() (cty.Type, error)
	SetCty(v cty.Value) error
	// SetAny sets the parameter from a Go value of the parameter's type.
	// Integers are accepted for float64 parameters.
	SetAny(v any) error
}

// ctyDecoder is implemented by values that cannot be described by gocty
// struct tags, such as value.Array.
type ctyDecoder interface {
	DecodeCty(v cty.Value) error
}

// Param is a value fixed at construction time.
type Param[T any] struct {
	name string
	v    T
}

// NewParam declares a parameter on b with the given default.
func NewParam[T any](b *Base, name string, def T) *Param[T] {
	p := &Param[T]{name: name, v: def}
	b.params = append(b.params, p)
	return p
}

func (p *Param[T]) Name() string { return p.name }
func (p *Param[T]) Get() T       { return p.v }
func (p *Param[T]) Set(v T)      { p.v = v }
func (p *Param[T]) Any() any     { return p.v }

// SetAny sets the value from v, which must have the parameter's type. An
// int is accepted for a double parameter.
func (p *Param[T]) SetAny(v any) error {
	if t, ok := v.(T); ok {
		p.v = t
		return nil
	}
	if i, ok := v.(int); ok {
		if f, ok := any(float64(i)).(T); ok {
			p.v = f
			return nil
		}
	}
	return fmt.Errorf("parameter '%s': cannot use %T as %T", p.name, v, p.v)
}

// CtyType is the cty type a configuration value must convert to.
// Types decoding themselves take any value.
func (p *Param[T]) CtyType() (cty.Type, error) {
	if _, ok := any(&p.v).(ctyDecoder); ok {
		return cty.DynamicPseudoType, nil
	}
	return gocty.ImpliedType(p.v)
}

// SetCty decodes a configuration value into the parameter.
func (p *Param[T]) SetCty(v cty.Value) error {
	var decoded T
	if err := decodeCty(v, &decoded); err != nil {
		return fmt.Errorf("parameter '%s': %w", p.name, err)
	}
	p.v = decoded
	return nil
}

// decodeCty converts v into the Go value pointed to by target. It follows
// the same sequence as the HCL attribute decoder: implied type, conversion,
// then gocty.
func decodeCty[T any](v cty.Value, target *T) error {
	if d, ok := any(target).(ctyDecoder); ok {
		return d.DecodeCty(v)
	}
	if v.IsNull() {
		return fmt.Errorf("value must not be null")
	}
	if !v.IsWhollyKnown() {
		return fmt.Errorf("value must be known")
	}
	ty, err := gocty.ImpliedType(*target)
	if err != nil {
		return fmt.Errorf("cannot determine cty type for %T: %w", *target, err)
	}
	conv, err := convert.Convert(v, ty)
	if err != nil {
		return fmt.Errorf("cannot convert %s to %s: %w", v.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	return gocty.FromCtyValue(conv, target)
}
