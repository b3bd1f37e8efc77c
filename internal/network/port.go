package network

import (
	"fmt"

	"github.com/vk/rtnet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// InputPort is the type-erased view of an InPort.
type InputPort interface {
	Name() string
	Type() value.Type
	Owner() *Base
	// Source returns the connected output, or nil.
	Source() OutputPort
	IsOptional() bool
	HasDefault() bool
	// SetDefaultCty sets the default from a cty value.
	SetDefaultCty(v cty.Value) error
	connect(o OutputPort) error
}

// OutputPort is the type-erased view of an OutPort.
type OutputPort interface {
	Name() string
	Type() value.Type
	Owner() *Base
	// Any returns the current value boxed, and whether it is present.
	Any() (any, bool)
	SetAbsent()
	written() bool
	reset()
}

// InPort is a typed input. It resolves to the connected output's value,
// else to its default, else to absent.
type InPort[T any] struct {
	name     string
	owner    *Base
	src      *OutPort[T]
	def      T
	hasDef   bool
	optional bool
}

// NewIn declares an input port on b.
func NewIn[T any](b *Base, name string) *InPort[T] {
	p := &InPort[T]{name: name, owner: b}
	b.inputs = append(b.inputs, p)
	return p
}

// NewInDefault declares an input port that resolves to def while unconnected.
func NewInDefault[T any](b *Base, name string, def T) *InPort[T] {
	p := NewIn[T](b, name)
	p.def, p.hasDef = def, true
	return p
}

func (p *InPort[T]) Name() string     { return p.name }
func (p *InPort[T]) Type() value.Type { return value.TypeOf[T]() }
func (p *InPort[T]) Owner() *Base     { return p.owner }
func (p *InPort[T]) IsOptional() bool { return p.optional }
func (p *InPort[T]) HasDefault() bool { return p.hasDef }

// Source is the connected output, or nil.
func (p *InPort[T]) Source() OutputPort {
	if p.src == nil {
		return nil
	}
	return p.src
}

// MarkOptional records that the primitive tolerates an absent value on this
// input without going absent itself.
func (p *InPort[T]) MarkOptional() *InPort[T] {
	p.optional = true
	return p
}

// SetDefault replaces the value used while the port is unconnected.
func (p *InPort[T]) SetDefault(v T) {
	p.def, p.hasDef = v, true
}

// SetDefaultCty decodes a configuration value into the default.
func (p *InPort[T]) SetDefaultCty(v cty.Value) error {
	var def T
	if err := decodeCty(v, &def); err != nil {
		return fmt.Errorf("input '%s': %w", p.name, err)
	}
	p.SetDefault(def)
	return nil
}

// Resolve returns the value for this cycle and whether it is present.
func (p *InPort[T]) Resolve() (T, bool) {
	if p.src != nil {
		return p.src.Get()
	}
	if p.hasDef {
		return p.def, true
	}
	var zero T
	return zero, false
}

func (p *InPort[T]) connect(o OutputPort) error {
	if p.src != nil {
		return fmt.Errorf("%w: %s.%s", ErrAlreadyConnected, p.owner.name, p.name)
	}
	src, ok := o.(*OutPort[T])
	if !ok {
		return fmt.Errorf("%w: %s.%s is %s, %s.%s is %s", ErrTypeMismatch,
			o.Owner().name, o.Name(), o.Type(), p.owner.name, p.name, p.Type())
	}
	p.src = src
	return nil
}

// OutPort is a typed output holding the value of the current cycle.
type OutPort[T any] struct {
	name    string
	owner   *Base
	v       T
	present bool
	wrote   bool
}

// NewOut declares an output port on b.
func NewOut[T any](b *Base, name string) *OutPort[T] {
	p := &OutPort[T]{name: name, owner: b}
	b.outputs = append(b.outputs, p)
	return p
}

func (p *OutPort[T]) Name() string     { return p.name }
func (p *OutPort[T]) Type() value.Type { return value.TypeOf[T]() }
func (p *OutPort[T]) Owner() *Base     { return p.owner }

// Set publishes v for this cycle.
func (p *OutPort[T]) Set(v T) {
	p.v, p.present, p.wrote = v, true, true
}

// SetAbsent publishes absent for this cycle.
func (p *OutPort[T]) SetAbsent() {
	var zero T
	p.v, p.present, p.wrote = zero, false, true
}

// SetMaybe publishes v when ok, absent otherwise.
func (p *OutPort[T]) SetMaybe(v T, ok bool) {
	if ok {
		p.Set(v)
		return
	}
	p.SetAbsent()
}

// Get returns the last published value and whether it is present.
func (p *OutPort[T]) Get() (T, bool) { return p.v, p.present }

// Any is Get boxed, for callers that do not know T.
func (p *OutPort[T]) Any() (any, bool) {
	if !p.present {
		return nil, false
	}
	return p.v, true
}

func (p *OutPort[T]) written() bool { return p.wrote }
func (p *OutPort[T]) reset()        { p.wrote = false }
