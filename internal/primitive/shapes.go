package primitive

import (
	"fmt"

	"github.com/vk/rtnet/internal/network"
)

// Unary computes one output from one input.
type Unary[A, R any] struct {
	network.Base
	kind string
	In   *network.InPort[A]
	Out  *network.OutPort[R]
	fn   func(A) (R, bool)
}

// NewUnary creates a unary primitive with ports inValue and outValue.
func NewUnary[A, R any](kind string, fn func(A) (R, bool)) *Unary[A, R] {
	p := &Unary[A, R]{kind: kind, fn: fn}
	p.In = network.NewIn[A](&p.Base, "inValue")
	p.Out = network.NewOut[R](&p.Base, "outValue")
	return p
}

func (p *Unary[A, R]) Kind() string                          { return p.kind }
func (p *Unary[A, R]) CheckParameters(network.Context) error { return nil }

// UpdateData is absent with its input or when fn has no result.
func (p *Unary[A, R]) UpdateData(network.Context) {
	a, ok := p.In.Resolve()
	if !ok {
		p.Absent()
		return
	}
	p.Out.SetMaybe(p.fn(a))
}

// Binary computes one output from two inputs.
type Binary[A, B, R any] struct {
	network.Base
	kind   string
	First  *network.InPort[A]
	Second *network.InPort[B]
	Out    *network.OutPort[R]
	fn     func(A, B) (R, bool)
}

// NewBinary creates a binary primitive with ports inFirst, inSecond and
// outValue.
func NewBinary[A, B, R any](kind string, fn func(A, B) (R, bool)) *Binary[A, B, R] {
	return NewBinaryPorts(kind, "inFirst", "inSecond", fn)
}

// NewBinaryPorts is NewBinary with explicit input names.
func NewBinaryPorts[A, B, R any](kind, first, second string, fn func(A, B) (R, bool)) *Binary[A, B, R] {
	p := &Binary[A, B, R]{kind: kind, fn: fn}
	p.First = network.NewIn[A](&p.Base, first)
	p.Second = network.NewIn[B](&p.Base, second)
	p.Out = network.NewOut[R](&p.Base, "outValue")
	return p
}

func (p *Binary[A, B, R]) Kind() string                          { return p.kind }
func (p *Binary[A, B, R]) CheckParameters(network.Context) error { return nil }

// UpdateData needs both inputs.
func (p *Binary[A, B, R]) UpdateData(network.Context) {
	a, okA := p.First.Resolve()
	b, okB := p.Second.Resolve()
	if !okA || !okB {
		p.Absent()
		return
	}
	p.Out.SetMaybe(p.fn(a, b))
}

// Ternary computes one output from three inputs.
type Ternary[A, B, C, R any] struct {
	network.Base
	kind string
	In1  *network.InPort[A]
	In2  *network.InPort[B]
	In3  *network.InPort[C]
	Out  *network.OutPort[R]
	fn   func(A, B, C) (R, bool)
}

// NewTernary creates a ternary primitive with the given input names and
// output outValue.
func NewTernary[A, B, C, R any](kind string, names [3]string, fn func(A, B, C) (R, bool)) *Ternary[A, B, C, R] {
	p := &Ternary[A, B, C, R]{kind: kind, fn: fn}
	p.In1 = network.NewIn[A](&p.Base, names[0])
	p.In2 = network.NewIn[B](&p.Base, names[1])
	p.In3 = network.NewIn[C](&p.Base, names[2])
	p.Out = network.NewOut[R](&p.Base, "outValue")
	return p
}

func (p *Ternary[A, B, C, R]) Kind() string                          { return p.kind }
func (p *Ternary[A, B, C, R]) CheckParameters(network.Context) error { return nil }

// UpdateData needs all three inputs.
func (p *Ternary[A, B, C, R]) UpdateData(network.Context) {
	a, okA := p.In1.Resolve()
	b, okB := p.In2.Resolve()
	c, okC := p.In3.Resolve()
	if !okA || !okB || !okC {
		p.Absent()
		return
	}
	p.Out.SetMaybe(p.fn(a, b, c))
}

// Split computes several outputs of the same type from one input.
type Split[A, R any] struct {
	network.Base
	kind string
	In   *network.InPort[A]
	Outs []*network.OutPort[R]
	fn   func(A) []R
}

// NewSplit creates a primitive with input inValue and one output per name.
// fn must return one value per output.
func NewSplit[A, R any](kind string, outs []string, fn func(A) []R) *Split[A, R] {
	p := &Split[A, R]{kind: kind, fn: fn}
	p.In = network.NewIn[A](&p.Base, "inValue")
	for _, name := range outs {
		p.Outs = append(p.Outs, network.NewOut[R](&p.Base, name))
	}
	return p
}

func (p *Split[A, R]) Kind() string                          { return p.kind }
func (p *Split[A, R]) CheckParameters(network.Context) error { return nil }

// UpdateData writes the values of fn in output order.
func (p *Split[A, R]) UpdateData(network.Context) {
	a, ok := p.In.Resolve()
	if !ok {
		p.Absent()
		return
	}
	for i, v := range p.fn(a) {
		p.Outs[i].Set(v)
	}
}

// Nary folds a parameterised number of inputs into one output. Its inputs
// inValue0 .. inValue<Size-1> are declared by Configure.
type Nary[A, R any] struct {
	network.Base
	kind string
	Size *network.Param[int]
	Ins  []*network.InPort[A]
	Out  *network.OutPort[R]
	fn   func([]A) (R, bool)
	buf  []A
}

// NewNary creates an n-ary primitive with Size inputs (default 2).
func NewNary[A, R any](kind string, fn func([]A) (R, bool)) *Nary[A, R] {
	p := &Nary[A, R]{kind: kind, fn: fn}
	p.Size = network.NewParam(&p.Base, "Size", 2)
	return p
}

func (p *Nary[A, R]) Kind() string { return p.kind }

// Configure declares Size inputs.
func (p *Nary[A, R]) Configure() error {
	if p.Size.Get() < 1 {
		return network.InvalidParam("Size", "must be at least 1, got %d", p.Size.Get())
	}
	for i := range p.Size.Get() {
		p.Ins = append(p.Ins, network.NewIn[A](&p.Base, InputName(i)))
	}
	p.Out = network.NewOut[R](&p.Base, "outValue")
	p.buf = make([]A, len(p.Ins))
	return nil
}

// CheckParameters rejects a Size changed since Configure.
func (p *Nary[A, R]) CheckParameters(network.Context) error {
	if len(p.Ins) != p.Size.Get() {
		return network.InvalidParam("Size", "changed after configuration")
	}
	return nil
}

// UpdateData is absent if any input is.
func (p *Nary[A, R]) UpdateData(network.Context) {
	for i, in := range p.Ins {
		v, ok := in.Resolve()
		if !ok {
			p.Absent()
			return
		}
		p.buf[i] = v
	}
	p.Out.SetMaybe(p.fn(p.buf))
}

// InputName returns the name of the i-th input of an n-ary primitive.
func InputName(i int) string {
	return fmt.Sprintf("inValue%d", i)
}

// Ok wraps a total function for use with the shapes.
func Ok[A, R any](fn func(A) R) func(A) (R, bool) {
	return func(a A) (R, bool) { return fn(a), true }
}

// Ok2 wraps a total binary function for use with the shapes.
func Ok2[A, B, R any](fn func(A, B) R) func(A, B) (R, bool) {
	return func(a A, b B) (R, bool) { return fn(a, b), true }
}
