package core

import (
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/primitive"
	"github.com/vk/rtnet/internal/value"
)

func kindOf[T any](op string) string {
	return "Core::" + value.TypeOf[T]().KindName() + op
}

// Value publishes its Value parameter every cycle.
type Value[T any] struct {
	network.Base
	Value *network.Param[T]
	out   *network.OutPort[T]
}

// NewValue publishes the zero value until Value is set.
func NewValue[T any]() *Value[T] {
	p := &Value[T]{}
	p.Value = network.NewParam(&p.Base, "Value", *new(T))
	p.out = network.NewOut[T](&p.Base, "outValue")
	return p
}

func (p *Value[T]) Kind() string                          { return kindOf[T]("Value") }
func (p *Value[T]) CheckParameters(network.Context) error { return nil }
func (p *Value[T]) UpdateData(network.Context)            { p.out.Set(p.Value.Get()) }

// Pre publishes the value its input had in the previous cycle, and the
// Initial parameter in the first one. It is a feedback primitive.
type Pre[T any] struct {
	network.Base
	Initial *network.Param[T]
	in      *network.InPort[T]
	out     *network.OutPort[T]

	prev      T
	prevValid bool
	started   bool
}

// NewPre publishes the zero value in the first cycle until Initial is set.
func NewPre[T any]() *Pre[T] {
	p := &Pre[T]{}
	p.Initial = network.NewParam(&p.Base, "Initial", *new(T))
	p.in = network.NewIn[T](&p.Base, "inValue")
	p.out = network.NewOut[T](&p.Base, "outValue")
	return p
}

func (p *Pre[T]) Kind() string                          { return kindOf[T]("Pre") }
func (p *Pre[T]) CheckParameters(network.Context) error { return nil }
func (p *Pre[T]) HandlesAbsent()                        {}

// UpdateData publishes what Latch stored in the previous cycle, absent
// included.
func (p *Pre[T]) UpdateData(network.Context) {
	if !p.started {
		p.out.Set(p.Initial.Get())
		return
	}
	p.out.SetMaybe(p.prev, p.prevValid)
}

// Latch stores this cycle's input for the next one.
func (p *Pre[T]) Latch(network.Context) {
	p.prev, p.prevValid = p.in.Resolve()
	p.started = true
}

// Snapshot captures inValue whenever inSnapshot is true and publishes the
// last capture. An absent inValue is captured as absent.
type Snapshot[T any] struct {
	network.Base
	inValue    *network.InPort[T]
	inSnapshot *network.InPort[bool]
	out        *network.OutPort[T]

	stored T
	has    bool
}

// NewSnapshot returns a Snapshot that publishes absent until the first
// capture.
func NewSnapshot[T any]() *Snapshot[T] {
	p := &Snapshot[T]{}
	p.inValue = network.NewIn[T](&p.Base, "inValue").MarkOptional()
	p.inSnapshot = network.NewIn[bool](&p.Base, "inSnapshot")
	p.out = network.NewOut[T](&p.Base, "outValue")
	return p
}

func (p *Snapshot[T]) Kind() string                          { return kindOf[T]("Snapshot") }
func (p *Snapshot[T]) CheckParameters(network.Context) error { return nil }

// UpdateData is absent while inSnapshot is.
func (p *Snapshot[T]) UpdateData(network.Context) {
	snap, ok := p.inSnapshot.Resolve()
	if !ok {
		p.Absent()
		return
	}
	if snap {
		p.stored, p.has = p.inValue.Resolve()
	}
	p.out.SetMaybe(p.stored, p.has)
}

// Conditional selects inTrue or inFalse. Only the selected branch has to be
// present.
type Conditional[T any] struct {
	network.Base
	inCondition *network.InPort[bool]
	inTrue      *network.InPort[T]
	inFalse     *network.InPort[T]
	out         *network.OutPort[T]
}

// NewConditional returns a Conditional.
func NewConditional[T any]() *Conditional[T] {
	p := &Conditional[T]{}
	p.inCondition = network.NewIn[bool](&p.Base, "inCondition")
	p.inTrue = network.NewIn[T](&p.Base, "inTrue").MarkOptional()
	p.inFalse = network.NewIn[T](&p.Base, "inFalse").MarkOptional()
	p.out = network.NewOut[T](&p.Base, "outValue")
	return p
}

func (p *Conditional[T]) Kind() string                          { return kindOf[T]("Conditional") }
func (p *Conditional[T]) CheckParameters(network.Context) error { return nil }

// UpdateData is absent while the condition or the selected branch is.
func (p *Conditional[T]) UpdateData(network.Context) {
	c, ok := p.inCondition.Resolve()
	if !ok {
		p.Absent()
		return
	}
	if c {
		p.out.SetMaybe(p.inTrue.Resolve())
	} else {
		p.out.SetMaybe(p.inFalse.Resolve())
	}
}

// IsNull reports whether its input is absent. Its output is never absent.
type IsNull[T any] struct {
	network.Base
	in  *network.InPort[T]
	out *network.OutPort[bool]
}

// NewIsNull returns an IsNull.
func NewIsNull[T any]() *IsNull[T] {
	p := &IsNull[T]{}
	p.in = network.NewIn[T](&p.Base, "inValue")
	p.out = network.NewOut[bool](&p.Base, "outValue")
	return p
}

func (p *IsNull[T]) Kind() string                          { return kindOf[T]("IsNull") }
func (p *IsNull[T]) CheckParameters(network.Context) error { return nil }
func (p *IsNull[T]) HandlesAbsent()                        {}

func (p *IsNull[T]) UpdateData(network.Context) {
	_, ok := p.in.Resolve()
	p.out.Set(!ok)
}

// OrElse publishes inValue, or inFallback while inValue is absent.
type OrElse[T any] struct {
	network.Base
	inValue    *network.InPort[T]
	inFallback *network.InPort[T]
	out        *network.OutPort[T]
}

// NewOrElse returns an OrElse.
func NewOrElse[T any]() *OrElse[T] {
	p := &OrElse[T]{}
	p.inValue = network.NewIn[T](&p.Base, "inValue")
	p.inFallback = network.NewIn[T](&p.Base, "inFallback")
	p.out = network.NewOut[T](&p.Base, "outValue")
	return p
}

func (p *OrElse[T]) Kind() string                          { return kindOf[T]("OrElse") }
func (p *OrElse[T]) CheckParameters(network.Context) error { return nil }
func (p *OrElse[T]) HandlesAbsent()                        {}

func (p *OrElse[T]) UpdateData(network.Context) {
	if v, ok := p.inValue.Resolve(); ok {
		p.out.Set(v)
		return
	}
	p.out.SetMaybe(p.inFallback.Resolve())
}

func newEquals[T comparable]() network.Primitive {
	return primitive.NewBinary(kindOf[T]("Equals"), primitive.Ok2(func(a, b T) bool { return a == b }))
}
