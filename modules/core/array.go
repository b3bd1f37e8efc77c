package core

import (
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/primitive"
	"github.com/vk/rtnet/internal/value"
)

// ArrayGet publishes element Index of inArray, absent when out of range.
type ArrayGet[T any] struct {
	network.Base
	Index *network.Param[int]
	in    *network.InPort[value.Array[T]]
	out   *network.OutPort[T]
}

// NewArrayGet returns an ArrayGet of the first element.
func NewArrayGet[T any]() *ArrayGet[T] {
	p := &ArrayGet[T]{}
	p.Index = network.NewParam(&p.Base, "Index", 0)
	p.in = network.NewIn[value.Array[T]](&p.Base, "inArray")
	p.out = network.NewOut[T](&p.Base, "outValue")
	return p
}

func (p *ArrayGet[T]) Kind() string { return kindOf[T]("ArrayGet") }

// CheckParameters rejects a negative Index. An Index past the end is only
// known at run time and makes the output absent.
func (p *ArrayGet[T]) CheckParameters(network.Context) error {
	if p.Index.Get() < 0 {
		return network.InvalidParam("Index", "must not be negative, got %d", p.Index.Get())
	}
	return nil
}

func (p *ArrayGet[T]) UpdateData(network.Context) {
	a, ok := p.in.Resolve()
	if !ok {
		p.Absent()
		return
	}
	p.out.SetMaybe(a.Get(p.Index.Get()))
}

// ArraySet publishes a copy of inArray with element Index replaced.
type ArraySet[T any] struct {
	network.Base
	Index   *network.Param[int]
	inArray *network.InPort[value.Array[T]]
	inValue *network.InPort[T]
	out     *network.OutPort[value.Array[T]]
}

// NewArraySet returns an ArraySet of the first element.
func NewArraySet[T any]() *ArraySet[T] {
	p := &ArraySet[T]{}
	p.Index = network.NewParam(&p.Base, "Index", 0)
	p.inArray = network.NewIn[value.Array[T]](&p.Base, "inArray")
	p.inValue = network.NewIn[T](&p.Base, "inValue")
	p.out = network.NewOut[value.Array[T]](&p.Base, "outArray")
	return p
}

func (p *ArraySet[T]) Kind() string { return kindOf[T]("ArraySet") }

// CheckParameters rejects a negative Index.
func (p *ArraySet[T]) CheckParameters(network.Context) error {
	if p.Index.Get() < 0 {
		return network.InvalidParam("Index", "must not be negative, got %d", p.Index.Get())
	}
	return nil
}

// UpdateData is absent when Index is past the end of inArray.
func (p *ArraySet[T]) UpdateData(network.Context) {
	a, okA := p.inArray.Resolve()
	v, okV := p.inValue.Resolve()
	if !okA || !okV {
		p.Absent()
		return
	}
	p.out.SetMaybe(a.Set(p.Index.Get(), v))
}

// ArraySlice publishes Length elements of inArray starting at Start.
type ArraySlice[T any] struct {
	network.Base
	Start  *network.Param[int]
	Length *network.Param[int]
	in     *network.InPort[value.Array[T]]
	out    *network.OutPort[value.Array[T]]
}

// NewArraySlice returns a slice of the first element.
func NewArraySlice[T any]() *ArraySlice[T] {
	p := &ArraySlice[T]{}
	p.Start = network.NewParam(&p.Base, "Start", 0)
	p.Length = network.NewParam(&p.Base, "Length", 1)
	p.in = network.NewIn[value.Array[T]](&p.Base, "inArray")
	p.out = network.NewOut[value.Array[T]](&p.Base, "outArray")
	return p
}

func (p *ArraySlice[T]) Kind() string { return kindOf[T]("ArraySlice") }

// CheckParameters rejects a negative Start or Length.
func (p *ArraySlice[T]) CheckParameters(network.Context) error {
	if p.Start.Get() < 0 {
		return network.InvalidParam("Start", "must not be negative, got %d", p.Start.Get())
	}
	if p.Length.Get() < 0 {
		return network.InvalidParam("Length", "must not be negative, got %d", p.Length.Get())
	}
	return nil
}

// UpdateData is absent when the slice does not fit in inArray.
func (p *ArraySlice[T]) UpdateData(network.Context) {
	a, ok := p.in.Resolve()
	if !ok {
		p.Absent()
		return
	}
	p.out.SetMaybe(a.Slice(p.Start.Get(), p.Length.Get()))
}

func newArrayCreate[T any]() network.Primitive {
	return primitive.NewNary(kindOf[T]("ArrayCreate"), func(vs []T) (value.Array[T], bool) {
		return value.ArrayOf(vs...), true
	})
}

func newArrayLength[T any]() network.Primitive {
	return primitive.NewUnary(kindOf[T]("ArrayLength"), primitive.Ok(func(a value.Array[T]) int { return a.Len() }))
}
