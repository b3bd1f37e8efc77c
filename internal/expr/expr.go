package expr

import (
	"github.com/vk/rtnet/internal/value"
)

// Expr is a node of an expression graph.
type Expr interface {
	// Type is the type of the node's result, or value.TypeInvalid when the
	// operands do not fit together.
	Type() value.Type
	// Operands lists the nodes this one is computed from.
	Operands() []Expr
}

// Const is a fixed value.
type Const struct {
	Value any
	T     value.Type
}

// ConstOf returns a constant of the value type of T.
func ConstOf[T any](v T) *Const { return &Const{Value: v, T: value.TypeOf[T]()} }

// Double is a double constant.
func Double(v float64) *Const { return ConstOf(v) }

// Bool is a boolean constant.
func Bool(v bool) *Const { return ConstOf(v) }

// Int is an integer constant.
func Int(v int) *Const { return ConstOf(v) }

// Type is T, which must match Value.
func (c *Const) Type() value.Type { return c.T }
func (c *Const) Operands() []Expr { return nil }

// Input is a value fed into the net from outside, identified by name. All
// Input nodes of one session with the same name share one source.
type Input struct {
	Name string
	T    value.Type
}

// NewInput returns an input of type t.
func NewInput(name string, t value.Type) *Input { return &Input{Name: name, T: t} }

func (i *Input) Type() value.Type { return i.T }
func (i *Input) Operands() []Expr { return nil }

// Relation is an input carrying the already resolved transformation from
// frame From to frame To.
type Relation struct {
	From string
	To   string
}

// NewRelation returns the transformation from frame from to frame to.
func NewRelation(from, to string) *Relation { return &Relation{From: from, To: to} }

// Name is the name of the input the relation is fed through.
func (r *Relation) Name() string { return r.From + "->" + r.To }

func (r *Relation) Type() value.Type { return value.TypeFrame }
func (r *Relation) Operands() []Expr { return nil }

// Output selects a named secondary output of Of, such as the velocity of an
// OTG node.
type Output struct {
	Of   Expr
	Name string
	T    value.Type
}

// NewOutput selects output name of of, which has type t.
func NewOutput(of Expr, name string, t value.Type) *Output { return &Output{Of: of, Name: name, T: t} }

// Type is T. Whether Of has such an output is checked by the mapper.
func (o *Output) Type() value.Type { return o.T }
func (o *Output) Operands() []Expr { return []Expr{o.Of} }

// Tuple groups several expressions. Its result is its first element; every
// element is also reachable through Element.
type Tuple struct {
	Elems []Expr
}

// NewTuple groups elems.
func NewTuple(elems ...Expr) *Tuple { return &Tuple{Elems: elems} }

// Type is the type of the first element.
func (t *Tuple) Type() value.Type {
	if len(t.Elems) == 0 {
		return value.TypeInvalid
	}
	return t.Elems[0].Type()
}
func (t *Tuple) Operands() []Expr { return t.Elems }

// Element is the Index-th element of a tuple.
type Element struct {
	Tuple *Tuple
	Index int
}

// NewElement selects element i of t.
func NewElement(t *Tuple, i int) *Element { return &Element{Tuple: t, Index: i} }

// Type is invalid for an index out of range.
func (e *Element) Type() value.Type {
	if e.Index < 0 || e.Index >= len(e.Tuple.Elems) {
		return value.TypeInvalid
	}
	return e.Tuple.Elems[e.Index].Type()
}
func (e *Element) Operands() []Expr { return []Expr{e.Tuple} }

// sameType returns the common type of es, or TypeInvalid.
func sameType(es ...Expr) value.Type {
	if len(es) == 0 {
		return value.TypeInvalid
	}
	t := es[0].Type()
	for _, e := range es[1:] {
		if e.Type() != t {
			return value.TypeInvalid
		}
	}
	return t
}

// only returns t if every e has type want.
func only(t, want value.Type, es ...Expr) value.Type {
	for _, e := range es {
		if e.Type() != want {
			return value.TypeInvalid
		}
	}
	return t
}
