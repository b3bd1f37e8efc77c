package exprhcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Scope resolves the variables of an expression.
type Scope struct {
	// Inputs declares the types of input.<name>.
	Inputs map[string]value.Type
	// Lookup resolves expr.<name>. Nil means no named expressions.
	Lookup func(name string) (expr.Expr, error)
}

// Convert turns e into an expr node.
func Convert(e hcl.Expression, scope *Scope) (expr.Expr, error) {
	if scope == nil {
		scope = &Scope{}
	}
	c := &converter{scope: scope, inputs: make(map[string]*expr.Input)}
	return c.convert(e)
}

type converter struct {
	scope  *Scope
	inputs map[string]*expr.Input
}

func (c *converter) convert(e hcl.Expression) (expr.Expr, error) {
	switch e := e.(type) {
	case *hclsyntax.LiteralValueExpr:
		return literal(e.Val, e.Range())
	case *hclsyntax.ParenthesesExpr:
		return c.convert(e.Expression)
	case *hclsyntax.ScopeTraversalExpr:
		return c.variable(e.Traversal)
	case *hclsyntax.UnaryOpExpr:
		return c.unary(e)
	case *hclsyntax.BinaryOpExpr:
		return c.binary(e)
	case *hclsyntax.ConditionalExpr:
		cond, err := c.convert(e.Condition)
		if err != nil {
			return nil, err
		}
		then, err := c.convert(e.TrueResult)
		if err != nil {
			return nil, err
		}
		els, err := c.convert(e.FalseResult)
		if err != nil {
			return nil, err
		}
		return &expr.Cond{If: cond, Then: then, Else: els}, nil
	case *hclsyntax.TupleConsExpr:
		elems, err := c.all(e.Exprs)
		if err != nil {
			return nil, err
		}
		return &expr.ArrayMake{Elems: elems}, nil
	case *hclsyntax.IndexExpr:
		arr, err := c.convert(e.Collection)
		if err != nil {
			return nil, err
		}
		idx, err := constInt(e.Key)
		if err != nil {
			return nil, err
		}
		return &expr.ArrayGet{Array: arr, Index: idx}, nil
	case *hclsyntax.FunctionCallExpr:
		return c.call(e)
	}
	return nil, fmt.Errorf("%s: %w: %T", e.Range(), ErrUnsupported, e)
}

func (c *converter) all(es []hclsyntax.Expression) ([]expr.Expr, error) {
	out := make([]expr.Expr, len(es))
	for i, e := range es {
		x, err := c.convert(e)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

func literal(v cty.Value, rng hcl.Range) (expr.Expr, error) {
	switch v.Type() {
	case cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("%s: %w", rng, err)
		}
		return expr.Double(f), nil
	case cty.Bool:
		return expr.Bool(v.True()), nil
	}
	return nil, fmt.Errorf("%s: %w: %s literal", rng, ErrUnsupported, v.Type().FriendlyName())
}

func (c *converter) variable(t hcl.Traversal) (expr.Expr, error) {
	names := make([]string, 0, len(t))
	for _, step := range t {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			names = append(names, s.Name)
		case hcl.TraverseAttr:
			names = append(names, s.Name)
		default:
			return nil, fmt.Errorf("%s: %w: %s", t.SourceRange(), ErrUnsupported, TraversalKey(t))
		}
	}

	switch {
	case names[0] == "input" && len(names) == 2:
		if in, ok := c.inputs[names[1]]; ok {
			return in, nil
		}
		ty, ok := c.scope.Inputs[names[1]]
		if !ok {
			break
		}
		in := expr.NewInput(names[1], ty)
		c.inputs[names[1]] = in
		return in, nil
	case names[0] == "frame" && len(names) == 3:
		return expr.NewRelation(names[1], names[2]), nil
	case names[0] == "expr" && (len(names) == 2 || len(names) == 3):
		if c.scope.Lookup == nil {
			break
		}
		e, err := c.scope.Lookup(names[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.SourceRange(), err)
		}
		if len(names) == 2 {
			return e, nil
		}
		ty, ok := extraType(e, names[2])
		if !ok {
			return nil, fmt.Errorf("%s: %w: %s has no output '%s'", t.SourceRange(), ErrUnknownVariable, names[1], names[2])
		}
		return expr.NewOutput(e, names[2], ty), nil
	}
	return nil, fmt.Errorf("%s: %w: %s", t.SourceRange(), ErrUnknownVariable, TraversalKey(t))
}

// extraType is the type of the named extra output of e.
func extraType(e expr.Expr, name string) (value.Type, bool) {
	switch e.(type) {
	case *expr.OTG:
		if name == "velocity" || name == "acceleration" {
			return value.TypeDouble, true
		}
	case *expr.FrameOTG:
		if name == "velocity" {
			return value.TypeTwist, true
		}
	case *expr.Interval:
		if name == "active" {
			return value.TypeBool, true
		}
	case *expr.Trigger:
		if name == "time" {
			return value.TypeDouble, true
		}
	case *expr.AtTime:
		if name == "age" {
			return value.TypeDouble, true
		}
	case *expr.Distance:
		if name == "rot" {
			return value.TypeDouble, true
		}
	}
	return value.TypeInvalid, false
}

func (c *converter) unary(e *hclsyntax.UnaryOpExpr) (expr.Expr, error) {
	x, err := c.convert(e.Val)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case hclsyntax.OpNegate:
		if x.Type() == value.TypeVector {
			return &expr.Scale{V: x, Factor: expr.Double(-1)}, nil
		}
		if k, ok := x.(*expr.Const); ok {
			if f, ok := k.Value.(float64); ok {
				return expr.Double(-f), nil
			}
		}
		return expr.Neg(x), nil
	case hclsyntax.OpLogicalNot:
		return &expr.Not{X: x}, nil
	}
	return nil, fmt.Errorf("%s: %w: unary operator", e.Range(), ErrUnsupported)
}

func (c *converter) binary(e *hclsyntax.BinaryOpExpr) (expr.Expr, error) {
	a, err := c.convert(e.LHS)
	if err != nil {
		return nil, err
	}
	b, err := c.convert(e.RHS)
	if err != nil {
		return nil, err
	}
	vectors := a.Type() == value.TypeVector && b.Type() == value.TypeVector
	switch e.Op {
	case hclsyntax.OpAdd:
		if vectors {
			return &expr.VectorOp{A: a, B: b}, nil
		}
		return expr.Add(a, b), nil
	case hclsyntax.OpSubtract:
		if vectors {
			return &expr.VectorOp{A: a, B: b, Subtract: true}, nil
		}
		return expr.Sub(a, b), nil
	case hclsyntax.OpMultiply:
		switch {
		case a.Type() == value.TypeVector:
			return &expr.Scale{V: a, Factor: b}, nil
		case b.Type() == value.TypeVector:
			return &expr.Scale{V: b, Factor: a}, nil
		}
		return expr.Mul(a, b), nil
	case hclsyntax.OpDivide:
		return expr.Div(a, b), nil
	case hclsyntax.OpModulo:
		return &expr.Binary{Op: "Mod", A: a, B: b}, nil
	case hclsyntax.OpGreaterThan:
		return expr.Gt(a, b), nil
	case hclsyntax.OpGreaterThanOrEqual:
		return expr.Ge(a, b), nil
	case hclsyntax.OpLessThan:
		return expr.Lt(a, b), nil
	case hclsyntax.OpLessThanOrEqual:
		return expr.Le(a, b), nil
	case hclsyntax.OpEqual:
		return &expr.Equals{A: a, B: b}, nil
	case hclsyntax.OpNotEqual:
		return &expr.Not{X: &expr.Equals{A: a, B: b}}, nil
	case hclsyntax.OpLogicalAnd:
		return expr.And(a, b), nil
	case hclsyntax.OpLogicalOr:
		return expr.Or(a, b), nil
	}
	return nil, fmt.Errorf("%s: %w: binary operator", e.Range(), ErrUnsupported)
}

// constant evaluates e without variables. Parameters of primitives must be
// known when the net is built.
func constant(e hcl.Expression) (float64, error) {
	v, diags := e.Value(nil)
	if diags.HasErrors() {
		return 0, fmt.Errorf("%s: %w: must be a constant: %s", e.Range(), ErrArguments, diags.Error())
	}
	var f float64
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, fmt.Errorf("%s: %w: %s", e.Range(), ErrArguments, err)
	}
	return f, nil
}

func constInt(e hcl.Expression) (int, error) {
	v, diags := e.Value(nil)
	if diags.HasErrors() {
		return 0, fmt.Errorf("%s: %w: index must be a constant", e.Range(), ErrArguments)
	}
	var i int
	if err := gocty.FromCtyValue(v, &i); err != nil {
		return 0, fmt.Errorf("%s: %w: %s", e.Range(), ErrArguments, err)
	}
	return i, nil
}
