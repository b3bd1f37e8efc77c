package exprhcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/value"
)

type function struct {
	min, max int
	build    func(c *converter, args []hclsyntax.Expression) (expr.Expr, error)
}

var functions map[string]function

func init() {
	functions = map[string]function{
		"limit": {3, 3, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			x, lo, hi, err := c.withRange(args)
			if err != nil {
				return nil, err
			}
			return &expr.Limit{X: x, Min: lo, Max: hi}, nil
		}},
		"interval": {3, 3, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			x, lo, hi, err := c.withRange(args)
			if err != nil {
				return nil, err
			}
			return &expr.Interval{X: x, Min: lo, Max: hi}, nil
		}},
		"rampify": {1, 2, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			x, err := c.convert(args[0])
			if err != nil {
				return nil, err
			}
			r := &expr.Rampify{X: x}
			if len(args) == 2 {
				if r.Fraction, err = constant(args[1]); err != nil {
					return nil, err
				}
			}
			return r, nil
		}},
		"average": {2, 2, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			x, d, err := c.withConstant(args)
			if err != nil {
				return nil, err
			}
			return &expr.Average{X: x, Duration: d}, nil
		}},
		"past": {3, 3, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			x, err := c.convert(args[0])
			if err != nil {
				return nil, err
			}
			age, err := c.convert(args[1])
			if err != nil {
				return nil, err
			}
			buf, err := constant(args[2])
			if err != nil {
				return nil, err
			}
			return &expr.Past{X: x, Age: age, Buffer: buf}, nil
		}},
		"previous": {2, 2, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			x, err := c.convert(args[0])
			if err != nil {
				return nil, err
			}
			init, err := c.convert(args[1])
			if err != nil {
				return nil, err
			}
			k, ok := init.(*expr.Const)
			if !ok || k.T != x.Type() {
				return nil, fmt.Errorf("%s: %w: initial value must be a %s constant", args[1].Range(), ErrArguments, x.Type())
			}
			return &expr.Previous{X: x, Initial: k.Value}, nil
		}},
		"first_cycle": {0, 0, func(*converter, []hclsyntax.Expression) (expr.Expr, error) {
			return expr.FirstCycle(), nil
		}},
		"is_null": {1, 1, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			x, err := c.convert(args[0])
			if err != nil {
				return nil, err
			}
			return &expr.IsNull{X: x}, nil
		}},
		"or_else": {2, 2, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			xs, err := c.all(args)
			if err != nil {
				return nil, err
			}
			return &expr.OrElse{X: xs[0], Else: xs[1]}, nil
		}},
		"clock": {0, 2, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			xs, err := c.all(args)
			if err != nil {
				return nil, err
			}
			clk := &expr.Clock{}
			if len(xs) > 0 {
				clk.Increment = xs[0]
			}
			if len(xs) > 1 {
				clk.Reset = xs[1]
			}
			return clk, nil
		}},
		"cycle_time": {0, 0, func(*converter, []hclsyntax.Expression) (expr.Expr, error) {
			return &expr.CycleTime{}, nil
		}},
		"rising":  {1, 1, edge(true)},
		"falling": {1, 1, edge(false)},
		"trigger": {2, 2, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			xs, err := c.all(args)
			if err != nil {
				return nil, err
			}
			return &expr.Trigger{On: xs[0], Off: xs[1]}, nil
		}},
		"snapshot": {2, 2, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			xs, err := c.all(args)
			if err != nil {
				return nil, err
			}
			return &expr.Snapshot{X: xs[0], Take: xs[1]}, nil
		}},
		"double": {1, 1, convertTo(value.TypeDouble)},
		"int":    {1, 1, convertTo(value.TypeInt)},
		"bool":   {1, 1, convertTo(value.TypeBool)},
		"vector": {3, 3, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			xs, err := c.all(args)
			if err != nil {
				return nil, err
			}
			return &expr.Vector{X: xs[0], Y: xs[1], Z: xs[2]}, nil
		}},
		"norm": {1, 1, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			v, err := c.convert(args[0])
			if err != nil {
				return nil, err
			}
			return &expr.Norm{V: v}, nil
		}},
		"x":   {1, 1, component("x")},
		"y":   {1, 1, component("y")},
		"z":   {1, 1, component("z")},
		"otg": {3, 3, otg(false)},
		"jog": {3, 3, otg(true)},
		"get": {2, 2, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			arr, err := c.convert(args[0])
			if err != nil {
				return nil, err
			}
			idx, err := constInt(args[1])
			if err != nil {
				return nil, err
			}
			return &expr.ArrayGet{Array: arr, Index: idx}, nil
		}},
	}
	for name, op := range map[string]string{
		"sin": "Sin", "cos": "Cos", "tan": "Tan", "asin": "Asin", "acos": "Acos", "atan": "Atan",
		"exp": "Exp", "log": "Log", "sqrt": "Sqrt", "abs": "Abs", "sign": "Sign", "square": "Square",
	} {
		functions[name] = function{1, 1, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			x, err := c.convert(args[0])
			if err != nil {
				return nil, err
			}
			return &expr.Unary{Op: op, X: x}, nil
		}}
	}
	for name, op := range map[string]string{"min": "Min", "max": "Max", "atan2": "Atan2", "pow": "Power"} {
		functions[name] = function{2, 2, func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
			xs, err := c.all(args)
			if err != nil {
				return nil, err
			}
			return &expr.Binary{Op: op, A: xs[0], B: xs[1]}, nil
		}}
	}
}

func (c *converter) call(e *hclsyntax.FunctionCallExpr) (expr.Expr, error) {
	fn, ok := functions[e.Name]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", e.Range(), ErrUnknownFunction, e.Name)
	}
	if e.ExpandFinal {
		return nil, fmt.Errorf("%s: %w: argument expansion", e.Range(), ErrUnsupported)
	}
	if n := len(e.Args); n < fn.min || n > fn.max {
		if fn.min == fn.max {
			return nil, fmt.Errorf("%s: %w: %s takes %d arguments, got %d", e.Range(), ErrArguments, e.Name, fn.min, n)
		}
		return nil, fmt.Errorf("%s: %w: %s takes %d to %d arguments, got %d", e.Range(), ErrArguments, e.Name, fn.min, fn.max, n)
	}
	return fn.build(c, e.Args)
}

// withConstant converts the first argument and evaluates the second.
func (c *converter) withConstant(args []hclsyntax.Expression) (expr.Expr, float64, error) {
	x, err := c.convert(args[0])
	if err != nil {
		return nil, 0, err
	}
	k, err := constant(args[1])
	return x, k, err
}

func (c *converter) withRange(args []hclsyntax.Expression) (expr.Expr, float64, float64, error) {
	x, lo, err := c.withConstant(args[:2])
	if err != nil {
		return nil, 0, 0, err
	}
	hi, err := constant(args[2])
	return x, lo, hi, err
}

func edge(rising bool) func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
	return func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
		x, err := c.convert(args[0])
		if err != nil {
			return nil, err
		}
		return &expr.Edge{X: x, Rising: rising}, nil
	}
}

func convertTo(t value.Type) func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
	return func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
		x, err := c.convert(args[0])
		if err != nil {
			return nil, err
		}
		if x.Type() == t {
			return x, nil
		}
		return &expr.Convert{X: x, To: t}, nil
	}
}

func component(axis string) func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
	return func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
		v, err := c.convert(args[0])
		if err != nil {
			return nil, err
		}
		return &expr.Component{V: v, Axis: axis}, nil
	}
}

func otg(velocity bool) func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
	return func(c *converter, args []hclsyntax.Expression) (expr.Expr, error) {
		dest, maxVel, err := c.withConstant(args[:2])
		if err != nil {
			return nil, err
		}
		maxAcc, err := constant(args[2])
		if err != nil {
			return nil, err
		}
		return &expr.OTG{Dest: dest, MaxVel: maxVel, MaxAcc: maxAcc, Velocity: velocity}, nil
	}
}
