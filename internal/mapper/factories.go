package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/value"
)

func coreKind(t value.Type, op string) string {
	return "Core::" + t.KindName() + op
}

// on adapts a factory for the concrete node type N.
func on[N expr.Expr](fn func(s *Session, n N) (*Fragment, error)) Factory {
	return func(s *Session, e expr.Expr) (*Fragment, error) { return fn(s, e.(N)) }
}

func registerStructure(c *Compiler) {
	c.Register(&expr.Const{}, on(func(s *Session, n *expr.Const) (*Fragment, error) {
		return s.Single(n, Spec{Kind: coreKind(n.T, "Value"), Params: map[string]any{"Value": n.Value}})
	}))
	c.Register(&expr.Input{}, on(func(s *Session, n *expr.Input) (*Fragment, error) {
		return s.input(n.Name, n.T)
	}))
	c.Register(&expr.Relation{}, on(func(s *Session, n *expr.Relation) (*Fragment, error) {
		return s.input(n.Name(), value.TypeFrame)
	}))
	c.Register(&expr.Output{}, on(func(s *Session, n *expr.Output) (*Fragment, error) {
		of, err := s.Compile(n.Of)
		if err != nil {
			return nil, err
		}
		return pick(of, n.Name, n.T)
	}))
	c.Register(&expr.Tuple{}, on(func(s *Session, n *expr.Tuple) (*Fragment, error) {
		f := &Fragment{Outputs: make(map[string]network.OutputPort, len(n.Elems))}
		for i, el := range n.Elems {
			dep, err := s.Compile(el)
			if err != nil {
				return nil, err
			}
			f.Deps = append(f.Deps, dep)
			f.Outputs[strconv.Itoa(i)] = dep.Result
		}
		f.Result = f.Deps[0].Result
		return f, nil
	}))
	c.Register(&expr.Element{}, on(func(s *Session, n *expr.Element) (*Fragment, error) {
		t, err := s.Compile(n.Tuple)
		if err != nil {
			return nil, err
		}
		return pick(t, strconv.Itoa(n.Index), n.Type())
	}))
}

// pick makes a fragment from the named output of of.
func pick(of *Fragment, name string, t value.Type) (*Fragment, error) {
	out, ok := of.Output(name)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrNoOutput, name)
	}
	if out.Type() != t {
		return nil, fmt.Errorf("%w: output '%s' is %s, not %s", ErrOperandType, name, out.Type(), t)
	}
	return &Fragment{Result: out, Deps: []*Fragment{of}}, nil
}

func registerArith(c *Compiler) {
	c.Register(&expr.Binary{}, on(func(s *Session, n *expr.Binary) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "Core::Double" + n.Op, Inputs: []Wire{{"inFirst", n.A}, {"inSecond", n.B}}})
	}))
	c.Register(&expr.Unary{}, on(func(s *Session, n *expr.Unary) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "Core::Double" + n.Op, Inputs: []Wire{{"inValue", n.X}}})
	}))
	c.Register(&expr.Compare{}, on(func(s *Session, n *expr.Compare) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "Core::Double" + n.Op, Inputs: []Wire{{"inFirst", n.A}, {"inSecond", n.B}}})
	}))
	c.Register(&expr.Equals{}, on(func(s *Session, n *expr.Equals) (*Fragment, error) {
		t := n.A.Type()
		spec := Spec{Kind: coreKind(t, "Equals"), Inputs: []Wire{{"inFirst", n.A}, {"inSecond", n.B}}}
		switch {
		case t == value.TypeDouble:
			spec.Params = map[string]any{"Epsilon": n.Epsilon}
		case n.Epsilon != 0:
			return nil, fmt.Errorf("%w: a tolerance needs double operands, got %s", ErrOperandType, t)
		}
		return s.Single(n, spec)
	}))
	c.Register(&expr.Cond{}, on(func(s *Session, n *expr.Cond) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   coreKind(n.Type(), "Conditional"),
			Inputs: []Wire{{"inCondition", n.If}, {"inTrue", n.Then}, {"inFalse", n.Else}},
		})
	}))
	c.Register(&expr.Logic{}, on(func(s *Session, n *expr.Logic) (*Fragment, error) {
		kind := "Core::BooleanNaryAnd"
		if n.Or {
			kind = "Core::BooleanNaryOr"
		}
		wires := make([]Wire, len(n.Xs))
		for i, x := range n.Xs {
			wires[i] = Wire{fmt.Sprintf("inValue%d", i), x}
		}
		return s.Single(n, Spec{Kind: kind, Params: map[string]any{"Size": len(n.Xs)}, Inputs: wires})
	}))
	c.Register(&expr.Not{}, on(func(s *Session, n *expr.Not) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "Core::BooleanNot", Inputs: []Wire{{"inValue", n.X}}})
	}))
	c.Register(&expr.Convert{}, on(func(s *Session, n *expr.Convert) (*Fragment, error) {
		from := n.X.Type()
		if from == n.To {
			x, err := s.Compile(n.X)
			if err != nil {
				return nil, err
			}
			return &Fragment{Result: x.Result, Deps: []*Fragment{x}}, nil
		}
		kind, ok := conversions[[2]value.Type{from, n.To}]
		if !ok {
			return nil, fmt.Errorf("%w: no conversion from %s to %s", ErrOperandType, from, n.To)
		}
		return s.Single(n, Spec{Kind: kind, Inputs: []Wire{{"inValue", n.X}}})
	}))
	c.Register(&expr.Limit{}, on(func(s *Session, n *expr.Limit) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   "Core::DoubleLimit",
			Params: map[string]any{"Min": n.Min, "Max": n.Max},
			Inputs: []Wire{{"inValue", n.X}},
		})
	}))
}

var conversions = map[[2]value.Type]string{
	{value.TypeDouble, value.TypeInt}:  "Core::DoubleToInt",
	{value.TypeDouble, value.TypeBool}: "Core::DoubleToBoolean",
	{value.TypeInt, value.TypeDouble}:  "Core::IntToDouble",
	{value.TypeBool, value.TypeDouble}: "Core::BooleanToDouble",
}

func registerTime(c *Compiler) {
	c.Register(&expr.Average{}, on(func(s *Session, n *expr.Average) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   "Core::DoubleAverage",
			Params: map[string]any{"Duration": n.Duration},
			Inputs: []Wire{{"inValue", n.X}},
		})
	}))
	c.Register(&expr.Past{}, on(func(s *Session, n *expr.Past) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   "Core::DoubleHistory",
			Params: map[string]any{"Duration": n.Buffer},
			Inputs: []Wire{{"inValue", n.X}, {"inAge", n.Age}},
		})
	}))
	c.Register(&expr.AtTime{}, on(func(s *Session, n *expr.AtTime) (*Fragment, error) {
		params := map[string]any{"Duration": n.Buffer}
		if n.Search != "" {
			params["Search"] = n.Search
		}
		return s.Single(n, Spec{
			Kind:   "Core::DoubleAtTime",
			Params: params,
			Inputs: []Wire{{"inValue", n.X}, {"inTimestamp", n.Stamp}, {"inTime", n.At}},
			Extra:  map[string]string{"age": "outAge"},
		})
	}))
	c.Register(&expr.Previous{}, on(func(s *Session, n *expr.Previous) (*Fragment, error) {
		var params map[string]any
		if n.Initial != nil {
			params = map[string]any{"Initial": n.Initial}
		}
		return s.Single(n, Spec{Kind: coreKind(n.Type(), "Pre"), Params: params, Inputs: []Wire{{"inValue", n.X}}})
	}))
	c.Register(&expr.IsNull{}, on(func(s *Session, n *expr.IsNull) (*Fragment, error) {
		return s.Single(n, Spec{Kind: coreKind(n.X.Type(), "IsNull"), Inputs: []Wire{{"inValue", n.X}}})
	}))
	c.Register(&expr.OrElse{}, on(func(s *Session, n *expr.OrElse) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   coreKind(n.Type(), "OrElse"),
			Inputs: []Wire{{"inValue", n.X}, {"inFallback", n.Else}},
		})
	}))
	c.Register(&expr.Clock{}, on(func(s *Session, n *expr.Clock) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "Core::Clock", Inputs: []Wire{{"inIncrement", n.Increment}, {"inReset", n.Reset}}})
	}))
	c.Register(&expr.CycleTime{}, on(func(s *Session, n *expr.CycleTime) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "Core::CycleTime"})
	}))
	c.Register(&expr.Interval{}, on(func(s *Session, n *expr.Interval) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   "Core::DoubleInterval",
			Params: map[string]any{"Min": n.Min, "Max": n.Max},
			Inputs: []Wire{{"inValue", n.X}},
			Extra:  map[string]string{"active": "outActive"},
		})
	}))
	c.Register(&expr.Rampify{}, on(func(s *Session, n *expr.Rampify) (*Fragment, error) {
		var params map[string]any
		if n.Fraction != 0 {
			params = map[string]any{"Fraction": n.Fraction}
		}
		return s.Single(n, Spec{Kind: "Core::DoubleRampify", Params: params, Inputs: []Wire{{"inValue", n.X}}})
	}))
	c.Register(&expr.Edge{}, on(func(s *Session, n *expr.Edge) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   "Core::EdgeDetection",
			Params: map[string]any{"Direction": n.Rising},
			Inputs: []Wire{{"inValue", n.X}},
		})
	}))
	c.Register(&expr.Trigger{}, on(func(s *Session, n *expr.Trigger) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   "Core::Trigger",
			Inputs: []Wire{{"inOn", n.On}, {"inOff", n.Off}, {"inReset", n.Reset}},
			Result: "outActive",
			Extra:  map[string]string{"time": "outTime"},
		})
	}))
	c.Register(&expr.Snapshot{}, on(func(s *Session, n *expr.Snapshot) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   coreKind(n.Type(), "Snapshot"),
			Inputs: []Wire{{"inValue", n.X}, {"inSnapshot", n.Take}},
		})
	}))
}

func registerArray(c *Compiler) {
	c.Register(&expr.ArrayGet{}, on(func(s *Session, n *expr.ArrayGet) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   coreKind(n.Type(), "ArrayGet"),
			Params: map[string]any{"Index": n.Index},
			Inputs: []Wire{{"inArray", n.Array}},
		})
	}))
	c.Register(&expr.ArraySet{}, on(func(s *Session, n *expr.ArraySet) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   coreKind(n.Value.Type(), "ArraySet"),
			Params: map[string]any{"Index": n.Index},
			Inputs: []Wire{{"inArray", n.Array}, {"inValue", n.Value}},
			Result: "outArray",
		})
	}))
	c.Register(&expr.ArraySlice{}, on(func(s *Session, n *expr.ArraySlice) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   coreKind(n.Type().Elem(), "ArraySlice"),
			Params: map[string]any{"Start": n.Start, "Length": n.Length},
			Inputs: []Wire{{"inArray", n.Array}},
			Result: "outArray",
		})
	}))
	c.Register(&expr.ArrayMake{}, on(func(s *Session, n *expr.ArrayMake) (*Fragment, error) {
		wires := make([]Wire, len(n.Elems))
		for i, el := range n.Elems {
			wires[i] = Wire{fmt.Sprintf("inValue%d", i), el}
		}
		return s.Single(n, Spec{
			Kind:   coreKind(n.Type().Elem(), "ArrayCreate"),
			Params: map[string]any{"Size": len(n.Elems)},
			Inputs: wires,
		})
	}))
}

func registerGeometry(c *Compiler) {
	c.Register(&expr.Vector{}, on(func(s *Session, n *expr.Vector) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "World::VectorFromXYZ", Inputs: []Wire{{"inX", n.X}, {"inY", n.Y}, {"inZ", n.Z}}})
	}))
	c.Register(&expr.Component{}, on(func(s *Session, n *expr.Component) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind:   "World::VectorToXYZ",
			Inputs: []Wire{{"inValue", n.V}},
			Result: "out" + strings.ToUpper(n.Axis),
		})
	}))
	c.Register(&expr.VectorOp{}, on(func(s *Session, n *expr.VectorOp) (*Fragment, error) {
		kind := "World::VectorAdd"
		if n.Subtract {
			kind = "World::VectorSubtract"
		}
		return s.Single(n, Spec{Kind: kind, Inputs: []Wire{{"inFirst", n.A}, {"inSecond", n.B}}})
	}))
	c.Register(&expr.Scale{}, on(func(s *Session, n *expr.Scale) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "World::VectorScale", Inputs: []Wire{{"inValue", n.V}, {"inFactor", n.Factor}}})
	}))
	c.Register(&expr.Norm{}, on(func(s *Session, n *expr.Norm) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "World::VectorNorm", Inputs: []Wire{{"inValue", n.V}}})
	}))
	c.Register(&expr.Compose{}, on(func(s *Session, n *expr.Compose) (*Fragment, error) {
		if _, to, ok := expr.Frames(n.A); ok {
			if from, _, ok := expr.Frames(n.B); ok && from != to {
				return nil, fmt.Errorf("%w: cannot chain a transformation to '%s' with one from '%s'", ErrFrameMismatch, to, from)
			}
		}
		return s.Single(n, Spec{Kind: "World::FrameCompose", Inputs: []Wire{{"inFirst", n.A}, {"inSecond", n.B}}})
	}))
	c.Register(&expr.Invert{}, on(func(s *Session, n *expr.Invert) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "World::FrameInvert", Inputs: []Wire{{"inValue", n.F}}})
	}))
	c.Register(&expr.FramePos{}, on(func(s *Session, n *expr.FramePos) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "World::FramePos", Inputs: []Wire{{"inValue", n.F}}})
	}))
	c.Register(&expr.FrameRot{}, on(func(s *Session, n *expr.FrameRot) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "World::FrameRot", Inputs: []Wire{{"inValue", n.F}}})
	}))
	c.Register(&expr.Frame{}, on(func(s *Session, n *expr.Frame) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "World::FrameFromPosRot", Inputs: []Wire{{"inPos", n.Pos}, {"inRot", n.Rot}}})
	}))
	c.Register(&expr.RotationABC{}, on(func(s *Session, n *expr.RotationABC) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "World::RotationFromABC", Inputs: []Wire{{"inA", n.A}, {"inB", n.B}, {"inC", n.C}}})
	}))
	c.Register(&expr.Transform{}, on(func(s *Session, n *expr.Transform) (*Fragment, error) {
		return s.Single(n, Spec{Kind: "World::FrameTransform", Inputs: []Wire{{"inFrame", n.F}, {"inVector", n.V}}})
	}))
	c.Register(&expr.Distance{}, on(func(s *Session, n *expr.Distance) (*Fragment, error) {
		fromA, toA, okA := expr.Frames(n.A)
		fromB, toB, okB := expr.Frames(n.B)
		if okA && okB && (fromA != fromB || toA != toB) {
			return nil, fmt.Errorf("%w: cannot compare %s->%s with %s->%s", ErrFrameMismatch, fromA, toA, fromB, toB)
		}
		return s.Single(n, Spec{
			Kind:   "World::FrameDistance",
			Inputs: []Wire{{"inFirst", n.A}, {"inSecond", n.B}},
			Result: "outTrans",
			Extra:  map[string]string{"rot": "outRot"},
		})
	}))
}

func registerMotion(c *Compiler) {
	c.Register(&expr.OTG{}, on(func(s *Session, n *expr.OTG) (*Fragment, error) {
		params := map[string]any{"MaxVel": n.MaxVel, "MaxAcc": n.MaxAcc, "Mode": "position"}
		wires := []Wire{{"inDestPos", n.Dest}, {"inDestVel", n.DestVel}}
		if n.Velocity {
			if n.DestVel != nil {
				return nil, fmt.Errorf("%w: a velocity OTG takes its velocity as Dest", ErrOperandType)
			}
			params["Mode"] = "velocity"
			wires = []Wire{{"inDestVel", n.Dest}}
		}
		wires = append(wires, Wire{"inOverride", n.Override}, Wire{"inCurPos", n.Current})
		return s.Single(n, Spec{
			Kind:   "Motion::DoubleOTG",
			Params: params,
			Inputs: wires,
			Result: "outPos",
			Extra:  map[string]string{"velocity": "outVel", "acceleration": "outAcc"},
		})
	}))
	c.Register(&expr.FrameOTG{}, on(func(s *Session, n *expr.FrameOTG) (*Fragment, error) {
		return s.Single(n, Spec{
			Kind: "Motion::FrameOTG",
			Params: map[string]any{
				"MaxTransVel": n.MaxTransVel, "MaxTransAcc": n.MaxTransAcc,
				"MaxRotVel": n.MaxRotVel, "MaxRotAcc": n.MaxRotAcc,
			},
			Inputs: []Wire{{"inDestPos", n.Dest}, {"inDestVel", n.DestVel}, {"inOverride", n.Override}, {"inCurPos", n.Current}},
			Result: "outPos",
			Extra:  map[string]string{"velocity": "outVel"},
		})
	}))
}
