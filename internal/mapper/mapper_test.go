package mapper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/registry"
	"github.com/vk/rtnet/internal/testutil"
	"github.com/vk/rtnet/internal/value"
	"github.com/vk/rtnet/modules/core"
	"github.com/vk/rtnet/modules/motion"
	"github.com/vk/rtnet/modules/world"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	ctx, _ := testutil.Context(t)
	reg := registry.New()
	reg.RegisterModules(&core.Module{}, &world.Module{}, &motion.Module{})
	return Default().NewSession(ctx, reg)
}

// current reads the value of an output after the last cycle.
func current[T any](t *testing.T, out network.OutputPort) (T, bool) {
	t.Helper()
	v, ok := out.Any()
	if !ok {
		var zero T
		return zero, false
	}
	tv, isT := v.(T)
	require.True(t, isT, "output holds %T", v)
	return tv, true
}

func TestSharedOperandIsCompiledOnce(t *testing.T) {
	s := newSession(t)
	x := expr.NewInput("t", value.TypeDouble)
	y := &expr.Unary{Op: "Sin", X: x}
	root := expr.Add(expr.Add(y, expr.Double(1)), expr.Mul(y, expr.Double(2)))

	f, err := s.Compile(root)
	require.NoError(t, err)
	// source, sin, two constants, add, multiply, add
	assert.Equal(t, 7, s.PrimitiveCount())

	again, err := s.Compile(y)
	require.NoError(t, err)
	assert.Same(t, f.Deps[0].Deps[0], again)
	assert.Equal(t, []string{"t"}, f.Inputs())

	n, err := s.Build(0.01)
	require.NoError(t, err)
	require.NoError(t, n.Start())
	require.NoError(t, s.Inputs()["t"].Feed(math.Pi/2))
	require.NoError(t, n.Step())
	v, ok := current[float64](t, f.Result)
	require.True(t, ok)
	assert.InDelta(t, 4.0, v, 1e-12)
}

func TestInputsWithTheSameNameShareASource(t *testing.T) {
	s := newSession(t)
	a, err := s.Compile(expr.NewInput("speed", value.TypeDouble))
	require.NoError(t, err)
	b, err := s.Compile(expr.NewInput("speed", value.TypeDouble))
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, s.PrimitiveCount())

	_, err = s.Compile(expr.NewInput("speed", value.TypeBool))
	assert.ErrorIs(t, err, ErrOperandType)
}

type unknownNode struct{}

func (unknownNode) Type() value.Type      { return value.TypeDouble }
func (unknownNode) Operands() []expr.Expr { return nil }

type answer struct{}

func (*answer) Type() value.Type      { return value.TypeDouble }
func (*answer) Operands() []expr.Expr { return nil }

func (a *answer) Map(s *Session) (*Fragment, error) {
	return s.Single(a, Spec{Kind: "Core::DoubleValue", Params: map[string]any{"Value": 42.0}})
}

func TestUnknownNodesAndSelfMappers(t *testing.T) {
	s := newSession(t)
	_, err := s.Compile(expr.Add(unknownNode{}, expr.Double(1)))
	require.ErrorIs(t, err, ErrUnknownNode)
	assert.Contains(t, err.Error(), "unknownNode")

	f, err := s.Compile(expr.Mul(&answer{}, expr.Double(2)))
	require.NoError(t, err)
	n, err := s.Build(0.01)
	require.NoError(t, err)
	require.NoError(t, n.Start())
	require.NoError(t, n.Step())
	v, ok := current[float64](t, f.Result)
	require.True(t, ok)
	assert.Equal(t, 84.0, v)
}

func TestRegisterTwicePanics(t *testing.T) {
	c := NewCompiler()
	c.Register(&expr.Not{}, func(*Session, expr.Expr) (*Fragment, error) { return nil, nil })
	assert.Panics(t, func() {
		c.Register(&expr.Not{}, func(*Session, expr.Expr) (*Fragment, error) { return nil, nil })
	})
}

func TestOperandTypesAreChecked(t *testing.T) {
	s := newSession(t)
	_, err := s.Compile(expr.Add(expr.Bool(true), expr.Double(1)))
	require.ErrorIs(t, err, ErrOperandType)
	assert.Contains(t, err.Error(), "bool, double")

	_, err = s.Compile(&expr.Convert{X: expr.Bool(true), To: value.TypeInt})
	assert.ErrorIs(t, err, ErrOperandType)

	_, err = s.Compile(&expr.Equals{A: expr.Int(1), B: expr.Int(2), Epsilon: 0.1})
	assert.ErrorIs(t, err, ErrOperandType)

	_, err = s.Compile(&expr.Trigger{On: expr.Bool(true)})
	assert.ErrorIs(t, err, ErrOperandType, "a trigger needs an off signal")
	assert.Equal(t, 0, s.PrimitiveCount())
}

func TestFramesMustChain(t *testing.T) {
	s := newSession(t)
	worldBase := expr.NewRelation("world", "base")
	baseTool := expr.NewRelation("base", "tool")
	cameraTool := expr.NewRelation("camera", "tool")

	ok := &expr.Compose{A: worldBase, B: baseTool}
	from, to, known := expr.Frames(ok)
	require.True(t, known)
	assert.Equal(t, "world", from)
	assert.Equal(t, "tool", to)
	_, err := s.Compile(ok)
	require.NoError(t, err)

	_, err = s.Compile(&expr.Compose{A: worldBase, B: cameraTool})
	require.ErrorIs(t, err, ErrFrameMismatch)

	_, err = s.Compile(&expr.Compose{A: &expr.Invert{F: baseTool}, B: worldBase})
	require.ErrorIs(t, err, ErrFrameMismatch)

	_, err = s.Compile(&expr.Distance{A: ok, B: cameraTool})
	require.ErrorIs(t, err, ErrFrameMismatch)

	// the checks run before any operand is compiled
	assert.ElementsMatch(t, []string{"world->base", "base->tool"}, keys(s.Inputs()))
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestNamedOutputsAndTuples(t *testing.T) {
	s := newSession(t)
	trig := &expr.Trigger{On: expr.NewInput("on", value.TypeBool), Off: expr.Bool(false)}
	activeFor := expr.NewOutput(trig, "time", value.TypeDouble)
	tuple := expr.NewTuple(expr.Double(3), expr.Bool(true))

	fTime, err := s.Compile(activeFor)
	require.NoError(t, err)
	fSecond, err := s.Compile(expr.NewElement(tuple, 1))
	require.NoError(t, err)
	_, err = s.Compile(expr.NewOutput(trig, "missing", value.TypeDouble))
	require.ErrorIs(t, err, ErrNoOutput)

	n, err := s.Build(0.1)
	require.NoError(t, err)
	require.NoError(t, n.Start())
	require.NoError(t, s.Inputs()["on"].Feed(true))
	for range 4 {
		require.NoError(t, n.Step())
	}
	secs, ok := current[float64](t, fTime.Result)
	require.True(t, ok)
	assert.InDelta(t, 0.3, secs, 1e-12)
	b, ok := current[bool](t, fSecond.Result)
	require.True(t, ok)
	assert.True(t, b)
}

func TestBuildSealsTheSession(t *testing.T) {
	s := newSession(t)
	_, err := s.Compile(expr.Double(1))
	require.NoError(t, err)
	_, err = s.Build(0.01)
	require.NoError(t, err)

	_, err = s.Build(0.01)
	assert.ErrorIs(t, err, ErrBuilt)
	_, err = s.Compile(expr.Double(2))
	assert.ErrorIs(t, err, ErrBuilt)
}

func TestCompiledOTGReachesTarget(t *testing.T) {
	s := newSession(t)
	dest := expr.NewInput("dest", value.TypeDouble)
	otg := &expr.OTG{Dest: dest, MaxVel: 2, MaxAcc: 4}
	arrived := &expr.Equals{A: otg, B: dest, Epsilon: 1e-6}
	vel := expr.NewOutput(otg, "velocity", value.TypeDouble)

	fArrived, err := s.Compile(arrived)
	require.NoError(t, err)
	fVel, err := s.Compile(vel)
	require.NoError(t, err)

	n, err := s.Build(0.01)
	require.NoError(t, err)
	require.NoError(t, n.Start())
	require.NoError(t, s.Inputs()["dest"].Feed(1.5))
	for range 300 {
		require.NoError(t, n.Step())
		v, ok := current[float64](t, fVel.Result)
		require.True(t, ok)
		require.LessOrEqual(t, math.Abs(v), 2+1e-9)
	}
	done, ok := current[bool](t, fArrived.Result)
	require.True(t, ok)
	assert.True(t, done)
}

func TestGeometryCompiles(t *testing.T) {
	s := newSession(t)
	pos := &expr.Vector{X: expr.Double(1), Y: expr.Double(2), Z: expr.Double(3)}
	rot := &expr.RotationABC{A: expr.Double(math.Pi / 2), B: expr.Double(0), C: expr.Double(0)}
	frame := &expr.Frame{Pos: pos, Rot: rot}
	moved := &expr.Transform{F: frame, V: &expr.Vector{X: expr.Double(1), Y: expr.Double(0), Z: expr.Double(0)}}
	y := &expr.Component{V: moved, Axis: "y"}
	back := &expr.Compose{A: frame, B: &expr.Invert{F: frame}}
	dist := &expr.Distance{A: back, B: &expr.Frame{Pos: &expr.Scale{V: pos, Factor: expr.Double(0)}, Rot: &expr.FrameRot{F: back}}}

	fy, err := s.Compile(y)
	require.NoError(t, err)
	fd, err := s.Compile(dist)
	require.NoError(t, err)
	fn, err := s.Compile(&expr.Norm{V: &expr.FramePos{F: frame}})
	require.NoError(t, err)

	n, err := s.Build(0.01)
	require.NoError(t, err)
	require.NoError(t, n.Start())
	require.NoError(t, n.Step())

	gotY, _ := current[float64](t, fy.Result)
	assert.InDelta(t, 3.0, gotY, 1e-12)
	gotD, _ := current[float64](t, fd.Result)
	assert.InDelta(t, 0.0, gotD, 1e-12)
	gotN, _ := current[float64](t, fn.Result)
	assert.InDelta(t, math.Sqrt(14), gotN, 1e-12)
}

func TestEveryNodeKindCompilesAndRuns(t *testing.T) {
	x := expr.NewInput("x", value.TypeDouble)
	flag := expr.NewInput("flag", value.TypeBool)
	arr := &expr.ArrayMake{Elems: []expr.Expr{x, expr.Double(2), expr.Double(3)}}
	vec := &expr.Vector{X: x, Y: x, Z: x}
	rel := expr.NewRelation("a", "b")

	nodes := map[string]expr.Expr{
		"unary":      &expr.Unary{Op: "Sqrt", X: x},
		"compare":    expr.Ge(x, expr.Double(0)),
		"equals":     &expr.Equals{A: flag, B: expr.Bool(true)},
		"cond":       &expr.Cond{If: flag, Then: x, Else: expr.Double(0)},
		"and":        expr.And(flag, expr.Bool(true), &expr.Not{X: expr.Bool(false)}),
		"or":         expr.Or(flag),
		"convert":    &expr.Convert{X: flag, To: value.TypeDouble},
		"limit":      &expr.Limit{X: x, Min: -1, Max: 1},
		"average":    &expr.Average{X: x, Duration: 0.05},
		"past":       &expr.Past{X: x, Age: expr.Double(0.02), Buffer: 0.1},
		"at time":    &expr.AtTime{X: x, Stamp: &expr.Clock{}, At: expr.Double(0), Buffer: 0.1, Search: "linear"},
		"previous":   &expr.Previous{X: x, Initial: 5},
		"first":      expr.FirstCycle(),
		"is null":    &expr.IsNull{X: expr.NewInput("missing", value.TypeDouble)},
		"or else":    &expr.OrElse{X: expr.NewInput("missing", value.TypeDouble), Else: x},
		"clock":      &expr.Clock{Increment: x, Reset: flag},
		"cycle time": &expr.CycleTime{},
		"interval":   &expr.Interval{X: x, Min: 0, Max: 2},
		"rampify":    &expr.Rampify{X: x, Fraction: 0.5},
		"edge":       &expr.Edge{X: flag, Rising: true},
		"snapshot":   &expr.Snapshot{X: x, Take: expr.FirstCycle()},
		"array get":  &expr.ArrayGet{Array: arr, Index: 2},
		"array set":  &expr.ArraySet{Array: arr, Value: x, Index: 0},
		"array cut":  &expr.ArraySlice{Array: arr, Start: 1, Length: 2},
		"vector":     &expr.VectorOp{A: vec, B: vec, Subtract: true},
		"relation":   &expr.FramePos{F: &expr.Compose{A: rel, B: &expr.Invert{F: rel}}},
		"frame otg":  &expr.FrameOTG{Dest: rel, MaxTransVel: 1, MaxTransAcc: 1, MaxRotVel: 1, MaxRotAcc: 1},
		"jog":        &expr.OTG{Dest: x, Velocity: true, MaxVel: 1, MaxAcc: 1},
	}

	s := newSession(t)
	frags := make(map[string]*Fragment, len(nodes))
	for name, e := range nodes {
		f, err := s.Compile(e)
		require.NoError(t, err, name)
		assert.Equal(t, e.Type(), f.Type(), name)
		frags[name] = f
	}
	n, err := s.Build(0.01)
	require.NoError(t, err)
	require.NoError(t, n.Start())
	in := s.Inputs()
	require.NoError(t, in["x"].Feed(1.0))
	require.NoError(t, in["flag"].Feed(true))
	require.NoError(t, in["a->b"].Feed(value.IdentityFrame()))
	for range 3 {
		require.NoError(t, n.Step())
	}

	for name, want := range map[string]any{
		"unary":     1.0,
		"and":       true,
		"convert":   1.0,
		"previous":  1.0,
		"first":     false,
		"is null":   true,
		"or else":   1.0,
		"interval":  0.5,
		"array get": 3.0,
	} {
		got, ok := frags[name].Result.Any()
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}
