package exprhcl

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/mapper"
	"github.com/vk/rtnet/internal/registry"
	"github.com/vk/rtnet/internal/testutil"
	"github.com/vk/rtnet/internal/value"
	"github.com/vk/rtnet/modules/core"
	"github.com/vk/rtnet/modules/motion"
	"github.com/vk/rtnet/modules/world"
)

func convert(t *testing.T, src string, scope *Scope) expr.Expr {
	t.Helper()
	e, err := Parse(src, "test.hcl")
	require.NoError(t, err)
	x, err := Convert(e, scope)
	require.NoError(t, err)
	return x
}

// eval compiles x, runs it for cycles and returns the final value.
func eval(t *testing.T, x expr.Expr, feed map[string]any, cycles int) (any, bool) {
	t.Helper()
	ctx, _ := testutil.Context(t)
	reg := registry.New()
	reg.RegisterModules(&core.Module{}, &world.Module{}, &motion.Module{})
	s := mapper.Default().NewSession(ctx, reg)
	f, err := s.Compile(x)
	require.NoError(t, err)
	n, err := s.Build(0.01)
	require.NoError(t, err)
	inputs := s.Inputs()
	for name, v := range feed {
		// Inputs the expression never reads are not compiled.
		if src, ok := inputs[name]; ok {
			require.NoError(t, src.Feed(v))
		}
	}
	require.NoError(t, n.Start())
	for range cycles {
		require.NoError(t, n.Step())
	}
	return f.Result.Any()
}

func TestArithmeticAndConditionals(t *testing.T) {
	scope := &Scope{Inputs: map[string]value.Type{"t": value.TypeDouble, "on": value.TypeBool}}
	testCases := []struct {
		src  string
		want any
	}{
		{"sin(input.t) * 2 > 1 ? 1 : 0", 1.0},
		{"(input.t - 1) / 2", (math.Pi/2 - 1) / 2},
		{"-input.t", -math.Pi / 2},
		{"max(input.t, 2) + min(1, -3)", -1.0},
		{"limit(input.t * 10, -1, 1)", 1.0},
		{"input.on && !(input.t < 0) || false", true},
		{"input.t != input.t", false},
		{"int(input.t * 2)", 3},
		{"double(input.on)", 1.0},
		{"pow(2, 10) % 1000", 24.0},
		{"norm(vector(3, 4, 0) * 2)", 10.0},
		{"x(vector(1, 2, 3) - vector(1, 1, 1) + vector(0, 0, 1))", 0.0},
		{"get([1, input.t, 3], 2)", 3.0},
		{"is_null(input.t)", false},
		{"or_else(input.t, 0)", math.Pi / 2},
	}
	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			x := convert(t, tc.src, scope)
			got, ok := eval(t, x, map[string]any{"t": math.Pi / 2, "on": true}, 1)
			require.True(t, ok)
			if f, isF := tc.want.(float64); isF {
				assert.InDelta(t, f, got, 1e-12)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTimeFunctions(t *testing.T) {
	scope := &Scope{Inputs: map[string]value.Type{"go": value.TypeBool}}

	x := convert(t, "clock()", scope)
	got, ok := eval(t, x, nil, 11)
	require.True(t, ok)
	assert.InDelta(t, 0.1, got, 1e-9)

	x = convert(t, "rampify(interval(clock(), 0, 0.1))", scope)
	got, ok = eval(t, x, nil, 20)
	require.True(t, ok)
	assert.InDelta(t, 1.0, got, 1e-12)

	x = convert(t, "previous(cycle_time(), -1)", scope)
	got, ok = eval(t, x, nil, 1)
	require.True(t, ok)
	assert.Equal(t, -1.0, got)

	x = convert(t, "average(double(input.go), 1)", scope)
	got, ok = eval(t, x, map[string]any{"go": true}, 5)
	require.True(t, ok)
	assert.InDelta(t, 1.0, got, 1e-12)

	x = convert(t, "otg(10, 1, 2)", scope)
	got, ok = eval(t, x, nil, 2000)
	require.True(t, ok)
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestInputsAreShared(t *testing.T) {
	scope := &Scope{Inputs: map[string]value.Type{"t": value.TypeDouble}}
	x := convert(t, "input.t + input.t", scope).(*expr.Binary)
	assert.Same(t, x.A, x.B)
}

func TestNamedExpressions(t *testing.T) {
	motion := &expr.OTG{Dest: expr.Double(1), MaxVel: 1, MaxAcc: 1}
	scope := &Scope{Lookup: func(name string) (expr.Expr, error) {
		if name == "m" {
			return motion, nil
		}
		return nil, errors.New("not defined")
	}}

	x := convert(t, "expr.m", scope)
	assert.Same(t, motion, x)

	x = convert(t, "abs(expr.m.velocity)", scope)
	out := x.(*expr.Unary).X.(*expr.Output)
	assert.Same(t, motion, out.Of)
	assert.Equal(t, value.TypeDouble, out.Type())

	e, err := Parse("expr.m.jerk", "test.hcl")
	require.NoError(t, err)
	_, err = Convert(e, scope)
	require.ErrorIs(t, err, ErrUnknownVariable)

	e, err = Parse("expr.q", "test.hcl")
	require.NoError(t, err)
	_, err = Convert(e, scope)
	assert.ErrorContains(t, err, "not defined")
}

func TestFrames(t *testing.T) {
	x := convert(t, "frame.world.tool", nil)
	rel, ok := x.(*expr.Relation)
	require.True(t, ok)
	assert.Equal(t, "world->tool", rel.Name())
}

func TestReferences(t *testing.T) {
	e, err := Parse("expr.b.velocity + expr.a * input.t + expr.a + frame.x.y", "test.hcl")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"a", "b"}, References(e)); diff != "" {
		t.Errorf("References mismatch (-want +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	scope := &Scope{Inputs: map[string]value.Type{"t": value.TypeDouble}}
	testCases := []struct {
		src string
		err error
	}{
		{"1 +", ErrSyntax},
		{"input.nope", ErrUnknownVariable},
		{"thing.t", ErrUnknownVariable},
		{"expr.a", ErrUnknownVariable},
		{"foo(1)", ErrUnknownFunction},
		{"sin(1, 2)", ErrArguments},
		{"clock(1, true, 3)", ErrArguments},
		{"average(input.t, input.t)", ErrArguments},
		{"get([1, 2], input.t)", ErrArguments},
		{"previous(input.t, true)", ErrArguments},
		{`"text"`, ErrUnsupported},
		{"{ a = 1 }", ErrUnsupported},
	}
	for _, tc := range testCases {
		t.Run(tc.src, func(t *testing.T) {
			e, err := Parse(tc.src, "test.hcl")
			if err == nil {
				_, err = Convert(e, scope)
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}
