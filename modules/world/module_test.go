package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/rtnet/internal/registry"
	"github.com/vk/rtnet/internal/testutil"
	"github.com/vk/rtnet/internal/value"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	r.RegisterModules(&Module{})
	return r
}

func TestRegistryIsConsistent(t *testing.T) {
	ctx, _ := testutil.Context(t)
	require.NoError(t, newRegistry(t).Validate(ctx))
}

func TestAbsencePropagates(t *testing.T) {
	checked := testutil.AssertAbsencePropagates(t, newRegistry(t), "World::")
	assert.Greater(t, checked, 40)
}

func TestVectorRoundTrip(t *testing.T) {
	r := newRegistry(t)
	h := testutil.NewNetHarness(t, 0.01)

	from, err := r.New("World::VectorFromXYZ")
	require.NoError(t, err)
	to, err := r.New("World::VectorToXYZ")
	require.NoError(t, err)
	h.Add("from", from)
	h.Add("to", to)
	testutil.Source[float64](h, from, "inX").Set(1)
	testutil.Source[float64](h, from, "inY").Set(2)
	testutil.Source[float64](h, from, "inZ").Set(3)
	out, _ := from.Output("outValue")
	in, _ := to.Input("inValue")
	require.NoError(t, h.Net.Connect(out, in))
	h.Start()
	h.Step(1)

	v, ok := testutil.Output[value.Vector](h, from, "outValue")
	require.True(t, ok)
	assert.Equal(t, value.Vector{X: 1, Y: 2, Z: 3}, v)
	for name, want := range map[string]float64{"outX": 1, "outY": 2, "outZ": 3} {
		got, ok := testutil.Output[float64](h, to, name)
		require.True(t, ok)
		assert.Equal(t, want, got, name)
	}
}

func TestFrameDistance(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	p := h.Add("dist", NewFrameDistance())
	a := testutil.Source[value.Frame](h, p, "inFirst")
	b := testutil.Source[value.Frame](h, p, "inSecond")
	a.Set(value.IdentityFrame())
	b.Set(value.Frame{
		Pos: value.Vector{X: 3, Y: 4},
		Rot: value.RotationFromAxisAngle(value.Vector{Z: 1}, math.Pi/2),
	})
	h.Start()
	h.Step(1)

	trans, ok := testutil.Output[float64](h, p, "outTrans")
	require.True(t, ok)
	assert.InDelta(t, 5.0, trans, 1e-12)
	rot, ok := testutil.Output[float64](h, p, "outRot")
	require.True(t, ok)
	assert.InDelta(t, math.Pi/2, rot, 1e-9)

	b.Clear()
	h.Step(1)
	_, ok = testutil.Output[float64](h, p, "outTrans")
	assert.False(t, ok)
}

func TestFrameComposeWithInverseIsIdentity(t *testing.T) {
	r := newRegistry(t)
	h := testutil.NewNetHarness(t, 0.01)

	inv, err := r.New("World::FrameInvert")
	require.NoError(t, err)
	comp, err := r.New("World::FrameCompose")
	require.NoError(t, err)
	h.Add("inv", inv)
	h.Add("comp", comp)

	f := value.Frame{
		Pos: value.Vector{X: 0.4, Y: -0.2, Z: 1.1},
		Rot: value.RotationFromABC(0.3, -0.7, 1.2),
	}
	testutil.Source[value.Frame](h, inv, "inValue").Set(f)
	testutil.Source[value.Frame](h, comp, "inFirst").Set(f)
	out, _ := inv.Output("outValue")
	in, _ := comp.Input("inSecond")
	require.NoError(t, h.Net.Connect(out, in))
	h.Start()
	h.Step(1)

	got, ok := testutil.Output[value.Frame](h, comp, "outValue")
	require.True(t, ok)
	assert.True(t, got.ApproxEqual(value.IdentityFrame(), 1e-9, 1e-9), "got %+v", got)
}

func TestRotationFromAxisAngleRejectsZeroAxis(t *testing.T) {
	r := newRegistry(t)
	h := testutil.NewNetHarness(t, 0.01)
	p, err := r.New("World::RotationFromAxisAngle")
	require.NoError(t, err)
	h.Add("aa", p)
	testutil.Source[value.Vector](h, p, "inAxis").Set(value.Vector{})
	angle := testutil.Source[float64](h, p, "inAngle")
	angle.Set(1)
	h.Start()
	h.Step(1)
	_, ok := testutil.Output[value.Rotation](h, p, "outValue")
	assert.False(t, ok)

	angle.Set(0)
	h.Step(1)
	got, ok := testutil.Output[value.Rotation](h, p, "outValue")
	require.True(t, ok)
	assert.Equal(t, value.Identity(), got)
}
