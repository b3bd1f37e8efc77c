package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/rtnet/internal/testutil"
)

func TestTriggerLatches(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.1)
	trig := h.Add("trig", NewTrigger())
	on := testutil.Source[bool](h, trig, "inOn")
	off := testutil.Source[bool](h, trig, "inOff")
	reset := testutil.Source[bool](h, trig, "inReset")
	h.Start()

	active := func() bool {
		v, ok := testutil.Output[bool](h, trig, "outActive")
		require.True(t, ok)
		return v
	}

	on.Set(false)
	off.Set(false)
	reset.Set(false)
	h.Step(1)
	assert.False(t, active())

	on.Set(true)
	h.Step(1)
	assert.True(t, active())

	on.Set(false)
	for range 10 {
		h.Step(1)
		assert.True(t, active(), "stays active after on went false")
	}
	tm, _ := testutil.Output[float64](h, trig, "outTime")
	assert.InDelta(t, 1.0, tm, 1e-9)

	off.Set(true)
	h.Step(1)
	assert.False(t, active())
	off.Set(false)

	on.Set(true)
	h.Step(1)
	assert.True(t, active())
	reset.Set(true)
	h.Step(1)
	assert.False(t, active(), "reset wins over on")
	reset.Set(false)
	on.Set(false)
	h.Step(1)
	assert.False(t, active(), "reset does not remember on history")
}

func TestTriggerOffWinsOverOn(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.1)
	trig := h.Add("trig", NewTrigger())
	on := testutil.Source[bool](h, trig, "inOn")
	off := testutil.Source[bool](h, trig, "inOff")
	h.Start()
	on.Set(true)
	off.Set(true)
	h.Step(1)
	v, _ := testutil.Output[bool](h, trig, "outActive")
	assert.False(t, v)
}

func TestEdgeDetectionFiresOncePerTransition(t *testing.T) {
	for _, rising := range []bool{true, false} {
		h := testutil.NewNetHarness(t, 0.01)
		edge := NewEdgeDetection()
		edge.Direction.Set(rising)
		h.Add("edge", edge)
		in := testutil.Source[bool](h, edge, "inValue")
		h.Start()

		signal := []bool{false, false, true, true, true, false, true, false, false, true}
		fires := 0
		for i, v := range signal {
			in.Set(v)
			h.Step(1)
			out, ok := testutil.Output[bool](h, edge, "outValue")
			require.True(t, ok)
			if out {
				fires++
				require.Positive(t, i)
				assert.Equal(t, rising, v)
				assert.NotEqual(t, signal[i-1], v)
			}
		}
		if rising {
			assert.Equal(t, 3, fires)
		} else {
			assert.Equal(t, 2, fires)
		}
	}
}

func TestEdgeDetectionFirstCycleHasNoEdge(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	edge := h.Add("edge", NewEdgeDetection())
	in := testutil.Source[bool](h, edge, "inValue")
	h.Start()

	in.Set(true)
	h.Step(1)
	v, _ := testutil.Output[bool](h, edge, "outValue")
	assert.False(t, v)

	in.Clear()
	h.Step(1)
	_, ok := testutil.Output[bool](h, edge, "outValue")
	assert.False(t, ok)

	in.Set(true)
	h.Step(1)
	v, _ = testutil.Output[bool](h, edge, "outValue")
	assert.False(t, v, "absent cycles do not count as a transition")
}

func TestClock(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.5)
	clk := h.Add("clk", NewClock())
	inc := testutil.Source[float64](h, clk, "inIncrement")
	reset := testutil.Source[bool](h, clk, "inReset")
	h.Start()

	inc.Set(2)
	reset.Set(false)
	var got []float64
	for range 3 {
		h.Step(1)
		v, _ := testutil.Output[float64](h, clk, "outValue")
		got = append(got, v)
	}
	assert.Equal(t, []float64{0, 1, 2}, got)

	reset.Set(true)
	h.Step(1)
	v, _ := testutil.Output[float64](h, clk, "outValue")
	assert.Equal(t, 0.0, v)
}

func TestCycleTimeAndTime(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.25)
	ct := h.Add("ct", NewCycleTime())
	tm := h.Add("tm", NewTime())
	h.Start()
	h.Step(3)
	v, _ := testutil.Output[float64](h, ct, "outValue")
	assert.Equal(t, 0.25, v)
	v, _ = testutil.Output[float64](h, tm, "outValue")
	assert.Equal(t, 0.5, v)
}

func TestIntervalDegenerate(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	iv := NewInterval()
	iv.Min.Set(2)
	iv.Max.Set(2)
	h.Add("iv", iv)
	in := testutil.Source[float64](h, iv, "inValue")
	h.Start()

	for _, tc := range []struct {
		in, out float64
		active  bool
	}{
		{in: 1, out: 0},
		{in: 2, out: 1, active: true},
		{in: 3, out: 1},
	} {
		in.Set(tc.in)
		h.Step(1)
		v, ok := testutil.Output[float64](h, iv, "outValue")
		require.True(t, ok)
		assert.False(t, math.IsNaN(v))
		assert.Equal(t, tc.out, v, "in=%v", tc.in)
		a, _ := testutil.Output[bool](h, iv, "outActive")
		assert.Equal(t, tc.active, a, "in=%v", tc.in)
	}
}

func TestIntervalActiveIncludesBounds(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	iv := NewInterval()
	iv.Min.Set(1)
	iv.Max.Set(3)
	h.Add("iv", iv)
	in := testutil.Source[float64](h, iv, "inValue")
	h.Start()

	testCases := []struct {
		in     float64
		active bool
	}{
		{0.5, false},
		{1, true},
		{2, true},
		{3, true},
		{3.5, false},
	}
	for _, tc := range testCases {
		in.Set(tc.in)
		h.Step(1)
		a, ok := testutil.Output[bool](h, iv, "outActive")
		require.True(t, ok)
		assert.Equal(t, tc.active, a, "in=%v", tc.in)
	}
}

func TestIntervalOf(t *testing.T) {
	assert.Equal(t, 0.0, IntervalOf(-1, 0, 4))
	assert.Equal(t, 0.25, IntervalOf(1, 0, 4))
	assert.Equal(t, 1.0, IntervalOf(5, 0, 4))
}

func TestRampBoundaries(t *testing.T) {
	for _, a := range []float64{0.1, 0.25, 0.5} {
		assert.Equal(t, 0.0, Ramp(0, a))
		assert.Equal(t, 0.0, Ramp(-3, a))
		assert.Equal(t, 1.0, Ramp(1, a))
		assert.Equal(t, 1.0, Ramp(7, a))
		assert.InDelta(t, 0.5, Ramp(0.5, a), 1e-12, "symmetric ramp")

		for _, b := range []float64{0, a, 1 - a, 1} {
			const h = 1e-9
			assert.InDelta(t, Ramp(b-h, a), Ramp(b+h, a), 1e-6, "continuous at %v (a=%v)", b, a)
		}
		prev := 0.0
		for x := 0.0; x <= 1; x += 0.001 {
			v := Ramp(x, a)
			assert.GreaterOrEqual(t, v, prev-1e-12)
			prev = v
		}
	}
}

func TestRampifyRejectsFraction(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	r := NewRampify()
	r.Fraction.Set(0.75)
	h.Add("ramp", r)
	assert.Error(t, h.Net.Validate())
}
