package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/rtnet/internal/testutil"
	"github.com/vk/rtnet/internal/value"
)

func TestPreDelaysByOneCycle(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	pre := NewPre[float64]()
	pre.Initial.Set(-1)
	h.Add("pre", pre)
	in := testutil.Source[float64](h, pre, "inValue")
	h.Start()

	var got []float64
	for i := range 4 {
		in.Set(float64(i))
		h.Step(1)
		v, ok := testutil.Output[float64](h, pre, "outValue")
		require.True(t, ok)
		got = append(got, v)
	}
	assert.Equal(t, []float64{-1, 0, 1, 2}, got)

	in.Clear()
	h.Step(2)
	_, ok := testutil.Output[float64](h, pre, "outValue")
	assert.False(t, ok, "an absent input is latched as absent")
}

func TestSnapshot(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	snap := h.Add("snap", NewSnapshot[value.Vector]())
	in := testutil.Source[value.Vector](h, snap, "inValue")
	take := testutil.Source[bool](h, snap, "inSnapshot")
	h.Start()

	take.Set(false)
	in.Set(value.Vector{X: 1})
	h.Step(1)
	_, ok := testutil.Output[value.Vector](h, snap, "outValue")
	assert.False(t, ok, "nothing captured yet")

	take.Set(true)
	h.Step(1)
	take.Set(false)
	in.Set(value.Vector{X: 2})
	h.Step(1)
	v, ok := testutil.Output[value.Vector](h, snap, "outValue")
	require.True(t, ok)
	assert.Equal(t, value.Vector{X: 1}, v)
}

func TestConditionalNeedsOnlySelectedBranch(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	c := h.Add("c", NewConditional[float64]())
	cond := testutil.Source[bool](h, c, "inCondition")
	yes := testutil.Source[float64](h, c, "inTrue")
	testutil.Source[float64](h, c, "inFalse")
	h.Start()

	cond.Set(true)
	yes.Set(4)
	h.Step(1)
	v, ok := testutil.Output[float64](h, c, "outValue")
	require.True(t, ok)
	assert.Equal(t, 4.0, v)

	cond.Set(false)
	h.Step(1)
	_, ok = testutil.Output[float64](h, c, "outValue")
	assert.False(t, ok)
}

func TestOrElseAndIsNull(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	or := h.Add("or", NewOrElse[int]())
	isNull := h.Add("null", NewIsNull[int]())
	in := testutil.Source[int](h, or, "inValue")
	fb := testutil.Source[int](h, or, "inFallback")
	inNull, _ := isNull.Input("inValue")
	require.NoError(t, h.Net.Connect(in.Out(), inNull))
	h.Start()

	fb.Set(7)
	h.Step(1)
	v, _ := testutil.Output[int](h, or, "outValue")
	assert.Equal(t, 7, v)
	null, _ := testutil.Output[bool](h, isNull, "outValue")
	assert.True(t, null)

	in.Set(3)
	h.Step(1)
	v, _ = testutil.Output[int](h, or, "outValue")
	assert.Equal(t, 3, v)
	null, _ = testutil.Output[bool](h, isNull, "outValue")
	assert.False(t, null)
}

func TestArrayOperationsCopyOnWrite(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	set := NewArraySet[float64]()
	set.Index.Set(1)
	h.Add("set", set)
	get := NewArrayGet[float64]()
	get.Index.Set(1)
	h.Add("get", get)
	slice := NewArraySlice[float64]()
	slice.Start.Set(1)
	slice.Length.Set(2)
	h.Add("slice", slice)

	arr := testutil.Source[value.Array[float64]](h, set, "inArray")
	elem := testutil.Source[float64](h, set, "inValue")
	outArr, _ := set.Output("outArray")
	in, _ := get.Input("inArray")
	require.NoError(t, h.Net.Connect(outArr, in))
	in, _ = slice.Input("inArray")
	require.NoError(t, h.Net.Connect(outArr, in))
	h.Start()

	original := value.ArrayOf(1.0, 2.0, 3.0)
	arr.Set(original)
	elem.Set(9)
	h.Step(1)

	v, ok := testutil.Output[float64](h, get, "outValue")
	require.True(t, ok)
	assert.Equal(t, 9.0, v)
	assert.Equal(t, []float64{1, 2, 3}, original.Elems(), "input array is untouched")

	sl, ok := testutil.Output[value.Array[float64]](h, slice, "outArray")
	require.True(t, ok)
	assert.Equal(t, []float64{9, 3}, sl.Elems())

	arr.Set(value.ArrayOf(1.0))
	h.Step(1)
	_, ok = testutil.Output[float64](h, get, "outValue")
	assert.False(t, ok, "index out of range is absent")
}

func TestArrayCreate(t *testing.T) {
	h := testutil.NewNetHarness(t, 0.01)
	p := newArrayCreate[bool]()
	size, ok := p.Param("Size")
	require.True(t, ok)
	require.NoError(t, size.SetAny(3))
	h.Add("make", p)
	for i, in := range p.Inputs() {
		s := testutil.Source[bool](h, p, in.Name())
		s.Set(i == 1)
	}
	h.Start()
	h.Step(1)
	a, ok := testutil.Output[value.Array[bool]](h, p, "outValue")
	require.True(t, ok)
	assert.Equal(t, []bool{false, true, false}, a.Elems())
}
