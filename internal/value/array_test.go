package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestArrayCopyOnWrite(t *testing.T) {
	a := ArrayOf(1.0, 2.0, 3.0)
	b, ok := a.Set(1, 20)
	require.True(t, ok)

	v, _ := a.Get(1)
	assert.Equal(t, 2.0, v, "original must not change")
	v, _ = b.Get(1)
	assert.Equal(t, 20.0, v)

	_, ok = a.Set(3, 1)
	assert.False(t, ok)
	_, ok = a.Get(-1)
	assert.False(t, ok)
}

func TestArraySliceDoesNotAlias(t *testing.T) {
	a := ArrayOf(1, 2, 3, 4)
	s, ok := a.Slice(1, 2)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, s.Elems())

	s2, _ := s.Set(0, 99)
	assert.Equal(t, []int{1, 2, 3, 4}, a.Elems())
	assert.Equal(t, []int{99, 3}, s2.Elems())

	_, ok = a.Slice(3, 2)
	assert.False(t, ok)
}

func TestArrayDecodeCty(t *testing.T) {
	var a Array[float64]
	err := a.DecodeCty(cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberFloatVal(2.5)}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5}, a.Elems())

	var b Array[bool]
	assert.Error(t, b.DecodeCty(cty.StringVal("nope")))
}

func TestTypeNames(t *testing.T) {
	for _, ty := range []Type{TypeDouble, TypeBool, TypeFrame, TypeWrenchArray, TypeIntArray} {
		parsed, err := ParseType(ty.String())
		require.NoError(t, err)
		assert.Equal(t, ty, parsed)
	}
	assert.Equal(t, TypeVectorArray, TypeOf[Array[Vector]]())
	assert.Equal(t, TypeVector, TypeVectorArray.Elem())
	_, err := ParseType("quaternion")
	assert.Error(t, err)
}
