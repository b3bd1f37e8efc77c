package primitive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/rtnet/internal/network"
)

func TestUnaryPublishesAbsentFromFunction(t *testing.T) {
	n := network.New(0.01)
	src := network.NewSource[float64]()
	sqrt := NewUnary("Test::Sqrt", func(v float64) (float64, bool) {
		return math.Sqrt(v), v >= 0
	})
	require.NoError(t, n.Add("src", src))
	require.NoError(t, n.Add("sqrt", sqrt))
	require.NoError(t, n.Connect(src.Out(), sqrt.In))
	require.NoError(t, n.Start())

	src.Set(9)
	require.NoError(t, n.Step())
	v, ok := sqrt.Out.Get()
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	src.Set(-1)
	require.NoError(t, n.Step())
	_, ok = sqrt.Out.Get()
	assert.False(t, ok)

	src.Clear()
	require.NoError(t, n.Step())
	_, ok = sqrt.Out.Get()
	assert.False(t, ok)
}

func TestNaryConfigure(t *testing.T) {
	and := NewNary("Test::And", func(vs []bool) (bool, bool) {
		for _, v := range vs {
			if !v {
				return false, true
			}
		}
		return true, true
	})
	require.NoError(t, and.Size.SetAny(3))

	n := network.New(0.01)
	require.NoError(t, n.Add("and", and))
	require.Len(t, and.Inputs(), 3)
	assert.Equal(t, "inValue2", and.Inputs()[2].Name())

	for _, in := range and.Ins {
		in.SetDefault(true)
	}
	require.NoError(t, n.Start())
	require.NoError(t, n.Step())
	v, ok := and.Out.Get()
	require.True(t, ok)
	assert.True(t, v)

	bad := NewNary("Test::And", func([]bool) (bool, bool) { return true, true })
	bad.Size.Set(0)
	assert.ErrorIs(t, network.New(0.01).Add("bad", bad), network.ErrInvalidParameter)
}

func TestSplit(t *testing.T) {
	n := network.New(0.01)
	p := NewSplit("Test::Halves", []string{"outLow", "outHigh"}, func(v float64) []float64 {
		return []float64{v / 2, v * 2}
	})
	p.In.SetDefault(4)
	require.NoError(t, n.Add("split", p))
	require.NoError(t, n.Start())
	require.NoError(t, n.Step())

	lo, _ := p.Outs[0].Get()
	hi, _ := p.Outs[1].Get()
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 8.0, hi)
}
