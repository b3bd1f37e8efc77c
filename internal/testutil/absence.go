package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/registry"
)

// AssertAbsencePropagates checks every registered kind whose name starts
// with prefix: with all inputs present except one required input, every
// output must be absent. Kinds implementing network.AbsentAware are exempt.
// It returns how many (kind, input) pairs were checked.
func AssertAbsencePropagates(t *testing.T, reg *registry.Registry, prefix string) int {
	t.Helper()
	checked := 0
	for _, kind := range reg.Kinds() {
		if !strings.HasPrefix(kind, prefix) {
			continue
		}
		probe, err := reg.New(kind)
		require.NoError(t, err)
		if _, aware := probe.(network.AbsentAware); aware {
			continue
		}
		require.NoError(t, network.Configure(probe), kind)

		for i, in := range probe.Inputs() {
			if in.IsOptional() {
				continue
			}
			checked++
			t.Run(kind+"/"+in.Name(), func(t *testing.T) {
				checkAbsentInput(t, reg, kind, i)
			})
		}
	}
	return checked
}

func checkAbsentInput(t *testing.T, reg *registry.Registry, kind string, absent int) {
	p, err := reg.New(kind)
	require.NoError(t, err)
	n := network.New(0.01)
	require.NoError(t, n.Add("p", p))

	for i, in := range p.Inputs() {
		src, err := network.NewSourceOf(in.Type())
		require.NoError(t, err)
		require.NoError(t, n.Add("src."+in.Name(), src))
		require.NoError(t, n.Connect(src.Port(), in))
		if i == absent {
			continue
		}
		zero, err := network.Zero(in.Type())
		require.NoError(t, err)
		require.NoError(t, src.Feed(zero))
	}
	require.NoError(t, n.Start(), "default parameters of %s must validate", kind)

	for cycle := 0; cycle < 3; cycle++ {
		require.NoError(t, n.Step())
		for _, out := range p.Outputs() {
			_, present := out.Any()
			assert.False(t, present, "cycle %d: %s.%s must be absent when %s is absent",
				cycle, kind, out.Name(), p.Inputs()[absent].Name())
		}
	}
}
