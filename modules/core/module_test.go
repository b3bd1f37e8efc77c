package core

import (
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
	r := newRegistry(t)
	require.NoError(t, r.Validate(ctx))

	for _, kind := range []string{
		"Core::DoubleAdd", "Core::BooleanNaryAnd", "Core::FramePre", "Core::VectorArrayGet",
		"Core::TwistArrayValue", "Core::DoubleAtTime", "Core::Trigger", "Core::WrenchSource",
	} {
		assert.True(t, r.Has(kind), kind)
	}
	assert.Equal(t, "Core::RotationSnapshot", Kind(value.TypeRotation, "Snapshot"))
}

func TestAbsencePropagates(t *testing.T) {
	checked := testutil.AssertAbsencePropagates(t, newRegistry(t), "Core::")
	assert.Greater(t, checked, 100)
}
