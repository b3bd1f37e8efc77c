package device

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/rtnet/internal/action"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/testutil"
	"github.com/vk/rtnet/internal/value"
)

const arm = `
name: arm
faults: true
joints:
  - name: shoulder
    min: -3
    max: 3
    velocity: 1.5
    acceleration: 3
    home: 0.2
  - name: elbow
    min: 0
    max: 2
    velocity: 1
    acceleration: 2
    tolerance: 0.01
cartesian:
  base: world
  flange: tool
  velocity: 0.5
  acceleration: 1
  rot_velocity: 1
  rot_acceleration: 2
  workspace: 1.2
`

func TestParse(t *testing.T) {
	ctx, _ := testutil.Context(t)
	d, err := Parse(ctx, []byte(arm))
	require.NoError(t, err)

	assert.Equal(t, "arm", d.Name())
	assert.Equal(t, []string{"shoulder", "elbow"}, d.Joints())

	shoulder, err := d.Joint("shoulder")
	require.NoError(t, err)
	want := action.JointLimits{MinPos: -3, MaxPos: 3, MaxVel: 1.5, MaxAcc: 3, Tolerance: DefaultTolerance}
	if diff := cmp.Diff(want, shoulder); diff != "" {
		t.Errorf("shoulder limits mismatch (-want +got):\n%s", diff)
	}
	elbow, err := d.Joint("elbow")
	require.NoError(t, err)
	assert.Equal(t, 0.01, elbow.Tolerance)

	home, ok := d.Home("shoulder")
	require.True(t, ok)
	assert.Equal(t, 0.2, home)
	home, _ = d.Home("elbow")
	assert.Equal(t, 1.0, home, "home defaults to the middle of the range")

	cart, err := d.Cartesian()
	require.NoError(t, err)
	wantCart := action.CartesianLimits{
		Base: "world", Flange: "tool",
		MaxTransVel: 0.5, MaxTransAcc: 1, MaxRotVel: 1, MaxRotAcc: 2,
		Tolerance: DefaultTolerance, RotTolerance: DefaultTolerance, Workspace: 1.2,
	}
	if diff := cmp.Diff(wantCart, cart); diff != "" {
		t.Errorf("cartesian limits mismatch (-want +got):\n%s", diff)
	}

	_, err = d.Joint("wrist")
	assert.True(t, errors.Is(err, action.ErrLimits))
}

func TestInputs(t *testing.T) {
	ctx, _ := testutil.Context(t)
	d, err := Parse(ctx, []byte(arm))
	require.NoError(t, err)

	pos, ok := d.Position("elbow").(*expr.Input)
	require.True(t, ok)
	assert.Equal(t, "joint.elbow.measured", pos.Name)
	assert.Equal(t, value.TypeDouble, pos.Type())

	fault, ok := d.Fault("elbow").(*expr.Input)
	require.True(t, ok)
	assert.Equal(t, "joint.elbow.fault", fault.Name)
	assert.Equal(t, value.TypeBool, fault.Type())

	pose, ok := d.Pose().(*expr.Relation)
	require.True(t, ok)
	assert.Equal(t, "world->tool", pose.Name())

	plain, err := Parse(ctx, []byte(`
name: slider
joints:
  - {name: x, min: 0, max: 1, velocity: 1, acceleration: 1}
`))
	require.NoError(t, err)
	assert.Nil(t, plain.Fault("x"))
	assert.Nil(t, plain.Pose())
	assert.False(t, plain.HasFaults())
	_, err = plain.Cartesian()
	assert.True(t, errors.Is(err, action.ErrLimits))
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{"empty", ``, "empty device file"},
		{"unknown key", "name: a\ncolour: red\n", "field colour not found"},
		{"no name", "joints:\n  - {name: x, min: 0, max: 1, velocity: 1, acceleration: 1}\n", "no name"},
		{"nothing to move", "name: a\n", "neither joints nor Cartesian"},
		{"duplicate joint", "name: a\njoints:\n  - {name: x, min: 0, max: 1, velocity: 1, acceleration: 1}\n  - {name: x, min: 0, max: 1, velocity: 1, acceleration: 1}\n", "listed twice"},
		{"inverted range", "name: a\njoints:\n  - {name: x, min: 1, max: 0, velocity: 1, acceleration: 1}\n", "must be below max"},
		{"no velocity", "name: a\njoints:\n  - {name: x, min: 0, max: 1, acceleration: 1}\n", "velocity must be positive"},
		{"home outside", "name: a\njoints:\n  - {name: x, min: 0, max: 1, velocity: 1, acceleration: 1, home: 2}\n", "home 2 outside"},
		{"same frames", "name: a\ncartesian: {base: w, flange: w, velocity: 1, acceleration: 1, rot_velocity: 1, rot_acceleration: 1}\n", "both 'w'"},
		{"no rotation limits", "name: a\ncartesian: {base: w, flange: t, velocity: 1, acceleration: 1}\n", "rot_velocity"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			_, err := Parse(ctx, []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad(t *testing.T) {
	ctx, _ := testutil.Context(t)
	path := filepath.Join(t.TempDir(), "arm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(arm), 0o644))

	d, err := Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "arm", d.Name())

	_, err = Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open device file")
}
