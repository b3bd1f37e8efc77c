package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const netSrc = `
cycle_time = 0.01
expression "t" { value = clock() }
expression "done" { value = expr.t > 0.045 }
probes    = ["t"]
stop_when = "done"
`

const deviceSrc = `
name: slider
joints:
  - {name: x, min: -1, max: 1, velocity: 1, acceleration: 2}
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := Execute(context.Background(), args, out, errOut)
	return out.String(), errOut.String(), err
}

func write(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestHelp(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "primitives")

	out, _, err = execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands:")
}

func TestRunCommand(t *testing.T) {
	path := write(t, "clock.hcl", netSrc)
	out, logs, err := execute(t, "run", "--log-level", "debug", path)
	require.NoError(t, err)
	assert.Contains(t, out, "clock cycle=5 ")
	assert.Contains(t, logs, "Net result.")
}

func TestMoveCommand(t *testing.T) {
	dev := write(t, "slider.yaml", deviceSrc)
	out, _, err := execute(t, "move", "--device", dev, "--cycles", "2000", "x=0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "slider cycle=")
	assert.Contains(t, out, "joint.x.position=")
}

func TestPrimitivesCommand(t *testing.T) {
	out, _, err := execute(t, "primitives")
	require.NoError(t, err)
	assert.Contains(t, out, "Core::DoubleAdd\n")
	assert.Contains(t, out, "  in  inFirst double")
}

func TestUsageErrors(t *testing.T) {
	dev := write(t, "slider.yaml", deviceSrc)
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"run without paths", []string{"run"}, "at least one network path"},
		{"bad log level", []string{"--log-level", "loud", "primitives"}, "invalid log level"},
		{"bad flag value", []string{"run", "--cycles", "many", "net.hcl"}, "invalid argument"},
		{"unknown flag", []string{"run", "--bogus", "net.hcl"}, "unknown flag"},
		{"unknown command", []string{"fly"}, "unknown command"},
		{"missing device", []string{"move", "x=1"}, "required flag"},
		{"bad target", []string{"move", "-d", dev, "x"}, "want JOINT=POSITION"},
		{"bad position", []string{"move", "-d", dev, "x=far"}, "invalid position"},
		{"extra args", []string{"primitives", "all"}, "unknown command"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := execute(t, tc.args...)
			require.Error(t, err)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "got %T: %v", err, err)
			assert.Equal(t, ExitUsage, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	broken := write(t, "broken.hcl", `cycle_time = 0.01
expression "a" { value = input.missing }`)
	_, _, err := execute(t, "run", broken)
	require.Error(t, err)
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr), "build failures are not usage errors")

	dev := write(t, "slider.yaml", deviceSrc)
	_, _, err = execute(t, "move", "-d", dev, "x=3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid limits")
}

func TestParseTargets(t *testing.T) {
	got, err := parseTargets([]string{"a=1", "b=-0.5"})
	require.NoError(t, err)
	if diff := cmp.Diff(map[string]float64{"a": 1, "b": -0.5}, got); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	_, err = parseTargets([]string{"a=1", "a=2"})
	assert.ErrorContains(t, err, "given twice")
	_, err = parseTargets([]string{"=1"})
	assert.ErrorContains(t, err, "want JOINT=POSITION")
}
