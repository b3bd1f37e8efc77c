package action

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/mapper"
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/registry"
	"github.com/vk/rtnet/internal/testutil"
	"github.com/vk/rtnet/internal/value"
	"github.com/vk/rtnet/modules/core"
	"github.com/vk/rtnet/modules/motion"
	"github.com/vk/rtnet/modules/world"
)

const dt = 0.01

type device struct {
	joints    map[string]JointLimits
	cartesian *CartesianLimits
}

func newDevice() *device {
	lim := JointLimits{MinPos: -2, MaxPos: 2, MaxVel: 1, MaxAcc: 2, Tolerance: 1e-3}
	return &device{
		joints: map[string]JointLimits{"a": lim, "b": lim},
		cartesian: &CartesianLimits{
			Base: "world", Flange: "tool",
			MaxTransVel: 1, MaxTransAcc: 2, MaxRotVel: 1, MaxRotAcc: 2,
			Tolerance: 1e-3, RotTolerance: 1e-3, Workspace: 2,
		},
	}
}

func (d *device) Joint(name string) (JointLimits, error) {
	lim, ok := d.joints[name]
	if !ok {
		return lim, fmt.Errorf("%w: no joint '%s'", ErrLimits, name)
	}
	return lim, nil
}

func (d *device) Cartesian() (CartesianLimits, error) {
	if d.cartesian == nil {
		return CartesianLimits{}, fmt.Errorf("%w: no Cartesian limits", ErrLimits)
	}
	return *d.cartesian, nil
}

func (d *device) Position(joint string) expr.Expr { return expr.NewInput("pos."+joint, value.TypeDouble) }
func (d *device) Fault(string) expr.Expr          { return nil }
func (d *device) Pose() expr.Expr                 { return expr.NewRelation("world", "tool") }

type rig struct {
	t    *testing.T
	s    *mapper.Session
	c    *Compiler
	net  *network.Net
	frag *mapper.Fragment
}

func newRig(t *testing.T) *rig {
	t.Helper()
	ctx, _ := testutil.Context(t)
	reg := registry.New()
	reg.RegisterModules(&core.Module{}, &world.Module{}, &motion.Module{})
	return &rig{t: t, s: mapper.Default().NewSession(ctx, reg), c: NewCompiler(ctx)}
}

func (r *rig) build(a Action, env Env, feed map[string]any) {
	r.t.Helper()
	f, err := r.c.Build(r.s, a, env)
	require.NoError(r.t, err)
	r.frag = f
	r.net, err = r.s.Build(dt)
	require.NoError(r.t, err)
	r.feed(feed)
	require.NoError(r.t, r.net.Start())
}

func (r *rig) feed(values map[string]any) {
	r.t.Helper()
	inputs := r.s.Inputs()
	for name, v := range values {
		in, ok := inputs[name]
		require.True(r.t, ok, "no input %s", name)
		require.NoError(r.t, in.Feed(v))
	}
}

func (r *rig) step(n int) {
	r.t.Helper()
	for range n {
		require.NoError(r.t, r.net.Step())
	}
}

// until steps until the action completes and returns the number of cycles.
func (r *rig) until(max int) int {
	r.t.Helper()
	for i := 1; i <= max; i++ {
		r.step(1)
		if r.done() {
			return i
		}
	}
	r.t.Fatalf("not completed after %d cycles", max)
	return 0
}

func (r *rig) done() bool {
	v, ok := r.frag.Result.Any()
	require.True(r.t, ok, "completion is absent")
	return v.(bool)
}

func (r *rig) present(name string) bool {
	r.t.Helper()
	out, ok := r.frag.Output(name)
	require.True(r.t, ok, "no output %s", name)
	_, ok = out.Any()
	return ok
}

func (r *rig) double(name string) float64 {
	r.t.Helper()
	out, ok := r.frag.Output(name)
	require.True(r.t, ok, "no output %s", name)
	v, ok := out.Any()
	require.True(r.t, ok, "%s is absent", name)
	return v.(float64)
}

func (r *rig) flag(name string) bool {
	r.t.Helper()
	out, ok := r.frag.Output(name)
	require.True(r.t, ok, "no output %s", name)
	v, ok := out.Any()
	require.True(r.t, ok, "%s is absent", name)
	return v.(bool)
}

func TestJointGoalCompletes(t *testing.T) {
	r := newRig(t)
	r.build(&JointGoal{Joint: "a", Target: expr.Double(1)}, Env{Params: newDevice()}, map[string]any{"pos.a": 0.0})

	r.step(1)
	assert.False(t, r.done())
	for range 300 {
		r.step(1)
		require.LessOrEqual(t, math.Abs(r.double(VelocityOutput("a"))), 1+1e-9)
		if r.done() {
			break
		}
	}
	require.True(t, r.done())
	assert.InDelta(t, 1, r.double(PositionOutput("a")), 1e-3)
	assert.False(t, r.flag(ExceptionOutput(ExceptionJointLimit)))
	assert.False(t, r.flag(ExceptionOutput(ExceptionActuatorFault)))
}

func TestJointGoalStartsAtMeasuredPosition(t *testing.T) {
	r := newRig(t)
	r.build(&JointGoal{Joint: "a", Target: expr.Double(1)}, Env{Params: newDevice()}, map[string]any{"pos.a": 0.5})
	r.step(1)
	assert.InDelta(t, 0.5, r.double(PositionOutput("a")), 1e-3)

	// Later measurements do not pull the command back.
	r.feed(map[string]any{"pos.a": -1.0})
	r.step(1)
	assert.Greater(t, r.double(PositionOutput("a")), 0.5)
}

func TestJointGoalWaitsForFirstMeasurement(t *testing.T) {
	r := newRig(t)
	r.build(&JointGoal{Joint: "a", Target: expr.Double(1.5)}, Env{Params: newDevice()}, nil)
	r.step(1)
	assert.False(t, r.present(PositionOutput("a")))

	r.feed(map[string]any{"pos.a": 1.4})
	r.step(1)
	assert.InDelta(t, 1.4, r.double(PositionOutput("a")), 1e-3)

	r.until(300)
	assert.InDelta(t, 1.5, r.double(PositionOutput("a")), 1e-3)
}

func TestJointJogStopsOnCancel(t *testing.T) {
	r := newRig(t)
	env := Env{Params: newDevice(), Cancel: expr.NewInput("cancel", value.TypeBool)}
	r.build(&JointJog{Joint: "a", Velocity: expr.Double(0.5)}, env, map[string]any{"pos.a": 0.0, "cancel": false})

	r.step(100)
	assert.InDelta(t, 0.5, r.double(VelocityOutput("a")), 1e-9)
	assert.False(t, r.done())

	r.feed(map[string]any{"cancel": true})
	r.until(300)
	assert.InDelta(t, 0, r.double(VelocityOutput("a")), 1e-9)
}

func TestCancelledGoalCompletesWhenStopped(t *testing.T) {
	r := newRig(t)
	env := Env{Params: newDevice(), Cancel: expr.NewInput("cancel", value.TypeBool)}
	r.build(&JointGoal{Joint: "a", Target: expr.Double(1.9)}, env, map[string]any{"pos.a": -1.9, "cancel": false})

	r.step(50)
	r.feed(map[string]any{"cancel": true})
	r.until(300)
	assert.Less(t, r.double(PositionOutput("a")), 1.0)
}

func TestGoalLimits(t *testing.T) {
	ctx, _ := testutil.Context(t)
	c := NewCompiler(ctx)
	dev := newDevice()

	_, err := c.Compile(&JointGoal{Joint: "a", Target: expr.Double(3)}, Env{Params: dev})
	require.ErrorIs(t, err, ErrLimits)
	assert.Contains(t, err.Error(), "joint_goal")

	_, err = c.Compile(&JointGoal{Joint: "z", Target: expr.Double(0)}, Env{Params: dev})
	require.ErrorIs(t, err, ErrLimits)

	dev.joints["b"] = JointLimits{MinPos: -1, MaxPos: 1, MaxAcc: 1}
	_, err = c.Compile(&JointGoal{Joint: "b", Target: expr.Double(0)}, Env{Params: dev})
	require.ErrorIs(t, err, ErrLimits)

	_, err = c.Compile(&JointGoal{Joint: "a", Target: expr.Bool(true)}, Env{Params: dev})
	require.ErrorIs(t, err, mapper.ErrOperandType)

	_, err = c.Compile(&JointGoal{Joint: "a", Target: expr.Double(0)}, Env{})
	require.ErrorIs(t, err, ErrLimits)
}

func TestJointLimitException(t *testing.T) {
	r := newRig(t)
	target := expr.NewInput("target", value.TypeDouble)
	r.build(&JointGoal{Joint: "a", Target: target}, Env{Params: newDevice()}, map[string]any{"pos.a": 1.8, "target": 2.5})
	r.until(300)
	assert.True(t, r.flag(ExceptionOutput(ExceptionJointLimit)))
}

type hold struct{ joint string }

func (*hold) Kind() string { return "hold" }

func (h *hold) Compile(c *Compiler, env Env) (*Result, error) {
	return &Result{
		Joints:    map[string]JointCommand{h.joint: {Position: env.Params.Position(h.joint), Velocity: expr.Double(0)}},
		Completed: expr.Bool(true),
	}, nil
}

type unknown struct{}

func (unknown) Kind() string { return "unknown" }

func TestSelfCompilingAndUnknownActions(t *testing.T) {
	ctx, _ := testutil.Context(t)
	c := NewCompiler(ctx)

	r, err := c.Compile(&hold{joint: "a"}, Env{Params: newDevice()})
	require.NoError(t, err)
	assert.Contains(t, r.Joints, "a")

	_, err = c.Compile(unknown{}, Env{Params: newDevice()})
	require.ErrorIs(t, err, ErrUnknownAction)

	assert.Panics(t, func() { c.Register(&JointGoal{}, nil) })
}

func TestMultiJoint(t *testing.T) {
	r := newRig(t)
	a := &MultiJoint{Actions: []Action{
		&JointGoal{Joint: "a", Target: expr.Double(0.5)},
		&JointGoal{Joint: "b", Target: expr.Double(-1)},
	}}
	r.build(a, Env{Params: newDevice()}, map[string]any{"pos.a": 0.0, "pos.b": 0.0})

	names := make([]string, 0, len(r.frag.Outputs))
	for name := range r.frag.Outputs {
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{
		"joint.a.position", "joint.a.velocity", "joint.b.position", "joint.b.velocity",
		"exception.joint_limit", "exception.actuator_fault",
	}, names)

	r.until(400)
	// b travels further and finishes last.
	assert.InDelta(t, 0.5, r.double(PositionOutput("a")), 1e-3)
	assert.InDelta(t, -1, r.double(PositionOutput("b")), 1e-3)
}

func TestMultiJointRejectsSharedJoints(t *testing.T) {
	ctx, _ := testutil.Context(t)
	c := NewCompiler(ctx)
	_, err := c.Compile(&MultiJoint{Actions: []Action{
		&JointGoal{Joint: "a", Target: expr.Double(0.5)},
		&JointJog{Joint: "a", Velocity: expr.Double(1)},
	}}, Env{Params: newDevice()})
	require.ErrorIs(t, err, ErrIncompatible)

	_, err = c.Compile(&MultiJoint{}, Env{Params: newDevice()})
	require.ErrorIs(t, err, ErrIncompatible)
}

func TestSuperposition(t *testing.T) {
	r := newRig(t)
	offset := expr.NewInput("offset", value.TypeDouble)
	a := &Superposition{
		Inner:   &JointGoal{Joint: "a", Target: expr.Double(0.5)},
		Offsets: map[string]expr.Expr{"a": offset},
	}
	r.build(a, Env{Params: newDevice()}, map[string]any{"pos.a": 0.0, "offset": 0.25})
	r.until(300)
	assert.InDelta(t, 0.75, r.double(PositionOutput("a")), 1e-3)
	assert.False(t, r.flag(ExceptionOutput(ExceptionJointLimit)))

	r.feed(map[string]any{"offset": 1.75})
	r.step(1)
	assert.True(t, r.flag(ExceptionOutput(ExceptionJointLimit)))

	ctx, _ := testutil.Context(t)
	_, err := NewCompiler(ctx).Compile(&Superposition{
		Inner:   &JointGoal{Joint: "a", Target: expr.Double(0.5)},
		Offsets: map[string]expr.Expr{"b": expr.Double(1)},
	}, Env{Params: newDevice()})
	require.ErrorIs(t, err, ErrIncompatible)
}

func TestResyncBlendsOutTheGap(t *testing.T) {
	r := newRig(t)
	resume := expr.NewInput("resume", value.TypeBool)
	a := &Resync{Inner: &JointGoal{Joint: "a", Target: expr.Double(0)}, Resume: resume, Duration: 0.2}
	r.build(a, Env{Params: newDevice()}, map[string]any{"pos.a": 0.0, "resume": false})

	r.step(30)
	assert.True(t, r.done())
	assert.InDelta(t, 0, r.double(PositionOutput("a")), 1e-9)

	r.feed(map[string]any{"pos.a": 0.3, "resume": true})
	r.step(1)
	assert.InDelta(t, 0.3, r.double(PositionOutput("a")), 1e-9)
	assert.False(t, r.done())

	r.step(10)
	mid := r.double(PositionOutput("a"))
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 0.3)

	r.step(15)
	assert.InDelta(t, 0, r.double(PositionOutput("a")), 1e-9)
	assert.True(t, r.done())
}

func TestBlend(t *testing.T) {
	r := newRig(t)
	a := &Blend{
		From:     &JointGoal{Joint: "a", Target: expr.Double(0)},
		To:       &JointGoal{Joint: "a", Target: expr.Double(0.2)},
		Duration: 0.5,
	}
	r.build(a, Env{Params: newDevice()}, map[string]any{"pos.a": 0.0})

	r.step(1)
	assert.InDelta(t, 0, r.double(PositionOutput("a")), 1e-3)
	n := r.until(300)
	assert.GreaterOrEqual(t, n, 50)
	assert.InDelta(t, 0.2, r.double(PositionOutput("a")), 1e-3)

	ctx, _ := testutil.Context(t)
	_, err := NewCompiler(ctx).Compile(&Blend{
		From:     &JointGoal{Joint: "a", Target: expr.Double(0)},
		To:       &JointGoal{Joint: "b", Target: expr.Double(0)},
		Duration: 1,
	}, Env{Params: newDevice()})
	require.ErrorIs(t, err, ErrIncompatible)
}

func TestBlendFollowsGlobalTime(t *testing.T) {
	r := newRig(t)
	a := &Blend{
		From:     &JointGoal{Joint: "a", Target: expr.Double(0)},
		To:       &JointGoal{Joint: "a", Target: expr.Double(0.2)},
		Duration: 0.5,
	}
	env := Env{Params: newDevice(), Time: expr.NewInput("time", value.TypeDouble)}
	r.build(a, env, map[string]any{"pos.a": 0.0})

	r.step(100)
	_, ok := r.frag.Result.Any()
	assert.False(t, ok, "no completion without a global time")
	assert.False(t, r.present(PositionOutput("a")))

	r.feed(map[string]any{"time": 10.0})
	r.step(1)
	assert.InDelta(t, 0, r.double(PositionOutput("a")), 1e-9)

	r.feed(map[string]any{"time": 10.25})
	r.step(1)
	mid := r.double(PositionOutput("a"))
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 0.2)

	// the blend stands still with the global time
	r.step(100)
	assert.False(t, r.done())
	assert.InDelta(t, mid, r.double(PositionOutput("a")), 1e-9)

	r.feed(map[string]any{"time": 10.5})
	r.step(1)
	assert.True(t, r.done())
	assert.InDelta(t, 0.2, r.double(PositionOutput("a")), 1e-3)
}

func TestResyncFollowsGlobalTime(t *testing.T) {
	r := newRig(t)
	resume := expr.NewInput("resume", value.TypeBool)
	a := &Resync{Inner: &JointGoal{Joint: "a", Target: expr.Double(0)}, Resume: resume, Duration: 0.2}
	env := Env{Params: newDevice(), Time: expr.NewInput("time", value.TypeDouble)}
	r.build(a, env, map[string]any{"pos.a": 0.0, "resume": false, "time": 0.0})
	r.step(1)
	r.feed(map[string]any{"time": 1.0})
	r.step(1)
	assert.True(t, r.done())

	r.feed(map[string]any{"pos.a": 0.3, "resume": true})
	r.step(50)
	assert.InDelta(t, 0.3, r.double(PositionOutput("a")), 1e-9)
	assert.False(t, r.done())

	r.feed(map[string]any{"time": 1.5})
	r.step(1)
	assert.InDelta(t, 0, r.double(PositionOutput("a")), 1e-9)
	assert.True(t, r.done())
}

func TestGlobalTimeMustBeDouble(t *testing.T) {
	ctx, _ := testutil.Context(t)
	_, err := NewCompiler(ctx).Compile(&JointGoal{Joint: "a", Target: expr.Double(0)},
		Env{Params: newDevice(), Time: expr.Bool(true)})
	require.ErrorIs(t, err, mapper.ErrOperandType)
}

func TestCartesianGoal(t *testing.T) {
	r := newRig(t)
	target := expr.ConstOf(value.Frame{Pos: value.Vector{X: 0.3}, Rot: value.Identity()})
	r.build(&CartesianGoal{Target: target}, Env{Params: newDevice()}, map[string]any{"world->tool": value.IdentityFrame()})

	r.until(300)
	out, ok := r.frag.Output(FrameOutput)
	require.True(t, ok)
	v, ok := out.Any()
	require.True(t, ok)
	assert.InDelta(t, 0.3, v.(value.Frame).Pos.X, 1e-3)
	assert.False(t, r.flag(ExceptionOutput(ExceptionWorkspace)))
}

func TestCartesianGoalChecksFrames(t *testing.T) {
	ctx, _ := testutil.Context(t)
	c := NewCompiler(ctx)

	_, err := c.Compile(&CartesianGoal{Target: expr.NewRelation("camera", "tool")}, Env{Params: newDevice()})
	require.ErrorIs(t, err, mapper.ErrFrameMismatch)

	_, err = c.Compile(&CartesianGoal{Target: expr.NewRelation("world", "tool")}, Env{Params: newDevice()})
	require.NoError(t, err)

	dev := newDevice()
	dev.cartesian = nil
	_, err = c.Compile(&CartesianGoal{Target: expr.NewRelation("world", "tool")}, Env{Params: dev})
	require.ErrorIs(t, err, ErrLimits)
}
