package action

import (
	"fmt"
	"math"

	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/mapper"
	"github.com/vk/rtnet/internal/value"
)

// settled is the override below which a cancelled motion counts as stopped.
const settled = 1e-9

// JointGoal moves one joint to Target, which may change while the action
// runs. A zero Tolerance uses the joint's own.
type JointGoal struct {
	Joint     string
	Target    expr.Expr
	Tolerance float64
}

func (*JointGoal) Kind() string { return "joint_goal" }

// JointJog moves one joint at Velocity until cancelled.
type JointJog struct {
	Joint    string
	Velocity expr.Expr
}

func (*JointJog) Kind() string { return "joint_jog" }

// CartesianGoal moves the flange to Target, a frame relative to the base.
// Zero tolerances use the device's own.
type CartesianGoal struct {
	Target       expr.Expr
	Tolerance    float64
	RotTolerance float64
}

func (*CartesianGoal) Kind() string { return "cartesian_goal" }

// override is the requested override scaled down by the cancel signal
// averaged over brake seconds.
func override(env Env, brake float64) expr.Expr {
	cancel := &expr.Average{X: &expr.Convert{X: env.Cancel, To: value.TypeDouble}, Duration: brake}
	return expr.Mul(env.Override, expr.Sub(expr.Double(1), cancel))
}

// completed is arrived, or cancelled with the override settled to zero.
func completed(env Env, arrived, ov expr.Expr) expr.Expr {
	return expr.Or(arrived, expr.And(env.Cancel, expr.Le(ov, expr.Double(settled))))
}

// untilMeasured is e up to and including the first cycle it is present,
// and absent afterwards. The motion starts from the first real
// measurement and then follows its own command.
func untilMeasured(e expr.Expr) expr.Expr {
	return &expr.Cond{If: unseen(e), Then: e}
}

// unseen is true up to and including the first cycle e is present.
func unseen(e expr.Expr) expr.Expr {
	seen := &expr.Trigger{On: &expr.Not{X: &expr.IsNull{X: e}}, Off: expr.Bool(false)}
	return &expr.Not{X: &expr.Previous{X: seen, Initial: false}}
}

func jointLimits(env Env, joint string) (JointLimits, error) {
	lim, err := env.Params.Joint(joint)
	if err != nil {
		return lim, err
	}
	if !(lim.MaxVel > 0) || !(lim.MaxAcc > 0) {
		return lim, fmt.Errorf("%w: joint '%s' needs positive velocity and acceleration limits", ErrLimits, joint)
	}
	if lim.MinPos > lim.MaxPos {
		return lim, fmt.Errorf("%w: joint '%s' minimum %v above maximum %v", ErrLimits, joint, lim.MinPos, lim.MaxPos)
	}
	return lim, nil
}

func outOfRange(pos expr.Expr, lim JointLimits) expr.Expr {
	return expr.Or(expr.Lt(pos, expr.Double(lim.MinPos)), expr.Gt(pos, expr.Double(lim.MaxPos)))
}

func fault(env Env, joint string) expr.Expr {
	if f := env.Params.Fault(joint); f != nil {
		return f
	}
	return expr.Bool(false)
}

func compileJointGoal(c *Compiler, a *JointGoal, env Env) (*Result, error) {
	lim, err := jointLimits(env, a.Joint)
	if err != nil {
		return nil, err
	}
	if a.Target == nil || a.Target.Type() != value.TypeDouble {
		return nil, fmt.Errorf("%w: target of joint '%s' must be a double", mapper.ErrOperandType, a.Joint)
	}
	if k, ok := a.Target.(*expr.Const); ok {
		if v, _ := k.Value.(float64); v < lim.MinPos || v > lim.MaxPos {
			return nil, fmt.Errorf("%w: target %v of joint '%s' outside [%v, %v]", ErrLimits, v, a.Joint, lim.MinPos, lim.MaxPos)
		}
	}
	tol := a.Tolerance
	if tol <= 0 {
		tol = lim.Tolerance
	}

	ov := override(env, lim.MaxVel/lim.MaxAcc)
	otg := &expr.OTG{
		Dest:     a.Target,
		Override: ov,
		Current:  untilMeasured(env.Params.Position(a.Joint)),
		MaxVel:   lim.MaxVel,
		MaxAcc:   lim.MaxAcc,
	}
	vel := expr.NewOutput(otg, "velocity", value.TypeDouble)
	arrived := expr.And(
		&expr.Equals{A: otg, B: a.Target, Epsilon: tol},
		expr.Le(expr.Abs(vel), expr.Double(tol)),
	)
	return &Result{
		Joints:    map[string]JointCommand{a.Joint: {Position: otg, Velocity: vel}},
		Completed: completed(env, arrived, ov),
		Exceptions: map[string]expr.Expr{
			ExceptionJointLimit:    outOfRange(otg, lim),
			ExceptionActuatorFault: fault(env, a.Joint),
		},
	}, nil
}

func compileJointJog(c *Compiler, a *JointJog, env Env) (*Result, error) {
	lim, err := jointLimits(env, a.Joint)
	if err != nil {
		return nil, err
	}
	if a.Velocity == nil || a.Velocity.Type() != value.TypeDouble {
		return nil, fmt.Errorf("%w: velocity of joint '%s' must be a double", mapper.ErrOperandType, a.Joint)
	}

	ov := override(env, lim.MaxVel/lim.MaxAcc)
	otg := &expr.OTG{
		Dest:     a.Velocity,
		Override: ov,
		Current:  untilMeasured(env.Params.Position(a.Joint)),
		MaxVel:   lim.MaxVel,
		MaxAcc:   lim.MaxAcc,
		Velocity: true,
	}
	vel := expr.NewOutput(otg, "velocity", value.TypeDouble)
	stopped := expr.Le(expr.Abs(vel), expr.Double(settled))
	return &Result{
		Joints:    map[string]JointCommand{a.Joint: {Position: otg, Velocity: vel}},
		Completed: expr.And(env.Cancel, stopped),
		Exceptions: map[string]expr.Expr{
			ExceptionJointLimit:    outOfRange(otg, lim),
			ExceptionActuatorFault: fault(env, a.Joint),
		},
	}, nil
}

func compileCartesianGoal(c *Compiler, a *CartesianGoal, env Env) (*Result, error) {
	lim, err := env.Params.Cartesian()
	if err != nil {
		return nil, err
	}
	for _, l := range []float64{lim.MaxTransVel, lim.MaxTransAcc, lim.MaxRotVel, lim.MaxRotAcc} {
		if !(l > 0) {
			return nil, fmt.Errorf("%w: Cartesian velocity and acceleration limits must be positive", ErrLimits)
		}
	}
	if a.Target == nil || a.Target.Type() != value.TypeFrame {
		return nil, fmt.Errorf("%w: Cartesian target must be a frame", mapper.ErrOperandType)
	}
	if from, to, ok := expr.Frames(a.Target); ok && (from != lim.Base || to != lim.Flange) {
		return nil, fmt.Errorf("%w: target is %s->%s, the device moves %s->%s",
			mapper.ErrFrameMismatch, from, to, lim.Base, lim.Flange)
	}
	tol, rotTol := a.Tolerance, a.RotTolerance
	if tol <= 0 {
		tol = lim.Tolerance
	}
	if rotTol <= 0 {
		rotTol = lim.RotTolerance
	}

	ov := override(env, math.Max(lim.MaxTransVel/lim.MaxTransAcc, lim.MaxRotVel/lim.MaxRotAcc))
	otg := &expr.FrameOTG{
		Dest:        a.Target,
		Override:    ov,
		Current:     untilMeasured(env.Params.Pose()),
		MaxTransVel: lim.MaxTransVel,
		MaxTransAcc: lim.MaxTransAcc,
		MaxRotVel:   lim.MaxRotVel,
		MaxRotAcc:   lim.MaxRotAcc,
	}
	twist := expr.NewOutput(otg, "velocity", value.TypeTwist)
	dist := &expr.Distance{A: otg, B: a.Target}
	arrived := expr.And(
		expr.Le(dist, expr.Double(tol)),
		expr.Le(expr.NewOutput(dist, "rot", value.TypeDouble), expr.Double(rotTol)),
	)

	workspace := expr.Expr(expr.Bool(false))
	if lim.Workspace > 0 {
		workspace = expr.Gt(&expr.Norm{V: &expr.FramePos{F: otg}}, expr.Double(lim.Workspace))
	}
	return &Result{
		Frame:      otg,
		Twist:      twist,
		Completed:  completed(env, arrived, ov),
		Exceptions: map[string]expr.Expr{ExceptionWorkspace: workspace},
	}, nil
}
