package action

import (
	"fmt"

	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/value"
)

// MultiJoint runs several actions at once. It is complete when all of them
// are; an exception is raised when any of them raises it.
type MultiJoint struct {
	Actions []Action
}

func (*MultiJoint) Kind() string { return "multi_joint" }

// Superposition adds Offsets to the joint positions commanded by Inner and
// composes the Cartesian command of Inner with Frame, when set.
type Superposition struct {
	Inner   Action
	Offsets map[string]expr.Expr
	Frame   expr.Expr
}

func (*Superposition) Kind() string { return "superposition" }

// Resync corrects the difference between the measured position and the
// command of Inner after an interruption. The difference is taken when the
// action starts and whenever Resume turns true, then blended out over
// Duration seconds.
type Resync struct {
	Inner    Action
	Resume   expr.Expr
	Duration float64
}

func (*Resync) Kind() string { return "resync" }

// Blend cross-fades the joint commands of From into those of To over
// Duration seconds. Both must move the same joints.
type Blend struct {
	From, To Action
	Duration float64
}

func (*Blend) Kind() string { return "blend" }

func compileMultiJoint(c *Compiler, a *MultiJoint, env Env) (*Result, error) {
	if len(a.Actions) == 0 {
		return nil, fmt.Errorf("%w: nothing to run", ErrIncompatible)
	}
	out := &Result{Joints: make(map[string]JointCommand)}
	done := make([]expr.Expr, 0, len(a.Actions))
	results := make([]*Result, 0, len(a.Actions))
	for _, inner := range a.Actions {
		r, err := c.Compile(inner, env)
		if err != nil {
			return nil, err
		}
		if r.Cartesian() {
			if out.Cartesian() {
				return nil, fmt.Errorf("%w: two Cartesian actions", ErrIncompatible)
			}
			out.Frame, out.Twist = r.Frame, r.Twist
		}
		for j, cmd := range r.Joints {
			if _, dup := out.Joints[j]; dup {
				return nil, fmt.Errorf("%w: joint '%s' moved twice", ErrIncompatible, j)
			}
			out.Joints[j] = cmd
		}
		done = append(done, r.Completed)
		results = append(results, r)
	}
	out.Completed = expr.And(done...)
	out.Exceptions = mergeExceptions(results...)
	return out, nil
}

func compileSuperposition(c *Compiler, a *Superposition, env Env) (*Result, error) {
	inner, err := c.Compile(a.Inner, env)
	if err != nil {
		return nil, err
	}
	out := &Result{
		Joints:     make(map[string]JointCommand, len(inner.Joints)),
		Frame:      inner.Frame,
		Twist:      inner.Twist,
		Completed:  inner.Completed,
		Exceptions: mergeExceptions(inner),
	}
	for j, cmd := range inner.Joints {
		out.Joints[j] = cmd
	}

	var violations []expr.Expr
	for _, j := range sortedKeys(a.Offsets) {
		cmd, ok := inner.Joints[j]
		if !ok {
			return nil, fmt.Errorf("%w: offset for joint '%s' the inner action does not move", ErrIncompatible, j)
		}
		lim, err := jointLimits(env, j)
		if err != nil {
			return nil, err
		}
		pos := expr.Add(cmd.Position, a.Offsets[j])
		out.Joints[j] = JointCommand{Position: pos, Velocity: cmd.Velocity}
		violations = append(violations, outOfRange(pos, lim))
	}
	if len(violations) > 0 {
		out.Exceptions[ExceptionJointLimit] = orWith(out.Exceptions[ExceptionJointLimit], violations...)
	}

	if a.Frame != nil {
		if !inner.Cartesian() {
			return nil, fmt.Errorf("%w: frame offset on a joint space action", ErrIncompatible)
		}
		if a.Frame.Type() != value.TypeFrame {
			return nil, fmt.Errorf("%w: frame offset must be a frame", ErrIncompatible)
		}
		out.Frame = &expr.Compose{A: inner.Frame, B: a.Frame}
	}
	return out, nil
}

func compileResync(c *Compiler, a *Resync, env Env) (*Result, error) {
	if !(a.Duration > 0) {
		return nil, fmt.Errorf("%w: resync duration must be positive, got %v", ErrLimits, a.Duration)
	}
	inner, err := c.Compile(a.Inner, env)
	if err != nil {
		return nil, err
	}
	if inner.Cartesian() {
		return nil, fmt.Errorf("%w: resync of a Cartesian action", ErrIncompatible)
	}

	restart := env.first
	if a.Resume != nil {
		restart = expr.Or(env.first, &expr.Edge{X: a.Resume, Rising: true})
	}
	fade := ramp(elapsed(env, restart), a.Duration)
	remaining := expr.Sub(expr.Double(1), fade)

	out := &Result{
		Joints:     make(map[string]JointCommand, len(inner.Joints)),
		Completed:  expr.And(inner.Completed, expr.Ge(fade, expr.Double(1))),
		Exceptions: mergeExceptions(inner),
	}
	for _, j := range sortedKeys(inner.Joints) {
		cmd := inner.Joints[j]
		gap := &expr.Snapshot{X: expr.Sub(env.Params.Position(j), cmd.Position), Take: restart}
		out.Joints[j] = JointCommand{
			Position: expr.Add(cmd.Position, expr.Mul(gap, remaining)),
			Velocity: cmd.Velocity,
		}
	}
	return out, nil
}

func compileBlend(c *Compiler, a *Blend, env Env) (*Result, error) {
	if !(a.Duration > 0) {
		return nil, fmt.Errorf("%w: blend duration must be positive, got %v", ErrLimits, a.Duration)
	}
	from, err := c.Compile(a.From, env)
	if err != nil {
		return nil, err
	}
	to, err := c.Compile(a.To, env)
	if err != nil {
		return nil, err
	}
	if from.Cartesian() || to.Cartesian() {
		return nil, fmt.Errorf("%w: blend of Cartesian actions", ErrIncompatible)
	}
	if len(from.Joints) != len(to.Joints) {
		return nil, fmt.Errorf("%w: blend between %d and %d joints", ErrIncompatible, len(from.Joints), len(to.Joints))
	}

	w := ramp(elapsed(env, env.first), a.Duration)
	mix := func(x, y expr.Expr) expr.Expr { return expr.Add(x, expr.Mul(expr.Sub(y, x), w)) }
	out := &Result{
		Joints:     make(map[string]JointCommand, len(to.Joints)),
		Completed:  expr.And(to.Completed, expr.Ge(w, expr.Double(1))),
		Exceptions: mergeExceptions(from, to),
	}
	for _, j := range sortedKeys(to.Joints) {
		f, ok := from.Joints[j]
		if !ok {
			return nil, fmt.Errorf("%w: joint '%s' only in the target action", ErrIncompatible, j)
		}
		t := to.Joints[j]
		out.Joints[j] = JointCommand{Position: mix(f.Position, t.Position), Velocity: mix(f.Velocity, t.Velocity)}
	}
	return out, nil
}

// elapsed is the global time passed since restart was last true, or since
// the global time was first present if that came later.
func elapsed(env Env, restart expr.Expr) expr.Expr {
	start := &expr.Snapshot{X: env.Time, Take: expr.Or(restart, unseen(env.Time))}
	return expr.Sub(env.Time, start)
}

// ramp rises smoothly from 0 to 1 while t goes from 0 to duration.
func ramp(t expr.Expr, duration float64) expr.Expr {
	return &expr.Rampify{X: &expr.Interval{X: t, Min: 0, Max: duration}}
}

func mergeExceptions(results ...*Result) map[string]expr.Expr {
	byName := make(map[string][]expr.Expr)
	for _, r := range results {
		for _, name := range sortedKeys(r.Exceptions) {
			byName[name] = append(byName[name], r.Exceptions[name])
		}
	}
	out := make(map[string]expr.Expr, len(byName))
	for name, es := range byName {
		out[name] = orWith(nil, es...)
	}
	return out
}

// orWith is the disjunction of e and es, skipping a nil e.
func orWith(e expr.Expr, es ...expr.Expr) expr.Expr {
	if e != nil {
		es = append([]expr.Expr{e}, es...)
	}
	if len(es) == 1 {
		return es[0]
	}
	return expr.Or(es...)
}
