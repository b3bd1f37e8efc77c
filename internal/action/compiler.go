package action

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/mapper"
	"github.com/vk/rtnet/internal/value"
)

// Factory compiles one action type.
type Factory func(c *Compiler, a Action, env Env) (*Result, error)

// SelfCompiling is implemented by actions that compile themselves.
type SelfCompiling interface {
	Action
	Compile(c *Compiler, env Env) (*Result, error)
}

// Compiler maps action types to factories.
type Compiler struct {
	ctx       context.Context
	factories map[reflect.Type]Factory
}

// NewCompiler returns a compiler for every action of this package.
func NewCompiler(ctx context.Context) *Compiler {
	c := &Compiler{ctx: ctx, factories: make(map[reflect.Type]Factory)}
	c.Register(&JointGoal{}, goal(compileJointGoal))
	c.Register(&JointJog{}, goal(compileJointJog))
	c.Register(&CartesianGoal{}, goal(compileCartesianGoal))
	c.Register(&MultiJoint{}, goal(compileMultiJoint))
	c.Register(&Superposition{}, goal(compileSuperposition))
	c.Register(&Resync{}, goal(compileResync))
	c.Register(&Blend{}, goal(compileBlend))
	return c
}

func goal[A Action](fn func(c *Compiler, a A, env Env) (*Result, error)) Factory {
	return func(c *Compiler, a Action, env Env) (*Result, error) { return fn(c, a.(A), env) }
}

// Register sets the factory for the type of a. Registering a type twice is
// a programming error and panics.
func (c *Compiler) Register(a Action, f Factory) {
	t := reflect.TypeOf(a)
	if _, exists := c.factories[t]; exists {
		panic(fmt.Sprintf("factory for action %s already registered", t))
	}
	slog.Debug("Registering action factory.", "action", t.String())
	c.factories[t] = f
}

// Compile turns a into expressions.
func (c *Compiler) Compile(a Action, env Env) (*Result, error) {
	if env.Params == nil {
		return nil, fmt.Errorf("%w: no device parameters", ErrLimits)
	}
	if env.Cancel == nil {
		env.Cancel = expr.Bool(false)
	}
	if env.Override == nil {
		env.Override = expr.Double(1)
	}
	if env.Time == nil {
		env.Time = &expr.Clock{}
	} else if env.Time.Type() != value.TypeDouble {
		return nil, fmt.Errorf("%w: global time must be a double", mapper.ErrOperandType)
	}
	if env.first == nil {
		env.first = expr.FirstCycle()
	}

	var r *Result
	var err error
	if f, ok := c.factories[reflect.TypeOf(a)]; ok {
		r, err = f(c, a, env)
	} else if sc, ok := a.(SelfCompiling); ok {
		r, err = sc.Compile(c, env)
	} else {
		return nil, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Kind(), err)
	}
	ctxlog.FromContext(c.ctx).Debug("Compiled action.",
		"action", a.Kind(), "joints", len(r.Joints), "cartesian", r.Cartesian(), "exceptions", len(r.Exceptions))
	return r, nil
}

// PositionOutput names the fragment output commanding a joint's position.
func PositionOutput(joint string) string { return "joint." + joint + ".position" }

// VelocityOutput names the fragment output commanding a joint's velocity.
func VelocityOutput(joint string) string { return "joint." + joint + ".velocity" }

// ExceptionOutput names the fragment output of an exception.
func ExceptionOutput(name string) string { return "exception." + name }

const (
	FrameOutput = "frame"
	TwistOutput = "twist"
)

// Build compiles a into s. The fragment's result is Completed; the
// commands and exceptions are named outputs.
func (c *Compiler) Build(s *mapper.Session, a Action, env Env) (*mapper.Fragment, error) {
	r, err := c.Compile(a, env)
	if err != nil {
		return nil, err
	}
	named := make(map[string]expr.Expr)
	for j, cmd := range r.Joints {
		named[PositionOutput(j)] = cmd.Position
		named[VelocityOutput(j)] = cmd.Velocity
	}
	if r.Cartesian() {
		named[FrameOutput] = r.Frame
		named[TwistOutput] = r.Twist
	}
	for name, e := range r.Exceptions {
		named[ExceptionOutput(name)] = e
	}

	done, err := s.Compile(r.Completed)
	if err != nil {
		return nil, fmt.Errorf("%s: completion: %w", a.Kind(), err)
	}
	outputs := make(map[string]*mapper.Fragment, len(named))
	for _, name := range sortedKeys(named) {
		f, err := s.Compile(named[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", a.Kind(), name, err)
		}
		outputs[name] = f
	}
	return s.Group(done, outputs), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
