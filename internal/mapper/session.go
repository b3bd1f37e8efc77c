package mapper

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/registry"
	"github.com/vk/rtnet/internal/value"
)

// Session compiles expressions into one set of primitives. It is not safe
// for concurrent use.
type Session struct {
	ctx      context.Context
	compiler *Compiler
	reg      *registry.Registry
	cache    map[expr.Expr]*Fragment
	inputs   map[string]*input
	prims    []namedPrimitive
	conns    []network.Connection
	built    bool
}

type namedPrimitive struct {
	name string
	p    network.Primitive
}

type input struct {
	source network.Feeder
	frag   *Fragment
}

// Wire connects the result of From to the input Port. A nil From leaves
// the port unconnected.
type Wire struct {
	Port string
	From expr.Expr
}

// Spec describes a fragment built from a single primitive.
type Spec struct {
	Kind   string
	Params map[string]any
	Inputs []Wire
	// Result is the output carrying the node's value, "outValue" if empty.
	Result string
	// Extra maps fragment output names to further output ports.
	Extra map[string]string
}

// Compile returns the fragment of e, compiling it and its operands on
// first use.
func (s *Session) Compile(e expr.Expr) (*Fragment, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil expression", ErrOperandType)
	}
	if f, ok := s.cache[e]; ok {
		return f, nil
	}
	if s.built {
		return nil, ErrBuilt
	}
	factory, ok := s.compiler.factory(e)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, describe(e))
	}
	if e.Type() == value.TypeInvalid {
		return nil, fmt.Errorf("%w: %s", ErrOperandType, s.operandTypes(e))
	}

	f, err := factory(s, e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", describe(e), err)
	}
	f.Expr = e
	s.cache[e] = f
	ctxlog.FromContext(s.ctx).Debug("Compiled expression node.",
		"node", describe(e), "type", f.Type().String(), "primitives", len(f.Primitives))
	return f, nil
}

func (s *Session) operandTypes(e expr.Expr) string {
	ops := e.Operands()
	types := make([]string, len(ops))
	for i, op := range ops {
		types[i] = op.Type().String()
	}
	return fmt.Sprintf("%s cannot take operands (%s)", describe(e), strings.Join(types, ", "))
}

// New creates a primitive of kind with the given parameters. It becomes
// part of the net built by Build.
func (s *Session) New(kind string, params map[string]any) (network.Primitive, error) {
	if s.built {
		return nil, ErrBuilt
	}
	p, err := s.reg.New(kind)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		prm, ok := p.Param(name)
		if !ok {
			return nil, fmt.Errorf("%s has no parameter '%s'", kind, name)
		}
		if err := prm.SetAny(params[name]); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
	}
	if err := network.Configure(p); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	s.add(kind, p)
	return p, nil
}

// Add makes p part of the net built by Build under the given name. Names
// given here must not contain '#'.
func (s *Session) Add(name string, p network.Primitive) error {
	if s.built {
		return ErrBuilt
	}
	if strings.Contains(name, "#") {
		return fmt.Errorf("primitive name '%s' must not contain '#'", name)
	}
	s.prims = append(s.prims, namedPrimitive{name: name, p: p})
	return nil
}

func (s *Session) add(kind string, p network.Primitive) {
	short := kind[strings.LastIndex(kind, ":")+1:]
	s.prims = append(s.prims, namedPrimitive{name: fmt.Sprintf("%s#%d", short, len(s.prims)), p: p})
}

// Connect records a connection from out to the named input of p.
func (s *Session) Connect(out network.OutputPort, p network.Primitive, port string) error {
	in, ok := p.Input(port)
	if !ok {
		return fmt.Errorf("%s has no input '%s'", p.Kind(), port)
	}
	if out.Type() != in.Type() {
		return fmt.Errorf("%w: %s input '%s' takes %s, got %s", ErrOperandType, p.Kind(), port, in.Type(), out.Type())
	}
	s.conns = append(s.conns, network.Connection{From: out, To: in})
	return nil
}

// Operand compiles e and connects its result to the named input of p.
func (s *Session) Operand(e expr.Expr, p network.Primitive, port string) (*Fragment, error) {
	f, err := s.Compile(e)
	if err != nil {
		return nil, err
	}
	if err := s.Connect(f.Result, p, port); err != nil {
		return nil, err
	}
	return f, nil
}

// Single builds the fragment of e from one primitive described by spec.
func (s *Session) Single(e expr.Expr, spec Spec) (*Fragment, error) {
	p, err := s.New(spec.Kind, spec.Params)
	if err != nil {
		return nil, err
	}
	f := &Fragment{Primitives: []network.Primitive{p}}
	for _, w := range spec.Inputs {
		if w.From == nil {
			continue
		}
		dep, err := s.Operand(w.From, p, w.Port)
		if err != nil {
			return nil, err
		}
		f.Deps = append(f.Deps, dep)
	}

	result := spec.Result
	if result == "" {
		result = "outValue"
	}
	out, ok := p.Output(result)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no output '%s'", ErrNoOutput, spec.Kind, result)
	}
	f.Result = out
	for name, port := range spec.Extra {
		o, ok := p.Output(port)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no output '%s'", ErrNoOutput, spec.Kind, port)
		}
		if f.Outputs == nil {
			f.Outputs = make(map[string]network.OutputPort)
		}
		f.Outputs[name] = o
	}
	return f, nil
}

// Group makes a fragment whose result is that of result and whose outputs
// are the results of outputs. It adds no primitives.
func (s *Session) Group(result *Fragment, outputs map[string]*Fragment) *Fragment {
	g := &Fragment{
		Result:  result.Result,
		Outputs: make(map[string]network.OutputPort, len(outputs)),
		Deps:    []*Fragment{result},
	}
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g.Outputs[name] = outputs[name].Result
		g.Deps = append(g.Deps, outputs[name])
	}
	return g
}

// input returns the fragment of the named input, creating its source on
// first use.
func (s *Session) input(name string, t value.Type) (*Fragment, error) {
	if in, ok := s.inputs[name]; ok {
		if in.frag.Type() != t {
			return nil, fmt.Errorf("%w: input '%s' is %s, used as %s", ErrOperandType, name, in.frag.Type(), t)
		}
		return in.frag, nil
	}
	src, err := network.NewSourceOf(t)
	if err != nil {
		return nil, err
	}
	s.add(src.Kind(), src)
	f := &Fragment{Result: src.Port(), Primitives: []network.Primitive{src}, input: name}
	s.inputs[name] = &input{source: src, frag: f}
	return f, nil
}

// Inputs returns the sources of all named inputs compiled so far. Feed
// them between cycles.
func (s *Session) Inputs() map[string]network.Feeder {
	out := make(map[string]network.Feeder, len(s.inputs))
	for name, in := range s.inputs {
		out[name] = in.source
	}
	return out
}

// PrimitiveCount is the number of primitives created so far.
func (s *Session) PrimitiveCount() int { return len(s.prims) }

// Build adds every primitive and connection to a new net with the given
// cycle time. The session cannot compile anything afterwards.
func (s *Session) Build(cycleTime float64) (*network.Net, error) {
	if s.built {
		return nil, ErrBuilt
	}
	n := network.New(cycleTime)
	for _, np := range s.prims {
		if err := n.Add(np.name, np.p); err != nil {
			return nil, err
		}
	}
	for _, c := range s.conns {
		if err := n.Connect(c.From, c.To); err != nil {
			return nil, err
		}
	}
	s.built = true
	ctxlog.FromContext(s.ctx).Info("Built net from expressions.",
		"primitives", len(s.prims), "connections", len(s.conns), "inputs", len(s.inputs))
	return n, nil
}
