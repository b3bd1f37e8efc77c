package netfile

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/exprhcl"
	"github.com/vk/rtnet/internal/mapper"
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/portref"
	"github.com/vk/rtnet/internal/registry"
	"github.com/vk/rtnet/internal/runner"
	"github.com/vk/rtnet/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrCycle is returned when named expressions refer to each other in a
// loop. Loops in a net need a feedback primitive such as previous().
var ErrCycle = errors.New("expressions refer to each other in a cycle")

// Program is a built network description.
type Program struct {
	Net    *network.Net
	Inputs map[string]network.Feeder
	Probes []runner.Probe
	// Stop is the port named by stop_when, or nil.
	Stop network.OutputPort
}

// Job returns a runner job for p.
func (p *Program) Job(name string, cycles int64, realtime bool) runner.Job {
	return runner.Job{
		Name:     name,
		Net:      p.Net,
		Probes:   p.Probes,
		Stop:     p.Stop,
		Cycles:   cycles,
		Realtime: realtime,
	}
}

type builder struct {
	ctx   context.Context
	reg   *registry.Registry
	s     *mapper.Session
	types map[string]value.Type

	sources   map[string]*Expression
	converted map[string]expr.Expr
	resolving map[string]bool

	frags map[string]*mapper.Fragment
	prims map[string]network.Primitive
}

// Build compiles f with the primitives registered in reg.
func Build(ctx context.Context, reg *registry.Registry, f *File) (*Program, error) {
	b := &builder{
		ctx:       ctx,
		reg:       reg,
		s:         mapper.Default().NewSession(ctx, reg),
		types:     make(map[string]value.Type),
		sources:   make(map[string]*Expression),
		converted: make(map[string]expr.Expr),
		resolving: make(map[string]bool),
		frags:     make(map[string]*mapper.Fragment),
		prims:     make(map[string]network.Primitive),
	}

	if err := b.declare(f); err != nil {
		return nil, err
	}
	for _, in := range f.Inputs {
		if _, err := b.s.Compile(expr.NewInput(in.Name, b.types[in.Name])); err != nil {
			return nil, fmt.Errorf("input '%s': %w", in.Name, err)
		}
	}
	for _, e := range f.Expressions {
		x, err := b.resolve(e.Name)
		if err != nil {
			return nil, err
		}
		frag, err := b.s.Compile(x)
		if err != nil {
			return nil, fmt.Errorf("expression '%s': %w", e.Name, err)
		}
		b.frags[e.Name] = frag
	}
	for _, p := range f.Primitives {
		if err := b.primitive(p); err != nil {
			return nil, fmt.Errorf("primitive '%s': %w", p.Name, err)
		}
	}
	for _, p := range f.Primitives {
		if err := b.wire(p); err != nil {
			return nil, fmt.Errorf("primitive '%s': %w", p.Name, err)
		}
	}

	prog := &Program{}
	for _, raw := range f.Probes {
		ref, out, err := b.port(raw)
		if err != nil {
			return nil, fmt.Errorf("probe: %w", err)
		}
		prog.Probes = append(prog.Probes, runner.Probe{Name: raw, Port: out, Index: ref.Index})
	}
	if f.StopWhen != "" {
		ref, out, err := b.port(f.StopWhen)
		if err != nil {
			return nil, fmt.Errorf("stop_when: %w", err)
		}
		if ref.HasIndex() || out.Type() != value.TypeBool {
			return nil, fmt.Errorf("stop_when: %s must be a bool port", f.StopWhen)
		}
		prog.Stop = out
	}

	n, err := b.s.Build(f.CycleTime)
	if err != nil {
		return nil, err
	}
	prog.Net = n
	prog.Inputs = b.s.Inputs()
	for _, in := range f.Inputs {
		if in.Value.IsNull() {
			continue
		}
		v, err := inputValue(b.types[in.Name], in.Value)
		if err != nil {
			return nil, fmt.Errorf("input '%s': %w", in.Name, err)
		}
		if err := prog.Inputs[in.Name].Feed(v); err != nil {
			return nil, fmt.Errorf("input '%s': %w", in.Name, err)
		}
	}
	ctxlog.FromContext(ctx).Info("Network built.",
		"primitives", n.Len(), "connections", len(n.Connections()), "inputs", len(prog.Inputs), "probes", len(prog.Probes))
	return prog, nil
}

// declare checks names and records input types and expression sources.
func (b *builder) declare(f *File) error {
	names := make(map[string]string)
	claim := func(name, what string) error {
		ref, err := portref.Parse(name)
		if err != nil || ref.Port != "" || ref.HasIndex() {
			return fmt.Errorf("invalid %s name '%s'", what, name)
		}
		if prev, taken := names[name]; taken {
			return fmt.Errorf("%s '%s' clashes with an existing %s", what, name, prev)
		}
		names[name] = what
		return nil
	}

	for _, in := range f.Inputs {
		if _, dup := b.types[in.Name]; dup {
			return fmt.Errorf("input '%s' declared twice", in.Name)
		}
		t, err := value.ParseType(in.Type)
		if err != nil {
			return fmt.Errorf("input '%s': %w", in.Name, err)
		}
		b.types[in.Name] = t
	}
	for _, e := range f.Expressions {
		if err := claim(e.Name, "expression"); err != nil {
			return err
		}
		b.sources[e.Name] = e
	}
	for _, p := range f.Primitives {
		if err := claim(p.Name, "primitive"); err != nil {
			return err
		}
	}
	return nil
}

// resolve converts the named expression and the expressions it refers to.
func (b *builder) resolve(name string) (expr.Expr, error) {
	if x, ok := b.converted[name]; ok {
		return x, nil
	}
	src, ok := b.sources[name]
	if !ok {
		return nil, fmt.Errorf("no expression named '%s'", name)
	}
	if b.resolving[name] {
		return nil, fmt.Errorf("%w: '%s'", ErrCycle, name)
	}
	b.resolving[name] = true
	defer delete(b.resolving, name)

	x, err := exprhcl.Convert(src.Value, &exprhcl.Scope{Inputs: b.types, Lookup: b.resolve})
	if err != nil {
		return nil, fmt.Errorf("expression '%s': %w", name, err)
	}
	b.converted[name] = x
	return x, nil
}

func (b *builder) primitive(blk *Primitive) error {
	p, err := b.reg.New(blk.Kind)
	if err != nil {
		return err
	}
	params, err := attributes(blk.Parameters, "parameters")
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(params) {
		prm, ok := p.Param(name)
		if !ok {
			return fmt.Errorf("%s has no parameter '%s'", blk.Kind, name)
		}
		if err := prm.SetCty(params[name]); err != nil {
			return err
		}
	}
	if err := network.Configure(p); err != nil {
		return err
	}

	defaults, err := attributes(blk.Defaults, "defaults")
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(defaults) {
		in, ok := p.Input(name)
		if !ok {
			return fmt.Errorf("%s has no input '%s'", blk.Kind, name)
		}
		if err := in.SetDefaultCty(defaults[name]); err != nil {
			return fmt.Errorf("default of '%s': %w", name, err)
		}
	}
	if err := b.s.Add(blk.Name, p); err != nil {
		return err
	}
	b.prims[blk.Name] = p
	return nil
}

func (b *builder) wire(blk *Primitive) error {
	p := b.prims[blk.Name]
	for _, port := range sortedKeys(blk.Inputs) {
		ref, out, err := b.port(blk.Inputs[port])
		if err != nil {
			return err
		}
		if ref.HasIndex() {
			return fmt.Errorf("input '%s': array elements cannot be connected, use get()", port)
		}
		if err := b.s.Connect(out, p, port); err != nil {
			return err
		}
	}
	return nil
}

// port resolves a port reference against expressions and primitives.
func (b *builder) port(raw string) (portref.Ref, network.OutputPort, error) {
	ref, err := portref.Parse(raw)
	if err != nil {
		return ref, nil, err
	}
	if frag, ok := b.frags[ref.Node]; ok {
		if ref.Port == "" {
			return ref, frag.Result, nil
		}
		out, ok := frag.Output(ref.Port)
		if !ok {
			return ref, nil, fmt.Errorf("expression '%s' has no output '%s'", ref.Node, ref.Port)
		}
		return ref, out, nil
	}
	if p, ok := b.prims[ref.Node]; ok {
		if ref.Port == "" {
			return ref, nil, fmt.Errorf("reference '%s' to a primitive needs a port", raw)
		}
		out, ok := p.Output(ref.Port)
		if !ok {
			return ref, nil, fmt.Errorf("%s '%s' has no output '%s'", p.Kind(), ref.Node, ref.Port)
		}
		return ref, out, nil
	}
	return ref, nil, fmt.Errorf("reference '%s': no expression or primitive named '%s'", raw, ref.Node)
}

// attributes splits an object value into its attributes. A null value has
// none.
func attributes(v cty.Value, what string) (map[string]cty.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, fmt.Errorf("%s must be an object, got %s", what, v.Type().FriendlyName())
	}
	return v.AsValueMap(), nil
}

func inputValue(t value.Type, v cty.Value) (any, error) {
	var target any
	var ty cty.Type
	switch t {
	case value.TypeDouble:
		target, ty = new(float64), cty.Number
	case value.TypeInt:
		target, ty = new(int), cty.Number
	case value.TypeBool:
		target, ty = new(bool), cty.Bool
	default:
		return nil, fmt.Errorf("inputs of type %s cannot have a value in the file", t)
	}
	conv, err := convert.Convert(v, ty)
	if err != nil {
		return nil, err
	}
	if err := gocty.FromCtyValue(conv, target); err != nil {
		return nil, err
	}
	switch p := target.(type) {
	case *float64:
		return *p, nil
	case *int:
		return *p, nil
	default:
		return *(p.(*bool)), nil
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
