package network

import (
	"errors"
	"fmt"

	"github.com/vk/rtnet/internal/dag"
)

// State is the lifecycle state of a Net.
type State int

const (
	Unvalidated State = iota
	Validated
	Running
)

// String is the lower case state name.
func (s State) String() string {
	switch s {
	case Unvalidated:
		return "unvalidated"
	case Validated:
		return "validated"
	case Running:
		return "running"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Connection is a directed link from an output port to an input port.
type Connection struct {
	From OutputPort
	To   InputPort
}

// Net is a set of primitives and connections executed once per cycle.
// A Net is not safe for concurrent use; it is driven by one goroutine.
type Net struct {
	cycleTime float64
	state     State

	prims  []Primitive
	byName map[string]Primitive
	conns  []Connection

	order    []Primitive
	feedback []Feedback
	outputs  []OutputPort
	cycle    int64
}

// New creates an empty net with the given cycle time in seconds.
func New(cycleTime float64) *Net {
	return &Net{
		cycleTime: cycleTime,
		byName:    make(map[string]Primitive),
	}
}

// CycleTime is the cycle time in seconds.
func (n *Net) CycleTime() float64 { return n.cycleTime }
func (n *Net) State() State       { return n.state }
func (n *Net) Len() int           { return len(n.prims) }
func (n *Net) Cycle() int64       { return n.cycle }

// Context returns the context of the cycle that runs next.
func (n *Net) Context() Context {
	return Context{
		CycleTime: n.cycleTime,
		Cycle:     n.cycle,
		Time:      float64(n.cycle) * n.cycleTime,
	}
}

// Primitives returns the primitives in insertion order.
func (n *Net) Primitives() []Primitive {
	out := make([]Primitive, len(n.prims))
	copy(out, n.prims)
	return out
}

// Connections returns the connections in creation order.
func (n *Net) Connections() []Connection {
	out := make([]Connection, len(n.conns))
	copy(out, n.conns)
	return out
}

// Primitive looks up a primitive by instance name.
func (n *Net) Primitive(name string) (Primitive, bool) {
	p, ok := n.byName[name]
	return p, ok
}

// Output looks up an output port by primitive and port name.
func (n *Net) Output(prim, port string) (OutputPort, error) {
	p, ok := n.byName[prim]
	if !ok {
		return nil, fmt.Errorf("primitive '%s' not found", prim)
	}
	o, ok := p.Output(port)
	if !ok {
		return nil, fmt.Errorf("primitive '%s' (%s) has no output '%s'", prim, p.Kind(), port)
	}
	return o, nil
}

// Input looks up an input port by primitive and port name.
func (n *Net) Input(prim, port string) (InputPort, error) {
	p, ok := n.byName[prim]
	if !ok {
		return nil, fmt.Errorf("primitive '%s' not found", prim)
	}
	i, ok := p.Input(port)
	if !ok {
		return nil, fmt.Errorf("primitive '%s' (%s) has no input '%s'", prim, p.Kind(), port)
	}
	return i, nil
}

// Order returns the primitive names in execution order. It is empty until
// the net is running.
func (n *Net) Order() []string {
	names := make([]string, len(n.order))
	for i, p := range n.order {
		names[i] = p.Name()
	}
	return names
}

// Add places p in the net under a unique name. Configurable primitives are
// configured here, so their parameters must already be set.
func (n *Net) Add(name string, p Primitive) error {
	if n.state != Unvalidated {
		return fmt.Errorf("%w: cannot add '%s' to a %s net", ErrState, name, n.state)
	}
	if name == "" {
		return fmt.Errorf("primitive of kind %s needs a name", p.Kind())
	}
	if _, exists := n.byName[name]; exists {
		return fmt.Errorf("primitive '%s' already exists", name)
	}
	b := p.base()
	if b.net != nil {
		return fmt.Errorf("primitive '%s' already belongs to a net", b.name)
	}
	b.name = name
	if err := Configure(p); err != nil {
		return withPrimitive(err, p)
	}
	b.net = n
	n.prims = append(n.prims, p)
	n.byName[name] = p
	return nil
}

// Connect links out to in. An input accepts at most one connection; an
// output may feed any number of inputs.
func (n *Net) Connect(out OutputPort, in InputPort) error {
	if n.state != Unvalidated {
		return fmt.Errorf("%w: cannot connect ports of a %s net", ErrState, n.state)
	}
	if out.Owner().net != n {
		return fmt.Errorf("output %s.%s does not belong to this net", out.Owner().name, out.Name())
	}
	if in.Owner().net != n {
		return fmt.Errorf("input %s.%s does not belong to this net", in.Owner().name, in.Name())
	}
	if err := in.connect(out); err != nil {
		return err
	}
	n.conns = append(n.conns, Connection{From: out, To: in})
	return nil
}

// Validate checks every primitive's parameters and moves the net to
// Validated. All failures are reported together.
func (n *Net) Validate() error {
	if n.state != Unvalidated {
		return fmt.Errorf("%w: net is already %s", ErrState, n.state)
	}
	if n.cycleTime <= 0 {
		return &ConfigError{Parameter: "cycle_time", Err: fmt.Errorf("%w: must be positive, got %v", ErrInvalidParameter, n.cycleTime)}
	}

	cx := n.Context()
	var errs []error
	for _, p := range n.prims {
		if err := p.CheckParameters(cx); err != nil {
			errs = append(errs, withPrimitive(err, p))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	n.state = Validated
	return nil
}

func withPrimitive(err error, p Primitive) error {
	var ce *ConfigError
	if errors.As(err, &ce) && ce.Primitive == "" {
		out := *ce
		out.Primitive, out.Kind = p.Name(), p.Kind()
		return &out
	}
	if ce != nil {
		return err
	}
	return &ConfigError{Primitive: p.Name(), Kind: p.Kind(), Err: err}
}

// Start computes the execution order and moves the net to Running. An
// Unvalidated net is validated first.
func (n *Net) Start() error {
	switch n.state {
	case Running:
		return fmt.Errorf("%w: net is already running", ErrState)
	case Unvalidated:
		if err := n.Validate(); err != nil {
			return err
		}
	}

	g := dag.New()
	for _, p := range n.prims {
		g.AddNode(p.Name())
	}
	for _, c := range n.conns {
		to := n.byName[c.To.Owner().name]
		if _, ok := to.(Feedback); ok {
			continue
		}
		if err := g.AddEdge(c.From.Owner().name, c.To.Owner().name); err != nil {
			return fmt.Errorf("%w: %v", ErrCycle, err)
		}
	}
	names, err := g.TopologicalOrder()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCycle, err)
	}

	n.order = make([]Primitive, len(names))
	n.feedback = n.feedback[:0]
	n.outputs = n.outputs[:0]
	for i, name := range names {
		p := n.byName[name]
		n.order[i] = p
		if fb, ok := p.(Feedback); ok {
			n.feedback = append(n.feedback, fb)
		}
		n.outputs = append(n.outputs, p.Outputs()...)
	}
	n.state = Running
	return nil
}

// Step executes one cycle: UpdateData on every primitive in order, then
// Latch on every feedback primitive.
func (n *Net) Step() error {
	if n.state != Running {
		return fmt.Errorf("%w: net is %s, not running", ErrState, n.state)
	}
	cx := n.Context()
	for _, o := range n.outputs {
		o.reset()
	}
	for _, p := range n.order {
		p.UpdateData(cx)
	}
	for _, o := range n.outputs {
		if !o.written() {
			return fmt.Errorf("%w: %s.%s", ErrOutputNotWritten, o.Owner().name, o.Name())
		}
	}
	for _, fb := range n.feedback {
		fb.Latch(cx)
	}
	n.cycle++
	return nil
}
