package network

// Primitive is one computational node of a net. Implementations embed Base.
type Primitive interface {
	// Kind is the registry name, e.g. "Core::DoubleAdd".
	Kind() string
	// CheckParameters validates parameters once, before the first cycle.
	CheckParameters(cx Context) error
	// UpdateData reads inputs and writes every output exactly once.
	UpdateData(cx Context)

	Name() string
	Inputs() []InputPort
	Outputs() []OutputPort
	Params() []Parameter
	Input(name string) (InputPort, bool)
	Output(name string) (OutputPort, bool)
	Param(name string) (Parameter, bool)

	base() *Base
}

// Feedback primitives publish during a cycle what they latched at the end
// of the previous one.
type Feedback interface {
	Primitive
	Latch(cx Context)
}

// AbsentAware marks primitives that may write present outputs while a
// required input is absent (null tests, fallbacks, feedback).
type AbsentAware interface {
	Primitive
	HandlesAbsent()
}

// Configurable primitives declare ports that depend on parameter values.
// Configure runs once, when the primitive joins a net, after its parameters
// are set.
type Configurable interface {
	Primitive
	Configure() error
}

// Base carries the name, ports and parameters of a primitive.
type Base struct {
	name       string
	net        *Net
	inputs     []InputPort
	outputs    []OutputPort
	params     []Parameter
	configured bool
}

func (b *Base) base() *Base { return b }

// Name is the instance name, set when the primitive is added to a net.
func (b *Base) Name() string          { return b.name }
func (b *Base) Inputs() []InputPort   { return b.inputs }
func (b *Base) Outputs() []OutputPort { return b.outputs }
func (b *Base) Params() []Parameter   { return b.params }

// Input finds an input by name.
func (b *Base) Input(name string) (InputPort, bool) {
	for _, p := range b.inputs {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Output finds an output by name.
func (b *Base) Output(name string) (OutputPort, bool) {
	for _, p := range b.outputs {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Param finds a parameter by name.
func (b *Base) Param(name string) (Parameter, bool) {
	for _, p := range b.params {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Absent writes absent to every output.
func (b *Base) Absent() {
	for _, o := range b.outputs {
		o.SetAbsent()
	}
}

// Configure runs p's Configure method once. Primitives that are not
// Configurable are left untouched.
func Configure(p Primitive) error {
	b := p.base()
	if b.configured {
		return nil
	}
	if c, ok := p.(Configurable); ok {
		if err := c.Configure(); err != nil {
			return err
		}
	}
	b.configured = true
	return nil
}
