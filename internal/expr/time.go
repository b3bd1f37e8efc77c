package expr

import "github.com/vk/rtnet/internal/value"

// Average is the mean of X over the last Duration seconds.
type Average struct {
	X        Expr
	Duration float64
}

// Type is double for a double X.
func (a *Average) Type() value.Type { return only(value.TypeDouble, value.TypeDouble, a.X) }
func (a *Average) Operands() []Expr { return []Expr{a.X} }

// Past is the value X had Age seconds ago. Buffer bounds how far back Age
// may reach, in seconds.
type Past struct {
	X, Age Expr
	Buffer float64
}

// Type is double when X and Age are.
func (p *Past) Type() value.Type { return only(value.TypeDouble, value.TypeDouble, p.X, p.Age) }
func (p *Past) Operands() []Expr { return []Expr{p.X, p.Age} }

// AtTime is the value X had when Stamp last was at or before At, searched
// over the last Buffer seconds. Its "age" output is how long ago that was.
type AtTime struct {
	X, Stamp, At Expr
	Buffer       float64
	Search       string
}

// Type is double when X, Stamp and At all are.
func (a *AtTime) Type() value.Type { return only(value.TypeDouble, value.TypeDouble, a.X, a.Stamp, a.At) }
func (a *AtTime) Operands() []Expr { return []Expr{a.X, a.Stamp, a.At} }

// Previous is the value X had in the previous cycle, and Initial in the
// first cycle.
type Previous struct {
	X       Expr
	Initial any
}

// Type is the type of X. Initial must fit it.
func (p *Previous) Type() value.Type { return p.X.Type() }
func (p *Previous) Operands() []Expr { return []Expr{p.X} }

// FirstCycle is true in the first cycle only.
func FirstCycle() *Previous { return &Previous{X: Bool(false), Initial: true} }

// IsNull is true while X is absent.
type IsNull struct {
	X Expr
}

// Type is bool for any valid X.
func (n *IsNull) Type() value.Type {
	if n.X.Type() == value.TypeInvalid {
		return value.TypeInvalid
	}
	return value.TypeBool
}
func (n *IsNull) Operands() []Expr { return []Expr{n.X} }

// OrElse is X, or Else while X is absent.
type OrElse struct {
	X, Else Expr
}

// Type is the common type of X and Else.
func (o *OrElse) Type() value.Type { return sameType(o.X, o.Else) }
func (o *OrElse) Operands() []Expr { return []Expr{o.X, o.Else} }

// Clock integrates Increment (1 when nil) over time and restarts from zero
// whenever Reset (never when nil) is true.
type Clock struct {
	Increment, Reset Expr
}

// Type is double when the optional operands have their types.
func (c *Clock) Type() value.Type {
	if c.Increment != nil && c.Increment.Type() != value.TypeDouble {
		return value.TypeInvalid
	}
	if c.Reset != nil && c.Reset.Type() != value.TypeBool {
		return value.TypeInvalid
	}
	return value.TypeDouble
}
func (c *Clock) Operands() []Expr { return present(c.Increment, c.Reset) }

// CycleTime is the cycle time of the net.
type CycleTime struct{}

func (*CycleTime) Type() value.Type { return value.TypeDouble }
func (*CycleTime) Operands() []Expr { return nil }

// Interval maps X linearly from [Min, Max] to [0, 1], saturating outside.
// Its "active" output is true while X lies inside, bounds included.
type Interval struct {
	X        Expr
	Min, Max float64
}

func (i *Interval) Type() value.Type { return only(value.TypeDouble, value.TypeDouble, i.X) }
func (i *Interval) Operands() []Expr { return []Expr{i.X} }

// Rampify smooths a 0 to 1 ramp X into a curve with continuous velocity.
// Fraction is the share of the ramp spent accelerating; zero means the
// primitive's default.
type Rampify struct {
	X        Expr
	Fraction float64
}

func (r *Rampify) Type() value.Type { return only(value.TypeDouble, value.TypeDouble, r.X) }
func (r *Rampify) Operands() []Expr { return []Expr{r.X} }

// Edge is true for one cycle when X turns true (Rising) or false.
type Edge struct {
	X      Expr
	Rising bool
}

// Type is bool for a bool X.
func (e *Edge) Type() value.Type { return only(value.TypeBool, value.TypeBool, e.X) }
func (e *Edge) Operands() []Expr { return []Expr{e.X} }

// Trigger latches On until Off or Reset (never when nil). Its "time" output
// is how long it has been active.
type Trigger struct {
	On, Off, Reset Expr
}

// Type is bool. On and Off are required.
func (t *Trigger) Type() value.Type {
	if t.On == nil || t.Off == nil {
		return value.TypeInvalid
	}
	if t.Reset != nil && t.Reset.Type() != value.TypeBool {
		return value.TypeInvalid
	}
	return only(value.TypeBool, value.TypeBool, t.On, t.Off)
}
func (t *Trigger) Operands() []Expr { return present(t.On, t.Off, t.Reset) }

// Snapshot holds the value X had when Take was last true.
type Snapshot struct {
	X, Take Expr
}

// Type is the type of X, with a bool Take.
func (s *Snapshot) Type() value.Type {
	if s.Take.Type() != value.TypeBool {
		return value.TypeInvalid
	}
	return s.X.Type()
}
func (s *Snapshot) Operands() []Expr { return []Expr{s.X, s.Take} }

func present(es ...Expr) []Expr {
	out := make([]Expr, 0, len(es))
	for _, e := range es {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
