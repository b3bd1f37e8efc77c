package expr

import "github.com/vk/rtnet/internal/value"

// Binary applies a double operator: Add, Subtract, Multiply, Divide, Min,
// Max, Atan2, Power or Mod.
type Binary struct {
	Op   string
	A, B Expr
}

// Type is double when both operands are.
func (b *Binary) Type() value.Type { return only(value.TypeDouble, value.TypeDouble, b.A, b.B) }
func (b *Binary) Operands() []Expr { return []Expr{b.A, b.B} }

// Add is a + b.
func Add(a, b Expr) *Binary { return &Binary{Op: "Add", A: a, B: b} }

// Sub is a - b.
func Sub(a, b Expr) *Binary { return &Binary{Op: "Subtract", A: a, B: b} }

// Mul is a * b.
func Mul(a, b Expr) *Binary { return &Binary{Op: "Multiply", A: a, B: b} }

// Div is a / b, absent when b is zero.
func Div(a, b Expr) *Binary { return &Binary{Op: "Divide", A: a, B: b} }

// Min is the smaller of a and b.
func Min(a, b Expr) *Binary { return &Binary{Op: "Min", A: a, B: b} }

// Max is the larger of a and b.
func Max(a, b Expr) *Binary { return &Binary{Op: "Max", A: a, B: b} }

// Unary applies a double function such as Negate, Abs, Sqrt or Sin.
type Unary struct {
	Op string
	X  Expr
}

// Type is double for a double X.
func (u *Unary) Type() value.Type { return only(value.TypeDouble, value.TypeDouble, u.X) }
func (u *Unary) Operands() []Expr { return []Expr{u.X} }

// Neg is -x.
func Neg(x Expr) *Unary { return &Unary{Op: "Negate", X: x} }

// Abs is |x|.
func Abs(x Expr) *Unary { return &Unary{Op: "Abs", X: x} }

// Compare compares two doubles: Greater, GreaterEqual, Less or LessEqual.
type Compare struct {
	Op   string
	A, B Expr
}

// Type is bool for two doubles.
func (c *Compare) Type() value.Type { return only(value.TypeBool, value.TypeDouble, c.A, c.B) }
func (c *Compare) Operands() []Expr { return []Expr{c.A, c.B} }

// Gt is a > b.
func Gt(a, b Expr) *Compare { return &Compare{Op: "Greater", A: a, B: b} }

// Ge is a >= b.
func Ge(a, b Expr) *Compare { return &Compare{Op: "GreaterEqual", A: a, B: b} }

// Lt is a < b.
func Lt(a, b Expr) *Compare { return &Compare{Op: "Less", A: a, B: b} }

// Le is a <= b.
func Le(a, b Expr) *Compare { return &Compare{Op: "LessEqual", A: a, B: b} }

// Equals compares two values of the same type. Epsilon is the absolute
// tolerance for doubles and must be zero for every other type.
type Equals struct {
	A, B    Expr
	Epsilon float64
}

// Type is bool when A and B have the same type.
func (e *Equals) Type() value.Type {
	if sameType(e.A, e.B) == value.TypeInvalid {
		return value.TypeInvalid
	}
	return value.TypeBool
}
func (e *Equals) Operands() []Expr { return []Expr{e.A, e.B} }

// Cond is Then while If is true and Else otherwise. A nil Else is absent.
type Cond struct {
	If, Then, Else Expr
}

// Type is the type of the branches, which must agree, with a bool If.
func (c *Cond) Type() value.Type {
	if c.If.Type() != value.TypeBool {
		return value.TypeInvalid
	}
	if c.Else == nil {
		return c.Then.Type()
	}
	return sameType(c.Then, c.Else)
}
func (c *Cond) Operands() []Expr { return present(c.If, c.Then, c.Else) }

// Logic is the conjunction (Or false) or disjunction (Or true) of any
// number of booleans.
type Logic struct {
	Or bool
	Xs []Expr
}

// Type is bool for one or more bool operands.
func (l *Logic) Type() value.Type {
	if len(l.Xs) == 0 {
		return value.TypeInvalid
	}
	return only(value.TypeBool, value.TypeBool, l.Xs...)
}
func (l *Logic) Operands() []Expr { return l.Xs }

// And is true when every x is.
func And(xs ...Expr) *Logic { return &Logic{Xs: xs} }

// Or is true when any x is.
func Or(xs ...Expr) *Logic { return &Logic{Or: true, Xs: xs} }

// Not negates a boolean.
type Not struct {
	X Expr
}

func (n *Not) Type() value.Type { return only(value.TypeBool, value.TypeBool, n.X) }
func (n *Not) Operands() []Expr { return []Expr{n.X} }

// Convert converts between double, int and bool.
type Convert struct {
	X  Expr
	To value.Type
}

// Type is To. The mapper rejects conversions it has no primitive for.
func (c *Convert) Type() value.Type { return c.To }
func (c *Convert) Operands() []Expr { return []Expr{c.X} }

// Limit clamps a double to [Min, Max].
type Limit struct {
	X        Expr
	Min, Max float64
}

// Type is double for a double X.
func (l *Limit) Type() value.Type { return only(value.TypeDouble, value.TypeDouble, l.X) }
func (l *Limit) Operands() []Expr { return []Expr{l.X} }
