package core

import (
	"math"

	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/primitive"
	"github.com/vk/rtnet/internal/registry"
)

type doubleBinary func(a, b float64) (float64, bool)
type doubleUnary func(v float64) (float64, bool)

func finite(v float64) (float64, bool) {
	return v, !math.IsNaN(v) && !math.IsInf(v, 0)
}

var doubleBinaries = map[string]doubleBinary{
	"Add":      func(a, b float64) (float64, bool) { return a + b, true },
	"Subtract": func(a, b float64) (float64, bool) { return a - b, true },
	"Multiply": func(a, b float64) (float64, bool) { return a * b, true },
	"Divide": func(a, b float64) (float64, bool) {
		if b == 0 {
			return 0, false
		}
		return a / b, true
	},
	"Min":   func(a, b float64) (float64, bool) { return math.Min(a, b), true },
	"Max":   func(a, b float64) (float64, bool) { return math.Max(a, b), true },
	"Atan2": func(a, b float64) (float64, bool) { return math.Atan2(a, b), true },
	"Power": func(a, b float64) (float64, bool) { return finite(math.Pow(a, b)) },
	"Mod": func(a, b float64) (float64, bool) {
		if b == 0 {
			return 0, false
		}
		return math.Mod(a, b), true
	},
}

var doubleUnaries = map[string]doubleUnary{
	"Negate": func(v float64) (float64, bool) { return -v, true },
	"Abs":    func(v float64) (float64, bool) { return math.Abs(v), true },
	"Square": func(v float64) (float64, bool) { return v * v, true },
	"Sqrt":   func(v float64) (float64, bool) { return math.Sqrt(v), v >= 0 },
	"Sin":    func(v float64) (float64, bool) { return math.Sin(v), true },
	"Cos":    func(v float64) (float64, bool) { return math.Cos(v), true },
	"Tan":    func(v float64) (float64, bool) { return finite(math.Tan(v)) },
	"Asin":   func(v float64) (float64, bool) { return math.Asin(v), v >= -1 && v <= 1 },
	"Acos":   func(v float64) (float64, bool) { return math.Acos(v), v >= -1 && v <= 1 },
	"Atan":   func(v float64) (float64, bool) { return math.Atan(v), true },
	"Exp":    func(v float64) (float64, bool) { return finite(math.Exp(v)) },
	"Log":    func(v float64) (float64, bool) { return math.Log(v), v > 0 },
	"Sign": func(v float64) (float64, bool) {
		switch {
		case v > 0:
			return 1, true
		case v < 0:
			return -1, true
		}
		return 0, true
	},
}

var doubleComparisons = map[string]func(a, b float64) bool{
	"Greater":      func(a, b float64) bool { return a > b },
	"GreaterEqual": func(a, b float64) bool { return a >= b },
	"Less":         func(a, b float64) bool { return a < b },
	"LessEqual":    func(a, b float64) bool { return a <= b },
}

// DoubleEquals compares with an absolute tolerance Epsilon.
type DoubleEquals struct {
	network.Base
	Epsilon  *network.Param[float64]
	inFirst  *network.InPort[float64]
	inSecond *network.InPort[float64]
	out      *network.OutPort[bool]
}

// NewDoubleEquals returns an exact comparison.
func NewDoubleEquals() *DoubleEquals {
	p := &DoubleEquals{}
	p.Epsilon = network.NewParam(&p.Base, "Epsilon", 0.0)
	p.inFirst = network.NewIn[float64](&p.Base, "inFirst")
	p.inSecond = network.NewIn[float64](&p.Base, "inSecond")
	p.out = network.NewOut[bool](&p.Base, "outValue")
	return p
}

func (p *DoubleEquals) Kind() string { return "Core::DoubleEquals" }

// CheckParameters rejects a negative Epsilon.
func (p *DoubleEquals) CheckParameters(network.Context) error {
	if p.Epsilon.Get() < 0 {
		return network.InvalidParam("Epsilon", "must not be negative, got %v", p.Epsilon.Get())
	}
	return nil
}

func (p *DoubleEquals) UpdateData(network.Context) {
	a, okA := p.inFirst.Resolve()
	b, okB := p.inSecond.Resolve()
	if !okA || !okB {
		p.Absent()
		return
	}
	p.out.Set(math.Abs(a-b) <= p.Epsilon.Get())
}

// DoubleLimit clamps its input to [Min, Max].
type DoubleLimit struct {
	network.Base
	Min *network.Param[float64]
	Max *network.Param[float64]
	in  *network.InPort[float64]
	out *network.OutPort[float64]
}

// NewDoubleLimit returns a limit that lets every value through.
func NewDoubleLimit() *DoubleLimit {
	p := &DoubleLimit{}
	p.Min = network.NewParam(&p.Base, "Min", math.Inf(-1))
	p.Max = network.NewParam(&p.Base, "Max", math.Inf(1))
	p.in = network.NewIn[float64](&p.Base, "inValue")
	p.out = network.NewOut[float64](&p.Base, "outValue")
	return p
}

func (p *DoubleLimit) Kind() string { return "Core::DoubleLimit" }

// CheckParameters rejects an empty range.
func (p *DoubleLimit) CheckParameters(network.Context) error {
	if p.Min.Get() > p.Max.Get() {
		return network.InvalidParam("Min", "%v is greater than Max %v", p.Min.Get(), p.Max.Get())
	}
	return nil
}

func (p *DoubleLimit) UpdateData(network.Context) {
	v, ok := p.in.Resolve()
	if !ok {
		p.Absent()
		return
	}
	p.out.Set(math.Max(p.Min.Get(), math.Min(p.Max.Get(), v)))
}

func registerDouble(r *registry.Registry) {
	for name, fn := range doubleBinaries {
		kind := "Core::Double" + name
		r.Register(kind, func() network.Primitive { return primitive.NewBinary(kind, fn) })
	}
	for name, fn := range doubleUnaries {
		kind := "Core::Double" + name
		r.Register(kind, func() network.Primitive { return primitive.NewUnary(kind, fn) })
	}
	for name, fn := range doubleComparisons {
		kind := "Core::Double" + name
		r.Register(kind, func() network.Primitive { return primitive.NewBinary(kind, primitive.Ok2(fn)) })
	}
	r.Register("Core::DoubleEquals", func() network.Primitive { return NewDoubleEquals() })
	r.Register("Core::DoubleLimit", func() network.Primitive { return NewDoubleLimit() })
	r.Register("Core::DoubleInterval", func() network.Primitive { return NewInterval() })
	r.Register("Core::DoubleRampify", func() network.Primitive { return NewRampify() })

	r.Register("Core::DoubleToInt", func() network.Primitive {
		return primitive.NewUnary("Core::DoubleToInt", func(v float64) (int, bool) {
			if math.IsNaN(v) || math.Abs(v) > math.MaxInt32 {
				return 0, false
			}
			return int(math.Round(v)), true
		})
	})
	r.Register("Core::DoubleToBoolean", func() network.Primitive {
		return primitive.NewUnary("Core::DoubleToBoolean", primitive.Ok(func(v float64) bool { return v != 0 }))
	})
	r.Register("Core::IntToDouble", func() network.Primitive {
		return primitive.NewUnary("Core::IntToDouble", primitive.Ok(func(v int) float64 { return float64(v) }))
	})
	r.Register("Core::BooleanToDouble", func() network.Primitive {
		return primitive.NewUnary("Core::BooleanToDouble", primitive.Ok(func(v bool) float64 {
			if v {
				return 1
			}
			return 0
		}))
	})

	intOps := map[string]func(a, b int) int{
		"Add":      func(a, b int) int { return a + b },
		"Subtract": func(a, b int) int { return a - b },
		"Multiply": func(a, b int) int { return a * b },
	}
	for name, fn := range intOps {
		kind := "Core::Int" + name
		r.Register(kind, func() network.Primitive { return primitive.NewBinary(kind, primitive.Ok2(fn)) })
	}
	r.Register("Core::IntGreater", func() network.Primitive {
		return primitive.NewBinary("Core::IntGreater", primitive.Ok2(func(a, b int) bool { return a > b }))
	})
}
