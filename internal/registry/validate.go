package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// PortInfo describes one port of a primitive kind.
type PortInfo struct {
	Name     string
	Type     value.Type
	Optional bool
	Default  bool
}

// ParamInfo describes one parameter of a primitive kind.
type ParamInfo struct {
	Name    string
	Type    cty.Type
	Default any
}

// Description lists the ports and parameters a kind is built with by
// default.
type Description struct {
	Kind    string
	Inputs  []PortInfo
	Outputs []PortInfo
	Params  []ParamInfo
}

// Describe constructs a default instance of kind and reports its shape.
func (r *Registry) Describe(kind string) (*Description, error) {
	p, err := r.New(kind)
	if err != nil {
		return nil, err
	}
	if err := network.Configure(p); err != nil {
		return nil, fmt.Errorf("configuring default '%s': %w", kind, err)
	}
	d := &Description{Kind: p.Kind()}
	for _, in := range p.Inputs() {
		d.Inputs = append(d.Inputs, PortInfo{Name: in.Name(), Type: in.Type(), Optional: in.IsOptional(), Default: in.HasDefault()})
	}
	for _, out := range p.Outputs() {
		d.Outputs = append(d.Outputs, PortInfo{Name: out.Name(), Type: out.Type()})
	}
	for _, par := range p.Params() {
		ty, err := par.CtyType()
		if err != nil {
			return nil, fmt.Errorf("parameter '%s' of '%s': %w", par.Name(), kind, err)
		}
		d.Params = append(d.Params, ParamInfo{Name: par.Name(), Type: ty, Default: par.Any()})
	}
	return d, nil
}

// Validate performs a strict parity check between the registered names and
// the primitives the constructors build: the constructed kind must match
// its registration name, port and parameter names must be unique, every
// port must carry a known value type and every parameter must be settable
// from a cty value.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, kind := range r.Kinds() {
		d, err := r.Describe(kind)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if d.Kind != kind {
			errs = append(errs, fmt.Sprintf("kind '%s': constructor builds a primitive of kind '%s'", kind, d.Kind))
		}

		seen := make(map[string]string)
		check := func(what, name string) {
			if prev, dup := seen[name]; dup {
				errs = append(errs, fmt.Sprintf("kind '%s': %s '%s' clashes with %s of the same name", kind, what, name, prev))
				return
			}
			seen[name] = what
		}
		for _, in := range d.Inputs {
			check("input", in.Name)
			if in.Type == value.TypeInvalid {
				errs = append(errs, fmt.Sprintf("kind '%s', input '%s': not a value type", kind, in.Name))
			}
		}
		for _, out := range d.Outputs {
			check("output", out.Name)
			if out.Type == value.TypeInvalid {
				errs = append(errs, fmt.Sprintf("kind '%s', output '%s': not a value type", kind, out.Name))
			}
		}
		for _, par := range d.Params {
			check("parameter", par.Name)
			if par.Type.Equals(cty.DynamicPseudoType) {
				logger.Debug("Parameter decodes itself, skipping static type check.", "kind", kind, "parameter", par.Name)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validated.", "kinds", len(r.ctors))
	return nil
}
