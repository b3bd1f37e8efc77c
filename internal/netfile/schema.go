package netfile

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is decoded from every file.
type fileRoot struct {
	CycleTime   *float64      `hcl:"cycle_time,optional"`
	Inputs      []*Input      `hcl:"input,block"`
	Expressions []*Expression `hcl:"expression,block"`
	Primitives  []*Primitive  `hcl:"primitive,block"`
	Probes      []string      `hcl:"probes,optional"`
	StopWhen    *string       `hcl:"stop_when,optional"`
}

// Input declares a named input fed from outside the net.
type Input struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
	// Value is fed before the first cycle when set.
	Value cty.Value `hcl:"value,optional"`
}

// Expression is a named value expression.
type Expression struct {
	Name  string         `hcl:"name,label"`
	Value hcl.Expression `hcl:"value"`
}

// Primitive is a primitive created by kind.
type Primitive struct {
	Kind       string            `hcl:"kind,label"`
	Name       string            `hcl:"name,label"`
	Parameters cty.Value         `hcl:"parameters,optional"`
	Inputs     map[string]string `hcl:"inputs,optional"`
	Defaults   cty.Value         `hcl:"defaults,optional"`
}

// File is a merged network description.
type File struct {
	CycleTime   float64
	Inputs      []*Input
	Expressions []*Expression
	Primitives  []*Primitive
	Probes      []string
	StopWhen    string
}
