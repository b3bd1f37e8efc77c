package mapper

import (
	"sort"

	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/value"
)

// Fragment is the compiled form of one expression node.
type Fragment struct {
	// Expr is the node the fragment was compiled from, nil for groups.
	Expr expr.Expr
	// Result carries the node's value.
	Result network.OutputPort
	// Outputs holds further named results, such as an OTG's velocity.
	Outputs map[string]network.OutputPort
	// Primitives lists the primitives this node added, not those of its
	// operands.
	Primitives []network.Primitive
	// Deps are the fragments of the node's operands.
	Deps []*Fragment

	input string
}

// Type is the type of the result port.
func (f *Fragment) Type() value.Type { return f.Result.Type() }

// Output returns the named output.
func (f *Fragment) Output(name string) (network.OutputPort, bool) {
	o, ok := f.Outputs[name]
	return o, ok
}

// Inputs lists the names of the inputs the fragment depends on, sorted.
func (f *Fragment) Inputs() []string {
	seen := make(map[*Fragment]bool)
	names := make(map[string]bool)
	var walk func(*Fragment)
	walk = func(f *Fragment) {
		if seen[f] {
			return
		}
		seen[f] = true
		if f.input != "" {
			names[f.input] = true
		}
		for _, d := range f.Deps {
			walk(d)
		}
	}
	walk(f)

	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
