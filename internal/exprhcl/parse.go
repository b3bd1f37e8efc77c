package exprhcl

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

var (
	// ErrSyntax is returned for text that is not an HCL expression.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupported is returned for HCL constructs with no expr equivalent.
	ErrUnsupported = errors.New("unsupported construct")
	// ErrUnknownVariable is returned for references that cannot be resolved.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrUnknownFunction is returned for calls to undefined functions.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrArguments is returned for calls with the wrong arguments.
	ErrArguments = errors.New("invalid arguments")
)

// Parse parses src as a single HCL expression. filename is only used in
// error messages.
func Parse(src, filename string) (hcl.Expression, error) {
	e, diags := hclsyntax.ParseExpression([]byte(src), filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, diags.Error())
	}
	return e, nil
}

// TraversalKey is the canonical text of a traversal, e.g. expr.otg.velocity.
func TraversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// References returns the sorted names of the named expressions e refers to
// through expr.<name>.
func References(e hcl.Expression) []string {
	seen := make(map[string]bool)
	for _, t := range e.Variables() {
		if t.RootName() != "expr" || len(t) < 2 {
			continue
		}
		if attr, ok := t[1].(hcl.TraverseAttr); ok {
			seen[attr.Name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
