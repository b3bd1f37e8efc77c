package portref

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var segment = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(?:\[(\d+)\])?$`)

// Ref is a parsed port reference.
type Ref struct {
	Node string
	// Port is empty for the node's result.
	Port string
	// Index selects an array element, -1 for the whole value.
	Index int
}

// Parse parses a reference of the form node[.port][[index]].
func Parse(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("port reference cannot be empty")
	}
	parts := strings.Split(raw, ".")
	if len(parts) > 2 {
		return Ref{}, fmt.Errorf("port reference %q has more than two segments", raw)
	}

	ref := Ref{Index: -1}
	for i, part := range parts {
		m := segment.FindStringSubmatch(part)
		if m == nil || m[1] == "-" {
			return Ref{}, fmt.Errorf("invalid segment %q in port reference %q", part, raw)
		}
		if m[2] != "" {
			if i != len(parts)-1 {
				return Ref{}, fmt.Errorf("index on node name in port reference %q", raw)
			}
			idx, err := strconv.Atoi(m[2])
			if err != nil {
				return Ref{}, fmt.Errorf("index in port reference %q: %w", raw, err)
			}
			ref.Index = idx
		}
		if i == 0 {
			ref.Node = m[1]
		} else {
			ref.Port = m[1]
		}
	}
	return ref, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) Ref {
	r, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return r
}

// String formats r the way Parse reads it.
func (r Ref) String() string {
	var sb strings.Builder
	sb.WriteString(r.Node)
	if r.Port != "" {
		sb.WriteByte('.')
		sb.WriteString(r.Port)
	}
	if r.Index >= 0 {
		fmt.Fprintf(&sb, "[%d]", r.Index)
	}
	return sb.String()
}

// HasIndex reports whether r selects an array element.
func (r Ref) HasIndex() bool { return r.Index >= 0 }
