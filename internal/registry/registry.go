package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/rtnet/internal/network"
)

// ErrUnknownKind is returned when a kind has no registered constructor.
var ErrUnknownKind = errors.New("unknown primitive kind")

// Constructor creates a fresh primitive with default parameters.
type Constructor func() network.Primitive

// Module is the interface that all primitive modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the constructors of every known primitive kind.
type Registry struct {
	ctors map[string]Constructor
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register adds a constructor for kind. Registering a kind twice is a
// programming error and panics.
func (r *Registry) Register(kind string, ctor Constructor) {
	if _, exists := r.ctors[kind]; exists {
		panic(fmt.Sprintf("primitive kind '%s' already registered", kind))
	}
	slog.Debug("Registering primitive kind.", "kind", kind)
	r.ctors[kind] = ctor
}

// RegisterModules registers every module in order.
func (r *Registry) RegisterModules(mods ...Module) {
	for _, m := range mods {
		m.Register(r)
	}
}

// New constructs a primitive of the given kind.
func (r *Registry) New(kind string) (network.Primitive, error) {
	ctor, ok := r.ctors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownKind, kind)
	}
	return ctor(), nil
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, ok := r.ctors[kind]
	return ok
}

// Kinds returns every registered kind, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
