package mapper

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/registry"
)

// Factory compiles one node. It compiles the node's operands through the
// session, creates and wires the node's primitives and returns the
// fragment.
type Factory func(s *Session, e expr.Expr) (*Fragment, error)

// SelfMapper is implemented by nodes that compile themselves.
type SelfMapper interface {
	expr.Expr
	Map(s *Session) (*Fragment, error)
}

// Compiler maps node types to factories.
type Compiler struct {
	factories map[reflect.Type]Factory
}

// NewCompiler returns a compiler without any factories.
func NewCompiler() *Compiler {
	return &Compiler{factories: make(map[reflect.Type]Factory)}
}

// Default returns a compiler with a factory for every node type of package
// expr.
func Default() *Compiler {
	c := NewCompiler()
	registerStructure(c)
	registerArith(c)
	registerTime(c)
	registerArray(c)
	registerGeometry(c)
	registerMotion(c)
	return c
}

// Register sets the factory for the type of node. Registering a type twice
// is a programming error and panics.
func (c *Compiler) Register(node expr.Expr, f Factory) {
	t := reflect.TypeOf(node)
	if _, exists := c.factories[t]; exists {
		panic(fmt.Sprintf("factory for expression node %s already registered", t))
	}
	slog.Debug("Registering expression factory.", "node", t.String())
	c.factories[t] = f
}

func (c *Compiler) factory(e expr.Expr) (Factory, bool) {
	if f, ok := c.factories[reflect.TypeOf(e)]; ok {
		return f, true
	}
	if sm, ok := e.(SelfMapper); ok {
		return func(s *Session, _ expr.Expr) (*Fragment, error) { return sm.Map(s) }, true
	}
	return nil, false
}

// NewSession starts a compilation whose primitives are created from reg.
func (c *Compiler) NewSession(ctx context.Context, reg *registry.Registry) *Session {
	return &Session{
		ctx:      ctx,
		compiler: c,
		reg:      reg,
		cache:    make(map[expr.Expr]*Fragment),
		inputs:   make(map[string]*input),
	}
}

// describe names a node in error messages.
func describe(e expr.Expr) string {
	t := reflect.TypeOf(e)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch n := e.(type) {
	case *expr.Binary:
		return fmt.Sprintf("%s(%s)", t.Name(), n.Op)
	case *expr.Unary:
		return fmt.Sprintf("%s(%s)", t.Name(), n.Op)
	case *expr.Compare:
		return fmt.Sprintf("%s(%s)", t.Name(), n.Op)
	case *expr.Input:
		return fmt.Sprintf("%s(%s)", t.Name(), n.Name)
	case *expr.Relation:
		return fmt.Sprintf("%s(%s)", t.Name(), n.Name())
	}
	return t.Name()
}
