package dag

import "sync"

// Graph holds vertices and same-cycle data dependencies between them. It is
// safe for concurrent use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
	// seq is the insertion order, used to break ties deterministically.
	seq []*node
}

// node is one vertex, addressed through the Graph by its id.
type node struct {
	id    string
	index int
	// deps are the vertices this one reads from.
	deps map[string]*node
	// dependents are the vertices reading from this one.
	dependents map[string]*node
}
