// Package dag holds the dependency graph a network is ordered by. Vertices
// are primitive names, an edge a -> b means b reads a value a produces in
// the same cycle. The graph is built once while a network is validated and
// yields a deterministic topological order that the network reuses every
// cycle.
package dag
