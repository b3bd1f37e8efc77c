// Package history holds the fixed-capacity buffers behind the windowed
// primitives: a ring indexed by age, running windows for averages and
// counts, "sample at or before time T" searches and the reconciliation of
// two interval streams.
//
// Nothing here allocates after construction. Capacities are decided once,
// from a duration and the cycle time, before a net starts running.
package history
