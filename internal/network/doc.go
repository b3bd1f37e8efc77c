// Package network implements the cyclic dataflow runtime.
//
// A Net is a set of named primitives plus output->input port connections
// and an immutable cycle time. Each call to Net.Step is one control cycle:
// every primitive's UpdateData runs exactly once, in a topological order of
// the connection graph that is computed once when the net starts running.
//
// # Lifecycle
//
// A net moves through three states:
//
//	Unvalidated --Validate--> Validated --Start--> Running
//
// Primitives may only be added and connected while Unvalidated. Validate
// runs CheckParameters on every primitive; a failure is a *ConfigError and
// leaves the net Unvalidated. Start orders the primitives and rejects
// cycles that do not pass through a feedback primitive.
//
// # Absent values
//
// Every output slot holds either a present value or absent ("not
// computable this cycle"). Absent is never an error. A primitive reading an
// absent required input writes absent to all of its outputs, unless it
// implements AbsentAware and documents what it does instead.
//
// # Feedback
//
// Primitives implementing Feedback are two-slot registers: during a cycle
// they publish the value latched at the end of the previous cycle, and
// Latch stores the current value of their inputs once every primitive has
// run. Their input connections are ignored for ordering, which makes them
// the only way to close a loop in a net.
//
// # Writing primitives
//
// A primitive embeds Base and declares its ports and parameters in its
// constructor with NewIn, NewInDefault, NewOut and NewParam. Every output
// must be written every cycle, either with Set or SetAbsent; Step returns
// ErrOutputNotWritten otherwise.
package network
