// Package primitive provides generic primitive shapes: stateless
// operations from one, two, three or N inputs to one output. The primitive
// modules instantiate them with a kind name and a function; a function
// returning false publishes absent.
//
// All shapes propagate absence: if a required input is absent, every
// output is absent for the cycle and the function is not called.
package primitive
