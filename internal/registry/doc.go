// Package registry maps primitive kind names such as "Core::DoubleAdd" to
// constructors.
//
// The registry is populated statically at startup: every primitive module
// implements Module and registers its kinds in Register. Network files and
// the CLI resolve kinds by name through the registry; the mappers construct
// primitives directly and never depend on how the registry was filled.
//
// Validate performs a parity check between the registered names and what
// the constructors actually build, so that a typo in a kind name or a
// parameter type that cannot be set from a network file is caught at
// startup rather than when a file is loaded.
package registry
