// Package value defines the typed data that flows through a network: the
// scalar types, the geometric types (vector, rotation, frame, twist, wrench)
// and copy-on-write fixed-size arrays of each.
//
// Values are immutable. Whether a value is present in a given cycle is not
// part of the value itself; ports track presence separately (see package
// network), so the types here never carry a "null" state.
package value
