package mapper

import "errors"

var (
	// ErrUnknownNode is returned for a node type with neither a factory nor
	// a Map method.
	ErrUnknownNode = errors.New("no factory for expression node")
	// ErrOperandType is returned when operands do not fit their node.
	ErrOperandType = errors.New("operand type mismatch")
	// ErrFrameMismatch is returned when transformations are chained across
	// different frames.
	ErrFrameMismatch = errors.New("frame mismatch")
	// ErrNoOutput is returned when a named output does not exist.
	ErrNoOutput = errors.New("no such output")
	// ErrBuilt is returned when a session is used after Build.
	ErrBuilt = errors.New("session already built")
)
