/*
Package mapper compiles expression graphs into primitives of a network.

A Compiler holds one Factory per expression node type. A Session uses it
to compile expressions one at a time; each compiled node becomes a
Fragment: the primitives the node added, the fragments of its operands and
the output port carrying its value. Compilation is memoised by node
identity, so an operand shared by several parents is compiled once and its
result port is wired to every parent.

Node types without a registered factory may compile themselves by
implementing SelfMapper. Anything else fails with ErrUnknownNode.

When all expressions are compiled, Session.Build adds every primitive and
connection to a new network.Net. Named inputs become sources the caller
feeds through Session.Inputs.

All errors are returned at compile or build time. Nothing the mapper
produces fails while the net runs; values that cannot be computed in a
cycle are absent.
*/
package mapper
