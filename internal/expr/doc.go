/*
Package expr defines expression nodes: immutable descriptions of values that
change from cycle to cycle, such as "the sine of input t, averaged over half
a second".

Nodes form a directed acyclic graph. A node that is an operand of several
parents is the same pointer in each of them, and the mapper compiles it
once per session. Build sub-expressions once and reuse the returned value
instead of calling a constructor twice for the same thing.

Nodes carry no behaviour beyond their result type and operand list. The
mapper package turns them into primitives.

Frame-valued nodes may know which frames they relate. Relation inputs do,
and Compose and Invert derive theirs from their operands; see Frames.
*/
package expr
