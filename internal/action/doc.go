/*
Package action compiles robot motion actions into expressions.

An action such as "move joint a1 to 0.5 rad" is turned into a Result: the
commanded position and velocity of each joint it moves (or the commanded
frame and twist of a Cartesian motion), a boolean Completed expression and
boolean exception expressions. Nothing runs here. The expressions are
compiled into a net by package mapper, either by the caller or through
Compiler.Build.

Goal tracking actions wrap the device limits into an OTG node. A cancel
request does not stop the motion at once: the effective override is scaled
by one minus the cancel signal averaged over the time needed to brake from
full speed, so the motion slows to a stop within its limits. Completed is
true when the command arrived within tolerance, or when cancel is set and
the override has settled to zero.

Composite actions compile their inner actions and combine the resulting
expressions: MultiJoint runs several actions side by side, Superposition
adds offsets, Resync blends out the difference between the measured and
commanded state after an interruption and Blend cross-fades between two
actions.

Faults that happen while the net runs are exception outputs, never errors.
Errors returned by Compile are configuration errors: unknown joints, limits
that cannot be met, actions that cannot be combined.
*/
package action
