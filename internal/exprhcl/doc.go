// Package exprhcl reads value expressions written in HCL expression syntax
// and converts them into expr nodes.
//
// Variables:
//
//	input.<name>            a named input of the declared type
//	expr.<name>             another named expression, shared by identity
//	expr.<name>.<output>    an extra output of it, such as otg's velocity
//	frame.<from>.<to>       the transform of <to> relative to <from>
//
// Operators are HCL's: arithmetic, comparison, logic and the ?: conditional.
// Arithmetic on two vectors adds or subtracts them; multiplying a vector by
// a double scales it. Numbers are doubles; int() converts. Durations, limits
// and other arguments the primitives take as parameters must be constants.
//
// Functions:
//
//	sin cos tan asin acos atan exp log sqrt abs sign square (x)
//	min max atan2 pow (a, b)
//	limit(x, lo, hi)  interval(x, lo, hi)  rampify(x [, fraction])
//	average(x, seconds)  past(x, age, buffer)  previous(x, initial)
//	is_null(x)  or_else(x, fallback)  first_cycle()
//	clock([increment [, reset]])  cycle_time()
//	rising(x)  falling(x)  trigger(on, off)  snapshot(x, take)
//	double(x)  int(x)  bool(x)
//	vector(x, y, z)  norm(v)  x(v)  y(v)  z(v)
//	otg(dest, max_vel, max_acc)  jog(vel, max_vel, max_acc)
//	get(array, index)  length-fixed arrays are written [a, b, c]
package exprhcl
