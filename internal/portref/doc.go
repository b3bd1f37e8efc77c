/*
Package portref parses the port references used in network files and on
the command line.

A reference names a node, optionally one of its output ports, and
optionally an element of an array-valued port:

	speed                 the result of the expression "speed"
	filter.outValue       output outValue of primitive "filter"
	otg.velocity          the extra output "velocity" of expression "otg"
	joints.outValue[2]    element 2 of an array output

Node and port names consist of letters, digits, '_' and '-'.
*/
package portref
