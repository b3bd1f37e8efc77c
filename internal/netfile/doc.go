/*
Package netfile loads network descriptions written in HCL and builds them
into runnable nets.

	cycle_time = 0.01

	input "target" {
	  type  = "double"
	  value = 1.5
	}

	expression "motion" {
	  value = otg(input.target, 1, 2)
	}

	primitive "Core::DoubleAbs" "speed" {
	  inputs = { inValue = "motion.velocity" }
	}

	primitive "Core::DoubleGreater" "moving" {
	  inputs   = { inFirst = "speed.outValue" }
	  defaults = { inSecond = 0.001 }
	}

	probes    = ["motion", "speed.outValue", "moving.outValue"]
	stop_when = "arrived"

	expression "arrived" {
	  value = abs(expr.motion - input.target) < 1e-6
	}

A description may span several files; blocks from all of them are merged
and cycle_time must be set exactly once. Expressions are compiled through
the mapper and may refer to each other; primitives are created by kind
from the registry and wired by port reference (see package portref).
*/
package netfile
