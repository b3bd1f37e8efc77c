/*
Package device reads device parameter files. A device lists its joints with
their limits and, optionally, the limits of its flange in Cartesian space:

	name: arm
	faults: true
	joints:
	  - name: shoulder
	    min: -3.1
	    max: 3.1
	    velocity: 1.5
	    acceleration: 3
	    home: 0.2
	cartesian:
	  base: world
	  flange: tool
	  velocity: 0.5
	  acceleration: 1
	  rot_velocity: 1
	  rot_acceleration: 2
	  workspace: 1.2

The measured state of the device enters a net through inputs named by
PositionInput and FaultInput.
*/
package device
