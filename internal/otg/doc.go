// Package otg implements online trajectory generation: per-cycle control
// laws that move a position towards a (possibly moving) destination under
// velocity and acceleration limits.
//
// The laws keep no plan. Every call derives the next command from the
// current state alone, so they stay correct when the destination changes or
// the actual state is disturbed.
//
// # Braking velocity
//
// With acceleration limit U and cycle time dt, let h = U*dt*dt and z = |e|/h
// for a remaining distance e. Write z = n(n+1)/2 + f(n+1) with integer n >= 0
// and 0 <= f < 1; then m = n+1 = floor((1+sqrt(1+8z))/2) is the number of
// cycles left. The braking velocity (n+f)*U*dt is the largest velocity from
// which a per-cycle deceleration of U stops exactly on the destination:
// moving at it for one cycle leaves a distance whose braking velocity is
// lower by exactly U*dt, and the last cycle covers the remaining f*h.
package otg
