package action

import (
	"errors"

	"github.com/vk/rtnet/internal/expr"
)

// Exception names.
const (
	ExceptionJointLimit    = "joint_limit"
	ExceptionActuatorFault = "actuator_fault"
	ExceptionWorkspace     = "workspace"
)

var (
	// ErrUnknownAction is returned for an action type with neither a
	// factory nor a Compile method.
	ErrUnknownAction = errors.New("no factory for action")
	// ErrLimits is returned when limits are missing, invalid or violated
	// by a constant target.
	ErrLimits = errors.New("invalid limits")
	// ErrIncompatible is returned when actions cannot be combined.
	ErrIncompatible = errors.New("incompatible actions")
)

// Action is a motion request.
type Action interface {
	// Kind names the action in logs and errors.
	Kind() string
}

// JointLimits bounds one joint. Positions are in radians or metres,
// velocities and accelerations per second.
type JointLimits struct {
	MinPos    float64
	MaxPos    float64
	MaxVel    float64
	MaxAcc    float64
	Tolerance float64
}

// CartesianLimits bounds the motion of a device's flange.
type CartesianLimits struct {
	Base         string
	Flange       string
	MaxTransVel  float64
	MaxTransAcc  float64
	MaxRotVel    float64
	MaxRotAcc    float64
	Tolerance    float64
	RotTolerance float64
	// Workspace is the radius around the base the flange must stay in, or
	// zero for no limit.
	Workspace float64
}

// Parameters describes the device an action runs on.
type Parameters interface {
	Joint(name string) (JointLimits, error)
	Cartesian() (CartesianLimits, error)
	// Position is the measured position of a joint.
	Position(joint string) expr.Expr
	// Fault is true while the joint's actuator reports a fault, or nil if
	// the device reports none.
	Fault(joint string) expr.Expr
	// Pose is the measured flange frame relative to the base.
	Pose() expr.Expr
}

// Env is what an action is compiled against.
type Env struct {
	Params Parameters
	// Cancel requests a controlled stop. Nil means never.
	Cancel expr.Expr
	// Override scales all velocities, from 0 to 1. Nil means 1.
	Override expr.Expr
	// Time is the global time in seconds. Nil means the net's own time.
	Time expr.Expr

	first expr.Expr
}

// JointCommand is what a joint is told to do.
type JointCommand struct {
	Position expr.Expr
	Velocity expr.Expr
}

// Result is a compiled action.
type Result struct {
	// Joints maps joint names to commands for joint space actions.
	Joints map[string]JointCommand
	// Frame and Twist are the commands of a Cartesian action.
	Frame expr.Expr
	Twist expr.Expr

	Completed  expr.Expr
	Exceptions map[string]expr.Expr
}

// Cartesian reports whether r commands a frame rather than joints.
func (r *Result) Cartesian() bool { return r.Frame != nil }
