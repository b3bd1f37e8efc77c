package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/rtnet/internal/action"
	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/value"
	"gopkg.in/yaml.v3"
)

// DefaultTolerance applies to joints and flanges that set none.
const DefaultTolerance = 1e-3

type jointFile struct {
	Name         string   `yaml:"name"`
	Min          float64  `yaml:"min"`
	Max          float64  `yaml:"max"`
	Velocity     float64  `yaml:"velocity"`
	Acceleration float64  `yaml:"acceleration"`
	Tolerance    float64  `yaml:"tolerance"`
	Home         *float64 `yaml:"home"`
}

type cartesianFile struct {
	Base            string  `yaml:"base"`
	Flange          string  `yaml:"flange"`
	Velocity        float64 `yaml:"velocity"`
	Acceleration    float64 `yaml:"acceleration"`
	RotVelocity     float64 `yaml:"rot_velocity"`
	RotAcceleration float64 `yaml:"rot_acceleration"`
	Tolerance       float64 `yaml:"tolerance"`
	RotTolerance    float64 `yaml:"rot_tolerance"`
	Workspace       float64 `yaml:"workspace"`
}

type file struct {
	Name      string         `yaml:"name"`
	Faults    bool           `yaml:"faults"`
	Joints    []jointFile    `yaml:"joints"`
	Cartesian *cartesianFile `yaml:"cartesian"`
}

// Device implements action.Parameters for a device read from YAML.
type Device struct {
	name      string
	faults    bool
	order     []string
	joints    map[string]action.JointLimits
	home      map[string]float64
	cartesian *action.CartesianLimits
}

var _ action.Parameters = (*Device)(nil)

// PositionInput names the input carrying a joint's measured position.
func PositionInput(joint string) string { return "joint." + joint + ".measured" }

// FaultInput names the input carrying a joint's actuator fault flag.
func FaultInput(joint string) string { return "joint." + joint + ".fault" }

// Load reads a device file.
func Load(ctx context.Context, path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open device file: %w", err)
	}
	defer f.Close()
	d, err := Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse reads a device from YAML source.
func Parse(ctx context.Context, src []byte) (*Device, error) {
	return Decode(ctx, bytes.NewReader(src))
}

// Decode reads a device from r. Unknown keys are errors.
func Decode(ctx context.Context, r io.Reader) (*Device, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var raw file
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty device file")
		}
		return nil, fmt.Errorf("failed to parse device file: %w", err)
	}
	d, err := newDevice(&raw)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Device loaded.", "device", d.name, "joints", len(d.order), "cartesian", d.cartesian != nil)
	return d, nil
}

func newDevice(raw *file) (*Device, error) {
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: device has no name", action.ErrLimits)
	}
	if len(raw.Joints) == 0 && raw.Cartesian == nil {
		return nil, fmt.Errorf("%w: device '%s' has neither joints nor Cartesian limits", action.ErrLimits, raw.Name)
	}
	d := &Device{
		name:   raw.Name,
		faults: raw.Faults,
		joints: make(map[string]action.JointLimits, len(raw.Joints)),
		home:   make(map[string]float64, len(raw.Joints)),
	}
	for _, j := range raw.Joints {
		if j.Name == "" {
			return nil, fmt.Errorf("%w: joint without a name", action.ErrLimits)
		}
		if _, dup := d.joints[j.Name]; dup {
			return nil, fmt.Errorf("%w: joint '%s' listed twice", action.ErrLimits, j.Name)
		}
		lim := action.JointLimits{
			MinPos:    j.Min,
			MaxPos:    j.Max,
			MaxVel:    j.Velocity,
			MaxAcc:    j.Acceleration,
			Tolerance: orDefault(j.Tolerance),
		}
		if err := checkJoint(lim); err != nil {
			return nil, fmt.Errorf("joint '%s': %w", j.Name, err)
		}
		home := (lim.MinPos + lim.MaxPos) / 2
		if j.Home != nil {
			home = *j.Home
		}
		if home < lim.MinPos || home > lim.MaxPos {
			return nil, fmt.Errorf("joint '%s': %w: home %v outside [%v, %v]", j.Name, action.ErrLimits, home, lim.MinPos, lim.MaxPos)
		}
		d.order = append(d.order, j.Name)
		d.joints[j.Name] = lim
		d.home[j.Name] = home
	}
	if c := raw.Cartesian; c != nil {
		lim := action.CartesianLimits{
			Base:         c.Base,
			Flange:       c.Flange,
			MaxTransVel:  c.Velocity,
			MaxTransAcc:  c.Acceleration,
			MaxRotVel:    c.RotVelocity,
			MaxRotAcc:    c.RotAcceleration,
			Tolerance:    orDefault(c.Tolerance),
			RotTolerance: orDefault(c.RotTolerance),
			Workspace:    c.Workspace,
		}
		if err := checkCartesian(lim); err != nil {
			return nil, fmt.Errorf("cartesian: %w", err)
		}
		d.cartesian = &lim
	}
	return d, nil
}

func orDefault(tol float64) float64 {
	if tol == 0 {
		return DefaultTolerance
	}
	return tol
}

func checkJoint(l action.JointLimits) error {
	switch {
	case !(l.MinPos < l.MaxPos):
		return fmt.Errorf("%w: min %v must be below max %v", action.ErrLimits, l.MinPos, l.MaxPos)
	case !(l.MaxVel > 0):
		return fmt.Errorf("%w: velocity must be positive, got %v", action.ErrLimits, l.MaxVel)
	case !(l.MaxAcc > 0):
		return fmt.Errorf("%w: acceleration must be positive, got %v", action.ErrLimits, l.MaxAcc)
	case !(l.Tolerance > 0):
		return fmt.Errorf("%w: tolerance must be positive, got %v", action.ErrLimits, l.Tolerance)
	}
	return nil
}

func checkCartesian(l action.CartesianLimits) error {
	switch {
	case l.Base == "" || l.Flange == "":
		return fmt.Errorf("%w: base and flange frames are required", action.ErrLimits)
	case l.Base == l.Flange:
		return fmt.Errorf("%w: base and flange are both '%s'", action.ErrLimits, l.Base)
	case !(l.MaxTransVel > 0 && l.MaxTransAcc > 0):
		return fmt.Errorf("%w: velocity and acceleration must be positive", action.ErrLimits)
	case !(l.MaxRotVel > 0 && l.MaxRotAcc > 0):
		return fmt.Errorf("%w: rot_velocity and rot_acceleration must be positive", action.ErrLimits)
	case !(l.Tolerance > 0 && l.RotTolerance > 0):
		return fmt.Errorf("%w: tolerances must be positive", action.ErrLimits)
	case l.Workspace < 0:
		return fmt.Errorf("%w: workspace must not be negative, got %v", action.ErrLimits, l.Workspace)
	}
	return nil
}

// Name is the device's name.
func (d *Device) Name() string { return d.name }

// Joints lists the joint names in file order.
func (d *Device) Joints() []string { return append([]string(nil), d.order...) }

// Home is where a joint rests before anything moves it.
func (d *Device) Home(joint string) (float64, bool) {
	h, ok := d.home[joint]
	return h, ok
}

// HasFaults reports whether the device publishes actuator faults.
func (d *Device) HasFaults() bool { return d.faults }

// Joint returns the limits of a joint, wrapping action.ErrLimits for an
// unknown one.
func (d *Device) Joint(name string) (action.JointLimits, error) {
	lim, ok := d.joints[name]
	if !ok {
		return lim, fmt.Errorf("%w: device '%s' has no joint '%s'", action.ErrLimits, d.name, name)
	}
	return lim, nil
}

// Cartesian returns the flange limits, or an error when the file has no
// cartesian section.
func (d *Device) Cartesian() (action.CartesianLimits, error) {
	if d.cartesian == nil {
		return action.CartesianLimits{}, fmt.Errorf("%w: device '%s' has no Cartesian limits", action.ErrLimits, d.name)
	}
	return *d.cartesian, nil
}

// Position is the measured joint position, fed as input
// "joint.<joint>.measured".
func (d *Device) Position(joint string) expr.Expr {
	return expr.NewInput(PositionInput(joint), value.TypeDouble)
}

// Fault is the joint's fault flag, or nil unless the device reports
// faults.
func (d *Device) Fault(joint string) expr.Expr {
	if !d.faults {
		return nil
	}
	return expr.NewInput(FaultInput(joint), value.TypeBool)
}

// Pose is the flange relative to the base. A device without Cartesian
// limits has no pose.
func (d *Device) Pose() expr.Expr {
	if d.cartesian == nil {
		return nil
	}
	return expr.NewRelation(d.cartesian.Base, d.cartesian.Flange)
}
