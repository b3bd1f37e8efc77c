package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/rtnet/internal/action"
	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/device"
	"github.com/vk/rtnet/internal/expr"
	"github.com/vk/rtnet/internal/mapper"
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/runner"
)

// ErrException is returned by Move when the motion raised an exception.
var ErrException = errors.New("motion raised an exception")

// Move compiles joint goals for targets against the configured device and
// runs them to completion in simulation.
func (a *App) Move(ctx context.Context, targets map[string]float64) (runner.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if a.config.DevicePath == "" {
		return runner.Result{}, errors.New("no device file given")
	}
	if len(targets) == 0 {
		return runner.Result{}, errors.New("no joint targets given")
	}
	dev, err := device.Load(ctx, a.config.DevicePath)
	if err != nil {
		return runner.Result{}, err
	}

	joints := make([]string, 0, len(targets))
	for j := range targets {
		joints = append(joints, j)
	}
	sort.Strings(joints)
	goals := make([]action.Action, 0, len(joints))
	for _, j := range joints {
		goals = append(goals, &action.JointGoal{Joint: j, Target: expr.Double(targets[j])})
	}
	var act action.Action = &action.MultiJoint{Actions: goals}
	if len(goals) == 1 {
		act = goals[0]
	}

	s := mapper.Default().NewSession(ctx, a.registry)
	frag, err := action.NewCompiler(ctx).Build(s, act, action.Env{Params: dev})
	if err != nil {
		return runner.Result{}, err
	}
	n, err := s.Build(a.config.CycleTime)
	if err != nil {
		return runner.Result{}, err
	}
	sim, err := newSimulation(dev, joints, s.Inputs(), frag)
	if err != nil {
		return runner.Result{}, err
	}

	sinks, closeSinks, err := a.sinks(ctx)
	if err != nil {
		return runner.Result{}, err
	}
	defer closeSinks()

	job := runner.Job{
		Name:     dev.Name(),
		Net:      n,
		Probes:   sim.probes(),
		Stop:     frag.Result,
		Cycles:   a.config.Cycles,
		Realtime: a.config.Realtime,
		Every:    a.config.Every,
		Before:   sim.feed,
	}
	res, err := runner.New(a.metrics, sinks...).Run(ctx, job)
	if err != nil {
		return res, err
	}
	if raised := sim.raised(); len(raised) > 0 {
		return res, fmt.Errorf("%w: %s", ErrException, strings.Join(raised, ", "))
	}
	return res, nil
}

// simulation closes the loop of a compiled action: every measured position
// follows its command with one cycle of delay.
type simulation struct {
	dev    *device.Device
	joints []string
	inputs map[string]network.Feeder
	frag   *mapper.Fragment
	pos    map[string]float64
}

func newSimulation(dev *device.Device, joints []string, inputs map[string]network.Feeder, frag *mapper.Fragment) (*simulation, error) {
	sim := &simulation{dev: dev, joints: joints, inputs: inputs, frag: frag, pos: make(map[string]float64, len(joints))}
	for _, j := range joints {
		home, ok := dev.Home(j)
		if !ok {
			return nil, fmt.Errorf("%w: device '%s' has no joint '%s'", action.ErrLimits, dev.Name(), j)
		}
		sim.pos[j] = home
		if _, ok := inputs[device.PositionInput(j)]; !ok {
			return nil, fmt.Errorf("net reads no position of joint '%s'", j)
		}
	}
	return sim, nil
}

func (s *simulation) feed(cycle int64) error {
	for _, j := range s.joints {
		if cycle > 0 {
			out, _ := s.frag.Output(action.PositionOutput(j))
			if v, ok := out.Any(); ok {
				s.pos[j] = v.(float64)
			}
		}
		if err := s.inputs[device.PositionInput(j)].Feed(s.pos[j]); err != nil {
			return err
		}
		if cycle == 0 && s.dev.HasFaults() {
			if in, ok := s.inputs[device.FaultInput(j)]; ok {
				if err := in.Feed(false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// probes samples every named output of the action.
func (s *simulation) probes() []runner.Probe {
	names := make([]string, 0, len(s.frag.Outputs))
	for name := range s.frag.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	probes := make([]runner.Probe, 0, len(names))
	for _, name := range names {
		probes = append(probes, runner.Probe{Name: name, Port: s.frag.Outputs[name], Index: -1})
	}
	return probes
}

// raised lists the exceptions that currently read true.
func (s *simulation) raised() []string {
	var raised []string
	for name, out := range s.frag.Outputs {
		exc, ok := strings.CutPrefix(name, action.ExceptionOutput(""))
		if !ok {
			continue
		}
		if v, ok := out.Any(); ok && v.(bool) {
			raised = append(raised, exc)
		}
	}
	sort.Strings(raised)
	return raised
}
