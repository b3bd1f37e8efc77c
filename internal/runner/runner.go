// Package runner drives nets cycle by cycle, samples their probes and
// hands the samples to sinks. Several nets run concurrently in a Group,
// one goroutine per net.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/metrics"
	"github.com/vk/rtnet/internal/network"
	"github.com/vk/rtnet/internal/value"
)

// Outcomes of a run.
const (
	Stopped   = "stopped"
	Exhausted = "cycles"
	Cancelled = "cancelled"
	Failed    = "error"
)

// ErrNoEnd is returned for a job that would never end on its own and whose
// context cannot be cancelled.
var ErrNoEnd = errors.New("job has neither a cycle limit nor a stop port")

// Probe samples one output, or one element of an array output.
type Probe struct {
	Name  string
	Port  network.OutputPort
	Index int
}

// Read returns the probed value.
func (p Probe) Read() (any, bool) {
	v, ok := p.Port.Any()
	if !ok || p.Index < 0 {
		return v, ok
	}
	arr, isArray := v.(interface{ At(int) (any, bool) })
	if !isArray {
		return nil, false
	}
	return arr.At(p.Index)
}

// Sample is the state of the probes after one cycle. Absent values are nil.
type Sample struct {
	Net    string         `json:"net"`
	ID     string         `json:"id"`
	Cycle  int64          `json:"cycle"`
	Time   float64        `json:"time"`
	Values map[string]any `json:"values"`
}

// Sink receives samples. Emit is called from the net's goroutine.
type Sink interface {
	Emit(ctx context.Context, s Sample) error
}

// Job is one net to run.
type Job struct {
	Name   string
	Net    *network.Net
	Probes []Probe
	// Stop ends the run once it reads true. Nil means never.
	Stop network.OutputPort
	// Cycles limits the run; zero means no limit.
	Cycles int64
	// Realtime paces the cycles at the net's cycle time.
	Realtime bool
	// Every emits every Every-th cycle; zero emits only the last one, which
	// is always emitted.
	Every int
	// Before is called before each cycle, e.g. to feed inputs.
	Before func(cycle int64) error
}

// Result describes a finished run.
type Result struct {
	Name    string
	ID      string
	Cycles  int64
	Outcome string
	Last    Sample
}

// Runner runs jobs.
type Runner struct {
	metrics *metrics.Metrics
	sinks   []Sink
}

// New returns a runner. m may be nil.
func New(m *metrics.Metrics, sinks ...Sink) *Runner {
	return &Runner{metrics: m, sinks: sinks}
}

// Run executes job until its stop port reads true, its cycle limit is
// reached or ctx ends. A cancelled context is not an error.
func (r *Runner) Run(ctx context.Context, job Job) (Result, error) {
	if job.Cycles <= 0 && job.Stop == nil && ctx.Done() == nil {
		return Result{}, ErrNoEnd
	}
	if job.Stop != nil && job.Stop.Type() != value.TypeBool {
		return Result{}, fmt.Errorf("stop port %s.%s is %s, not bool", job.Stop.Owner().Name(), job.Stop.Name(), job.Stop.Type())
	}
	res := Result{Name: job.Name, ID: uuid.NewString()}
	logger := ctxlog.FromContext(ctx).With("net", job.Name, "id", res.ID)

	if job.Net.State() != network.Running {
		if err := job.Net.Start(); err != nil {
			return res, err
		}
	}
	r.metrics.Started(job.Name, job.Net.Len())
	logger.Info("Net started.", "primitives", job.Net.Len(), "cycle_time", job.Net.CycleTime(), "realtime", job.Realtime)

	res.Outcome = Failed
	defer func() {
		r.metrics.Finished(job.Name, res.Outcome)
		logger.Info("Net finished.", "outcome", res.Outcome, "cycles", res.Cycles)
	}()

	period := time.Duration(job.Net.CycleTime() * float64(time.Second))
	var tick <-chan time.Time
	if job.Realtime {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		if ctx.Err() != nil {
			res.Outcome = Cancelled
			return res, nil
		}
		cycle := job.Net.Cycle()
		if job.Before != nil {
			if err := job.Before(cycle); err != nil {
				return res, fmt.Errorf("cycle %d: %w", cycle, err)
			}
		}

		start := time.Now()
		if err := job.Net.Step(); err != nil {
			return res, fmt.Errorf("cycle %d: %w", cycle, err)
		}
		took := time.Since(start)
		r.metrics.Cycle(job.Name, took, job.Realtime && took > period)
		res.Cycles++

		done := ""
		if job.Stop != nil {
			if v, ok := job.Stop.Any(); ok && v.(bool) {
				done = Stopped
			}
		}
		if done == "" && job.Cycles > 0 && res.Cycles >= job.Cycles {
			done = Exhausted
		}

		if done != "" || (len(r.sinks) > 0 && job.Every > 0 && res.Cycles%int64(job.Every) == 0) {
			res.Last = r.sample(job, res.ID, cycle)
			if err := r.emit(ctx, res.Last); err != nil {
				return res, err
			}
		}
		if done != "" {
			res.Outcome = done
			return res, nil
		}

		if tick != nil {
			select {
			case <-ctx.Done():
			case <-tick:
			}
		}
	}
}

func (r *Runner) sample(job Job, id string, cycle int64) Sample {
	s := Sample{
		Net:    job.Name,
		ID:     id,
		Cycle:  cycle,
		Time:   float64(cycle) * job.Net.CycleTime(),
		Values: make(map[string]any, len(job.Probes)),
	}
	for _, p := range job.Probes {
		v, ok := p.Read()
		if !ok {
			v = nil
		}
		s.Values[p.Name] = v
	}
	return s
}

func (r *Runner) emit(ctx context.Context, s Sample) error {
	for _, sink := range r.sinks {
		if err := sink.Emit(ctx, s); err != nil {
			return fmt.Errorf("emitting cycle %d: %w", s.Cycle, err)
		}
	}
	return nil
}
