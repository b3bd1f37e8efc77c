package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/rtnet/internal/app"
)

// Exit codes besides 0 and 1.
const (
	ExitUsage     = 2
	ExitException = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// options collects the flag values shared by the commands.
type options struct {
	logLevel        string
	logFormat       string
	healthcheckPort int
	metricsPort     int

	cycles            int64
	realtime          bool
	every             int
	cycleTime         float64
	devicePath        string
	socketIOURL       string
	socketIONamespace string
}

func (o *options) config(netPaths []string) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		NetPaths:          netPaths,
		DevicePath:        o.devicePath,
		CycleTime:         o.cycleTime,
		Cycles:            o.cycles,
		Realtime:          o.realtime,
		Every:             o.every,
		SocketIOURL:       o.socketIOURL,
		SocketIONamespace: o.socketIONamespace,
		LogFormat:         o.logFormat,
		LogLevel:          o.logLevel,
		HealthcheckPort:   o.healthcheckPort,
		MetricsPort:       o.metricsPort,
	})
	if err != nil {
		return nil, usageError("%v", err)
	}
	return cfg, nil
}

// NewRootCommand returns the rtnet command tree. Samples and listings go to
// outW, logs to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "rtnet",
		Short:         "rtnet runs real-time dataflow networks",
		Long:          `rtnet builds cyclic dataflow networks from HCL descriptions or motion actions and runs them, printing probed values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.IntVar(&opts.healthcheckPort, "healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	pf.IntVar(&opts.metricsPort, "metrics-port", 0, "Port for the Prometheus metrics server. 0 is disabled.")

	root.AddCommand(
		newRunCommand(opts, outW, errW),
		newMoveCommand(opts, outW, errW),
		newPrimitivesCommand(opts, outW, errW),
	)
	return root
}

// addRunFlags registers the flags of commands that run a net.
func addRunFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.Int64Var(&opts.cycles, "cycles", 0, "Stop after this many cycles. 0 is no limit.")
	f.BoolVar(&opts.realtime, "realtime", false, "Pace cycles at the cycle time instead of running flat out.")
	f.IntVar(&opts.every, "every", 0, "Print probes every N cycles. 0 prints the last cycle only.")
	f.StringVar(&opts.socketIOURL, "socketio-url", "", "Stream samples to this socket.io server.")
	f.StringVar(&opts.socketIONamespace, "socketio-namespace", "", "Namespace on the socket.io server.")
}

func newRunCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run NET_PATH...",
		Short: "Run network descriptions",
		Long:  `Each NET_PATH is a .hcl file or a directory of .hcl files describing one net. All nets run concurrently until their stop_when port reads true or the cycle limit is reached.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError("run needs at least one network path")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(args)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), cfg, outW, errW, func(ctx context.Context, a *app.App) error {
				_, err := a.RunNets(ctx)
				return err
			})
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

func newMoveCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move JOINT=POSITION...",
		Short: "Move device joints in simulation",
		Long:  `Compiles a goal for every JOINT=POSITION against the device file and runs it until every joint arrived, with the measured positions following the commands.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError("move needs at least one JOINT=POSITION target")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := parseTargets(args)
			if err != nil {
				return err
			}
			cfg, err := opts.config(nil)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), cfg, outW, errW, func(ctx context.Context, a *app.App) error {
				_, err := a.Move(ctx, targets)
				if errors.Is(err, app.ErrException) {
					return &ExitError{Code: ExitException, Message: err.Error()}
				}
				return err
			})
		},
	}
	addRunFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.devicePath, "device", "d", "", "Path to the device YAML file.")
	cmd.Flags().Float64Var(&opts.cycleTime, "cycle-time", app.DefaultCycleTime, "Cycle time in seconds.")
	_ = cmd.MarkFlagRequired("device")
	return cmd
}

func newPrimitivesCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "primitives",
		Short: "List the registered primitive kinds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config(nil)
			if err != nil {
				return err
			}
			a, err := app.NewApp(outW, errW, cfg)
			if err != nil {
				return err
			}
			return a.ListPrimitives()
		},
	}
}

// withApp creates the app, brings its endpoints up around fn and tears
// them down afterwards.
func withApp(ctx context.Context, cfg *app.Config, outW, errW io.Writer, fn func(context.Context, *app.App) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.NewApp(outW, errW, cfg)
	if err != nil {
		return err
	}
	if err := a.Start(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return fn(ctx, a)
}

func parseTargets(args []string) (map[string]float64, error) {
	targets := make(map[string]float64, len(args))
	for _, arg := range args {
		joint, raw, ok := strings.Cut(arg, "=")
		if !ok || joint == "" {
			return nil, usageError("invalid target %q: want JOINT=POSITION", arg)
		}
		pos, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, usageError("invalid position for joint '%s': %v", joint, err)
		}
		if _, dup := targets[joint]; dup {
			return nil, usageError("joint '%s' given twice", joint)
		}
		targets[joint] = pos
	}
	return targets, nil
}

// Execute runs the command line in args.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) && isUsageError(err) {
		return usageError("%v", err)
	}
	return err
}

// isUsageError recognises the errors cobra reports for unknown commands and
// missing required flags.
func isUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.Contains(msg, "required flag")
}
