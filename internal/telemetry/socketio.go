package telemetry

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/runner"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// ErrDisconnected is returned by Emit after the server went away.
var ErrDisconnected = errors.New("socket.io client disconnected")

// SocketIOOptions configures a SocketIO sink.
type SocketIOOptions struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// SocketIO emits every sample as one event.
type SocketIO struct {
	io        *socket.Socket
	event     string
	connected atomic.Bool
}

// DialSocketIO connects to a socket.io server and waits for the connection
// to be established.
func DialSocketIO(ctx context.Context, opts SocketIOOptions) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", opts.URL)
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("URL %q needs a scheme and a host", opts.URL)
	}
	if opts.Event == "" {
		opts.Event = "sample"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	sopts := socket.DefaultOptions()
	sopts.SetPath(parsed.Path)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), sopts)
	s := &SocketIO{io: manager.Socket(opts.Namespace, sopts), event: opts.Event}

	connected := make(chan error, 1)
	s.io.Once(types.EventName("connect"), func(...any) {
		s.connected.Store(true)
		connected <- nil
	})
	s.io.Once(types.EventName("connect_error"), func(errs ...any) {
		err, _ := errs[0].(error)
		if err == nil {
			err = fmt.Errorf("%v", errs[0])
		}
		connected <- err
	})
	s.io.On(types.EventName("disconnect"), func(...any) {
		s.connected.Store(false)
		logger.Warn("Telemetry server disconnected.")
	})

	logger.Debug("Connecting telemetry sink.")
	s.io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			s.io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		logger.Info("Telemetry sink connected.", "sid", s.io.Id())
		return s, nil
	case <-ctx.Done():
		s.io.Disconnect()
		return nil, fmt.Errorf("waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(opts.Timeout):
		s.io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", opts.Timeout)
	}
}

// Emit sends the Payload of sample. It does not wait for an
// acknowledgement.
func (s *SocketIO) Emit(_ context.Context, sample runner.Sample) error {
	if !s.connected.Load() {
		return ErrDisconnected
	}
	s.io.Emit(s.event, Payload(sample))
	return nil
}

// Close disconnects from the server.
func (s *SocketIO) Close() error {
	s.connected.Store(false)
	s.io.Disconnect()
	return nil
}

// Payload is the JSON-friendly form of a sample sent to the server.
func Payload(s runner.Sample) map[string]any {
	values := make(map[string]any, len(s.Values))
	for name, v := range s.Values {
		values[name] = v
	}
	return map[string]any{
		"net":    s.Net,
		"id":     s.ID,
		"cycle":  s.Cycle,
		"time":   s.Time,
		"values": values,
	}
}
