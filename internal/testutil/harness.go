// Package testutil holds helpers shared by the package tests: a
// goroutine-safe log buffer, a logger-carrying context, a harness that
// drives a single net, and the registry-wide absence check.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/network"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Context returns a context carrying a debug logger that writes into the
// returned buffer. Set RTNET_TEST_LOGS=true to also see the output in the
// test log.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if os.Getenv("RTNET_TEST_LOGS") == "true" {
		t.Cleanup(func() { t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String()) })
	}
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// NetHarness drives one net from a test.
type NetHarness struct {
	t   *testing.T
	Net *network.Net
}

// NewNetHarness creates an empty net with the given cycle time.
func NewNetHarness(t *testing.T, cycleTime float64) *NetHarness {
	return &NetHarness{t: t, Net: network.New(cycleTime)}
}

// Add adds p under name and returns it.
func (h *NetHarness) Add(name string, p network.Primitive) network.Primitive {
	h.t.Helper()
	require.NoError(h.t, h.Net.Add(name, p))
	return p
}

// Source adds a source feeding the named input of p.
func Source[T any](h *NetHarness, p network.Primitive, input string) *network.Source[T] {
	h.t.Helper()
	in, ok := p.Input(input)
	require.True(h.t, ok, "%s has no input %s", p.Kind(), input)
	s := network.NewSource[T]()
	require.NoError(h.t, h.Net.Add(p.Name()+"."+input, s))
	require.NoError(h.t, h.Net.Connect(s.Out(), in))
	return s
}

// Start validates and starts the net.
func (h *NetHarness) Start() {
	h.t.Helper()
	require.NoError(h.t, h.Net.Start())
}

// Step runs n cycles.
func (h *NetHarness) Step(n int) {
	h.t.Helper()
	for range n {
		require.NoError(h.t, h.Net.Step())
	}
}

// Output returns the current value of an output of p.
func Output[T any](h *NetHarness, p network.Primitive, output string) (T, bool) {
	h.t.Helper()
	o, ok := p.Output(output)
	require.True(h.t, ok, "%s has no output %s", p.Kind(), output)
	v, present := o.Any()
	if !present {
		var zero T
		return zero, false
	}
	tv, ok := v.(T)
	require.True(h.t, ok, "output %s holds %T", output, v)
	return tv, true
}
