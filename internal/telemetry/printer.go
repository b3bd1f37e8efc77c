package telemetry

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/vk/rtnet/internal/runner"
)

// Printer writes one line per sample with the probes sorted by name. It may
// be shared by concurrently running nets.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrinter writes to w.
func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

// Emit writes one Format line per sample.
func (p *Printer) Emit(_ context.Context, s runner.Sample) error {
	line := Format(s)
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// Format renders s as "net cycle=N t=T name=value ...". Absent values print
// as "-".
func Format(s runner.Sample) string {
	names := make([]string, 0, len(s.Values))
	for name := range s.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s cycle=%d t=%.4f", s.Net, s.Cycle, s.Time)
	for _, name := range names {
		v := s.Values[name]
		if v == nil {
			fmt.Fprintf(&sb, " %s=-", name)
			continue
		}
		fmt.Fprintf(&sb, " %s=%v", name, v)
	}
	return sb.String()
}
