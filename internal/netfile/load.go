package netfile

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/rtnet/internal/ctxlog"
	"github.com/vk/rtnet/internal/fsutil"
)

// Load reads every .hcl file under paths and merges them.
func Load(ctx context.Context, paths ...string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	files, err := fsutil.FindFiles(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files in %v", paths)
	}
	logger.Debug("Discovered network files.", "count", len(files))

	parser := hclparse.NewParser()
	bodies := make([]*hcl.File, 0, len(files))
	for _, path := range files {
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		bodies = append(bodies, f)
	}
	return merge(ctx, bodies...)
}

// Parse reads a single description from src.
func Parse(ctx context.Context, src []byte, filename string) (*File, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return merge(ctx, f)
}

func merge(ctx context.Context, files ...*hcl.File) (*File, error) {
	out := &File{}
	var cycleTimeAt *hcl.Range
	var stopAt *hcl.Range
	for _, f := range files {
		var root fileRoot
		if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file: %w", diags)
		}
		rng := f.Body.MissingItemRange()
		if root.CycleTime != nil {
			if cycleTimeAt != nil {
				return nil, fmt.Errorf("%s: cycle_time already set in %s", rng.Filename, cycleTimeAt.Filename)
			}
			cycleTimeAt = &rng
			out.CycleTime = *root.CycleTime
		}
		if root.StopWhen != nil {
			if stopAt != nil {
				return nil, fmt.Errorf("%s: stop_when already set in %s", rng.Filename, stopAt.Filename)
			}
			stopAt = &rng
			out.StopWhen = *root.StopWhen
		}
		out.Inputs = append(out.Inputs, root.Inputs...)
		out.Expressions = append(out.Expressions, root.Expressions...)
		out.Primitives = append(out.Primitives, root.Primitives...)
		out.Probes = append(out.Probes, root.Probes...)
	}
	if cycleTimeAt == nil {
		return nil, fmt.Errorf("cycle_time is not set")
	}
	if !(out.CycleTime > 0) {
		return nil, fmt.Errorf("%s: cycle_time must be positive, got %v", cycleTimeAt.Filename, out.CycleTime)
	}
	ctxlog.FromContext(ctx).Debug("Network description loaded.",
		"inputs", len(out.Inputs), "expressions", len(out.Expressions), "primitives", len(out.Primitives), "probes", len(out.Probes))
	return out, nil
}
