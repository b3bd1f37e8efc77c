package runner

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Group runs several jobs concurrently. The first failing job cancels the
// others.
type Group struct {
	r   *Runner
	g   *errgroup.Group
	ctx context.Context

	mu      sync.Mutex
	results []Result
}

// Group returns an empty group bound to ctx.
func (r *Runner) Group(ctx context.Context) *Group {
	g, gctx := errgroup.WithContext(ctx)
	return &Group{r: r, g: g, ctx: gctx}
}

// Go starts job in its own goroutine.
func (g *Group) Go(job Job) {
	g.g.Go(func() error {
		res, err := g.r.Run(g.ctx, job)
		g.mu.Lock()
		g.results = append(g.results, res)
		g.mu.Unlock()
		return err
	})
}

// Wait waits for every job and returns their results sorted by name, and
// the first error.
func (g *Group) Wait() ([]Result, error) {
	err := g.g.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	sort.SliceStable(g.results, func(i, j int) bool { return g.results[i].Name < g.results[j].Name })
	return g.results, err
}
