package analysis

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/modgraph"
)

// ModuleReport holds the diagnostics of the edges originating in one module.
type ModuleReport struct {
	Module       string
	Dependencies int
	Diagnostics  []*dependency.Diagnostic
}

// Report is the outcome of [Validate]. Modules are sorted by ID.
type Report struct {
	Modules []ModuleReport
}

// Diagnostics returns all diagnostics in module order.
func (r *Report) Diagnostics() []*dependency.Diagnostic {
	var out []*dependency.Diagnostic
	for _, m := range r.Modules {
		out = append(out, m.Diagnostics...)
	}
	return out
}

// Count returns the number of diagnostics.
func (r *Report) Count() int {
	n := 0
	for _, m := range r.Modules {
		n += len(m.Diagnostics)
	}
	return n
}

// Checked returns the number of dependencies validated.
func (r *Report) Checked() int {
	n := 0
	for _, m := range r.Modules {
		n += m.Dependencies
	}
	return n
}

// OK reports whether no diagnostic was produced.
func (r *Report) OK() bool { return r.Count() == 0 }

// Validate calls Errors on every dependency of every module in g. At most
// workers modules are checked at once; workers <= 0 uses GOMAXPROCS.
// The only error returned is the context's.
func Validate(ctx context.Context, g *modgraph.Graph, workers int) (*Report, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	mods := g.Modules()
	slots := make([]ModuleReport, len(mods))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, m := range mods {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			deps := m.Dependencies()
			slot := ModuleReport{Module: m.Identifier(), Dependencies: len(deps)}
			for _, d := range deps {
				slot.Diagnostics = append(slot.Diagnostics, d.Errors(g)...)
			}
			slots[i] = slot
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &Report{Modules: slots}, nil
}
