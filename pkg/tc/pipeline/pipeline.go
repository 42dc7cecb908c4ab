package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/komsit37/trailcalc/pkg/tc/columns"
	"github.com/komsit37/trailcalc/pkg/tc/estimate"
	"github.com/komsit37/trailcalc/pkg/tc/filter"
	"github.com/komsit37/trailcalc/pkg/tc/render"
	"github.com/komsit37/trailcalc/pkg/tc/source"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

type Runner struct {
	Source   source.Source
	Renderer render.Renderer
	Writer   io.Writer
}

type ExecuteOptions struct {
	Columns     []string
	Filter      filter.Filter
	Estimate    estimate.Options
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	Locale      string
	Currency    string
}

// Execute loads scenarios, drops those the filter rejects, computes each one
// and renders the surviving sets.
func (r *Runner) Execute(ctx context.Context, loc any, opts ExecuteOptions) error {
	sets, err := r.Source.Load(ctx, loc)
	if err != nil {
		return err
	}

	var filt filter.Filter = filter.Always(true)
	if opts.Filter != nil {
		filt = opts.Filter
	}

	var override []string
	if len(opts.Columns) > 0 {
		if override, err = columns.Compute(opts.Columns); err != nil {
			return err
		}
	}

	out := make([]types.ScenarioSet, 0, len(sets))
	for _, s := range sets {
		var kept []types.Scenario
		for _, sc := range s.Scenarios {
			if filter.Qualified(filt, s.Name, sc.Name) {
				kept = append(kept, sc)
			}
		}
		if len(kept) == 0 {
			continue
		}
		cols := override
		if cols == nil {
			if cols, err = columns.Compute(s.Columns); err != nil {
				return err
			}
		}
		s.Scenarios = kept
		s.Columns = cols
		s.Results = Compute(kept, opts.Estimate)
		out = append(out, s)
	}
	slog.Debug("scenarios computed", "sets", len(out))

	return r.Renderer.Render(r.Writer, out, render.RenderOptions{
		Color:       opts.Color,
		PrettyJSON:  opts.PrettyJSON,
		MaxColWidth: opts.MaxColWidth,
		Locale:      opts.Locale,
		Currency:    opts.Currency,
	})
}

// Compute runs the estimator over each scenario.
func Compute(scenarios []types.Scenario, opts estimate.Options) []types.Result {
	out := make([]types.Result, 0, len(scenarios))
	for _, sc := range scenarios {
		out = append(out, types.Result{
			Scenario: sc,
			Figures:  estimate.FromRaw(sc.Input, sc.Purpose, opts),
		})
	}
	return out
}
