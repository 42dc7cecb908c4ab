package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/komsit37/trailcalc/pkg/tc/estimate"
	"github.com/komsit37/trailcalc/pkg/tc/pipeline"
	"github.com/komsit37/trailcalc/pkg/tc/present"
	"github.com/komsit37/trailcalc/pkg/tc/render"
	"github.com/komsit37/trailcalc/pkg/tc/source"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

func newEstimateCmd() *cobra.Command {
	var (
		trail    string
		multiple string
		purpose  string
		noChart  bool
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute book value and accessible finance for one input",
		Example: `  trailcalc estimate --trail 10,000 --multiple 3
  trailcalc estimate -t 10000 -p wc -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := types.ParsePurpose(purpose)
			if err != nil {
				return err
			}
			cfg := loadSettings()
			sc := types.Scenario{
				Name:    "estimate",
				Input:   types.RawInput{Trail: trail, Multiple: multiple},
				Purpose: p,
			}
			return runEstimate(cmd.Context(), cmd.OutOrStdout(), cfg, sc, !noChart)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&trail, "trail", "t", "", "monthly trail commission, e.g. 10,000")
	f.StringVarP(&multiple, "multiple", "m", "", "valuation multiple (default from config)")
	f.StringVarP(&purpose, "purpose", "p", "acquisition", "acquisition or working-capital")
	f.BoolVar(&noChart, "no-chart", false, "skip the bar chart")
	return cmd
}

func runEstimate(ctx context.Context, w io.Writer, cfg settings, sc types.Scenario, chart bool) error {
	switch cfg.Output {
	case "json", "lines":
		r, err := newRenderer(cfg.Output)
		if err != nil {
			return err
		}
		runner := pipeline.Runner{
			Source:   source.Static{{Name: sc.Name, Scenarios: []types.Scenario{sc}}},
			Renderer: r,
			Writer:   w,
		}
		return runner.Execute(ctx, nil, pipeline.ExecuteOptions{
			Columns:    []string{"trail", "value", "access"},
			Estimate:   cfg.estimateOptions(),
			Color:      cfg.Color,
			PrettyJSON: cfg.Pretty,
			Locale:     cfg.Locale,
			Currency:   cfg.Currency,
		})
	case "table", "":
	default:
		return fmt.Errorf("unknown output format %q", cfg.Output)
	}

	fig := estimate.FromRaw(sc.Input, sc.Purpose, cfg.estimateOptions())
	fm := cfg.formatter()
	sink := render.NewTableSink()
	fm.Apply(sink, fig)
	if !cfg.Color {
		text.DisableColors()
	}
	sink.Render(w)
	if !chart {
		return nil
	}
	fmt.Fprintln(w)
	bc := render.NewBarChart(w, fm)
	bc.Width = chartWidth()
	bc.Color = cfg.Color
	defer bc.Close()
	return bc.Render(present.NewDataset(fig))
}

func newRenderer(output string) (render.Renderer, error) {
	switch output {
	case "table", "":
		return render.NewTableRenderer(), nil
	case "json":
		return render.NewJSONRenderer(), nil
	case "lines":
		return render.NewLinesRenderer(), nil
	}
	return nil, fmt.Errorf("unknown output format %q", output)
}
