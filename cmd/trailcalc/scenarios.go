package main

import (
	"errors"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/komsit37/trailcalc/pkg/tc/filter"
	"github.com/komsit37/trailcalc/pkg/tc/pipeline"
	"github.com/komsit37/trailcalc/pkg/tc/source"
)

func newScenariosCmd() *cobra.Command {
	var (
		cols     string
		expr     string
		maxWidth int
	)
	cmd := &cobra.Command{
		Use:   "scenarios <file.yaml|dir>",
		Short: "Render a YAML file (or directory) of scenarios to a table",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires exactly 1 YAML file or directory argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadSettings()
			r, err := newRenderer(cfg.Output)
			if err != nil {
				return err
			}
			f, err := filter.Parse(expr)
			if err != nil {
				return err
			}
			if !cfg.Color {
				text.DisableColors()
			}

			runner := pipeline.Runner{
				Source:   source.YAMLSource{},
				Renderer: r,
				Writer:   cmd.OutOrStdout(),
			}
			return runner.Execute(cmd.Context(), args[0], pipeline.ExecuteOptions{
				Columns:     splitList(cols),
				Filter:      f,
				Estimate:    cfg.estimateOptions(),
				Color:       cfg.Color,
				PrettyJSON:  cfg.Pretty,
				MaxColWidth: maxWidth,
				Locale:      cfg.Locale,
				Currency:    cfg.Currency,
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&cols, "columns", "c", "", "comma separated columns or sets (trail, value, access, all)")
	fl.StringVarP(&expr, "filter", "f", "", "scenario filter: names a,b | glob | /regex/ | substring")
	fl.IntVar(&maxWidth, "max-col-width", 40, "wrap table cells wider than this")
	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
