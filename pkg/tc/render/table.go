package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/komsit37/trailcalc/pkg/tc/columns"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, sets []types.ScenarioSet, opts RenderOptions) error {
	multi := len(sets) > 1
	fs := newFormatters(opts)
	for si, set := range sets {
		cols := set.Columns
		if len(opts.Columns) > 0 {
			cols = opts.Columns
		}

		// Print set name as a standalone line spanning full width
		if multi && strings.TrimSpace(set.Name) != "" {
			fmt.Fprintln(w, text.Bold.Sprint(strings.ToUpper(set.Name)))
		}

		tw := newTableWriter(w)

		hdr := make(table.Row, len(cols))
		for i, c := range cols {
			hdr[i] = strings.ToUpper(c)
		}
		tw.AppendHeader(hdr)

		// Column configs: wrap text to MaxColWidth (default 40), no truncation
		maxWidth := opts.MaxColWidth
		if maxWidth <= 0 {
			maxWidth = 40
		}
		cfgs := make([]table.ColumnConfig, 0, len(cols))
		for i, c := range cols {
			cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
			if columns.Numeric(c) {
				cfg.Align = text.AlignRight
				cfg.AlignHeader = text.AlignRight
			}
			cfgs = append(cfgs, cfg)
		}
		if len(cfgs) > 0 {
			tw.SetColumnConfigs(cfgs)
		}

		for _, res := range set.Results {
			f := fs.For(res.Scenario)
			row := make(table.Row, len(cols))
			for i, c := range cols {
				v := columns.Value(c, res, f)
				if opts.Color && (c == "access" || c == "access%") {
					v = purposeColors(res.Figures.Purpose).Sprint(v)
				}
				row[i] = v
			}
			tw.AppendRow(row)
		}

		tw.Render()
		if si < len(sets)-1 {
			// blank line between tables
			fmt.Fprintln(w)
		}
	}
	return nil
}

func newTableWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

func purposeColors(p types.Purpose) text.Colors {
	if p == types.WorkingCapital {
		return text.Colors{text.FgYellow}
	}
	return text.Colors{text.FgGreen}
}
