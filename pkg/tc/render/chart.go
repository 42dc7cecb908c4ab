package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/komsit37/trailcalc/pkg/tc/present"
)

const (
	defaultChartWidth = 60
	minBarWidth       = 10
	barRune           = "█"

	// cursor up N lines, then clear to end of screen
	eraseFmt = "\x1b[%dA\x1b[J"
)

// palette maps dataset colors onto terminal colors.
var palette = map[string]text.Colors{
	present.ColorBook:           {text.FgHiBlue},
	present.ColorAcquisition:    {text.FgHiGreen},
	present.ColorWorkingCapital: {text.FgHiYellow},
}

// chart is one drawn instance. It must be destroyed before another is drawn.
type chart struct {
	lines int
}

// BarChart draws horizontal bars to a terminal. It owns at most one live
// chart; Render destroys the previous one before drawing.
type BarChart struct {
	w      io.Writer
	format *present.Formatter

	// Width is the total line width; zero means 60 columns.
	Width int
	Color bool
	// Live erases the previous chart in place using ANSI cursor control.
	// Leave it off when the writer is not a terminal.
	Live bool

	cur *chart
}

func NewBarChart(w io.Writer, f *present.Formatter) *BarChart {
	return &BarChart{w: w, format: f}
}

// Render implements ChartRenderer.
func (b *BarChart) Render(ds present.Dataset) error {
	b.destroy()
	lines := b.lines(ds)
	for _, l := range lines {
		if _, err := fmt.Fprintln(b.w, l); err != nil {
			return err
		}
	}
	b.cur = &chart{lines: len(lines)}
	return nil
}

// Close tears down the live chart, if any.
func (b *BarChart) Close() error {
	b.destroy()
	return nil
}

func (b *BarChart) destroy() {
	if b.cur == nil {
		return
	}
	if b.Live && b.cur.lines > 0 {
		fmt.Fprintf(b.w, eraseFmt, b.cur.lines)
	}
	b.cur = nil
}

func (b *BarChart) lines(ds present.Dataset) []string {
	if len(ds.Bars) == 0 {
		return nil
	}
	labels := make([]string, len(ds.Bars))
	values := make([]string, len(ds.Bars))
	labelW, valueW := 0, 0
	for i, bar := range ds.Bars {
		labels[i] = bar.Label
		values[i] = b.format.Currency(bar.Value)
		labelW = max(labelW, text.RuneWidthWithoutEscSequences(labels[i]))
		valueW = max(valueW, text.RuneWidthWithoutEscSequences(values[i]))
	}

	width := b.Width
	if width <= 0 {
		width = defaultChartWidth
	}
	barW := max(width-labelW-valueW-4, minBarWidth)

	top := ds.Max()
	out := make([]string, 0, len(ds.Bars))
	for i, bar := range ds.Bars {
		n := scale(bar.Value, top, barW)
		fill := strings.Repeat(barRune, n)
		if b.Color {
			if c, ok := palette[bar.Color]; ok {
				fill = c.Sprint(fill)
			}
		}
		line := text.Pad(labels[i], labelW, ' ') + "  " +
			fill + strings.Repeat(" ", barW-n) + "  " +
			text.AlignRight.Apply(values[i], valueW)
		out = append(out, strings.TrimRight(line, " "))
	}
	return out
}

// scale maps v into [0, width] relative to top. Positive values always get
// at least one cell so a tiny bar is still visible.
func scale(v, top decimal.Decimal, width int) int {
	if !top.IsPositive() || !v.IsPositive() {
		return 0
	}
	n := int(v.Div(top).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return n
}
