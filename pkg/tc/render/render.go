package render

import (
	"io"
	"strings"

	"github.com/komsit37/trailcalc/pkg/tc/present"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

// Renderer renders computed scenario sets to an output writer.
type Renderer interface {
	Render(w io.Writer, sets []types.ScenarioSet, opts RenderOptions) error
}

// ChartRenderer draws a comparison chart. Each call replaces whatever the
// previous call drew.
type ChartRenderer interface {
	Render(ds present.Dataset) error
}

type RenderOptions struct {
	Columns     []string
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	Locale      string
	Currency    string
}

// formatters caches one Formatter per currency code for a render pass.
type formatters struct {
	locale   string
	fallback string
	byCode   map[string]*present.Formatter
}

func newFormatters(opts RenderOptions) *formatters {
	return &formatters{locale: opts.Locale, fallback: opts.Currency, byCode: map[string]*present.Formatter{}}
}

func (fs *formatters) For(s types.Scenario) *present.Formatter {
	code := strings.ToUpper(strings.TrimSpace(s.Currency))
	if code == "" {
		code = fs.fallback
	}
	if f, ok := fs.byCode[code]; ok {
		return f
	}
	f := present.NewFormatter(fs.locale, code)
	fs.byCode[code] = f
	return f
}
