package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/trailcalc/pkg/tc/types"
)

// linesRenderer prints one compact line per scenario:
// "name: $360,000 book -> $252,000 acquisition finance (70%)".
type linesRenderer struct{}

func NewLinesRenderer() Renderer {
	return linesRenderer{}
}

func (linesRenderer) Render(w io.Writer, sets []types.ScenarioSet, opts RenderOptions) error {
	fs := newFormatters(opts)
	for _, set := range sets {
		for _, res := range set.Results {
			name := strings.TrimSpace(res.Scenario.Name)
			if name == "" {
				name = set.Name
			}
			f := fs.For(res.Scenario)
			fig := res.Figures
			_, err := fmt.Fprintf(w, "%s: %s book -> %s %s (%s)\n",
				name,
				f.Currency(fig.BookValue),
				f.Currency(fig.AccessAmount),
				strings.ToLower(fig.AccessLabel),
				fig.AccessPercent,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
