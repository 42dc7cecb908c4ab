package render

import (
	"encoding/json"
	"io"

	"github.com/komsit37/trailcalc/pkg/tc/columns"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

// jsonModel is the output shape for JSONRenderer.
type jsonModel struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Items   []jsonItem `json:"items"`
}

// jsonItem carries raw figures for machines and formatted columns for people.
type jsonItem struct {
	Name          string            `json:"name"`
	Purpose       types.Purpose     `json:"purpose"`
	MonthlyTrail  string            `json:"monthly_trail"`
	AnnualTrail   string            `json:"annual_trail"`
	Multiple      string            `json:"multiple"`
	BookValue     string            `json:"book_value"`
	AccessAmount  string            `json:"access_amount"`
	AccessPercent string            `json:"access_percent"`
	AccessLabel   string            `json:"access_label"`
	Display       map[string]string `json:"display"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, sets []types.ScenarioSet, opts RenderOptions) error {
	fs := newFormatters(opts)
	out := make([]jsonModel, 0, len(sets))
	for _, s := range sets {
		cols := s.Columns
		if len(opts.Columns) > 0 {
			cols = opts.Columns
		}
		items := make([]jsonItem, 0, len(s.Results))
		for _, res := range s.Results {
			f := fs.For(res.Scenario)
			fig := res.Figures
			display := make(map[string]string, len(cols))
			for _, c := range cols {
				display[c] = columns.Value(c, res, f)
			}
			items = append(items, jsonItem{
				Name:          res.Scenario.Name,
				Purpose:       fig.Purpose,
				MonthlyTrail:  fig.MonthlyTrail.String(),
				AnnualTrail:   fig.AnnualTrail.String(),
				Multiple:      fig.Multiple.String(),
				BookValue:     fig.BookValue.String(),
				AccessAmount:  fig.AccessAmount.String(),
				AccessPercent: fig.AccessPercent,
				AccessLabel:   fig.AccessLabel,
				Display:       display,
			})
		}
		out = append(out, jsonModel{Name: s.Name, Columns: cols, Items: items})
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
