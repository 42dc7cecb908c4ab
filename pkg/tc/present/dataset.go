package present

import (
	"github.com/shopspring/decimal"

	"github.com/komsit37/trailcalc/pkg/tc/types"
)

// Chart colors. Book value is fixed; the access bar follows the purpose.
const (
	ColorBook           = "#2563eb"
	ColorAcquisition    = "#16a34a"
	ColorWorkingCapital = "#f59e0b"
)

const (
	LabelBook           = "Book Value"
	LabelAcquisition    = "Acquisition (70%)"
	LabelWorkingCapital = "Working Capital (50%)"
)

// Bar is one category of the comparison chart.
type Bar struct {
	Label string
	Value decimal.Decimal
	Color string
}

// Dataset is a full chart description; renderers rebuild from it each time.
type Dataset struct {
	Bars []Bar
}

// NewDataset builds the two-bar book value vs access comparison.
func NewDataset(fig types.Figures) Dataset {
	access := Bar{Label: LabelAcquisition, Value: fig.AccessAmount, Color: ColorAcquisition}
	if fig.Purpose == types.WorkingCapital {
		access.Label = LabelWorkingCapital
		access.Color = ColorWorkingCapital
	}
	return Dataset{Bars: []Bar{
		{Label: LabelBook, Value: fig.BookValue, Color: ColorBook},
		access,
	}}
}

// Max returns the largest bar value, or zero for an empty dataset.
func (d Dataset) Max() decimal.Decimal {
	m := decimal.Zero
	for _, b := range d.Bars {
		if b.Value.GreaterThan(m) {
			m = b.Value
		}
	}
	return m
}
