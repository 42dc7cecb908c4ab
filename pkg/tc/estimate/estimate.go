package estimate

import (
	"github.com/shopspring/decimal"

	"github.com/komsit37/trailcalc/pkg/tc/sanitize"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

const (
	AcquisitionPercent    = "70%"
	WorkingCapitalPercent = "50%"

	AcquisitionLabel    = "Acquisition Finance"
	WorkingCapitalLabel = "Working Capital"
)

var (
	monthsPerYear       = decimal.NewFromInt(12)
	acquisitionRatio    = decimal.RequireFromString("0.7")
	workingCapitalRatio = decimal.RequireFromString("0.5")
)

// Compute derives the book value and accessible finance for a monthly trail.
// It is total: callers sanitize inputs first (see FromRaw).
func Compute(monthlyTrail int64, multiple float64, purpose types.Purpose) types.Figures {
	monthly := decimal.NewFromInt(monthlyTrail)
	k := decimal.NewFromFloat(multiple)

	annual := monthly.Mul(monthsPerYear)
	book := annual.Mul(k)
	workingCapital := book.Mul(workingCapitalRatio)
	acquisition := book.Mul(acquisitionRatio)

	f := types.Figures{
		Purpose:      purpose,
		MonthlyTrail: monthly,
		AnnualTrail:  annual,
		Multiple:     k,
		BookValue:    book,
	}
	if purpose == types.Acquisition {
		f.AccessAmount = acquisition
		f.AccessPercent = AcquisitionPercent
		f.AccessLabel = AcquisitionLabel
	} else {
		f.AccessAmount = workingCapital
		f.AccessPercent = WorkingCapitalPercent
		f.AccessLabel = WorkingCapitalLabel
	}
	return f
}

// Options tune how raw text is turned into inputs.
type Options struct {
	// DefaultMultiple replaces an unparsable or non-positive multiple.
	// Zero means sanitize.DefaultMultiple.
	DefaultMultiple float64
}

func (o Options) fallback() float64 {
	if o.DefaultMultiple > 0 {
		return o.DefaultMultiple
	}
	return sanitize.DefaultMultiple
}

// FromRaw sanitizes user text and computes figures.
func FromRaw(raw types.RawInput, purpose types.Purpose, opts Options) types.Figures {
	return Compute(
		sanitize.ParseInteger(raw.Trail),
		sanitize.ParseMultiple(raw.Multiple, opts.fallback()),
		purpose,
	)
}
