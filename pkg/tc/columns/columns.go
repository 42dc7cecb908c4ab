package columns

import (
	"strings"

	"github.com/komsit37/trailcalc/pkg/tc/present"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

// Resolver converts a computed result into the text of one column.
type Resolver func(r types.Result, f *present.Formatter) string

// Registry maps canonical column keys to resolvers.
var Registry = map[string]Resolver{}

// Default is the column order used when neither the CLI nor the scenario
// file names any.
var Default = []string{"name", "purpose", "monthly", "annual", "multiple", "book", "access%", "access"}

// aliases map alternative spellings to canonical keys.
var aliases = map[string]string{
	"scenario":      "name",
	"mo":            "monthly",
	"monthly_trail": "monthly",
	"yr":            "annual",
	"annual_trail":  "annual",
	"k":             "multiple",
	"bv":            "book",
	"book_value":    "book",
	"pct":           "access%",
	"access_pct":    "access%",
	"finance":       "access",
}

// numeric columns are right aligned by renderers.
var numeric = map[string]bool{
	"monthly":  true,
	"annual":   true,
	"multiple": true,
	"book":     true,
	"access%":  true,
	"access":   true,
}

func init() {
	Registry["name"] = func(r types.Result, _ *present.Formatter) string {
		return r.Scenario.Name
	}
	Registry["purpose"] = func(r types.Result, _ *present.Formatter) string {
		return r.Figures.Purpose.String()
	}
	Registry["monthly"] = func(r types.Result, f *present.Formatter) string {
		return f.Currency(r.Figures.MonthlyTrail)
	}
	Registry["annual"] = func(r types.Result, f *present.Formatter) string {
		return f.Currency(r.Figures.AnnualTrail)
	}
	Registry["multiple"] = func(r types.Result, f *present.Formatter) string {
		return f.Multiple(r.Figures.Multiple)
	}
	Registry["book"] = func(r types.Result, f *present.Formatter) string {
		return f.Currency(r.Figures.BookValue)
	}
	Registry["access%"] = func(r types.Result, _ *present.Formatter) string {
		return r.Figures.AccessPercent
	}
	Registry["access"] = func(r types.Result, f *present.Formatter) string {
		return f.Currency(r.Figures.AccessAmount)
	}
	Registry["label"] = func(r types.Result, _ *present.Formatter) string {
		return r.Figures.AccessLabel
	}
}

// Canonical resolves aliases and case to a registered key.
func Canonical(col string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(col))
	if a, ok := aliases[k]; ok {
		k = a
	}
	_, ok := Registry[k]
	return k, ok
}

// Numeric reports whether a canonical column holds a number.
func Numeric(col string) bool { return numeric[col] }

// Compute determines the final column order. Explicit entries may be column
// keys, aliases or set names; sets expand in place. Duplicates keep their
// first position. With no explicit columns Default is used.
func Compute(explicit []string) ([]string, error) {
	if len(explicit) == 0 {
		return append([]string(nil), Default...), nil
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(explicit))
	add := func(k string) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	for _, raw := range explicit {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		cols, err := ExpandSets([]string{raw})
		if err != nil {
			k, ok := Canonical(raw)
			if !ok {
				return nil, &UnknownColumnError{Name: raw}
			}
			cols = []string{k}
		}
		for _, c := range cols {
			add(c)
		}
	}
	return out, nil
}

// Value renders one column of a result. Unknown columns render empty.
func Value(col string, r types.Result, f *present.Formatter) string {
	if fn, ok := Registry[col]; ok {
		return fn(r, f)
	}
	return ""
}

// UnknownColumnError reports a column name that is neither a key, an alias
// nor a set.
type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string {
	return "unknown column: " + e.Name + "; available: " + strings.Join(Available(), ", ")
}
