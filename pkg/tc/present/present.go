// Package present turns computed figures into display strings and a chart
// dataset. It never fails: a display target that does not exist is skipped.
package present

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/komsit37/trailcalc/pkg/tc/sanitize"
	"github.com/komsit37/trailcalc/pkg/tc/types"
)

// Formatter renders money and multiples for one locale and currency.
type Formatter struct {
	group  *sanitize.Grouper
	symbol string
}

// NewFormatter builds a Formatter. An empty or unknown currency code falls
// back to USD; an unparsable locale falls back to English.
func NewFormatter(locale, code string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		unit = currency.USD
	}
	p := message.NewPrinter(tag)
	return &Formatter{group: sanitize.NewGrouper(tag), symbol: p.Sprint(currency.Symbol(unit))}
}

// Currency rounds to the nearest whole unit and prints symbol plus grouped
// digits. Amounts beyond int64 keep every digit.
func (f *Formatter) Currency(d decimal.Decimal) string {
	r := d.Round(0)
	digits := f.group.Format(r.Abs().String())
	if r.IsNegative() {
		return "-" + f.symbol + digits
	}
	return f.symbol + digits
}

// Multiple prints a multiple with one decimal place, e.g. "3.0x".
func (f *Formatter) Multiple(d decimal.Decimal) string {
	return d.StringFixed(1) + "x"
}

// Target names one place on the display surface.
type Target string

const (
	TargetMultiple        Target = "multiple"
	TargetMonthly         Target = "monthly"
	TargetAnnual          Target = "annual"
	TargetSummaryMultiple Target = "summary-multiple"
	TargetBook            Target = "book"
	TargetAccess          Target = "access"
	TargetAccessPercent   Target = "access-percent"
	TargetAccessLabel     Target = "access-label"
)

// Targets lists every display target in render order.
var Targets = []Target{
	TargetMultiple,
	TargetMonthly,
	TargetAnnual,
	TargetSummaryMultiple,
	TargetBook,
	TargetAccess,
	TargetAccessPercent,
	TargetAccessLabel,
}

// ErrNoTarget is returned by a Sink that has no such target.
var ErrNoTarget = errors.New("display target not found")

// Sink is the display surface figures are written to.
type Sink interface {
	SetText(t Target, s string) error
}

// Strings formats every target for figures.
func (f *Formatter) Strings(fig types.Figures) map[Target]string {
	return map[Target]string{
		TargetMultiple:        f.Multiple(fig.Multiple),
		TargetMonthly:         f.Currency(fig.MonthlyTrail),
		TargetAnnual:          f.Currency(fig.AnnualTrail),
		TargetSummaryMultiple: f.Multiple(fig.Multiple),
		TargetBook:            f.Currency(fig.BookValue),
		TargetAccess:          f.Currency(fig.AccessAmount),
		TargetAccessPercent:   fig.AccessPercent,
		TargetAccessLabel:     fig.AccessLabel,
	}
}

// Apply writes each formatted figure to sink. Failing targets are logged and
// skipped; the number of targets updated is returned.
func (f *Formatter) Apply(sink Sink, fig types.Figures) int {
	if sink == nil {
		return 0
	}
	vals := f.Strings(fig)
	n := 0
	for _, t := range Targets {
		if err := sink.SetText(t, vals[t]); err != nil {
			slog.Debug("skip display target", "target", string(t), "err", err)
			continue
		}
		n++
	}
	return n
}

// MapSink is an in-memory Sink with a fixed set of targets.
type MapSink struct {
	values map[Target]string
}

// NewMapSink creates a sink holding only the given targets; with none it
// holds all of Targets.
func NewMapSink(targets ...Target) *MapSink {
	if len(targets) == 0 {
		targets = Targets
	}
	m := &MapSink{values: make(map[Target]string, len(targets))}
	for _, t := range targets {
		m.values[t] = ""
	}
	return m
}

func (m *MapSink) SetText(t Target, s string) error {
	if _, ok := m.values[t]; !ok {
		return fmt.Errorf("%w: %s", ErrNoTarget, t)
	}
	m.values[t] = s
	return nil
}

// Get returns the current text of a target.
func (m *MapSink) Get(t Target) (string, bool) {
	s, ok := m.values[t]
	return s, ok
}
