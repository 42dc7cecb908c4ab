package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Purpose selects which lending percentage applies to the book value.
type Purpose int

const (
	Acquisition Purpose = iota
	WorkingCapital
)

func (p Purpose) String() string {
	switch p {
	case WorkingCapital:
		return "working-capital"
	default:
		return "acquisition"
	}
}

// ParsePurpose accepts the CLI and YAML spellings of a purpose.
// An empty string yields Acquisition.
func ParsePurpose(s string) (Purpose, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "acquisition", "acq":
		return Acquisition, nil
	case "working-capital", "working_capital", "workingcapital", "wc":
		return WorkingCapital, nil
	}
	return Acquisition, fmt.Errorf("unknown purpose %q (want acquisition or working-capital)", s)
}

// MarshalText lets purposes round-trip through JSON and YAML as strings.
func (p Purpose) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Purpose) UnmarshalText(b []byte) error {
	v, err := ParsePurpose(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// RawInput is what the user typed, before sanitization.
type RawInput struct {
	Trail    string
	Multiple string
}

// Figures is the immutable result of one computation.
type Figures struct {
	Purpose       Purpose
	MonthlyTrail  decimal.Decimal
	AnnualTrail   decimal.Decimal
	Multiple      decimal.Decimal
	BookValue     decimal.Decimal
	AccessAmount  decimal.Decimal
	AccessPercent string
	AccessLabel   string
}

// Scenario is a named input set loaded from a scenario file.
type Scenario struct {
	Name    string
	Input   RawInput
	Purpose Purpose
	// Currency overrides the configured display currency when set.
	Currency string
}

// Result pairs a scenario with its computed figures for rendering.
type Result struct {
	Scenario Scenario
	Figures  Figures
}

// ScenarioSet is a named group of scenarios with an optional explicit
// column order. Sources fill Scenarios; the pipeline fills Results.
type ScenarioSet struct {
	Name      string
	Columns   []string
	Scenarios []Scenario
	Results   []Result
}
