// Package sanitize turns free-form user text into the numbers the estimator
// accepts. Nothing here reports errors: malformed text collapses to zero or
// to a caller-supplied fallback.
package sanitize

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultMultiple is used whenever a multiple cannot be parsed or is not positive.
const DefaultMultiple = 3.0

// SanitizeDigits drops every rune that is not an ASCII decimal digit.
func SanitizeDigits(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if c := text[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ParseInteger strips non-digits and parses the rest. Empty or overflowing
// input yields 0.
func ParseInteger(text string) int64 {
	digits := SanitizeDigits(text)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseMultiple parses a valuation multiple such as "3.5", "3.5x" or " 4 ".
// Anything that is not a finite positive number returns fallback.
func ParseMultiple(text string, fallback float64) float64 {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "x"), "X")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fallback
	}
	return v
}

// Grouper renders digit strings with the thousands separators of a locale.
type Grouper struct {
	p *message.Printer
}

// NewGrouper returns a Grouper for tag. Unknown tags fall back to English
// inside x/text.
func NewGrouper(tag language.Tag) *Grouper {
	return &Grouper{p: message.NewPrinter(tag)}
}

var english = NewGrouper(language.English)

// FormatGrouped groups digits using English separators, e.g. "1234567"
// becomes "1,234,567". Non-digits are ignored; empty input gives "".
func FormatGrouped(digits string) string { return english.Format(digits) }

func (g *Grouper) Format(digits string) string {
	digits = SanitizeDigits(digits)
	if digits == "" {
		return ""
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// too long for int64; group by hand rather than lose digits
		return groupASCII(strings.TrimLeft(digits, "0"))
	}
	return g.p.Sprintf("%d", n)
}

func groupASCII(digits string) string {
	if digits == "" {
		return "0"
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Field is the state of a text input after reformatting.
type Field struct {
	Text  string
	Caret int
}

// Reformat sanitizes and regroups the trail field, moving the caret by the
// change in length so it stays next to the digit the user was editing.
// The caret is clamped to [0, len(result)], measured in runes.
func (g *Grouper) Reformat(text string, caret int) Field {
	out := g.Format(text)
	oldLen := utf8.RuneCountInString(text)
	newLen := utf8.RuneCountInString(out)
	c := caret + (newLen - oldLen)
	if c < 0 {
		c = 0
	}
	if c > newLen {
		c = newLen
	}
	return Field{Text: out, Caret: c}
}

// Reformat is Grouper.Reformat with English separators.
func Reformat(text string, caret int) Field { return english.Reformat(text, caret) }
