// Package filter selects scenarios by name.
package filter

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Filter matches a scenario or set name.
type Filter interface {
	Match(name string) bool
}

// Parse builds a filter from an expression:
//   - "" matches everything
//   - "base,growth/high": exact names
//   - "growth/*": glob over the slash separated path
//   - "/^wc-/": regular expression
//   - anything else: case-insensitive substring
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return Always(true), nil
	case len(expr) > 2 && strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/"):
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Regex{re: re}, nil
	case strings.Contains(expr, ","):
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			if p = strings.TrimSpace(p); p != "" {
				set[p] = struct{}{}
			}
		}
		return ExactSet{set: set}, nil
	case strings.ContainsAny(expr, "*?["):
		if _, err := path.Match(expr, ""); err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Glob{pattern: expr}, nil
	}
	return SubstrCI{needle: strings.ToLower(expr)}, nil
}

type Always bool

func (a Always) Match(string) bool { return bool(a) }

type ExactSet struct{ set map[string]struct{} }

func (e ExactSet) Match(name string) bool {
	_, ok := e.set[name]
	return ok
}

type Glob struct{ pattern string }

func (g Glob) Match(name string) bool {
	ok, _ := path.Match(g.pattern, name)
	return ok
}

func (g Glob) String() string { return "glob:" + g.pattern }

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(name string) bool { return r.re.MatchString(name) }

func (r Regex) String() string { return "regex:" + r.re.String() }

// SubstrCI matches if name contains needle, case-insensitively.
type SubstrCI struct{ needle string }

func (s SubstrCI) Match(name string) bool {
	return strings.Contains(strings.ToLower(name), s.needle)
}

func (s SubstrCI) String() string { return "substr-ci:" + s.needle }

// Qualified reports whether a scenario matches f either by its own name or
// by its full "set/name" path.
func Qualified(f Filter, set, name string) bool {
	if f.Match(name) {
		return true
	}
	if set == "" {
		return false
	}
	return f.Match(set + "/" + name)
}
