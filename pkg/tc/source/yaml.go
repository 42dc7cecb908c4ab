package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/komsit37/trailcalc/pkg/tc/types"
)

// YAMLSource loads scenarios from a YAML file or a directory of them.
//
// File shape:
//
//	currency: AUD          # optional display currency
//	columns: [name, book]  # optional column order
//	scenarios:
//	  - name: base
//	    trail: "10,000"
//	    multiple: 3
//	    purpose: acquisition
//	  - name: growth       # a named group
//	    scenarios:
//	      - {name: high, trail: 25000, multiple: 3.5}
type YAMLSource struct{}

// Load expects loc to be a string filepath.
func (YAMLSource) Load(ctx context.Context, loc any) ([]types.ScenarioSet, error) { //nolint:revive // ctx reserved for future use
	path, ok := loc.(string)
	if !ok {
		return nil, fmt.Errorf("yaml source expects a filepath string")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return loadDir(path)
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	sets, err := parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// If a set has no name, use the file name as a fallback.
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i := range sets {
		if strings.TrimSpace(sets[i].Name) == "" {
			sets[i].Name = base
		}
	}
	return sets, nil
}

// loadDir recursively loads every YAML file under dir, prefixing set names
// with the file's path relative to dir.
func loadDir(dir string) ([]types.ScenarioSet, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var all []types.ScenarioSet
	for _, full := range files {
		data, err := readFile(full)
		if err != nil {
			return nil, err
		}
		sets, err := parseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", full, err)
		}
		rel, err := filepath.Rel(dir, full)
		if err != nil {
			rel = filepath.Base(full)
		}
		prefix := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		for i := range sets {
			if strings.TrimSpace(sets[i].Name) == "" {
				sets[i].Name = prefix
			} else if prefix != "" {
				sets[i].Name = prefix + "/" + sets[i].Name
			}
		}
		all = append(all, sets...)
	}
	return all, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// node mirrors one entry of a scenarios list: either a leaf scenario or a
// named group holding more scenarios.
type node struct {
	Name      string    `yaml:"name"`
	Trail     yaml.Node `yaml:"trail"`
	Multiple  yaml.Node `yaml:"multiple"`
	Purpose   string    `yaml:"purpose"`
	Currency  string    `yaml:"currency"`
	Scenarios []node    `yaml:"scenarios"`
}

type document struct {
	Currency  string   `yaml:"currency"`
	Columns   []string `yaml:"columns"`
	Scenarios []node   `yaml:"scenarios"`
}

// parseYAML parses a scenario file into sets: leaf scenarios at each level
// form one set named by the group path.
func parseYAML(data []byte) ([]types.ScenarioSet, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Scenarios == nil {
		return nil, fmt.Errorf("invalid yaml: missing 'scenarios'")
	}

	var sets []types.ScenarioSet
	var walk func(nodes []node, path []string, currency string) error
	walk = func(nodes []node, path []string, currency string) error {
		var leaves []types.Scenario
		for _, n := range nodes {
			if n.Scenarios != nil {
				continue
			}
			sc, err := n.scenario(currency)
			if err != nil {
				return err
			}
			leaves = append(leaves, sc)
		}
		if len(leaves) > 0 {
			sets = append(sets, types.ScenarioSet{
				Name:      strings.Join(path, "/"),
				Columns:   append([]string(nil), doc.Columns...),
				Scenarios: leaves,
			})
		}
		for _, n := range nodes {
			if n.Scenarios == nil {
				continue
			}
			next := append([]string(nil), path...)
			if strings.TrimSpace(n.Name) != "" {
				next = append(next, n.Name)
			}
			cur := currency
			if n.Currency != "" {
				cur = n.Currency
			}
			if err := walk(n.Scenarios, next, cur); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(doc.Scenarios, nil, doc.Currency); err != nil {
		return nil, err
	}
	return sets, nil
}

func (n node) scenario(currency string) (types.Scenario, error) {
	p, err := types.ParsePurpose(n.Purpose)
	if err != nil {
		return types.Scenario{}, fmt.Errorf("scenario %q: %w", n.Name, err)
	}
	if n.Currency != "" {
		currency = n.Currency
	}
	return types.Scenario{
		Name: n.Name,
		Input: types.RawInput{
			Trail:    scalar(n.Trail),
			Multiple: scalar(n.Multiple),
		},
		Purpose:  p,
		Currency: currency,
	}, nil
}

// scalar keeps numbers and strings as the user wrote them; sanitizing is
// the estimator's job.
func scalar(n yaml.Node) string {
	if n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}
