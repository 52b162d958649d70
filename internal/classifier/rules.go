package classifier

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// RuleSpec is the on-disk shape of the rule table.
type RuleSpec struct {
	Rules []struct {
		Type     string `yaml:"type"`
		Disabled bool   `yaml:"disabled"`
		Patterns []struct {
			Match  string `yaml:"match"`
			Unless string `yaml:"unless"`
		} `yaml:"patterns"`
	} `yaml:"rules"`
}

type pattern struct {
	match  *regexp.Regexp
	unless *regexp.Regexp
}

// matches reports whether any occurrence of p.match survives the unless veto.
func (p pattern) matches(s string) bool {
	if p.unless == nil {
		return p.match.MatchString(s)
	}
	for _, loc := range p.match.FindAllStringIndex(s, -1) {
		if !p.unless.MatchString(s[loc[1]:]) {
			return true
		}
	}
	return false
}

type rule struct {
	inputType InputType
	disabled  bool
	patterns  []pattern
}

func (r rule) matches(s string) bool {
	for _, p := range r.patterns {
		if p.matches(s) {
			return true
		}
	}
	return false
}

func readRules(path string) ([]byte, error) {
	if path == "" {
		return defaultRules, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: read rules: %w", err)
	}
	return b, nil
}

// parseRules decodes and compiles a YAML rule table, keeping its order.
func parseRules(b []byte) ([]rule, error) {
	var table RuleSpec
	if err := yaml.Unmarshal(b, &table); err != nil {
		return nil, fmt.Errorf("classifier: decode rules: %w", err)
	}
	if len(table.Rules) == 0 {
		return nil, fmt.Errorf("classifier: rule table is empty")
	}
	seen := make(map[InputType]bool, len(table.Rules))
	out := make([]rule, 0, len(table.Rules))
	for i, rs := range table.Rules {
		t, err := ParseInputType(rs.Type)
		if err != nil {
			return nil, fmt.Errorf("classifier: rule %d: %w", i, err)
		}
		if seen[t] {
			return nil, fmt.Errorf("classifier: rule %d: duplicate type %q", i, t)
		}
		seen[t] = true
		if len(rs.Patterns) == 0 && !rs.Disabled {
			return nil, fmt.Errorf("classifier: rule %q has no patterns", t)
		}
		r := rule{inputType: t, disabled: rs.Disabled}
		for _, ps := range rs.Patterns {
			re, err := regexp.Compile(ps.Match)
			if err != nil {
				return nil, fmt.Errorf("classifier: rule %q: %w", t, err)
			}
			p := pattern{match: re}
			if ps.Unless != "" {
				if p.unless, err = regexp.Compile(ps.Unless); err != nil {
					return nil, fmt.Errorf("classifier: rule %q: %w", t, err)
				}
			}
			r.patterns = append(r.patterns, p)
		}
		out = append(out, r)
	}
	return out, nil
}
