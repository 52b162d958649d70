// Package classifier guesses which input widget a bot reply is asking for.
//
// The guess is a UX hint, not validation: it scans the reply against an
// ordered rule table and scrapes a choice list when the reply offers one.
package classifier

import (
	"regexp"
	"strings"
	"sync"
)

var (
	optionTriggers = []string{"opciones", "alternativas", "elige", "selecciona"}

	numberedOption = regexp.MustCompile(`\d+\.\s*([^\n]+)`)
	inlineOptions  = regexp.MustCompile(`(?i)(?:opciones|alternativas|entre|selecciona)[:\s]+([^.]+)`)
	// Only consulted when inlineOptions finds nothing, so a passing "opción"
	// never swallows the list that follows a stronger keyword.
	singularOption = regexp.MustCompile(`(?i)opci[óo]n[:\s]+([^.]+)`)
)

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules []rule
}

// New compiles a YAML rule table.
func New(rulesYAML []byte) (*Classifier, error) {
	rules, err := parseRules(rulesYAML)
	if err != nil {
		return nil, err
	}
	return &Classifier{rules: rules}, nil
}

// Load reads the rule table at path, or the built-in one when path is empty.
func Load(path string) (*Classifier, error) {
	b, err := readRules(path)
	if err != nil {
		return nil, err
	}
	return New(b)
}

var (
	defaultOnce       sync.Once
	defaultClassifier *Classifier
)

// Default returns the classifier built from the embedded rule table.
func Default() *Classifier {
	defaultOnce.Do(func() {
		c, err := New(defaultRules)
		if err != nil {
			panic(err)
		}
		defaultClassifier = c
	})
	return defaultClassifier
}

// Classify infers the next input widget from a bot reply. It never fails;
// unrecognized text yields DefaultResult.
func (c *Classifier) Classify(reply string) Result {
	lower := strings.ToLower(reply)

	res := DefaultResult()
	for _, r := range c.rules {
		if r.disabled || !r.matches(lower) {
			continue
		}
		res.InputType = r.inputType
		res.Placeholder = Placeholder(r.inputType)
		break
	}

	if opts := ExtractOptions(reply); len(opts) > 0 {
		res.InputType = InputSelect
		res.Options = opts
		res.Placeholder = SelectPlaceholder
		return res
	}
	// A select widget with nothing to pick from would leave the user stuck.
	if res.InputType == InputSelect {
		return DefaultResult()
	}
	return res
}

// ExtractOptions scrapes a choice list out of reply when it contains one of
// the trigger words. A numbered list takes precedence over an inline,
// comma separated list.
func ExtractOptions(reply string) []string {
	lower := strings.ToLower(reply)
	if !containsAny(lower, optionTriggers) {
		return nil
	}

	var opts []string
	for _, m := range numberedOption.FindAllStringSubmatch(reply, -1) {
		if o := strings.TrimSpace(m[1]); o != "" {
			opts = append(opts, o)
		}
	}
	if len(opts) > 0 {
		return opts
	}

	m := inlineOptions.FindStringSubmatch(reply)
	if m == nil {
		m = singularOption.FindStringSubmatch(reply)
	}
	if m == nil {
		return nil
	}
	for _, part := range strings.Split(m[1], ",") {
		if o := strings.TrimSpace(part); o != "" {
			opts = append(opts, o)
		}
	}
	return opts
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
