package alert

import (
	"regexp"
	"strings"
)

// Transformer may enrich the alert and decides whether it is suppressed.
type Transformer interface {
	Transform(a *Alert, trapOID string, vars map[string]string) (suppress bool, err error)
}

// Translator rewrites the displayable text of the alert using the trap variables.
type Translator interface {
	Translate(a *Alert, vars map[string]string)
}

// NopTransformer never changes or suppresses an alert.
type NopTransformer struct{}

func (NopTransformer) Transform(*Alert, string, map[string]string) (bool, error) {
	return false, nil
}

var placeholder = regexp.MustCompile(`\$(\$|[0-9]+|[A-Za-z])`)

// PlaceholderTranslator replaces $$, $<n> and $<letter> in the alert text in
// a single pass. Substituted values are never rescanned and placeholders
// without a value stay as they are.
type PlaceholderTranslator struct{}

func (PlaceholderTranslator) Translate(a *Alert, vars map[string]string) {
	a.Text = Substitute(a.Text, vars)
}

// Substitute expands the placeholders of s from vars.
func Substitute(s string, vars map[string]string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		return key
	})
}
