// Package transform holds the hooks run on an alert between decoding and
// sending: site rules loaded from YAML, reverse DNS enrichment, and Chain to
// run several of them.
package transform

import (
	"fmt"
	"io/ioutil"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/reguero/go-snmplib"
	"gopkg.in/yaml.v3"

	"alerta/snmptrap/alert"
)

// Rule is one entry of the rules file.
type Rule struct {
	Name     string            `yaml:"name"`
	TrapOID  string            `yaml:"trap_oid"`
	Match    map[string]string `yaml:"match"`
	Severity string            `yaml:"severity"`
	Text     string            `yaml:"text"`
	Group    string            `yaml:"group"`
	Tags     []string          `yaml:"tags"`
	Suppress bool              `yaml:"suppress"`

	oid     snmplib.Oid
	matches map[string]*regexp.Regexp
}

// RuleSet applies its rules, in file order, to every alert.
type RuleSet struct {
	Rules []*Rule `yaml:"rules"`
}

// LoadRules reads and validates a rules file.
func LoadRules(path string) (*RuleSet, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rules file %s", path)
	}
	return ParseRules(data)
}

// ParseRules validates the rules in data.
func ParseRules(data []byte) (*RuleSet, error) {
	rs := &RuleSet{}
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, errors.Wrap(err, "parsing rules")
	}
	for i, r := range rs.Rules {
		if err := r.compile(); err != nil {
			return nil, errors.Wrapf(err, "rule %d", i+1)
		}
	}
	return rs, nil
}

func isNumericOID(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c != '.' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func (r *Rule) compile() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("missing name")
	}
	if r.Severity != "" {
		if _, ok := alert.ParseSeverity(r.Severity); !ok {
			return errors.Errorf("%s: unknown severity %q", r.Name, r.Severity)
		}
	}
	if isNumericOID(r.TrapOID) {
		trimmed := strings.Trim(r.TrapOID, ".")
		if trimmed == "" {
			return errors.Errorf("%s: empty trap_oid %q", r.Name, r.TrapOID)
		}
		oid, err := snmplib.ParseOid(trimmed)
		if err != nil {
			return errors.Wrapf(err, "%s: bad trap_oid %q", r.Name, r.TrapOID)
		}
		if len(oid) == 0 {
			return errors.Errorf("%s: empty trap_oid %q", r.Name, r.TrapOID)
		}
		r.oid = oid
	}
	r.matches = make(map[string]*regexp.Regexp, len(r.Match))
	for key, expr := range r.Match {
		re, err := regexp.Compile(expr)
		if err != nil {
			return errors.Wrapf(err, "%s: bad match for %s", r.Name, key)
		}
		r.matches[key] = re
	}
	return nil
}

func (r *Rule) matchesOID(trapOID string) bool {
	if r.TrapOID == "" {
		return true
	}
	if r.oid == nil {
		return strings.HasPrefix(trapOID, r.TrapOID)
	}
	if !isNumericOID(trapOID) {
		return false
	}
	oid, err := snmplib.ParseOid(strings.Trim(trapOID, "."))
	if err != nil {
		return false
	}
	return oid.Within(r.oid)
}

// Matches reports whether the rule applies to a trap.
func (r *Rule) Matches(trapOID string, vars map[string]string) bool {
	if !r.matchesOID(trapOID) {
		return false
	}
	for key, re := range r.matches {
		v, ok := vars[key]
		if !ok || !re.MatchString(v) {
			return false
		}
	}
	return true
}

func (r *Rule) apply(a *alert.Alert) {
	if r.Severity != "" {
		a.Severity = alert.Severity(r.Severity)
	}
	if r.Text != "" {
		a.Text = r.Text
	}
	if r.Group != "" {
		a.Group = r.Group
	}
	for _, tag := range r.Tags {
		a.AddTag(tag)
	}
}

// Transform applies every matching rule. The alert is suppressed when any of
// them says so.
func (rs *RuleSet) Transform(a *alert.Alert, trapOID string, vars map[string]string) (bool, error) {
	suppress := false
	for _, r := range rs.Rules {
		if !r.Matches(trapOID, vars) {
			continue
		}
		r.apply(a)
		suppress = suppress || r.Suppress
	}
	return suppress, nil
}

func (rs *RuleSet) String() string {
	names := make([]string, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		names = append(names, r.Name)
	}
	return fmt.Sprintf("rules%v", names)
}
