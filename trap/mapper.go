package trap

import "github.com/pkg/errors"

const (
	// DefaultSeverity is the severity of every decoded trap before transformation.
	DefaultSeverity = "normal"
	// Group is the alert group of every decoded trap.
	Group = "SNMP"
	// EventType tags the alerts produced from traps.
	EventType = "snmptrapAlert"

	textIndex = 3
)

var (
	defaultEnvironment = []string{"INFRA"}
	defaultService     = []string{"Network"}
)

// DecodedTrap is a trap mapped onto alert fields.
type DecodedTrap struct {
	Resource    string
	Event       string
	Enterprise  string
	Generic     string
	Specific    string
	Community   string
	Agent       string
	AgentIP     string
	HasAgentIP  bool
	Uptime      string
	Value       string
	Text        string
	Severity    string
	Group       string
	Environment []string
	Service     []string
	Tags        []string
	Correlate   []string
	RawData     string

	Vars     TrapVars
	Varbinds Varbinds
	Ordered  []Varbind
}

// Map builds the DecodedTrap. The text is whatever the third varbind carries.
func Map(c *Classification, raw string) (*DecodedTrap, error) {
	key := positional(textIndex)
	text, ok := c.Vars[key]
	if !ok {
		return nil, errors.Wrapf(ErrMissingField, "%s absent for trap %s", key, c.TrapOID)
	}

	agentIP, hasAgentIP := c.Vars["$a"]
	resource := c.Vars["$A"]
	if resource == Unknown && hasAgentIP {
		resource = agentIP
	}

	return &DecodedTrap{
		Resource:    resource,
		Event:       c.TrapOID,
		Enterprise:  c.Vars["$E"],
		Generic:     c.Vars["$G"],
		Specific:    c.Vars["$S"],
		Community:   c.Vars["$C"],
		Agent:       c.Vars["$A"],
		AgentIP:     agentIP,
		HasAgentIP:  hasAgentIP,
		Uptime:      c.Vars["$T"],
		Value:       c.TrapNumber,
		Text:        text,
		Severity:    DefaultSeverity,
		Group:       Group,
		Environment: append([]string(nil), defaultEnvironment...),
		Service:     append([]string(nil), defaultService...),
		Tags:        []string{},
		Correlate:   []string{},
		RawData:     raw,
		Vars:        c.Vars,
		Varbinds:    c.Varbinds,
		Ordered:     c.Ordered,
	}, nil
}
