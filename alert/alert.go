package alert

import (
	"time"

	"github.com/google/uuid"

	"alerta/snmptrap/trap"
)

type Severity string

const (
	Critical      Severity = "critical"
	Major         Severity = "major"
	Minor         Severity = "minor"
	Warning       Severity = "warning"
	Indeterminate Severity = "indeterminate"
	Cleared       Severity = "cleared"
	Normal        Severity = "normal"
	Informational Severity = "informational"
	Debug         Severity = "debug"
	Security      Severity = "security"
	Unknown       Severity = "unknown"
)

var severities = map[Severity]bool{
	Critical: true, Major: true, Minor: true, Warning: true, Indeterminate: true,
	Cleared: true, Normal: true, Informational: true, Debug: true, Security: true, Unknown: true,
}

// ParseSeverity returns the severity named s and whether it is known.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(s)
	return sev, severities[sev]
}

// Alert is what gets sent to the alert API.
type Alert struct {
	ID            string    `json:"id"`
	Resource      string    `json:"resource"`
	Event         string    `json:"event"`
	Correlate     []string  `json:"correlatedEvents"`
	Group         string    `json:"group"`
	Value         string    `json:"value"`
	Severity      Severity  `json:"severity"`
	Environment   []string  `json:"environment"`
	Service       []string  `json:"service"`
	Text          string    `json:"text"`
	EventType     string    `json:"type"`
	Tags          []string  `json:"tags"`
	Timeout       *int      `json:"timeout,omitempty"`
	ThresholdInfo *string   `json:"thresholdInfo,omitempty"`
	Summary       *string   `json:"summary,omitempty"`
	RawData       string    `json:"rawData"`
	Origin        string    `json:"origin,omitempty"`
	CreateTime    time.Time `json:"createTime"`
}

// NewFromTrap builds an alert from a decoded trap.
func NewFromTrap(t *trap.DecodedTrap) *Alert {
	return &Alert{
		ID:          uuid.New().String(),
		Resource:    t.Resource,
		Event:       t.Event,
		Correlate:   append([]string{}, t.Correlate...),
		Group:       t.Group,
		Value:       t.Value,
		Severity:    Severity(t.Severity),
		Environment: append([]string{}, t.Environment...),
		Service:     append([]string{}, t.Service...),
		Text:        t.Text,
		EventType:   trap.EventType,
		Tags:        append([]string{}, t.Tags...),
		RawData:     t.RawData,
		CreateTime:  time.Now().UTC(),
	}
}

func (a *Alert) GetID() string {
	return a.ID
}

// AddTag appends tag unless the alert already carries it.
func (a *Alert) AddTag(tag string) {
	for _, t := range a.Tags {
		if t == tag {
			return
		}
	}
	a.Tags = append(a.Tags, tag)
}
