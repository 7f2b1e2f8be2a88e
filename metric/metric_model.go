package metric

import (
	"time"

	"github.com/pkg/errors"
)

const (
	OutcomeSent       = "sent"
	OutcomeSuppressed = "suppressed"
	OutcomeError      = "error"
)

// Record is one handled trap.
type Record struct {
	StartTime time.Time     `json:"start_time" csv:"start_time"`
	EndTime   time.Time     `json:"end_time" csv:"end_time"`
	Duration  time.Duration `json:"duration" csv:"duration"`
	Outcome   string        `json:"outcome" csv:"outcome"`
	TrapOID   string        `json:"trap_oid" csv:"trap_oid"`
}

func (r Record) validate() error {
	var invalidFields []string
	if r.StartTime.IsZero() {
		invalidFields = append(invalidFields, "start_time")
	}
	if r.EndTime.IsZero() {
		invalidFields = append(invalidFields, "end_time")
	}
	switch r.Outcome {
	case OutcomeSent, OutcomeSuppressed, OutcomeError:
	default:
		invalidFields = append(invalidFields, "outcome")
	}
	if len(invalidFields) != 0 {
		return errors.Errorf("following fields are not valid. %v", invalidFields)
	}
	return nil
}

func (r Record) marshalToCSV() []string {
	return []string{
		r.StartTime.Format(time.RFC3339Nano),
		r.EndTime.Format(time.RFC3339Nano),
		r.Duration.String(),
		r.Outcome,
		r.TrapOID,
	}
}

func parseRecord(csvRecord []string) (Record, error) {
	if len(csvRecord) < 5 {
		return Record{}, errors.Errorf("insufficient columns. column count %d", len(csvRecord))
	}
	parsedStartTime, err := time.Parse(time.RFC3339Nano, csvRecord[0])
	if err != nil {
		return Record{}, err
	}
	parsedEndTime, err := time.Parse(time.RFC3339Nano, csvRecord[1])
	if err != nil {
		return Record{}, err
	}
	parsedDuration, err := time.ParseDuration(csvRecord[2])
	if err != nil {
		return Record{}, err
	}
	return Record{
		StartTime: parsedStartTime,
		EndTime:   parsedEndTime,
		Duration:  parsedDuration,
		Outcome:   csvRecord[3],
		TrapOID:   csvRecord[4],
	}, nil
}
