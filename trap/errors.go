package trap

import "github.com/pkg/errors"

var (
	// ErrMalformedTrap is returned when the input has fewer than two lines.
	ErrMalformedTrap = errors.New("malformed trap")
	// ErrMissingOid is returned when no varbind was finalized at index 2.
	ErrMissingOid = errors.New("missing trap oid")
	// ErrUnparsableOid is returned when the trap oid has neither "." nor "::".
	ErrUnparsableOid = errors.New("unparsable trap oid")
	// ErrMissingField is returned when a positional varbind the mapper needs is absent.
	ErrMissingField = errors.New("missing positional varbind")
)
