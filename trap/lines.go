package trap

import (
	"strings"

	"github.com/pkg/errors"
)

// Lines is the snmptrapd notification split into its three parts.
type Lines struct {
	Agent     string
	Transport string
	Varbinds  []string
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// SplitLines separates the agent line, the transport line and the varbind block
func SplitLines(data string) (Lines, error) {
	lines := strings.Split(lineEndings.Replace(data), "\n")
	// a terminating newline does not open a new line
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) < 2 {
		return Lines{}, errors.Wrapf(ErrMalformedTrap, "got %d line(s), need at least 2", len(lines))
	}
	return Lines{
		Agent:     lines[0],
		Transport: lines[1],
		Varbinds:  lines[2:],
	}, nil
}
