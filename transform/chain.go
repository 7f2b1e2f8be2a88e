package transform

import (
	"alerta/snmptrap/alert"
)

// Chain runs its transformers in order. The first error stops the chain.
type Chain []alert.Transformer

func (c Chain) Transform(a *alert.Alert, trapOID string, vars map[string]string) (bool, error) {
	suppress := false
	for _, t := range c {
		s, err := t.Transform(a, trapOID, vars)
		if err != nil {
			return suppress, err
		}
		suppress = suppress || s
	}
	return suppress, nil
}
