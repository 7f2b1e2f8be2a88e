package trap

import (
	"strconv"
	"strings"
	"unicode"
)

// TrapVars maps the placeholders $$, $1..$N and the named $A, $a, $T, $E,
// $G, $S, $C, $O, $R to their values.
type TrapVars map[string]string

// Varbinds maps an object id to its decoded value.
type Varbinds map[string]string

// Varbind is one finalized (object id, value) pair.
type Varbind struct {
	OID   string
	Value string
}

// Tokens is the result of tokenizing a varbind block.
type Tokens struct {
	// Ordered holds the varbinds in the order they were finalized.
	// Ordered[i] was assigned the positional key $(i+1).
	Ordered  []Varbind
	Varbinds Varbinds
	Vars     TrapVars
}

type tokenizerState int

const (
	stateNormal tokenizerState = iota
	stateInQuote
	stateDone
)

type tokenizer struct {
	state  tokenizerState
	tokens Tokens

	pendingOID   string
	pendingValue strings.Builder
}

func positional(idx int) string {
	return "$" + strconv.Itoa(idx)
}

// Tokenize runs the varbind state machine over the varbind block. The first
// line in the normal state that does not split into an object id and a value
// ends the block. A quoted value still open when the input runs out is dropped.
func Tokenize(lines []string) Tokens {
	tk := &tokenizer{
		tokens: Tokens{
			Varbinds: Varbinds{},
			Vars:     TrapVars{"$$": "$"},
		},
	}
	for _, line := range lines {
		tk.step(line)
		if tk.state == stateDone {
			break
		}
	}
	return tk.tokens
}

func (tk *tokenizer) step(line string) {
	switch tk.state {
	case stateNormal:
		oid, value, ok := splitVarbind(line)
		if !ok {
			tk.state = stateDone
			return
		}
		if !strings.HasPrefix(value, `"`) {
			tk.finalize(oid, value)
			return
		}
		if len(value) > 1 && strings.HasSuffix(value, `"`) {
			tk.finalize(oid, value[1:len(value)-1])
			return
		}
		tk.pendingOID = oid
		tk.pendingValue.Reset()
		tk.pendingValue.WriteString(value[1:])
		tk.state = stateInQuote
	case stateInQuote:
		if strings.HasSuffix(line, `"`) {
			tk.pendingValue.WriteString(line[:len(line)-1])
			tk.finalize(tk.pendingOID, tk.pendingValue.String())
			tk.pendingOID = ""
			tk.pendingValue.Reset()
			tk.state = stateNormal
			return
		}
		tk.pendingValue.WriteString(line)
	}
}

// finalize assigns the next positional index to the varbind.
func (tk *tokenizer) finalize(oid, value string) {
	tk.tokens.Ordered = append(tk.tokens.Ordered, Varbind{OID: oid, Value: value})
	tk.tokens.Varbinds[oid] = value
	tk.tokens.Vars[positional(len(tk.tokens.Ordered))] = value
}

// splitVarbind splits "<oid><whitespace><value>" at the first whitespace run.
func splitVarbind(line string) (oid, value string, ok bool) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return "", "", false
	}
	value = strings.TrimLeftFunc(line[i:], unicode.IsSpace)
	if value == "" {
		return "", "", false
	}
	return line[:i], value, true
}
