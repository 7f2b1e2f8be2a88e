package trap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeSingleLineQuoted(t *testing.T) {
	tokens := Tokenize([]string{
		`SNMPv2-MIB::sysDescr.0 "hello"`,
		`SNMPv2-MIB::sysName.0 next`,
	})

	assert.Equal(t, "hello", tokens.Vars["$1"])
	assert.Equal(t, "next", tokens.Vars["$2"])
	assert.Equal(t, "hello", tokens.Varbinds["SNMPv2-MIB::sysDescr.0"])
	assert.Len(t, tokens.Ordered, 2)
}

func TestTokenizeMultiLineQuotedTakesOneIndex(t *testing.T) {
	tokens := Tokenize([]string{
		`DISMAN-EVENT-MIB::sysUpTimeInstance 0:0:01:02.03`,
		`SNMPv2-MIB::snmpTrapOID.0 CISCO-SYSLOG-MIB::clogMessageGenerated`,
		`CISCO-SYSLOG-MIB::clogHistMsgText.1 "start`,
		`middle`,
		`end"`,
		`CISCO-SYSLOG-MIB::clogHistSeverity.1 error`,
	})

	require.Len(t, tokens.Ordered, 4)
	assert.Equal(t, "startmiddleend", tokens.Vars["$3"])
	assert.Equal(t, "startmiddleend", tokens.Varbinds["CISCO-SYSLOG-MIB::clogHistMsgText.1"])
	assert.Equal(t, "error", tokens.Vars["$4"])
	_, ok := tokens.Vars["$5"]
	assert.False(t, ok, "multi-line value must not consume extra indexes")
}

func TestTokenizeContinuationIsVerbatim(t *testing.T) {
	tokens := Tokenize([]string{
		`a.1 "first `,
		`  indented "quoted" word`,
		` last"`,
	})

	assert.Equal(t, `first   indented "quoted" word last`, tokens.Vars["$1"])
}

func TestTokenizeLoneQuoteOpensValue(t *testing.T) {
	tokens := Tokenize([]string{
		`a.1 "`,
		`body"`,
		`b.1 after`,
	})

	assert.Equal(t, "body", tokens.Vars["$1"])
	assert.Equal(t, "after", tokens.Vars["$2"])
}

func TestTokenizeEmptyQuotedValue(t *testing.T) {
	tokens := Tokenize([]string{`a.1 ""`})

	assert.Equal(t, "", tokens.Vars["$1"])
	assert.Contains(t, tokens.Varbinds, "a.1")
}

func TestTokenizeStopsOnLineWithoutValue(t *testing.T) {
	tokens := Tokenize([]string{
		`a.1 one`,
		``,
		`b.1 two`,
	})

	assert.Len(t, tokens.Ordered, 1)
	_, ok := tokens.Vars["$2"]
	assert.False(t, ok)

	tokens = Tokenize([]string{`a.1 one`, `trailing-token-only`, `b.1 two`})
	assert.Len(t, tokens.Ordered, 1)

	tokens = Tokenize([]string{`a.1 one`, `oid-with-blank-value   `, `b.1 two`})
	assert.Len(t, tokens.Ordered, 1)
}

func TestTokenizeSplitsOnFirstWhitespaceRun(t *testing.T) {
	tokens := Tokenize([]string{"  a.1 \t  several words here  "})

	require.Len(t, tokens.Ordered, 1)
	assert.Equal(t, "a.1", tokens.Ordered[0].OID)
	assert.Equal(t, "several words here  ", tokens.Ordered[0].Value)
}

func TestTokenizeRepeatedOIDGetsFreshIndex(t *testing.T) {
	tokens := Tokenize([]string{
		`a.1 first`,
		`a.1 second`,
	})

	assert.Equal(t, "first", tokens.Vars["$1"])
	assert.Equal(t, "second", tokens.Vars["$2"])
	assert.Equal(t, "second", tokens.Varbinds["a.1"])
	assert.Len(t, tokens.Varbinds, 1)
}

func TestTokenizeUnterminatedQuoteIsDropped(t *testing.T) {
	tokens := Tokenize([]string{
		`a.1 one`,
		`b.1 two`,
		`c.1 "never`,
		`closed`,
	})

	assert.Len(t, tokens.Ordered, 2)
	_, ok := tokens.Vars["$3"]
	assert.False(t, ok)
	_, ok = tokens.Varbinds["c.1"]
	assert.False(t, ok)
}

func TestTokenizeAlwaysHasDollarEscape(t *testing.T) {
	tokens := Tokenize(nil)

	assert.Equal(t, TrapVars{"$$": "$"}, tokens.Vars)
	assert.Empty(t, tokens.Ordered)
}
