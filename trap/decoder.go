// Package trap decodes the text snmptrapd hands to a traphandle program into
// a DecodedTrap ready to become an alert.
//
// The input is the agent line, the transport line and one varbind per line:
//
//	router1.example.net
//	UDP: [192.0.2.5]:40123->[192.0.2.1]:162
//	DISMAN-EVENT-MIB::sysUpTimeInstance 12:34:56.78
//	SNMPv2-MIB::snmpTrapOID.0 IF-MIB::linkDown
//	IF-MIB::ifDescr.2 "GigabitEthernet0/1"
package trap

import (
	"fmt"

	"alerta/snmptrap/logger"
)

// Decoder runs the split, tokenize, classify and map steps.
type Decoder struct {
	log logger.Logger
}

// NewDecoder returns a decoder logging to lg.
func NewDecoder(lg logger.Logger) *Decoder {
	return &Decoder{log: lg}
}

// Decode turns one snmptrapd notification into a DecodedTrap.
func (d *Decoder) Decode(data string) (*DecodedTrap, error) {
	lines, err := SplitLines(data)
	if err != nil {
		return nil, err
	}

	tokens := Tokenize(lines.Varbinds)
	for i, vb := range tokens.Ordered {
		d.log.Debug(fmt.Sprintf("%d %s %s", i+1, vb.OID, vb.Value))
	}
	d.log.Debug(fmt.Sprintf("varbinds = %v", tokens.Varbinds))

	c, err := Classify(lines, tokens)
	if err != nil {
		return nil, err
	}
	d.log.Info(fmt.Sprintf("agent=%s, ip=%s, uptime=%s, enterprise=%s, generic=%s, specific=%s",
		c.Vars["$A"], c.Vars["$a"], c.Vars["$T"], c.Vars["$E"], c.Vars["$G"], c.Vars["$S"]))
	d.log.Debug(fmt.Sprintf("trapvars = %v", c.Vars))

	return Map(c, data)
}
