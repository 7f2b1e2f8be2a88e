package trap

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// Unknown is the placeholder snmptrapd and this decoder use for missing values.
	Unknown = "<UNKNOWN>"

	// GenericEnterprise is snmpTraps, the enterprise of the six generic traps.
	GenericEnterprise = "1.3.6.1.6.3.1.1.5"
	// EnterpriseSpecific is the generic trap number of vendor traps.
	EnterpriseSpecific = "6"

	sysUpTimeOID        = "DISMAN-EVENT-MIB::sysUpTimeInstance"
	trapAddressOID      = "SNMP-COMMUNITY-MIB::snmpTrapAddress.0"
	trapCommunityOID    = "SNMP-COMMUNITY-MIB::snmpTrapCommunity.0"
	trapEnterpriseOID   = "SNMPv2-MIB::snmpTrapEnterprise.0"
	snmpv2MIBPrefix     = "SNMPv2-MIB"
	ifMIBPrefix         = "IF-MIB"
	enterpriseTrimChars = ".0"
)

var transportIPv4 = regexp.MustCompile(`^UDP: \[(\d+\.\d+\.\d+\.\d+)\]`)

// Classification is the trap classified from the tokenized varbinds.
type Classification struct {
	Agent      string
	Transport  string
	TrapOID    string
	Enterprise string
	TrapNumber string
	Vars       TrapVars
	Varbinds   Varbinds
	Ordered    []Varbind
}

// Classify derives enterprise, generic and specific trap numbers, community,
// agent address and uptime. The TrapVars of tokens is completed in place.
func Classify(lines Lines, tokens Tokens) (*Classification, error) {
	vars := tokens.Vars
	varbinds := tokens.Varbinds

	trapOID, ok := vars["$2"]
	if !ok {
		return nil, errors.Wrapf(ErrMissingOid, "%d varbind(s) decoded", len(tokens.Ordered))
	}
	vars["$O"] = trapOID

	enterprise, trapNumber, err := splitTrapOID(trapOID)
	if err != nil {
		return nil, err
	}
	// character class strip on both ends: "...41.20" loses its trailing zero
	// too and "-On" output loses its leading dot
	enterprise = strings.Trim(enterprise, enterpriseTrimChars)

	if uptime, ok := varbinds[sysUpTimeOID]; ok {
		vars["$T"] = uptime
	} else {
		vars["$T"] = vars["$1"]
	}

	vars["$A"] = lines.Agent
	if m := transportIPv4.FindStringSubmatch(lines.Transport); m != nil {
		vars["$a"] = m[1]
	}
	if addr, ok := varbinds[trapAddressOID]; ok {
		vars["$R"] = addr
	}

	if isGenericTrap(trapOID) {
		if e, ok := varbinds[trapEnterpriseOID]; ok {
			vars["$E"] = e
		} else {
			vars["$E"] = GenericEnterprise
		}
		vars["$G"] = genericNumber(trapNumber)
		vars["$S"] = "0"
	} else {
		vars["$E"] = enterprise
		vars["$G"] = EnterpriseSpecific
		vars["$S"] = trapNumber
	}

	if community, ok := varbinds[trapCommunityOID]; ok {
		vars["$C"] = community
	} else {
		vars["$C"] = Unknown
	}

	return &Classification{
		Agent:      lines.Agent,
		Transport:  lines.Transport,
		TrapOID:    trapOID,
		Enterprise: enterprise,
		TrapNumber: trapNumber,
		Vars:       vars,
		Varbinds:   varbinds,
		Ordered:    tokens.Ordered,
	}, nil
}

func splitTrapOID(trapOID string) (enterprise, trapNumber string, err error) {
	if i := strings.LastIndex(trapOID, "."); i >= 0 {
		return trapOID[:i], trapOID[i+1:], nil
	}
	if i := strings.LastIndex(trapOID, "::"); i >= 0 {
		return trapOID[:i], trapOID[i+2:], nil
	}
	return "", "", errors.Wrapf(ErrUnparsableOid, "trap oid %q", trapOID)
}

func isGenericTrap(trapOID string) bool {
	return strings.HasPrefix(trapOID, snmpv2MIBPrefix) || strings.HasPrefix(trapOID, ifMIBPrefix)
}

// genericNumber maps SNMPv2 snmpTraps numbering (coldStart = 1) back to the
// SNMPv1 generic trap number (coldStart = 0).
func genericNumber(trapNumber string) string {
	if !isDigits(trapNumber) {
		return trapNumber
	}
	n, err := strconv.Atoi(trapNumber)
	if err != nil {
		return trapNumber
	}
	return strconv.Itoa(n - 1)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
