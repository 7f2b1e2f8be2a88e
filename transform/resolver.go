package transform

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"

	"alerta/snmptrap/alert"
	"alerta/snmptrap/logger"
)

const DNSNameTag = "dnsname="

// Resolver tags the alert with the PTR name of the agent address.
type Resolver struct {
	server  string
	timeout time.Duration
	log     logger.Logger
}

func NewResolver(server string, timeout time.Duration, lg logger.Logger) *Resolver {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	return &Resolver{server: server, timeout: timeout, log: lg}
}

// Lookup returns the first PTR name of ip without its trailing dot.
func (r *Resolver) Lookup(ip string) (string, error) {
	arpa, err := dns.ReverseAddr(ip)
	if err != nil {
		return "", errors.Wrapf(err, "reverse name of %s", ip)
	}
	m := new(dns.Msg)
	m.SetQuestion(arpa, dns.TypePTR)

	c := &dns.Client{Timeout: r.timeout}
	in, _, err := c.Exchange(m, r.server)
	if err != nil {
		return "", errors.Wrapf(err, "querying %s for %s", r.server, arpa)
	}
	if in.Rcode != dns.RcodeSuccess {
		return "", errors.Errorf("%s answered %s for %s", r.server, dns.RcodeToString[in.Rcode], arpa)
	}
	for _, a := range in.Answer {
		if ptr, ok := a.(*dns.PTR); ok {
			r.log.Debug(fmt.Sprintf("From %v, got name %v", ptr, ptr.Ptr))
			return strings.TrimSuffix(ptr.Ptr, "."), nil
		}
	}
	return "", errors.Errorf("no PTR record for %s", arpa)
}

// Transform never suppresses. Lookup failures are only logged.
func (r *Resolver) Transform(a *alert.Alert, _ string, vars map[string]string) (bool, error) {
	ip, ok := vars["$a"]
	if !ok || ip == "" {
		return false, nil
	}
	name, err := r.Lookup(ip)
	if err != nil {
		r.log.Warning(fmt.Sprintf("reverse lookup failed: %v", err))
		return false, nil
	}
	a.AddTag(DNSNameTag + name)
	return false, nil
}
