package transform

import (
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alerta/snmptrap/alert"
	"alerta/snmptrap/logger"
)

func handlePTR(w dns.ResponseWriter, r *dns.Msg, records map[string]string) {
	m := new(dns.Msg)
	m.SetReply(r)
	m.Authoritative = true
	for _, q := range r.Question {
		if q.Qtype != dns.TypePTR {
			continue
		}
		if name, ok := records[q.Name]; ok {
			rr, err := dns.NewRR(fmt.Sprintf("%s PTR %s", q.Name, name))
			if err == nil {
				m.Answer = append(m.Answer, rr)
			}
		} else {
			m.Rcode = dns.RcodeNameError
		}
	}
	w.WriteMsg(m)
}

// setupDNSServer starts a PTR-only server on a random local port.
func setupDNSServer(t *testing.T) string {
	records := map[string]string{
		"5.2.0.192.in-addr.arpa.": "router1.example.net.",
	}
	mux := dns.NewServeMux()
	mux.HandleFunc(".", func(w dns.ResponseWriter, r *dns.Msg) { handlePTR(w, r, records) })

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan bool)
	server := &dns.Server{PacketConn: pc, Handler: mux, NotifyStartedFunc: func() { started <- true }}
	go server.ActivateAndServe()
	t.Cleanup(func() { server.Shutdown() })

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		require.NoError(t, errors.New("DNS server does not start within the time limit"))
	}
	return pc.LocalAddr().String()
}

func TestResolverAddsTag(t *testing.T) {
	r := NewResolver(setupDNSServer(t), time.Second, logger.NewStdoutLogger())

	a := newAlert()
	suppress, err := r.Transform(a, "IF-MIB::linkDown", map[string]string{"$a": "192.0.2.5"})
	require.NoError(t, err)
	assert.False(t, suppress)
	assert.Equal(t, []string{"dnsname=router1.example.net"}, a.Tags)
}

func TestResolverFailuresAreIgnored(t *testing.T) {
	r := NewResolver(setupDNSServer(t), time.Second, logger.NewStdoutLogger())

	for _, ip := range []string{"198.51.100.7", "not-an-ip", ""} {
		a := newAlert()
		suppress, err := r.Transform(a, "IF-MIB::linkDown", map[string]string{"$a": ip})
		assert.NoError(t, err)
		assert.False(t, suppress)
		assert.Empty(t, a.Tags, "ip %q", ip)
	}

	a := newAlert()
	_, err := r.Transform(a, "IF-MIB::linkDown", map[string]string{})
	assert.NoError(t, err)
	assert.Empty(t, a.Tags)
}

func TestNewResolverDefaultPort(t *testing.T) {
	assert.Equal(t, "127.0.0.1:53", NewResolver("127.0.0.1", time.Second, logger.NewStdoutLogger()).server)
	assert.Equal(t, "127.0.0.1:5353", NewResolver("127.0.0.1:5353", time.Second, logger.NewStdoutLogger()).server)
}

type fixedTransformer struct {
	suppress bool
	err      error
	tag      string
}

func (f fixedTransformer) Transform(a *alert.Alert, _ string, _ map[string]string) (bool, error) {
	a.AddTag(f.tag)
	return f.suppress, f.err
}

func TestChain(t *testing.T) {
	a := newAlert()
	suppress, err := Chain{fixedTransformer{tag: "one"}, fixedTransformer{suppress: true, tag: "two"}, fixedTransformer{tag: "three"}}.
		Transform(a, "x", nil)
	require.NoError(t, err)
	assert.True(t, suppress)
	assert.Equal(t, []string{"one", "two", "three"}, a.Tags)

	a = newAlert()
	_, err = Chain{fixedTransformer{tag: "one", err: errors.New("boom")}, fixedTransformer{tag: "two"}}.Transform(a, "x", nil)
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"one"}, a.Tags)
}
