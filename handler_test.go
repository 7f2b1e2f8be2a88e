package main

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alerta/snmptrap/alert"
	"alerta/snmptrap/config"
	"alerta/snmptrap/logger"
	"alerta/snmptrap/transform"
	"alerta/snmptrap/trap"
)

const linkDownTrap = `router1.example.net
UDP: [192.0.2.5]:40123->[192.0.2.1]:162
DISMAN-EVENT-MIB::sysUpTimeInstance 12:34:56.78
SNMPv2-MIB::snmpTrapOID.0 IF-MIB::linkDown
IF-MIB::ifDescr.2 "GigabitEthernet0/1"
IF-MIB::ifAdminStatus.2 up
SNMP-COMMUNITY-MIB::snmpTrapCommunity.0 "public"
`

type recordingTransformer struct {
	trapOID  string
	vars     map[string]string
	suppress bool
	err      error
	text     string
}

func (r *recordingTransformer) Transform(a *alert.Alert, trapOID string, vars map[string]string) (bool, error) {
	r.trapOID = trapOID
	r.vars = vars
	if r.text != "" {
		a.Text = r.text
	}
	return r.suppress, r.err
}

func TestHandleDefaultHooks(t *testing.T) {
	h := NewHandler(logger.NewStdoutLogger(), nil, nil)
	a, err := h.Handle(context.Background(), linkDownTrap)
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.NotEmpty(t, a.GetID())
	assert.Equal(t, "router1.example.net", a.Resource)
	assert.Equal(t, "IF-MIB::linkDown", a.Event)
	assert.Equal(t, "GigabitEthernet0/1", a.Text)
	assert.Equal(t, alert.Normal, a.Severity)
	assert.Equal(t, trap.EventType, a.EventType)
}

func TestHandleTranslatesAfterTransform(t *testing.T) {
	tr := &recordingTransformer{text: "$3 on $A ($a) is $4, $$5"}
	a, err := NewHandler(logger.NewStdoutLogger(), tr, alert.PlaceholderTranslator{}).
		Handle(context.Background(), linkDownTrap)
	require.NoError(t, err)

	assert.Equal(t, "IF-MIB::linkDown", tr.trapOID)
	assert.Equal(t, "public", tr.vars["$C"])
	assert.Equal(t, "GigabitEthernet0/1 on router1.example.net (192.0.2.5) is up, $5", a.Text)
}

func TestHandleSuppressed(t *testing.T) {
	rules, err := transform.ParseRules([]byte("rules:\n  - name: drop-public\n    match:\n      $C: ^public$\n    suppress: true\n"))
	require.NoError(t, err)

	h := NewHandler(logger.NewStdoutLogger(), rules, nil)
	a, err := h.Handle(context.Background(), linkDownTrap)
	assert.NoError(t, err)
	assert.Nil(t, a)

	res, err := h.Process(context.Background(), linkDownTrap)
	assert.NoError(t, err)
	assert.Nil(t, res.Alert)
	assert.Equal(t, "IF-MIB::linkDown", res.TrapOID)
}

func TestHandleErrors(t *testing.T) {
	h := NewHandler(logger.NewStdoutLogger(), &recordingTransformer{err: errors.New("boom")}, nil)
	res, err := h.Process(context.Background(), linkDownTrap)
	assert.EqualError(t, err, "boom")
	assert.Nil(t, res.Alert)
	assert.Equal(t, "IF-MIB::linkDown", res.TrapOID)

	res, err = h.Process(context.Background(), "router1\n")
	assert.True(t, errors.Is(err, trap.ErrMalformedTrap))
	assert.Equal(t, Result{}, res)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Handle(ctx, linkDownTrap)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewTransformer(t *testing.T) {
	lg := logger.NewStdoutLogger()
	cfg := config.NewDefaultConfig()

	tr, err := newTransformer(cfg, lg)
	require.NoError(t, err)
	assert.IsType(t, alert.NopTransformer{}, tr)

	cfg.DNSServer = "127.0.0.1:5353"
	tr, err = newTransformer(cfg, lg)
	require.NoError(t, err)
	require.IsType(t, transform.Chain{}, tr)
	assert.Len(t, tr.(transform.Chain), 1)

	cfg.RulesFile = "/nonexistent/rules.yaml"
	_, err = newTransformer(cfg, lg)
	assert.Error(t, err)
}
