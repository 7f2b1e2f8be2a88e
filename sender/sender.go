// Package sender delivers alerts and heartbeats to the alert server, either
// through its HTTP API or through an AMQP queue.
package sender

import (
	"context"

	"github.com/pkg/errors"

	"alerta/snmptrap/alert"
	"alerta/snmptrap/config"
	"alerta/snmptrap/logger"
)

type Sender interface {
	SendAlert(ctx context.Context, a *alert.Alert) error
	SendHeartbeat(ctx context.Context, hb *alert.Heartbeat) error
	Close() error
}

// New returns the sender for the configured transport.
func New(cfg config.Config, lg logger.Logger) (Sender, error) {
	switch cfg.GetTransport() {
	case config.TransportAPI:
		return NewAPISender(cfg, lg), nil
	case config.TransportAMQP:
		return NewAMQPSender(cfg.GetAMQPURL(), cfg.GetAMQPQueue(), lg)
	}
	return nil, errors.Errorf("unknown transport %q", cfg.GetTransport())
}
