package alert

import (
	"time"

	"github.com/google/uuid"
)

const (
	HeartbeatType    = "Heartbeat"
	HeartbeatTimeout = 300
)

// Heartbeat tells the alert server the trap handler is alive.
type Heartbeat struct {
	ID         string    `json:"id"`
	Origin     string    `json:"origin"`
	Type       string    `json:"type"`
	Version    string    `json:"version"`
	Timeout    int       `json:"timeout"`
	CreateTime time.Time `json:"createTime"`
}

func NewHeartbeat(origin, version string) *Heartbeat {
	return &Heartbeat{
		ID:         uuid.New().String(),
		Origin:     origin,
		Type:       HeartbeatType,
		Version:    version,
		Timeout:    HeartbeatTimeout,
		CreateTime: time.Now().UTC(),
	}
}
