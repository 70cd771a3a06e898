package lamp

import (
	"context"

	"github.com/rs/zerolog/log"
)

// NullPublisher is used when the MQTT broker is unreachable at startup.
// Timers are still tracked; commands are logged and dropped.
type NullPublisher struct{}

// NewNullPublisher creates a new NullPublisher.
func NewNullPublisher() *NullPublisher {
	return &NullPublisher{}
}

func (p *NullPublisher) Publish(ctx context.Context, cmd Command) error {
	log.Warn().Int("number", cmd.Number).Bool("status", cmd.Status).Msg("Dropping command, publisher not connected")
	return ErrNotConnected
}

func (p *NullPublisher) IsConnected() bool {
	return false
}

func (p *NullPublisher) Close() {}
