package nats

//go:generate go run go.uber.org/mock/mockgen -source=./nats.go -destination=./mocks/nats_mock.go -package=mocks

import (
	"context"
	"fmt"
	"pos/config"

	natsGo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

type natsPublisher struct {
	conn *natsGo.Conn
}

// New connects to the configured server. The connection reconnects on its own
// after the first successful dial.
func New(cfg *config.Config) (Publisher, error) {
	conn, err := natsGo.Connect(cfg.NATS.URL, natsGo.Name(cfg.App.Name), natsGo.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Info().Str("url", cfg.NATS.URL).Msg("NATS publisher connected")

	return &natsPublisher{conn: conn}, nil
}

func (p *natsPublisher) Publish(_ context.Context, subject string, data []byte) error {
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	return nil
}

func (p *natsPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()

		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}

	return nil
}
