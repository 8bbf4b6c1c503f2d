package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"recruit_client/internal/drafts"
)

const DefaultSubject = "recruit.drafts.outcomes"

type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// NATSPublisher отправляет исходы отправки черновиков в NATS.
type NATSPublisher struct {
	nc      conn
	subject string
}

// Connect подключается к NATS по url. Пустой subject заменяется на DefaultSubject.
func Connect(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("recruit-draftagent"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return newPublisher(nc, subject), nil
}

func newPublisher(nc conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{nc: nc, subject: subject}
}

func (p *NATSPublisher) Publish(ctx context.Context, event drafts.OutcomeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode outcome event: %w", err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", p.subject, err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	p.nc.Close()
}

// Noop используется, когда NATS не настроен.
type Noop struct{}

func (Noop) Publish(context.Context, drafts.OutcomeEvent) error {
	return nil
}
