package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const Channel = "shelfwatch:events"

type Type string

const (
	ProductCreated  Type = "PRODUCT_CREATED"
	ProductUpdated  Type = "PRODUCT_UPDATED"
	ProductDeleted  Type = "PRODUCT_DELETED"
	ProductSold     Type = "PRODUCT_SOLD"
	SettingsUpdated Type = "SETTINGS_UPDATED"
)

type Event struct {
	Type        Type      `json:"type"`
	ProductCode string    `json:"product_code,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

//go:generate mockgen -source=bus.go -destination=bus_mock.go -package=events

// Publisher fans inventory mutations out to interested subscribers. The
// in-process scheduler subscribes; external consumers may too.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type redisBus struct {
	client *redis.Client
}

func NewBus(client *redis.Client) Publisher {
	return &redisBus{client: client}
}

func (b *redisBus) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return b.client.Publish(ctx, Channel, data).Err()
}
