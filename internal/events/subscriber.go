package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfwatch/shelfwatch/internal/domain"
	"github.com/shelfwatch/shelfwatch/internal/schedule"
)

// Subscriber reacts to inventory mutations by reconciling the reminder
// schedule. Handlers stay fast: they persist and publish, reconciliation
// happens here.
type Subscriber struct {
	client      *redis.Client
	productRepo domain.ProductRepository
	scheduler   *schedule.Service
}

func NewSubscriber(client *redis.Client, productRepo domain.ProductRepository, scheduler *schedule.Service) *Subscriber {
	return &Subscriber{
		client:      client,
		productRepo: productRepo,
		scheduler:   scheduler,
	}
}

// Run consumes events until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, Channel)
	defer func() {
		if err := pubsub.Close(); err != nil {
			slog.WarnContext(ctx, "failed to close event subscription",
				slog.String("error", err.Error()),
			)
		}
	}()

	slog.InfoContext(ctx, "event subscriber started",
		slog.String("channel", Channel),
	)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.handleMessage(ctx, msg.Payload)
		}
	}
}

func (s *Subscriber) handleMessage(ctx context.Context, payload string) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		slog.WarnContext(ctx, "discarding malformed event",
			slog.String("error", err.Error()),
		)
		return
	}

	s.Handle(ctx, event)
}

// Handle applies one event's scheduling side effect.
func (s *Subscriber) Handle(ctx context.Context, event Event) {
	slog.DebugContext(ctx, "handling event",
		slog.String("type", string(event.Type)),
		slog.String("product_code", event.ProductCode),
	)

	switch event.Type {
	case ProductCreated, ProductUpdated:
		s.rescheduleProduct(ctx, event.ProductCode)

	case ProductDeleted, ProductSold:
		if _, err := s.scheduler.CancelForProduct(ctx, event.ProductCode); err != nil {
			slog.ErrorContext(ctx, "failed to cancel reminders for product",
				slog.String("product_code", event.ProductCode),
				slog.String("error", err.Error()),
			)
		}

	case SettingsUpdated:
		if _, err := s.scheduler.RescheduleAll(ctx, time.Now()); err != nil {
			slog.ErrorContext(ctx, "failed to reschedule after settings change",
				slog.String("error", err.Error()),
			)
		}

	default:
		slog.WarnContext(ctx, "ignoring unknown event type",
			slog.String("type", string(event.Type)),
		)
	}
}

func (s *Subscriber) rescheduleProduct(ctx context.Context, code string) {
	product, err := s.productRepo.Get(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			// Deleted between publish and consume; cancel whatever remains.
			if _, cancelErr := s.scheduler.CancelForProduct(ctx, code); cancelErr != nil {
				slog.ErrorContext(ctx, "failed to cancel reminders for missing product",
					slog.String("product_code", code),
					slog.String("error", cancelErr.Error()),
				)
			}
			return
		}
		slog.ErrorContext(ctx, "failed to load product for rescheduling",
			slog.String("product_code", code),
			slog.String("error", err.Error()),
		)
		return
	}

	if _, err := s.scheduler.ScheduleProduct(ctx, product, time.Now()); err != nil {
		slog.ErrorContext(ctx, "failed to schedule reminders for product",
			slog.String("product_code", code),
			slog.String("error", err.Error()),
		)
	}
}
