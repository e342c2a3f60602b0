package dispatcher

import (
	"context"
	"errors"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/domain"
)

//go:generate mockgen -source=dispatcher.go -destination=dispatcher_mock.go -package=dispatcher

var (
	// ErrPermissionDenied means the dispatch gateway refused to accept
	// reminders (the user revoked notification permission). Terminal for the
	// scheduling attempt; not retried.
	ErrPermissionDenied = errors.New("notification permission denied")
	ErrNotFound         = errors.New("scheduled reminder not found")
)

// Dispatcher is the platform notification boundary. It guarantees at least
// one delivery attempt for a future instant; delivery precision is its
// responsibility, not the planner's.
type Dispatcher interface {
	Schedule(ctx context.Context, instruction *domain.ReminderInstruction) (string, error)
	Cancel(ctx context.Context, id string) error
	CancelAll(ctx context.Context) error
	ListScheduled(ctx context.Context) ([]ScheduledItem, error)
}

// ScheduledItem is a reminder the dispatcher currently holds.
type ScheduledItem struct {
	ID          string          `json:"id"`
	ProductCode string          `json:"product_code"`
	LeadDays    int             `json:"lead_days"`
	FireAt      time.Time       `json:"fire_at"`
	Severity    domain.Severity `json:"severity"`
}
