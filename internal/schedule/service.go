package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/domain"
	"github.com/shelfwatch/shelfwatch/internal/infra/dispatcher"
	"github.com/shelfwatch/shelfwatch/internal/observability/metrics"
	"github.com/shelfwatch/shelfwatch/internal/observability/tracing"
	"github.com/shelfwatch/shelfwatch/internal/plan"
)

const (
	// defaultPauseEvery/defaultPause pace dispatch registrations so a large
	// batch does not overwhelm the gateway.
	defaultPauseEvery = 5
	defaultPause      = 100 * time.Millisecond
)

// Service reconciles the dispatcher's scheduled reminders with the desired
// set computed by the planner. The policy is cancel-all-then-reschedule-all:
// re-running a batch is always safe because the previous schedule is retracted
// first.
type Service struct {
	productRepo  domain.ProductRepository
	settingsRepo domain.SettingsRepository
	dispatch     dispatcher.Dispatcher
	planner      *plan.Planner
	metrics      *metrics.ScheduleMetrics
	pauseEvery   int
	pause        time.Duration
}

func NewService(
	productRepo domain.ProductRepository,
	settingsRepo domain.SettingsRepository,
	dispatch dispatcher.Dispatcher,
	planner *plan.Planner,
	scheduleMetrics *metrics.ScheduleMetrics,
) *Service {
	return &Service{
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		dispatch:     dispatch,
		planner:      planner,
		metrics:      scheduleMetrics,
		pauseEvery:   defaultPauseEvery,
		pause:        defaultPause,
	}
}

// SetPacing overrides the inter-item dispatch pause. pauseEvery <= 0 disables
// pacing.
func (s *Service) SetPacing(pauseEvery int, pause time.Duration) {
	s.pauseEvery = pauseEvery
	s.pause = pause
}

// RescheduleAll recomputes the full reminder plan and replaces everything the
// dispatcher holds. Per-item dispatch failures are tallied, not propagated:
// the batch entry point only errors when the store or the cancel step leaves
// reconciliation in an undefined state.
func (s *Service) RescheduleAll(ctx context.Context, now time.Time) (*Response, error) {
	start := time.Now()

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to load notification settings, using defaults",
			slog.String("error", err.Error()),
		)
		defaults := domain.DefaultSettings()
		settings = &defaults
	}

	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		// Read failures degrade to an empty list so the batch still reconciles.
		slog.ErrorContext(ctx, "failed to load products, treating store as empty",
			slog.String("error", err.Error()),
		)
		products = nil
	}

	planCtx, planSpan := tracing.StartPlanPhaseSpan(ctx, now, len(products))
	instructions := s.planner.PlanReminders(products, settings, now)
	planSpan.End()

	slog.InfoContext(planCtx, "reminder plan computed",
		slog.Int("product_count", len(products)),
		slog.Int("instruction_count", len(instructions)),
		slog.Bool("notifications_enabled", settings.Enabled),
	)

	if err := s.dispatch.CancelAll(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to cancel scheduled reminders",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to cancel scheduled reminders: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordRemindersCancelled(ctx, "all", 1)
	}

	resp := s.dispatchAll(ctx, instructions)

	if s.metrics != nil {
		s.metrics.RecordRescheduleDuration(ctx, time.Since(start))
	}

	return resp, nil
}

// ScheduleProduct replaces the pending reminders of a single product. Step 0
// is an unconditional cancel of that product's reminders, so repeated calls
// never duplicate.
func (s *Service) ScheduleProduct(ctx context.Context, product *domain.Product, now time.Time) (*Response, error) {
	cancelled, err := s.CancelForProduct(ctx, product.Code)
	if err != nil {
		return nil, err
	}

	if product.IsSold {
		return &Response{CancelledCount: cancelled, Results: []ResultItem{}}, nil
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to load notification settings, using defaults",
			slog.String("product_code", product.Code),
			slog.String("error", err.Error()),
		)
		defaults := domain.DefaultSettings()
		settings = &defaults
	}

	instructions := s.planner.PlanReminders([]domain.Product{*product}, settings, now)

	resp := s.dispatchAll(ctx, instructions)
	resp.CancelledCount = cancelled
	return resp, nil
}

// CancelForProduct retracts every pending instruction whose product code
// matches. Called when a product is sold or deleted, and as step 0 of
// ScheduleProduct.
func (s *Service) CancelForProduct(ctx context.Context, code string) (int, error) {
	ctx, span := tracing.StartCancelSpan(ctx, "product", code)
	defer span.End()

	items, err := s.dispatch.ListScheduled(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list scheduled reminders",
			slog.String("product_code", code),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("failed to list scheduled reminders: %w", err)
	}

	cancelled := 0
	for _, item := range items {
		if item.ProductCode != code {
			continue
		}
		if err := s.dispatch.Cancel(ctx, item.ID); err != nil {
			if errors.Is(err, dispatcher.ErrNotFound) {
				// Already gone; the desired end state holds.
				continue
			}
			slog.WarnContext(ctx, "failed to cancel scheduled reminder",
				slog.String("product_code", code),
				slog.String("dispatch_id", item.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		cancelled++
	}

	if s.metrics != nil && cancelled > 0 {
		s.metrics.RecordRemindersCancelled(ctx, "product", cancelled)
	}

	slog.DebugContext(ctx, "cancelled reminders for product",
		slog.String("product_code", code),
		slog.Int("cancelled_count", cancelled),
	)

	return cancelled, nil
}

// dispatchAll registers instructions one at a time. A failure on one item
// never aborts the rest; permission denial is terminal for the whole attempt.
func (s *Service) dispatchAll(ctx context.Context, instructions []domain.ReminderInstruction) *Response {
	dispatchCtx, span := tracing.StartDispatchPhaseSpan(ctx, len(instructions))

	resp := &Response{
		PlannedCount: len(instructions),
		Results:      make([]ResultItem, 0, len(instructions)),
	}

	for i := range instructions {
		instr := &instructions[i]

		if s.metrics != nil {
			s.metrics.RecordSeverityDistribution(dispatchCtx, instr.Severity.String())
		}

		result := ResultItem{
			InstructionID: instr.ID,
			ProductCode:   instr.ProductCode,
			LeadDays:      instr.LeadDays,
			FireAt:        instr.FireAt,
			Severity:      instr.Severity,
		}

		dispatchID, err := s.dispatch.Schedule(dispatchCtx, instr)
		switch {
		case errors.Is(err, dispatcher.ErrPermissionDenied):
			// Surfaced once to the caller; not retried automatically.
			slog.WarnContext(dispatchCtx, "notification permission denied, aborting scheduling attempt",
				slog.Int("remaining_count", len(instructions)-i),
			)
			resp.PermissionDenied = true
			resp.FailedCount += len(instructions) - i
			tracing.RecordDispatchResult(span, resp.ScheduledCount, resp.FailedCount, 0, err)
			s.logBatchOutcome(dispatchCtx, resp)
			return resp

		case err != nil:
			slog.ErrorContext(dispatchCtx, "failed to schedule reminder",
				slog.String("product_code", instr.ProductCode),
				slog.Int("lead_days", instr.LeadDays),
				slog.Time("fire_at", instr.FireAt),
				slog.String("error", err.Error()),
			)
			result.Error = err.Error()
			resp.FailedCount++
			if s.metrics != nil {
				s.metrics.RecordReminderProcessed(dispatchCtx, instr.Severity.String(), "failed")
			}

		default:
			result.DispatchID = dispatchID
			result.Success = true
			resp.ScheduledCount++
			if s.metrics != nil {
				s.metrics.RecordReminderProcessed(dispatchCtx, instr.Severity.String(), "success")
			}
		}

		resp.Results = append(resp.Results, result)

		if s.pauseEvery > 0 && s.pause > 0 && (i+1)%s.pauseEvery == 0 && i+1 < len(instructions) {
			select {
			case <-dispatchCtx.Done():
				slog.WarnContext(dispatchCtx, "dispatch batch cancelled",
					slog.Int("dispatched_count", i+1),
					slog.Int("remaining_count", len(instructions)-i-1),
				)
				resp.FailedCount += len(instructions) - i - 1
				tracing.RecordDispatchResult(span, resp.ScheduledCount, resp.FailedCount, 0, dispatchCtx.Err())
				return resp
			case <-time.After(s.pause):
			}
		}
	}

	tracing.RecordDispatchResult(span, resp.ScheduledCount, resp.FailedCount, 0, nil)
	s.logBatchOutcome(dispatchCtx, resp)
	return resp
}

func (s *Service) logBatchOutcome(ctx context.Context, resp *Response) {
	switch {
	case resp.FailedCount == 0:
		slog.InfoContext(ctx, "reminder batch scheduled",
			slog.Int("scheduled_count", resp.ScheduledCount),
		)
	case resp.ScheduledCount > 0:
		slog.WarnContext(ctx, "reminder batch partially scheduled",
			slog.Int("scheduled_count", resp.ScheduledCount),
			slog.Int("failed_count", resp.FailedCount),
		)
	default:
		slog.ErrorContext(ctx, "reminder batch failed entirely",
			slog.Int("failed_count", resp.FailedCount),
		)
	}
}
