package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const scheduleTracerName = "github.com/shelfwatch/shelfwatch/internal/schedule"

func ScheduleTracer() trace.Tracer {
	return otel.Tracer(scheduleTracerName)
}

func StartPlanPhaseSpan(ctx context.Context, now time.Time, productCount int) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.plan_phase",
		trace.WithAttributes(
			attribute.String("plan.now", now.Format(time.RFC3339)),
			attribute.Int("plan.product_count", productCount),
		),
	)
}

func StartDispatchPhaseSpan(ctx context.Context, instructionCount int) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.dispatch_phase",
		trace.WithAttributes(
			attribute.Int("dispatch.instruction_count", instructionCount),
		),
	)
}

func StartCancelSpan(ctx context.Context, scope, productCode string) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.cancel",
		trace.WithAttributes(
			attribute.String("cancel.scope", scope),
			attribute.String("cancel.product_code", productCode),
		),
	)
}

func RecordDispatchResult(span trace.Span, scheduled, failed, skipped int, err error) {
	span.SetAttributes(
		attribute.Int("dispatch.scheduled_count", scheduled),
		attribute.Int("dispatch.failed_count", failed),
		attribute.Int("dispatch.skipped_count", skipped),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
