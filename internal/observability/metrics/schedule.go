package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const scheduleMeterName = "schedule.service"

type ScheduleMetrics struct {
	remindersProcessed   metric.Int64Counter
	remindersCancelled   metric.Int64Counter
	rescheduleDuration   metric.Float64Histogram
	severityDistribution metric.Int64Counter
}

func NewScheduleMetrics() (*ScheduleMetrics, error) {
	meter := otel.Meter(scheduleMeterName)

	remindersProcessed, err := meter.Int64Counter(
		"schedule_reminders_total",
		metric.WithDescription("Total number of reminder instructions processed"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	remindersCancelled, err := meter.Int64Counter(
		"schedule_reminders_cancelled_total",
		metric.WithDescription("Total number of reminder cancellations issued"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	rescheduleDuration, err := meter.Float64Histogram(
		"schedule_reschedule_duration_seconds",
		metric.WithDescription("Full reschedule batch duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	severityDistribution, err := meter.Int64Counter(
		"schedule_severity_distribution_total",
		metric.WithDescription("Distribution of planned reminders across severities"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	return &ScheduleMetrics{
		remindersProcessed:   remindersProcessed,
		remindersCancelled:   remindersCancelled,
		rescheduleDuration:   rescheduleDuration,
		severityDistribution: severityDistribution,
	}, nil
}

func (m *ScheduleMetrics) RecordReminderProcessed(ctx context.Context, severity, outcome string) {
	m.remindersProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("severity", severity),
		attribute.String("outcome", outcome),
	))
}

func (m *ScheduleMetrics) RecordRemindersCancelled(ctx context.Context, scope string, count int) {
	m.remindersCancelled.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("scope", scope),
	))
}

func (m *ScheduleMetrics) RecordRescheduleDuration(ctx context.Context, duration time.Duration) {
	m.rescheduleDuration.Record(ctx, duration.Seconds())
}

func (m *ScheduleMetrics) RecordSeverityDistribution(ctx context.Context, severity string) {
	m.severityDistribution.Add(ctx, 1, metric.WithAttributes(
		attribute.String("severity", severity),
	))
}
