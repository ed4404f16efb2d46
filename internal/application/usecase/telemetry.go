package usecase

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/lms/internal/domain/event"
	"github.com/bibbank/lms/internal/domain/model"
	"github.com/bibbank/lms/internal/domain/port"
)

const instrumentationName = "github.com/bibbank/lms/internal/application/usecase"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)

	loanDecisions, _ = meter.Int64Counter("lms.loan.decisions",
		metric.WithDescription("Loan applications by outcome code"))
	paymentOutcomes, _ = meter.Int64Counter("lms.payment.outcomes",
		metric.WithDescription("Payment attempts by outcome code"))
	scoreComputations, _ = meter.Int64Counter("lms.credit_score.computations",
		metric.WithDescription("Credit score computations by outcome"))
)

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, model.CodeOf(err))
	}
	span.End()
}

func outcome(err error) attribute.KeyValue {
	if err == nil {
		return attribute.String("outcome", "OK")
	}
	return attribute.String("outcome", model.CodeOf(err))
}

// publishAfterCommit publishes events for an already-persisted change. The
// change stands even if publishing fails, so the failure is only logged.
func publishAfterCommit(ctx context.Context, publisher port.EventPublisher, logger *slog.Logger, events []event.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.ErrorContext(ctx, "failed to publish domain events",
			"error", err,
			"count", len(events),
			"aggregate_id", events[0].AggregateID(),
		)
	}
}

func metricAttrs(kv ...attribute.KeyValue) metric.MeasurementOption {
	return metric.WithAttributes(kv...)
}
