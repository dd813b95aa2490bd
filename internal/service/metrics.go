package service

import (
	"context"
	"errors"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type bookingMetrics struct {
	attempts    metric.Int64Counter
	transitions metric.Int64Counter
}

func newBookingMetrics() bookingMetrics {
	meter := otel.Meter(instrumentationName)

	attempts, err := meter.Int64Counter("booking.attempts",
		metric.WithDescription("Book and Hold calls by outcome"))
	if err != nil {
		otel.Handle(err)
		attempts = noop.Int64Counter{}
	}

	transitions, err := meter.Int64Counter("booking.ticket_transitions",
		metric.WithDescription("Ticket state changes by target status"))
	if err != nil {
		otel.Handle(err)
		transitions = noop.Int64Counter{}
	}

	return bookingMetrics{attempts: attempts, transitions: transitions}
}

func (m bookingMetrics) recordAttempt(ctx context.Context, kind string, err error) {
	m.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome(err)),
	))
}

func (m bookingMetrics) recordTransition(ctx context.Context, status domain.TicketStatus, reason domain.CancelReason) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(status)),
		attribute.String("reason", string(reason)),
	))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrSeatUnavailable):
		return "seat_unavailable"
	case domain.IsConflictError(err):
		return "conflict"
	case domain.IsValidationError(err):
		return "rejected"
	default:
		return "error"
	}
}
