package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultHoldTTL = 10 * time.Minute
	MaxHoldTTL     = 30 * time.Minute
)

type BookingConfig struct {
	DefaultHoldTTL time.Duration
	MaxHoldTTL     time.Duration
}

func (c BookingConfig) withDefaults() BookingConfig {
	if c.DefaultHoldTTL <= 0 {
		c.DefaultHoldTTL = DefaultHoldTTL
	}

	if c.MaxHoldTTL <= 0 {
		c.MaxHoldTTL = MaxHoldTTL
	}

	if c.DefaultHoldTTL > c.MaxHoldTTL {
		c.DefaultHoldTTL = c.MaxHoldTTL
	}

	return c
}

// holdTTL resolves the requested hold duration. Zero or negative picks the default.
func (c BookingConfig) holdTTL(requested time.Duration) time.Duration {
	if requested <= 0 {
		return c.DefaultHoldTTL
	}

	return min(requested, c.MaxHoldTTL)
}

// Booking sells seats. The store guarantees that at most one held or booked ticket
// exists per showtime and seat, so the checks below only produce friendlier errors.
type Booking struct {
	logger    *slog.Logger
	now       func() time.Time
	config    BookingConfig
	metrics   bookingMetrics
	pricing   *Pricing
	showtimes domain.ShowtimeRepository
	seats     domain.SeatRepository
	tickets   domain.TicketRepository
}

// Book sells the seat outright.
func (b *Booking) Book(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	seatID domain.SeatID,
	customerID domain.CustomerID) (*domain.Ticket, error) {

	ctx, span := b.startSpan(ctx, "Booking.Book", showtimeID, seatID)
	defer span.End()

	ticket, err := b.reserve(ctx, showtimeID, seatID, customerID,
		func(_ *domain.Showtime, seat domain.Seat, price int64, now time.Time) *domain.Ticket {
			return domain.NewTicket(showtimeID, seat, customerID, price, now)
		})
	b.finish(ctx, span, "book", err)

	return ticket, err
}

// Hold reserves the seat for ttl, after which the seat is released unless the
// ticket gets confirmed. A hold never outlives the showtime's start.
func (b *Booking) Hold(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	seatID domain.SeatID,
	customerID domain.CustomerID,
	ttl time.Duration) (*domain.Ticket, error) {

	ctx, span := b.startSpan(ctx, "Booking.Hold", showtimeID, seatID)
	defer span.End()

	ttl = b.config.holdTTL(ttl)

	ticket, err := b.reserve(ctx, showtimeID, seatID, customerID,
		func(showtime *domain.Showtime, seat domain.Seat, price int64, now time.Time) *domain.Ticket {
			untilStart := showtime.StartTime.Sub(now)
			return domain.NewHeldTicket(showtimeID, seat, customerID, price, now, min(ttl, untilStart))
		})
	b.finish(ctx, span, "hold", err)

	return ticket, err
}

func (b *Booking) startSpan(
	ctx context.Context,
	name string,
	showtimeID domain.ShowtimeID,
	seatID domain.SeatID) (context.Context, trace.Span) {

	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int("showtime.id", int(showtimeID)),
		attribute.Int("seat.id", int(seatID)),
	))
}

func (b *Booking) finish(ctx context.Context, span trace.Span, kind string, err error) {
	b.metrics.recordAttempt(ctx, kind, err)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
}

func (b *Booking) reserve(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	seatID domain.SeatID,
	customerID domain.CustomerID,
	newTicket func(showtime *domain.Showtime, seat domain.Seat, price int64, now time.Time) *domain.Ticket) (*domain.Ticket, error) {

	if customerID == "" {
		return nil, domain.NewValidationError("customerId", "is required")
	}

	showtime, err := b.showtimes.GetById(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	now := b.now()
	if err := showtime.CheckBookable(now); err != nil {
		return nil, err
	}

	seat, err := b.seats.GetById(ctx, seatID)
	if err != nil {
		return nil, err
	}

	if seat.ShowroomID != showtime.ShowroomID {
		return nil, domain.ErrSeatNotInShowroom
	}

	// Quote only. Create settles the amount against the stored price.
	price, err := b.pricing.PriceFor(ctx, showtimeID, seat.SeatTypeID)
	if err != nil {
		return nil, err
	}

	ticket := newTicket(showtime, *seat, price, now)

	if err := b.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	b.logger.Info("seat reserved",
		"ticketId", ticket.ID, "showtimeId", showtimeID, "seatId", seatID,
		"status", ticket.Status, "price", ticket.Price)

	return ticket, nil
}

// Confirm turns a live hold into a booking. An expired hold is cancelled on the
// spot and ErrHoldExpired is returned.
func (b *Booking) Confirm(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "Booking.Confirm", trace.WithAttributes(
		attribute.String("ticket.id", ticketID.String()),
	))
	defer span.End()

	now := b.now()
	expired := false

	ticket, err := b.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		if t.Expire(now) {
			expired = true
			return nil
		}

		return t.Confirm(now)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if expired {
		b.metrics.recordTransition(ctx, domain.TicketStatusCancelled, domain.CancelReasonExpired)
		span.SetStatus(codes.Error, domain.ErrHoldExpired.Error())
		return nil, domain.ErrHoldExpired
	}

	b.metrics.recordTransition(ctx, domain.TicketStatusBooked, "")
	b.logger.Info("hold confirmed", "ticketId", ticketID)

	return ticket, nil
}

// Cancel releases the ticket's seat. Cancelling a cancelled ticket returns it unchanged.
func (b *Booking) Cancel(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "Booking.Cancel", trace.WithAttributes(
		attribute.String("ticket.id", ticketID.String()),
	))
	defer span.End()

	now := b.now()
	changed := false

	ticket, err := b.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		changed = t.Cancel(now, domain.CancelReasonCustomer)
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if changed {
		b.metrics.recordTransition(ctx, ticket.Status, ticket.CancelReason)
		b.logger.Info("ticket cancelled", "ticketId", ticketID, "reason", ticket.CancelReason)
	}

	return ticket, nil
}

func (b *Booking) GetTicket(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	return b.tickets.GetById(ctx, ticketID)
}

func (b *Booking) ListCustomerTickets(ctx context.Context, customerID domain.CustomerID) ([]domain.Ticket, error) {
	if customerID == "" {
		return nil, domain.NewValidationError("customerId", "is required")
	}

	return b.tickets.GetByCustomer(ctx, customerID)
}
