package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusHeld      TicketStatus = "held"
	TicketStatusBooked    TicketStatus = "booked"
	TicketStatusCancelled TicketStatus = "cancelled"
)

type CancelReason string

const (
	CancelReasonCustomer          CancelReason = "customer"
	CancelReasonExpired           CancelReason = "expired"
	CancelReasonShowtimeCancelled CancelReason = "showtime_cancelled"
)

type Ticket struct {
	ID           uuid.UUID
	ShowtimeID   ShowtimeID
	SeatID       SeatID
	SeatTypeID   SeatTypeID
	SeatRow      int
	SeatNumber   int
	CustomerID   CustomerID
	Price        int64
	Status       TicketStatus
	BookedAt     time.Time
	ExpiresAt    *time.Time
	ConfirmedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason CancelReason
}

// NewTicket creates a booked ticket. The seat type is copied from the seat so the
// price paid stays tied to what was sold.
func NewTicket(showtimeID ShowtimeID, seat Seat, customer CustomerID, price int64, now time.Time) *Ticket {
	return &Ticket{
		ID:         uuid.New(),
		ShowtimeID: showtimeID,
		SeatID:     seat.ID,
		SeatTypeID: seat.SeatTypeID,
		SeatRow:    seat.Row,
		SeatNumber: seat.Number,
		CustomerID: customer,
		Price:      price,
		Status:     TicketStatusBooked,
		BookedAt:   now,
	}
}

// NewHeldTicket creates a ticket that reserves the seat until now+ttl.
func NewHeldTicket(
	showtimeID ShowtimeID,
	seat Seat,
	customer CustomerID,
	price int64,
	now time.Time,
	ttl time.Duration) *Ticket {

	t := NewTicket(showtimeID, seat, customer, price, now)
	expiresAt := now.Add(ttl)
	t.Status = TicketStatusHeld
	t.ExpiresAt = &expiresAt

	return t
}

// IsExpired reports whether a hold has run out. Only held tickets expire.
func (t *Ticket) IsExpired(now time.Time) bool {
	return t.Status == TicketStatusHeld && t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// IsActive reports whether the ticket occupies its seat.
func (t *Ticket) IsActive(now time.Time) bool {
	switch t.Status {
	case TicketStatusBooked:
		return true
	case TicketStatusHeld:
		return !t.IsExpired(now)
	default:
		return false
	}
}

// Expire cancels an expired hold. It returns false when there was nothing to expire.
func (t *Ticket) Expire(now time.Time) bool {
	if !t.IsExpired(now) {
		return false
	}

	t.Status = TicketStatusCancelled
	t.CancelReason = CancelReasonExpired
	t.CancelledAt = &now

	return true
}

// Confirm turns a live hold into a booking. A hold that already ran out, whether or
// not it was reclaimed yet, fails with ErrHoldExpired.
func (t *Ticket) Confirm(now time.Time) error {
	if t.IsExpired(now) || (t.Status == TicketStatusCancelled && t.CancelReason == CancelReasonExpired) {
		return ErrHoldExpired
	}

	if t.Status != TicketStatusHeld {
		return ErrInvalidTicketState
	}

	t.Status = TicketStatusBooked
	t.ConfirmedAt = &now
	t.ExpiresAt = nil

	return nil
}

// Cancel releases the seat. Cancelling a cancelled ticket is a no-op, so it returns
// false without touching the original reason.
func (t *Ticket) Cancel(now time.Time, reason CancelReason) bool {
	if t.Status == TicketStatusCancelled {
		return false
	}

	if t.Expire(now) {
		return true
	}

	t.Status = TicketStatusCancelled
	t.CancelReason = reason
	t.CancelledAt = &now

	return true
}

type TicketRepository interface {
	// Create reclaims expired holds on the ticket's (showtime, seat) and inserts the
	// ticket as one atomic unit. The stored price for the seat type is read in the
	// same unit and written to ticket.Price. It fails with ErrSeatUnavailable when
	// another active ticket holds the seat and with ErrShowtimeCancelled when the
	// showtime was cancelled concurrently.
	Create(ctx context.Context, ticket *Ticket) error
	GetById(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetByCustomer(ctx context.Context, customerID CustomerID) ([]Ticket, error)
	// Update locks the ticket, applies fn and persists the result. Nothing is
	// written when fn returns an error.
	Update(ctx context.Context, id uuid.UUID, fn func(*Ticket) error) (*Ticket, error)
	// ActiveSeatIDs returns the seats occupied by held or booked tickets at now.
	ActiveSeatIDs(ctx context.Context, showtimeID ShowtimeID, now time.Time) ([]SeatID, error)
	// ExpireHolds cancels at most limit holds whose expiry is not after now.
	ExpireHolds(ctx context.Context, now time.Time, limit int) (int, error)
}
