package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type TicketRepository struct {
	s *Store
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	showtime, ok := r.s.showtimes[ticket.ShowtimeID]
	if !ok {
		return domain.ErrShowtimeNotFound
	}

	if showtime.IsCancelled() {
		return domain.ErrShowtimeCancelled
	}

	price, ok := r.s.prices[priceKey{ticket.ShowtimeID, ticket.SeatTypeID}]
	if !ok {
		return domain.ErrPricingNotConfigured
	}

	key := seatKey{ticket.ShowtimeID, ticket.SeatID}
	r.s.releaseIfExpired(key, ticket.BookedAt)

	if _, taken := r.s.active[key]; taken {
		return domain.ErrSeatUnavailable
	}

	ticket.Price = price.Amount
	r.s.tickets[ticket.ID] = *ticket
	r.s.active[key] = ticket.ID

	return nil
}

func (r *TicketRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}

	return &ticket, nil
}

func (r *TicketRepository) GetByCustomer(ctx context.Context, customerID domain.CustomerID) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tickets := make([]domain.Ticket, 0)
	for _, t := range r.s.tickets {
		if t.CustomerID == customerID {
			tickets = append(tickets, t)
		}
	}

	sort.Slice(tickets, func(i, j int) bool { return tickets[i].BookedAt.After(tickets[j].BookedAt) })

	return tickets, nil
}

func (r *TicketRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	fn func(*domain.Ticket) error) (*domain.Ticket, error) {

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}

	ticket := current
	if err := fn(&ticket); err != nil {
		return nil, err
	}

	r.s.tickets[id] = ticket

	key := seatKey{ticket.ShowtimeID, ticket.SeatID}
	if ticket.Status == domain.TicketStatusCancelled && r.s.active[key] == id {
		delete(r.s.active, key)
	}

	return &ticket, nil
}

func (r *TicketRepository) ActiveSeatIDs(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	now time.Time) ([]domain.SeatID, error) {

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seatIDs := make([]domain.SeatID, 0)
	for key, ticketID := range r.s.active {
		if key.showtimeID != showtimeID {
			continue
		}

		ticket := r.s.tickets[ticketID]
		if ticket.IsActive(now) {
			seatIDs = append(seatIDs, key.seatID)
		}
	}

	return seatIDs, nil
}

func (r *TicketRepository) ExpireHolds(ctx context.Context, now time.Time, limit int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	expired := 0
	for key := range r.s.active {
		if expired >= limit {
			break
		}

		if r.s.releaseIfExpired(key, now) {
			expired++
		}
	}

	return expired, nil
}
