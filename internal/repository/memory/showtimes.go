package memory

import (
	"context"
	"sort"
	"time"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type ShowtimeRepository struct {
	s *Store
}

func (r *ShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime, prices []domain.Price) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.movies[showtime.MovieID]; !ok {
		return domain.ErrMovieNotFound
	}

	if _, ok := r.s.showrooms[showtime.ShowroomID]; !ok {
		return domain.ErrShowroomNotFound
	}

	if conflict, ok := r.s.firstOverlap(showtime); ok {
		return &domain.OverlapError{ShowroomID: showtime.ShowroomID, ConflictingID: conflict}
	}

	r.s.lastShowtimeID++
	showtime.ID = r.s.lastShowtimeID
	showtime.CreatedAt = r.s.now()
	r.s.showtimes[showtime.ID] = *showtime

	for _, p := range prices {
		p.ShowtimeID = showtime.ID
		r.s.prices[priceKey{showtime.ID, p.SeatTypeID}] = p
	}

	return nil
}

// firstOverlap returns the earliest scheduled showtime of the same showroom that
// intersects candidate.
func (s *Store) firstOverlap(candidate *domain.Showtime) (domain.ShowtimeID, bool) {
	var found *domain.Showtime

	for _, existing := range s.showtimes {
		if existing.ShowroomID != candidate.ShowroomID || existing.IsCancelled() {
			continue
		}

		if !existing.Overlaps(candidate.StartTime, candidate.EndTime) {
			continue
		}

		if found == nil || existing.StartTime.Before(found.StartTime) {
			e := existing
			found = &e
		}
	}

	if found == nil {
		return 0, false
	}

	return found.ID, true
}

func (r *ShowtimeRepository) GetById(ctx context.Context, id domain.ShowtimeID) (*domain.Showtime, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	showtime, ok := r.s.showtimes[id]
	if !ok {
		return nil, domain.ErrShowtimeNotFound
	}

	return &showtime, nil
}

func (r *ShowtimeRepository) GetAll(ctx context.Context, filters domain.ShowtimeFilters) ([]domain.Showtime, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	showtimes := make([]domain.Showtime, 0)

	for _, st := range r.s.showtimes {
		if st.IsCancelled() {
			continue
		}

		if filters.MovieID != nil && st.MovieID != *filters.MovieID {
			continue
		}

		if filters.From != nil && st.StartTime.Before(*filters.From) {
			continue
		}

		if filters.To != nil && !st.StartTime.Before(*filters.To) {
			continue
		}

		showtimes = append(showtimes, st)
	}

	sort.Slice(showtimes, func(i, j int) bool {
		if !showtimes[i].StartTime.Equal(showtimes[j].StartTime) {
			return showtimes[i].StartTime.Before(showtimes[j].StartTime)
		}
		return showtimes[i].ID < showtimes[j].ID
	})

	return showtimes, nil
}

func (r *ShowtimeRepository) Cancel(ctx context.Context, id domain.ShowtimeID, now time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	showtime, ok := r.s.showtimes[id]
	if !ok {
		return 0, domain.ErrShowtimeNotFound
	}

	if showtime.IsCancelled() {
		return 0, nil
	}

	showtime.Status = domain.ShowtimeStatusCancelled
	showtime.CancelledAt = &now
	r.s.showtimes[id] = showtime

	cancelled := 0

	for key, ticketID := range r.s.active {
		if key.showtimeID != id {
			continue
		}

		ticket := r.s.tickets[ticketID]
		if ticket.IsActive(now) {
			cancelled++
		}

		ticket.Cancel(now, domain.CancelReasonShowtimeCancelled)
		r.s.tickets[ticketID] = ticket
		delete(r.s.active, key)
	}

	return cancelled, nil
}

type PriceRepository struct {
	s *Store
}

func (r *PriceRepository) GetPrice(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	seatTypeID domain.SeatTypeID) (*domain.Price, error) {

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	price, ok := r.s.prices[priceKey{showtimeID, seatTypeID}]
	if !ok {
		return nil, domain.ErrPricingNotConfigured
	}

	return &price, nil
}

func (r *PriceRepository) GetByShowtime(ctx context.Context, showtimeID domain.ShowtimeID) ([]domain.Price, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	prices := make([]domain.Price, 0)
	for key, p := range r.s.prices {
		if key.showtimeID == showtimeID {
			prices = append(prices, p)
		}
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i].SeatTypeID < prices[j].SeatTypeID })

	return prices, nil
}

func (r *PriceRepository) ReplaceAll(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	basePrice int64,
	prices []domain.Price) error {

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	showtime, err := r.s.priceableShowtime(showtimeID)
	if err != nil {
		return err
	}

	for key := range r.s.prices {
		if key.showtimeID == showtimeID {
			delete(r.s.prices, key)
		}
	}

	for _, p := range prices {
		r.s.prices[priceKey{showtimeID, p.SeatTypeID}] = p
	}

	showtime.BasePrice = basePrice
	r.s.showtimes[showtimeID] = showtime

	return nil
}

func (r *PriceRepository) Override(ctx context.Context, price domain.Price) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.s.priceableShowtime(price.ShowtimeID); err != nil {
		return err
	}

	if _, ok := r.s.seatTypes[price.SeatTypeID]; !ok {
		return domain.ErrSeatTypeNotFound
	}

	price.Override = true
	r.s.prices[priceKey{price.ShowtimeID, price.SeatTypeID}] = price

	return nil
}

func (s *Store) priceableShowtime(id domain.ShowtimeID) (domain.Showtime, error) {
	showtime, ok := s.showtimes[id]
	if !ok {
		return domain.Showtime{}, domain.ErrShowtimeNotFound
	}

	if showtime.IsCancelled() {
		return domain.Showtime{}, domain.ErrShowtimeCancelled
	}

	if s.hasTickets(id) {
		return domain.Showtime{}, domain.ErrShowtimeHasTickets
	}

	return showtime, nil
}
