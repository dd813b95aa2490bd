// Package memory is an in-process implementation of the domain repositories.
// A single lock serializes every write, which makes each repository call one
// atomic unit of work, the same guarantee the PostgreSQL store gets from
// transactions and constraints.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type priceKey struct {
	showtimeID domain.ShowtimeID
	seatTypeID domain.SeatTypeID
}

type seatKey struct {
	showtimeID domain.ShowtimeID
	seatID     domain.SeatID
}

type Store struct {
	mu sync.RWMutex

	movies    map[domain.MovieID]domain.Movie
	showrooms map[domain.ShowroomID]domain.Showroom
	seatTypes map[domain.SeatTypeID]domain.SeatType
	seats     map[domain.SeatID]domain.Seat
	showtimes map[domain.ShowtimeID]domain.Showtime
	prices    map[priceKey]domain.Price
	tickets   map[uuid.UUID]domain.Ticket

	// active indexes the live ticket per (showtime, seat).
	active map[seatKey]uuid.UUID

	lastMovieID    domain.MovieID
	lastShowroomID domain.ShowroomID
	lastSeatTypeID domain.SeatTypeID
	lastSeatID     domain.SeatID
	lastShowtimeID domain.ShowtimeID

	now func() time.Time
}

type Option func(*Store)

// WithClock sets the clock used for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		movies:    make(map[domain.MovieID]domain.Movie),
		showrooms: make(map[domain.ShowroomID]domain.Showroom),
		seatTypes: make(map[domain.SeatTypeID]domain.SeatType),
		seats:     make(map[domain.SeatID]domain.Seat),
		showtimes: make(map[domain.ShowtimeID]domain.Showtime),
		prices:    make(map[priceKey]domain.Price),
		tickets:   make(map[uuid.UUID]domain.Ticket),
		active:    make(map[seatKey]uuid.UUID),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Repositories bundles the per-entity views of the store.
type Repositories struct {
	Movies    *MovieRepository
	Showrooms *ShowroomRepository
	SeatTypes *SeatTypeRepository
	Seats     *SeatRepository
	Showtimes *ShowtimeRepository
	Prices    *PriceRepository
	Tickets   *TicketRepository
}

func (s *Store) Repositories() Repositories {
	return Repositories{
		Movies:    &MovieRepository{s},
		Showrooms: &ShowroomRepository{s},
		SeatTypes: &SeatTypeRepository{s},
		Seats:     &SeatRepository{s},
		Showtimes: &ShowtimeRepository{s},
		Prices:    &PriceRepository{s},
		Tickets:   &TicketRepository{s},
	}
}

// releaseIfExpired drops an expired hold from the active index. Callers hold mu.
func (s *Store) releaseIfExpired(key seatKey, now time.Time) bool {
	id, ok := s.active[key]
	if !ok {
		return false
	}

	ticket := s.tickets[id]
	if !ticket.Expire(now) {
		return false
	}

	s.tickets[id] = ticket
	delete(s.active, key)

	return true
}

func (s *Store) hasTickets(showtimeID domain.ShowtimeID) bool {
	for _, t := range s.tickets {
		if t.ShowtimeID == showtimeID {
			return true
		}
	}

	return false
}
