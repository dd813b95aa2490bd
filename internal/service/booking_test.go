package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

func (s *ServiceSuite) TestBookAndPriceSeats() {
	showtime := s.schedule(s.start, 1000)

	ticket, err := s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-x")
	s.Require().NoError(err)
	s.Equal(domain.TicketStatusBooked, ticket.Status)
	s.Equal(int64(1000), ticket.Price)
	s.Equal(1, ticket.SeatRow)
	s.Equal(1, ticket.SeatNumber)
	s.Equal(s.standard.ID, ticket.SeatTypeID)

	_, err = s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-y")
	s.ErrorIs(err, domain.ErrSeatUnavailable)

	ticket, err = s.svc.Booking.Book(s.ctx, showtime.ID, s.seat12.ID, "customer-y")
	s.Require().NoError(err)
	s.Equal(int64(1500), ticket.Price)
	s.Equal(s.premium.ID, ticket.SeatTypeID)
}

func (s *ServiceSuite) TestConcurrentBookSellsSeatOnce() {
	showtime := s.schedule(s.start, 1000)

	const callers = 50

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		successes   int
		unavailable int
		others      []error
	)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, domain.CustomerID(fmt.Sprintf("customer-%d", i)))

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrSeatUnavailable):
				unavailable++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	s.Empty(others)
	s.Equal(1, successes)
	s.Equal(callers-1, unavailable)

	seats, err := s.svc.Availability.AvailableSeats(s.ctx, showtime.ID)
	s.Require().NoError(err)
	s.Equal([]domain.Seat{*s.seat12}, seats)
}

func (s *ServiceSuite) TestConcurrentHoldAndBookSellSeatOnce() {
	showtime := s.schedule(s.start, 1000)

	const callers = 20

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			customer := domain.CustomerID(fmt.Sprintf("customer-%d", i))

			var err error
			if i%2 == 0 {
				_, err = s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat12.ID, customer, time.Minute)
			} else {
				_, err = s.svc.Booking.Book(s.ctx, showtime.ID, s.seat12.ID, customer)
			}

			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				s.ErrorIs(err, domain.ErrSeatUnavailable)
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
}

func (s *ServiceSuite) TestHoldExpiresAndSeatIsReclaimed() {
	showtime := s.schedule(s.start, 1000)

	hold, err := s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat11.ID, "customer-x", 5*time.Minute)
	s.Require().NoError(err)
	s.Equal(domain.TicketStatusHeld, hold.Status)
	s.Require().NotNil(hold.ExpiresAt)
	s.Equal(s.clock.Now().Add(5*time.Minute), *hold.ExpiresAt)

	_, err = s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-y")
	s.ErrorIs(err, domain.ErrSeatUnavailable)

	s.clock.Advance(5 * time.Minute)

	seats, err := s.svc.Availability.AvailableSeats(s.ctx, showtime.ID)
	s.Require().NoError(err)
	s.Len(seats, 2)

	booked, err := s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-y")
	s.Require().NoError(err)
	s.Equal(domain.CustomerID("customer-y"), booked.CustomerID)

	_, err = s.svc.Booking.Confirm(s.ctx, hold.ID)
	s.ErrorIs(err, domain.ErrHoldExpired)

	expired, err := s.svc.Booking.GetTicket(s.ctx, hold.ID)
	s.Require().NoError(err)
	s.Equal(domain.TicketStatusCancelled, expired.Status)
	s.Equal(domain.CancelReasonExpired, expired.CancelReason)
}

func (s *ServiceSuite) TestConfirm() {
	showtime := s.schedule(s.start, 1000)

	s.Run("live hold becomes booked", func() {
		hold, err := s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat11.ID, "customer-x", time.Minute)
		s.Require().NoError(err)

		s.clock.Advance(30 * time.Second)

		ticket, err := s.svc.Booking.Confirm(s.ctx, hold.ID)
		s.Require().NoError(err)
		s.Equal(domain.TicketStatusBooked, ticket.Status)
		s.Nil(ticket.ExpiresAt)
		s.Require().NotNil(ticket.ConfirmedAt)

		// A confirmed ticket never expires.
		s.clock.Advance(time.Hour)
		_, err = s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-y")
		s.ErrorIs(err, domain.ErrSeatUnavailable)

		_, err = s.svc.Booking.Confirm(s.ctx, hold.ID)
		s.ErrorIs(err, domain.ErrInvalidTicketState)
	})

	s.Run("expired hold is cancelled", func() {
		hold, err := s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat12.ID, "customer-x", time.Minute)
		s.Require().NoError(err)

		s.clock.Advance(time.Minute)

		_, err = s.svc.Booking.Confirm(s.ctx, hold.ID)
		s.ErrorIs(err, domain.ErrHoldExpired)

		ticket, err := s.svc.Booking.GetTicket(s.ctx, hold.ID)
		s.Require().NoError(err)
		s.Equal(domain.TicketStatusCancelled, ticket.Status)
		s.Equal(domain.CancelReasonExpired, ticket.CancelReason)

		seats, err := s.svc.Availability.AvailableSeats(s.ctx, showtime.ID)
		s.Require().NoError(err)
		s.Equal([]domain.Seat{*s.seat12}, seats)
	})

	s.Run("unknown ticket", func() {
		_, err := s.svc.Booking.Confirm(s.ctx, uuid.New())
		s.ErrorIs(err, domain.ErrTicketNotFound)
	})
}

func (s *ServiceSuite) TestCancelReleasesSeat() {
	showtime := s.schedule(s.start, 1000)

	ticket, err := s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-x")
	s.Require().NoError(err)

	cancelled, err := s.svc.Booking.Cancel(s.ctx, ticket.ID)
	s.Require().NoError(err)
	s.Equal(domain.TicketStatusCancelled, cancelled.Status)
	s.Equal(domain.CancelReasonCustomer, cancelled.CancelReason)

	again, err := s.svc.Booking.Cancel(s.ctx, ticket.ID)
	s.Require().NoError(err)
	s.Equal(cancelled.CancelledAt, again.CancelledAt)

	_, err = s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-y")
	s.NoError(err)
}

func (s *ServiceSuite) TestHoldTTLIsBounded() {
	showtime := s.schedule(s.start, 1000)

	hold, err := s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat11.ID, "customer-x", 0)
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(DefaultHoldTTL), *hold.ExpiresAt)

	hold, err = s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat12.ID, "customer-x", 2*time.Hour)
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(MaxHoldTTL), *hold.ExpiresAt)
}

func (s *ServiceSuite) TestBookPreconditions() {
	showtime := s.schedule(s.start, 1000)

	other := s.createShowroom("Hall 2", 1)
	foreignSeat := s.addSeat(other.ID, s.standard.ID, 1, 1)

	tests := []struct {
		name       string
		showtimeID domain.ShowtimeID
		seatID     domain.SeatID
		customer   domain.CustomerID
		wantErr    error
	}{
		{"missing customer", showtime.ID, s.seat11.ID, "", domain.ErrValidation},
		{"unknown showtime", showtime.ID + 100, s.seat11.ID, "customer-x", domain.ErrShowtimeNotFound},
		{"unknown seat", showtime.ID, s.seat11.ID + 100, "customer-x", domain.ErrSeatNotFound},
		{"seat of another showroom", showtime.ID, foreignSeat.ID, "customer-x", domain.ErrSeatNotInShowroom},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Booking.Book(s.ctx, tt.showtimeID, tt.seatID, tt.customer)
			s.ErrorIs(err, tt.wantErr)
			s.True(domain.IsValidationError(err))
		})
	}

	s.Run("showtime already started", func() {
		s.clock.Advance(24 * time.Hour)
		_, err := s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-x")
		s.ErrorIs(err, domain.ErrShowtimeAlreadyStarted)
	})
}

func (s *ServiceSuite) TestListCustomerTickets() {
	showtime := s.schedule(s.start, 1000)

	first, err := s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-x")
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)

	second, err := s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat12.ID, "customer-x", time.Minute)
	s.Require().NoError(err)

	tickets, err := s.svc.Booking.ListCustomerTickets(s.ctx, "customer-x")
	s.Require().NoError(err)
	s.Require().Len(tickets, 2)
	s.Equal(second.ID, tickets[0].ID)
	s.Equal(first.ID, tickets[1].ID)

	tickets, err = s.svc.Booking.ListCustomerTickets(s.ctx, "customer-y")
	s.Require().NoError(err)
	s.Empty(tickets)
}

func (s *ServiceSuite) TestHoldEndsAtShowtimeStart() {
	start := s.clock.Now().Add(5 * time.Minute)
	showtime := s.schedule(start, 1000)

	hold, err := s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat11.ID, "customer-x", 20*time.Minute)
	s.Require().NoError(err)
	s.Require().NotNil(hold.ExpiresAt)
	s.Equal(start, *hold.ExpiresAt)

	s.clock.Advance(10 * time.Minute)

	_, err = s.svc.Booking.Book(s.ctx, showtime.ID, s.seat12.ID, "customer-y")
	s.ErrorIs(err, domain.ErrShowtimeAlreadyStarted)

	_, err = s.svc.Booking.Confirm(s.ctx, hold.ID)
	s.ErrorIs(err, domain.ErrHoldExpired)

	ticket, err := s.svc.Booking.GetTicket(s.ctx, hold.ID)
	s.Require().NoError(err)
	s.Equal(domain.TicketStatusCancelled, ticket.Status)
}

// repricingPrices changes the base price right after the first price lookup, the
// way an admin request landing between quote and insert would.
type repricingPrices struct {
	domain.PriceRepository
	once    sync.Once
	reprice func()
}

func (r *repricingPrices) GetPrice(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	seatTypeID domain.SeatTypeID) (*domain.Price, error) {

	price, err := r.PriceRepository.GetPrice(ctx, showtimeID, seatTypeID)
	r.once.Do(r.reprice)

	return price, err
}

func (s *ServiceSuite) TestBookChargesPriceStoredAtInsert() {
	showtime := s.schedule(s.start, 1000)

	repos := s.store.Repositories()
	prices := &repricingPrices{PriceRepository: repos.Prices}
	svc := New(Repositories{
		Movies:    repos.Movies,
		Showrooms: repos.Showrooms,
		SeatTypes: repos.SeatTypes,
		Seats:     repos.Seats,
		Showtimes: repos.Showtimes,
		Prices:    prices,
		Tickets:   repos.Tickets,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)), s.clock.Now, BookingConfig{})

	var repriceErr error
	prices.reprice = func() {
		_, repriceErr = s.svc.Pricing.SetBasePrice(s.ctx, showtime.ID, 2000)
	}

	ticket, err := svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-x")
	s.Require().NoError(err)
	s.Require().NoError(repriceErr)

	stored, err := s.svc.Pricing.PriceFor(s.ctx, showtime.ID, s.standard.ID)
	s.Require().NoError(err)
	s.Equal(int64(2000), stored)
	s.Equal(stored, ticket.Price)

	persisted, err := s.svc.Booking.GetTicket(s.ctx, ticket.ID)
	s.Require().NoError(err)
	s.Equal(stored, persisted.Price)

	_, err = s.svc.Pricing.SetBasePrice(s.ctx, showtime.ID, 3000)
	s.ErrorIs(err, domain.ErrShowtimeHasTickets)
}
