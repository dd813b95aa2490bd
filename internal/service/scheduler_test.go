package service

import (
	"errors"
	"time"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

func (s *ServiceSuite) TestScheduleShowtime() {
	showtime := s.schedule(s.start, 1000)

	s.Equal(s.start.Add(120*time.Minute), showtime.EndTime)
	s.Equal(domain.ShowtimeStatusScheduled, showtime.Status)

	_, prices, err := s.svc.Pricing.Prices(s.ctx, showtime.ID)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.Price{
		{ShowtimeID: showtime.ID, SeatTypeID: s.standard.ID, Amount: 1000},
		{ShowtimeID: showtime.ID, SeatTypeID: s.premium.ID, Amount: 1500},
	}, prices)
}

func (s *ServiceSuite) TestScheduleShowtimeOverlap() {
	first := s.schedule(s.start, 1000)

	_, err := s.svc.Scheduler.ScheduleShowtime(s.ctx, s.movie.ID, s.showroom.ID, s.start.Add(time.Hour), 1000)
	s.Require().ErrorIs(err, domain.ErrShowtimeOverlap)
	s.True(domain.IsConflictError(err))

	var overlap *domain.OverlapError
	s.Require().True(errors.As(err, &overlap))
	s.Equal(first.ID, overlap.ConflictingID)
	s.Equal(s.showroom.ID, overlap.ShowroomID)

	_, err = s.svc.Scheduler.ScheduleShowtime(s.ctx, s.movie.ID, s.showroom.ID, s.start.Add(-time.Hour), 1000)
	s.ErrorIs(err, domain.ErrShowtimeOverlap)

	// Back-to-back showtimes share no instant.
	s.schedule(first.EndTime, 1000)
	s.schedule(s.start.Add(-120*time.Minute), 1000)
}

func (s *ServiceSuite) TestScheduleShowtimeRejections() {
	s.Run("start in the past", func() {
		_, err := s.svc.Scheduler.ScheduleShowtime(s.ctx, s.movie.ID, s.showroom.ID, s.clock.Now(), 1000)
		s.ErrorIs(err, domain.ErrShowtimeInPast)
	})

	s.Run("showroom missing seats", func() {
		partial := s.createShowroom("Hall 3", 3)
		s.addSeat(partial.ID, s.standard.ID, 1, 1)

		_, err := s.svc.Scheduler.ScheduleShowtime(s.ctx, s.movie.ID, partial.ID, s.start, 1000)
		s.ErrorIs(err, domain.ErrCapacityMismatch)
		s.True(domain.IsConsistencyFault(err))
	})

	s.Run("unknown movie", func() {
		_, err := s.svc.Scheduler.ScheduleShowtime(s.ctx, s.movie.ID+100, s.showroom.ID, s.start, 1000)
		s.ErrorIs(err, domain.ErrMovieNotFound)
	})

	s.Run("negative base price", func() {
		_, err := s.svc.Scheduler.ScheduleShowtime(s.ctx, s.movie.ID, s.showroom.ID, s.start, -1)
		s.ErrorIs(err, domain.ErrValidation)
	})
}

func (s *ServiceSuite) TestCancelShowtimeCascades() {
	showtime := s.schedule(s.start, 1000)

	booked, err := s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-x")
	s.Require().NoError(err)
	held, err := s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat12.ID, "customer-y", time.Minute)
	s.Require().NoError(err)

	cancelled, err := s.svc.Scheduler.CancelShowtime(s.ctx, showtime.ID)
	s.Require().NoError(err)
	s.Equal(domain.ShowtimeStatusCancelled, cancelled.Status)
	s.NotNil(cancelled.CancelledAt)

	for _, ticket := range []*domain.Ticket{booked, held} {
		got, err := s.svc.Booking.GetTicket(s.ctx, ticket.ID)
		s.Require().NoError(err)
		s.Equal(domain.TicketStatusCancelled, got.Status)
		s.Equal(domain.CancelReasonShowtimeCancelled, got.CancelReason)
	}

	_, err = s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-z")
	s.ErrorIs(err, domain.ErrShowtimeCancelled)

	again, err := s.svc.Scheduler.CancelShowtime(s.ctx, showtime.ID)
	s.Require().NoError(err)
	s.Equal(cancelled.CancelledAt, again.CancelledAt)

	showtimes, err := s.svc.Scheduler.ListShowtimes(s.ctx, domain.ShowtimeFilters{})
	s.Require().NoError(err)
	s.Empty(showtimes)

	// The interval is free again.
	s.schedule(s.start, 1000)
}

func (s *ServiceSuite) TestCancelStartedShowtime() {
	showtime := s.schedule(s.start, 1000)

	s.clock.Advance(24 * time.Hour)

	_, err := s.svc.Scheduler.CancelShowtime(s.ctx, showtime.ID)
	s.ErrorIs(err, domain.ErrShowtimeAlreadyStarted)
}

func (s *ServiceSuite) TestListShowtimes() {
	later := s.schedule(s.start.Add(6*time.Hour), 1000)
	earlier := s.schedule(s.start, 1000)

	other := &domain.Movie{Title: "Short Cut", Runtime: 90 * time.Minute, ReleaseDate: s.movie.ReleaseDate}
	s.Require().NoError(s.svc.Catalog.CreateMovie(s.ctx, other))
	third, err := s.svc.Scheduler.ScheduleShowtime(s.ctx, other.ID, s.showroom.ID, s.start.Add(3*time.Hour), 800)
	s.Require().NoError(err)

	all, err := s.svc.Scheduler.ListShowtimes(s.ctx, domain.ShowtimeFilters{})
	s.Require().NoError(err)
	s.Equal([]domain.ShowtimeID{earlier.ID, third.ID, later.ID}, showtimeIDs(all))

	byMovie, err := s.svc.Scheduler.ListShowtimes(s.ctx, domain.ShowtimeFilters{MovieID: &s.movie.ID})
	s.Require().NoError(err)
	s.Equal([]domain.ShowtimeID{earlier.ID, later.ID}, showtimeIDs(byMovie))

	from := s.start.Add(time.Hour)
	to := s.start.Add(6 * time.Hour)
	window, err := s.svc.Scheduler.ListShowtimes(s.ctx, domain.ShowtimeFilters{From: &from, To: &to})
	s.Require().NoError(err)
	s.Equal([]domain.ShowtimeID{third.ID}, showtimeIDs(window))
}

func showtimeIDs(showtimes []domain.Showtime) []domain.ShowtimeID {
	ids := make([]domain.ShowtimeID, len(showtimes))
	for i, st := range showtimes {
		ids[i] = st.ID
	}
	return ids
}
