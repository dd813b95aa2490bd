package service

import (
	"time"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

func (s *ServiceSuite) TestAvailabilityFollowsTickets() {
	showtime := s.schedule(s.start, 1000)

	assertAvailable := func(want ...domain.Seat) {
		s.T().Helper()

		seats, err := s.svc.Availability.AvailableSeats(s.ctx, showtime.ID)
		s.Require().NoError(err)
		s.Equal(append([]domain.Seat{}, want...), seats)

		seatMap, err := s.svc.Availability.SeatMap(s.ctx, showtime.ID)
		s.Require().NoError(err)
		s.Equal(len(want), seatMap.Available)

		soldOut, err := s.svc.Availability.IsSoldOut(s.ctx, showtime.ID)
		s.Require().NoError(err)
		s.Equal(len(want) == 0, soldOut)
	}

	assertAvailable(*s.seat11, *s.seat12)

	booked, err := s.svc.Booking.Book(s.ctx, showtime.ID, s.seat11.ID, "customer-x")
	s.Require().NoError(err)
	assertAvailable(*s.seat12)

	_, err = s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat12.ID, "customer-y", time.Minute)
	s.Require().NoError(err)
	assertAvailable()

	s.clock.Advance(time.Minute)
	assertAvailable(*s.seat12)

	_, err = s.svc.Booking.Cancel(s.ctx, booked.ID)
	s.Require().NoError(err)
	assertAvailable(*s.seat11, *s.seat12)
}

func (s *ServiceSuite) TestSeatMap() {
	showtime := s.schedule(s.start, 1000)

	_, err := s.svc.Booking.Book(s.ctx, showtime.ID, s.seat12.ID, "customer-x")
	s.Require().NoError(err)

	seatMap, err := s.svc.Availability.SeatMap(s.ctx, showtime.ID)
	s.Require().NoError(err)

	s.Equal(showtime.ID, seatMap.Showtime.ID)
	s.Equal(1, seatMap.Available)
	s.Equal([]SeatMapRow{
		{
			Row: 1,
			Seats: []SeatMapEntry{
				{Seat: *s.seat11, SeatType: "Standard", Available: true, Price: 1000},
				{Seat: *s.seat12, SeatType: "Premium", Available: false, Price: 1500},
			},
		},
	}, seatMap.Rows)

	_, err = s.svc.Availability.SeatMap(s.ctx, showtime.ID+100)
	s.ErrorIs(err, domain.ErrShowtimeNotFound)
}

func (s *ServiceSuite) TestListShowtimesAvailableOnly() {
	soldOut := s.schedule(s.start, 1000)
	open := s.schedule(s.start.Add(3*time.Hour), 1000)

	for _, seat := range []*domain.Seat{s.seat11, s.seat12} {
		_, err := s.svc.Booking.Book(s.ctx, soldOut.ID, seat.ID, "customer-x")
		s.Require().NoError(err)
	}

	all, err := s.svc.Availability.ListShowtimes(s.ctx, domain.ShowtimeFilters{}, false)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(soldOut.ID, all[0].Showtime.ID)
	s.Equal(0, all[0].AvailableSeats)
	s.Equal(2, all[1].AvailableSeats)

	available, err := s.svc.Availability.ListShowtimes(s.ctx, domain.ShowtimeFilters{}, true)
	s.Require().NoError(err)
	s.Require().Len(available, 1)
	s.Equal(open.ID, available[0].Showtime.ID)
}
