package service

import (
	"time"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

func (s *ServiceSuite) TestSetBasePriceClearsOverrides() {
	showtime := s.schedule(s.start, 1000)

	_, err := s.svc.Pricing.OverridePrice(s.ctx, showtime.ID, s.premium.ID, 1800)
	s.Require().NoError(err)

	amount, err := s.svc.Pricing.PriceFor(s.ctx, showtime.ID, s.premium.ID)
	s.Require().NoError(err)
	s.Equal(int64(1800), amount)

	amount, err = s.svc.Pricing.PriceFor(s.ctx, showtime.ID, s.standard.ID)
	s.Require().NoError(err)
	s.Equal(int64(1000), amount)

	prices, err := s.svc.Pricing.SetBasePrice(s.ctx, showtime.ID, 1001)
	s.Require().NoError(err)
	s.ElementsMatch([]domain.Price{
		{ShowtimeID: showtime.ID, SeatTypeID: s.standard.ID, Amount: 1001},
		{ShowtimeID: showtime.ID, SeatTypeID: s.premium.ID, Amount: 1502},
	}, prices)

	updated, stored, err := s.svc.Pricing.Prices(s.ctx, showtime.ID)
	s.Require().NoError(err)
	s.Equal(int64(1001), updated.BasePrice)
	s.ElementsMatch(prices, stored)
}

func (s *ServiceSuite) TestPriceWritesRejectedOnceTicketsExist() {
	showtime := s.schedule(s.start, 1000)

	hold, err := s.svc.Booking.Hold(s.ctx, showtime.ID, s.seat11.ID, "customer-x", time.Minute)
	s.Require().NoError(err)

	_, err = s.svc.Booking.Cancel(s.ctx, hold.ID)
	s.Require().NoError(err)

	_, err = s.svc.Pricing.SetBasePrice(s.ctx, showtime.ID, 2000)
	s.ErrorIs(err, domain.ErrShowtimeHasTickets)
	s.True(domain.IsConflictError(err))

	_, err = s.svc.Pricing.OverridePrice(s.ctx, showtime.ID, s.standard.ID, 2000)
	s.ErrorIs(err, domain.ErrShowtimeHasTickets)

	amount, err := s.svc.Pricing.PriceFor(s.ctx, showtime.ID, s.standard.ID)
	s.Require().NoError(err)
	s.Equal(int64(1000), amount)
}

func (s *ServiceSuite) TestPriceWriteRejections() {
	showtime := s.schedule(s.start, 1000)

	_, err := s.svc.Pricing.SetBasePrice(s.ctx, showtime.ID, -5)
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.svc.Pricing.OverridePrice(s.ctx, showtime.ID, s.standard.ID, -5)
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.svc.Pricing.OverridePrice(s.ctx, showtime.ID, s.premium.ID+100, 100)
	s.ErrorIs(err, domain.ErrSeatTypeNotFound)

	_, err = s.svc.Pricing.SetBasePrice(s.ctx, showtime.ID+100, 100)
	s.ErrorIs(err, domain.ErrShowtimeNotFound)

	_, err = s.svc.Scheduler.CancelShowtime(s.ctx, showtime.ID)
	s.Require().NoError(err)

	_, err = s.svc.Pricing.SetBasePrice(s.ctx, showtime.ID, 100)
	s.ErrorIs(err, domain.ErrShowtimeCancelled)
}
