package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Scheduler places showtimes into showrooms and cancels them.
type Scheduler struct {
	logger    *slog.Logger
	now       func() time.Time
	catalog   *Catalog
	pricing   *Pricing
	showtimes domain.ShowtimeRepository
}

// ScheduleShowtime books the showroom for the movie's runtime starting at start and
// prices every seat type from basePrice in the same unit of work.
func (s *Scheduler) ScheduleShowtime(
	ctx context.Context,
	movieID domain.MovieID,
	showroomID domain.ShowroomID,
	start time.Time,
	basePrice int64) (*domain.Showtime, error) {

	ctx, span := tracer.Start(ctx, "Scheduler.ScheduleShowtime", trace.WithAttributes(
		attribute.Int("movie.id", int(movieID)),
		attribute.Int("showroom.id", int(showroomID)),
	))
	defer span.End()

	if !start.After(s.now()) {
		return nil, domain.ErrShowtimeInPast
	}

	movie, err := s.catalog.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	showroom, seats, err := s.catalog.SeatLayout(ctx, showroomID)
	if err != nil {
		return nil, err
	}

	if count := seatCount(seats); count != showroom.Capacity {
		s.logger.Error("showroom is not fully configured",
			"showroomId", showroomID, "capacity", showroom.Capacity, "seats", count)
		err := fmt.Errorf("showroom %d has %d of %d seats: %w",
			showroomID, count, showroom.Capacity, domain.ErrCapacityMismatch)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	prices, err := s.pricing.Quote(ctx, 0, basePrice)
	if err != nil {
		return nil, err
	}

	showtime := domain.NewShowtime(movie, showroomID, start, basePrice)

	if err := s.showtimes.Create(ctx, &showtime, prices); err != nil {
		return nil, err
	}

	s.logger.Info("showtime scheduled",
		"showtimeId", showtime.ID, "movieId", movieID, "showroomId", showroomID,
		"start", showtime.StartTime, "end", showtime.EndTime)

	return &showtime, nil
}

func seatCount(rows []domain.SeatRow) int {
	n := 0
	for _, row := range rows {
		n += len(row.Seats)
	}

	return n
}

// CancelShowtime cancels a showtime that has not started yet together with its
// active tickets. Cancelling a cancelled showtime is a no-op.
func (s *Scheduler) CancelShowtime(ctx context.Context, id domain.ShowtimeID) (*domain.Showtime, error) {
	ctx, span := tracer.Start(ctx, "Scheduler.CancelShowtime", trace.WithAttributes(
		attribute.Int("showtime.id", int(id)),
	))
	defer span.End()

	showtime, err := s.showtimes.GetById(ctx, id)
	if err != nil {
		return nil, err
	}

	if showtime.IsCancelled() {
		return showtime, nil
	}

	now := s.now()
	if showtime.HasStarted(now) {
		return nil, domain.ErrShowtimeAlreadyStarted
	}

	cancelled, err := s.showtimes.Cancel(ctx, id, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info("showtime cancelled", "showtimeId", id, "ticketsCancelled", cancelled)

	return s.showtimes.GetById(ctx, id)
}

func (s *Scheduler) GetShowtime(ctx context.Context, id domain.ShowtimeID) (*domain.Showtime, error) {
	return s.showtimes.GetById(ctx, id)
}

func (s *Scheduler) ListShowtimes(ctx context.Context, filters domain.ShowtimeFilters) ([]domain.Showtime, error) {
	return s.showtimes.GetAll(ctx, filters)
}
