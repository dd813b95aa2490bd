package service

import (
	"context"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

// Catalog manages the cinema's reference data: movies, showrooms, seat types and seats.
type Catalog struct {
	movies    domain.MovieRepository
	showrooms domain.ShowroomRepository
	seatTypes domain.SeatTypeRepository
	seats     domain.SeatRepository
}

func (c *Catalog) CreateMovie(ctx context.Context, movie *domain.Movie) error {
	if err := movie.Validate(); err != nil {
		return err
	}

	return c.movies.Create(ctx, movie)
}

func (c *Catalog) UpdateMovie(ctx context.Context, movie *domain.Movie) error {
	if err := movie.Validate(); err != nil {
		return err
	}

	return c.movies.Update(ctx, movie)
}

func (c *Catalog) GetMovie(ctx context.Context, id domain.MovieID) (*domain.Movie, error) {
	return c.movies.GetById(ctx, id)
}

func (c *Catalog) ListMovies(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {
	return c.movies.GetAll(ctx, filters)
}

func (c *Catalog) DeleteMovie(ctx context.Context, id domain.MovieID) error {
	return c.movies.Delete(ctx, id)
}

func (c *Catalog) CreateShowroom(ctx context.Context, showroom *domain.Showroom) error {
	if err := showroom.Validate(); err != nil {
		return err
	}

	return c.showrooms.Create(ctx, showroom)
}

func (c *Catalog) GetShowroom(ctx context.Context, id domain.ShowroomID) (*domain.Showroom, error) {
	return c.showrooms.GetById(ctx, id)
}

func (c *Catalog) CreateSeatType(ctx context.Context, seatType *domain.SeatType) error {
	if err := seatType.Validate(); err != nil {
		return err
	}

	return c.seatTypes.Create(ctx, seatType)
}

func (c *Catalog) ListSeatTypes(ctx context.Context) ([]domain.SeatType, error) {
	return c.seatTypes.GetAll(ctx)
}

// AddSeat registers a seat in its showroom. Coordinates are unique per showroom
// and a showroom never holds more seats than its declared capacity.
func (c *Catalog) AddSeat(ctx context.Context, seat *domain.Seat) error {
	if err := seat.Validate(); err != nil {
		return err
	}

	return c.seats.Create(ctx, seat)
}

// SeatLayout returns the showroom's seats grouped by row.
func (c *Catalog) SeatLayout(ctx context.Context, showroomID domain.ShowroomID) (*domain.Showroom, []domain.SeatRow, error) {
	showroom, err := c.showrooms.GetById(ctx, showroomID)
	if err != nil {
		return nil, nil, err
	}

	seats, err := c.seats.GetByShowroom(ctx, showroomID)
	if err != nil {
		return nil, nil, err
	}

	return showroom, domain.GroupSeatsByRow(seats), nil
}
