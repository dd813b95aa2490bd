package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowtimeRepo struct {
	mock.Mock
	domain.ShowtimeRepository
}

func (m *MockShowtimeRepo) Create(ctx context.Context, showtime *domain.Showtime, prices []domain.Price) error {
	args := m.Called(ctx, showtime, prices)
	return args.Error(0)
}

func (m *MockShowtimeRepo) GetById(ctx context.Context, id domain.ShowtimeID) (*domain.Showtime, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) GetAll(ctx context.Context, filters domain.ShowtimeFilters) ([]domain.Showtime, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Showtime), args.Error(1)
}

func (m *MockShowtimeRepo) Cancel(ctx context.Context, id domain.ShowtimeID, now time.Time) (int, error) {
	args := m.Called(ctx, id, now)
	return args.Int(0), args.Error(1)
}

type MockPriceRepo struct {
	mock.Mock
	domain.PriceRepository
}

func (m *MockPriceRepo) GetPrice(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	seatTypeID domain.SeatTypeID) (*domain.Price, error) {

	args := m.Called(ctx, showtimeID, seatTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Price), args.Error(1)
}

func (m *MockPriceRepo) GetByShowtime(ctx context.Context, showtimeID domain.ShowtimeID) ([]domain.Price, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Price), args.Error(1)
}

func (m *MockPriceRepo) ReplaceAll(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	basePrice int64,
	prices []domain.Price) error {

	args := m.Called(ctx, showtimeID, basePrice, prices)
	return args.Error(0)
}

func (m *MockPriceRepo) Override(ctx context.Context, price domain.Price) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}
