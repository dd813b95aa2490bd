package mocks

import (
	"context"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type MockShowroomRepo struct {
	domain.ShowroomRepository
	CreateFunc  func(ctx context.Context, showroom *domain.Showroom) error
	GetByIdFunc func(ctx context.Context, id domain.ShowroomID) (*domain.Showroom, error)
}

func (m *MockShowroomRepo) Create(ctx context.Context, showroom *domain.Showroom) error {
	return m.CreateFunc(ctx, showroom)
}

func (m *MockShowroomRepo) GetById(ctx context.Context, id domain.ShowroomID) (*domain.Showroom, error) {
	return m.GetByIdFunc(ctx, id)
}

type MockSeatTypeRepo struct {
	domain.SeatTypeRepository
	CreateFunc  func(ctx context.Context, seatType *domain.SeatType) error
	GetByIdFunc func(ctx context.Context, id domain.SeatTypeID) (*domain.SeatType, error)
	GetAllFunc  func(ctx context.Context) ([]domain.SeatType, error)
}

func (m *MockSeatTypeRepo) Create(ctx context.Context, seatType *domain.SeatType) error {
	return m.CreateFunc(ctx, seatType)
}

func (m *MockSeatTypeRepo) GetById(ctx context.Context, id domain.SeatTypeID) (*domain.SeatType, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockSeatTypeRepo) GetAll(ctx context.Context) ([]domain.SeatType, error) {
	return m.GetAllFunc(ctx)
}

type MockSeatRepo struct {
	domain.SeatRepository
	CreateFunc        func(ctx context.Context, seat *domain.Seat) error
	GetByIdFunc       func(ctx context.Context, id domain.SeatID) (*domain.Seat, error)
	GetByShowroomFunc func(ctx context.Context, showroomID domain.ShowroomID) ([]domain.Seat, error)
}

func (m *MockSeatRepo) Create(ctx context.Context, seat *domain.Seat) error {
	return m.CreateFunc(ctx, seat)
}

func (m *MockSeatRepo) GetById(ctx context.Context, id domain.SeatID) (*domain.Seat, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockSeatRepo) GetByShowroom(ctx context.Context, showroomID domain.ShowroomID) ([]domain.Seat, error) {
	return m.GetByShowroomFunc(ctx, showroomID)
}
