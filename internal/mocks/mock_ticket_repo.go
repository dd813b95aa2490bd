package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTicketRepo struct {
	mock.Mock
	domain.TicketRepository
}

func (m *MockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepo) GetById(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepo) GetByCustomer(ctx context.Context, customerID domain.CustomerID) ([]domain.Ticket, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

// Update runs fn against the ticket returned by the expectation, so tests exercise
// the real state transition.
func (m *MockTicketRepo) Update(ctx context.Context, id uuid.UUID, fn func(*domain.Ticket) error) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if err := args.Error(1); err != nil {
		return nil, err
	}

	ticket := *args.Get(0).(*domain.Ticket)
	if err := fn(&ticket); err != nil {
		return nil, err
	}

	return &ticket, nil
}

func (m *MockTicketRepo) ActiveSeatIDs(ctx context.Context, showtimeID domain.ShowtimeID, now time.Time) ([]domain.SeatID, error) {
	args := m.Called(ctx, showtimeID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeatID), args.Error(1)
}

func (m *MockTicketRepo) ExpireHolds(ctx context.Context, now time.Time, limit int) (int, error) {
	args := m.Called(ctx, now, limit)
	return args.Int(0), args.Error(1)
}
