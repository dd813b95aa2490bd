package domain

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Showroom struct {
	ID        ShowroomID
	Name      string
	Capacity  int
	CreatedAt time.Time
}

func (s *Showroom) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("name", "is required")
	}

	if s.Capacity < 1 {
		return NewValidationError("capacity", "must be greater than zero")
	}

	return nil
}

// SeatType is shared by all showrooms. Premium is a price multiplier, 1.5 means +50%.
type SeatType struct {
	ID      SeatTypeID
	Name    string
	Premium decimal.Decimal
}

func (t *SeatType) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return NewValidationError("name", "is required")
	}

	if !t.Premium.IsPositive() {
		return NewValidationError("premium", "must be greater than zero")
	}

	return nil
}

type Seat struct {
	ID         SeatID
	ShowroomID ShowroomID
	SeatTypeID SeatTypeID
	Row        int
	Number     int
}

func (s *Seat) Validate() error {
	if s.Row < 1 {
		return NewValidationError("row", "must be greater than zero")
	}

	if s.Number < 1 {
		return NewValidationError("number", "must be greater than zero")
	}

	return nil
}

type SeatRow struct {
	Row   int
	Seats []Seat
}

// GroupSeatsByRow orders seats by row and number and groups them per row.
func GroupSeatsByRow(seats []Seat) []SeatRow {
	if len(seats) == 0 {
		return []SeatRow{}
	}

	sorted := make([]Seat, len(seats))
	copy(sorted, seats)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Number < sorted[j].Number
	})

	var rows []SeatRow
	current := SeatRow{Row: sorted[0].Row}

	for _, seat := range sorted {
		if seat.Row != current.Row {
			rows = append(rows, current)
			current = SeatRow{Row: seat.Row}
		}

		current.Seats = append(current.Seats, seat)
	}

	return append(rows, current)
}

type ShowroomRepository interface {
	Create(ctx context.Context, showroom *Showroom) error
	GetById(ctx context.Context, id ShowroomID) (*Showroom, error)
}

type SeatTypeRepository interface {
	Create(ctx context.Context, seatType *SeatType) error
	GetById(ctx context.Context, id SeatTypeID) (*SeatType, error)
	GetAll(ctx context.Context) ([]SeatType, error)
}

type SeatRepository interface {
	// Create registers a seat. It fails with ErrDuplicateSeat for repeated coordinates,
	// ErrCapacityExceeded once the showroom is full and ErrShowroomNotFound or
	// ErrSeatTypeNotFound for dangling references.
	Create(ctx context.Context, seat *Seat) error
	GetById(ctx context.Context, id SeatID) (*Seat, error)
	// GetByShowroom returns the seats ordered by row and number.
	GetByShowroom(ctx context.Context, showroomID ShowroomID) ([]Seat, error)
}
