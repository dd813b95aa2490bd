package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
	"github.com/shopspring/decimal"
)

type PostgresSeatTypeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatTypeRepository(db *pgxpool.Pool) *PostgresSeatTypeRepository {
	return &PostgresSeatTypeRepository{
		db: db,
	}
}

func (p *PostgresSeatTypeRepository) Create(ctx context.Context, seatType *domain.SeatType) error {
	query := `INSERT INTO seat_types (name, premium)
		VALUES ($1, $2::numeric)
		RETURNING id`

	err := p.db.QueryRow(ctx, query, seatType.Name, seatType.Premium.String()).Scan(&seatType.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}

		return err
	}

	return nil
}

func (p *PostgresSeatTypeRepository) GetById(ctx context.Context, id domain.SeatTypeID) (*domain.SeatType, error) {
	query := `SELECT id, name, premium::text FROM seat_types WHERE id = $1`

	seatType, err := scanSeatType(p.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeatTypeNotFound
		}

		return nil, err
	}

	return seatType, nil
}

func (p *PostgresSeatTypeRepository) GetAll(ctx context.Context) ([]domain.SeatType, error) {
	rows, err := p.db.Query(ctx, `SELECT id, name, premium::text FROM seat_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatTypes := []domain.SeatType{}

	for rows.Next() {
		seatType, err := scanSeatType(rows)
		if err != nil {
			return nil, err
		}

		seatTypes = append(seatTypes, *seatType)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seatTypes, nil
}

func scanSeatType(row pgx.Row) (*domain.SeatType, error) {
	var (
		seatType domain.SeatType
		premium  string
	)

	if err := row.Scan(&seatType.ID, &seatType.Name, &premium); err != nil {
		return nil, err
	}

	value, err := decimal.NewFromString(premium)
	if err != nil {
		return nil, err
	}

	seatType.Premium = value

	return &seatType, nil
}

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

// Create registers the seat while holding the showroom lock, so the capacity check
// and the insert cannot interleave with another seat of the same showroom.
func (p *PostgresSeatRepository) Create(ctx context.Context, seat *domain.Seat) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		capacity, err := lockShowroom(ctx, tx, seat.ShowroomID)
		if err != nil {
			return err
		}

		var (
			seatTypeExists bool
			duplicate      bool
			count          int
		)

		query := `SELECT
				EXISTS (SELECT 1 FROM seat_types WHERE id = $2),
				EXISTS (SELECT 1 FROM seats WHERE showroom_id = $1 AND seat_row = $3 AND seat_number = $4),
				(SELECT count(*) FROM seats WHERE showroom_id = $1)`

		err = tx.QueryRow(ctx, query, seat.ShowroomID, seat.SeatTypeID, seat.Row, seat.Number).
			Scan(&seatTypeExists, &duplicate, &count)
		if err != nil {
			return err
		}

		switch {
		case !seatTypeExists:
			return domain.ErrSeatTypeNotFound
		case duplicate:
			return domain.ErrDuplicateSeat
		case count >= capacity:
			return domain.ErrCapacityExceeded
		}

		query = `INSERT INTO seats (showroom_id, seat_type_id, seat_row, seat_number)
			VALUES ($1, $2, $3, $4)
			RETURNING id`

		err = tx.QueryRow(ctx, query, seat.ShowroomID, seat.SeatTypeID, seat.Row, seat.Number).Scan(&seat.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateSeat
			}

			if _, ok := foreignKeyViolation(err); ok {
				return domain.ErrSeatTypeNotFound
			}

			return err
		}

		return nil
	})
}

func (p *PostgresSeatRepository) GetById(ctx context.Context, id domain.SeatID) (*domain.Seat, error) {
	query := `SELECT id, showroom_id, seat_type_id, seat_row, seat_number FROM seats WHERE id = $1`

	var seat domain.Seat

	err := p.db.QueryRow(ctx, query, id).Scan(&seat.ID, &seat.ShowroomID, &seat.SeatTypeID, &seat.Row, &seat.Number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeatNotFound
		}

		return nil, err
	}

	return &seat, nil
}

func (p *PostgresSeatRepository) GetByShowroom(ctx context.Context, showroomID domain.ShowroomID) ([]domain.Seat, error) {
	query := `
		SELECT id, showroom_id, seat_type_id, seat_row, seat_number
		FROM seats
		WHERE showroom_id = $1
		ORDER BY seat_row, seat_number
	`

	rows, err := p.db.Query(ctx, query, showroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := []domain.Seat{}

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(&seat.ID, &seat.ShowroomID, &seat.SeatTypeID, &seat.Row, &seat.Number)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
