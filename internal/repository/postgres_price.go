package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type PostgresPriceRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPriceRepository(db *pgxpool.Pool) *PostgresPriceRepository {
	return &PostgresPriceRepository{
		db: db,
	}
}

func (p *PostgresPriceRepository) GetPrice(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	seatTypeID domain.SeatTypeID) (*domain.Price, error) {

	query := `SELECT showtime_id, seat_type_id, amount, override
		FROM prices
		WHERE showtime_id = $1 AND seat_type_id = $2`

	var price domain.Price

	err := p.db.QueryRow(ctx, query, showtimeID, seatTypeID).
		Scan(&price.ShowtimeID, &price.SeatTypeID, &price.Amount, &price.Override)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPricingNotConfigured
		}

		return nil, err
	}

	return &price, nil
}

func (p *PostgresPriceRepository) GetByShowtime(ctx context.Context, showtimeID domain.ShowtimeID) ([]domain.Price, error) {
	query := `SELECT showtime_id, seat_type_id, amount, override
		FROM prices
		WHERE showtime_id = $1
		ORDER BY seat_type_id`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := []domain.Price{}

	for rows.Next() {
		var price domain.Price

		if err := rows.Scan(&price.ShowtimeID, &price.SeatTypeID, &price.Amount, &price.Override); err != nil {
			return nil, err
		}

		prices = append(prices, price)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return prices, nil
}

func (p *PostgresPriceRepository) ReplaceAll(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	basePrice int64,
	prices []domain.Price) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		if err := lockPriceableShowtime(ctx, tx, showtimeID); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM prices WHERE showtime_id = $1`, showtimeID); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE showtimes SET base_price = $2 WHERE id = $1`, showtimeID, basePrice); err != nil {
			return err
		}

		return insertPrices(ctx, tx, prices)
	})
}

func (p *PostgresPriceRepository) Override(ctx context.Context, price domain.Price) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		if err := lockPriceableShowtime(ctx, tx, price.ShowtimeID); err != nil {
			return err
		}

		query := `
			INSERT INTO prices (showtime_id, seat_type_id, amount, override)
			VALUES ($1, $2, $3, true)
			ON CONFLICT (showtime_id, seat_type_id)
			DO UPDATE SET amount = EXCLUDED.amount, override = true
		`

		_, err := tx.Exec(ctx, query, price.ShowtimeID, price.SeatTypeID, price.Amount)
		if err != nil {
			if _, ok := foreignKeyViolation(err); ok {
				return domain.ErrSeatTypeNotFound
			}

			return err
		}

		return nil
	})
}

// lockPriceableShowtime locks the showtime and fails when its prices are frozen.
// Bookings take a share lock on the same row, so no ticket can slip in between
// the check and the price write.
func lockPriceableShowtime(ctx context.Context, tx pgx.Tx, id domain.ShowtimeID) error {
	status, err := lockShowtime(ctx, tx, id)
	if err != nil {
		return err
	}

	if status == domain.ShowtimeStatusCancelled {
		return domain.ErrShowtimeCancelled
	}

	var hasTickets bool

	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tickets WHERE showtime_id = $1)`, id).Scan(&hasTickets)
	if err != nil {
		return err
	}

	if hasTickets {
		return domain.ErrShowtimeHasTickets
	}

	return nil
}

func insertPrices(ctx context.Context, tx pgx.Tx, prices []domain.Price) error {
	if len(prices) == 0 {
		return nil
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"prices"},
		[]string{"showtime_id", "seat_type_id", "amount", "override"},
		pgx.CopyFromSlice(len(prices), func(i int) ([]any, error) {
			p := prices[i]
			return []any{int64(p.ShowtimeID), int64(p.SeatTypeID), p.Amount, p.Override}, nil
		}),
	)

	return err
}
