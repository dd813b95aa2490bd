package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type PostgresTicketRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTicketRepository(db *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{
		db: db,
	}
}

const ticketSelect = `
	SELECT t.id, t.showtime_id, t.seat_id, t.seat_type_id, s.seat_row, s.seat_number,
		t.customer_id, t.price, t.status, t.booked_at, t.expires_at, t.confirmed_at,
		t.cancelled_at, COALESCE(t.cancel_reason, '')
	FROM tickets t
	JOIN seats s ON s.id = t.seat_id
`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket

	err := row.Scan(
		&ticket.ID,
		&ticket.ShowtimeID,
		&ticket.SeatID,
		&ticket.SeatTypeID,
		&ticket.SeatRow,
		&ticket.SeatNumber,
		&ticket.CustomerID,
		&ticket.Price,
		&ticket.Status,
		&ticket.BookedAt,
		&ticket.ExpiresAt,
		&ticket.ConfirmedAt,
		&ticket.CancelledAt,
		&ticket.CancelReason,
	)
	if err != nil {
		return nil, err
	}

	return &ticket, nil
}

// Create inserts the ticket in one transaction with the reclamation of expired
// holds on the same seat. The partial unique index on active tickets decides
// between concurrent writers: the loser gets ErrSeatUnavailable. The price is
// read under the showtime lock, so a price change cannot slip in between.
func (p *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var status domain.ShowtimeStatus

		// The share lock conflicts with cancellation and price changes only.
		err := tx.QueryRow(ctx, `SELECT status FROM showtimes WHERE id = $1 FOR SHARE`, ticket.ShowtimeID).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrShowtimeNotFound
			}

			return err
		}

		if status == domain.ShowtimeStatusCancelled {
			return domain.ErrShowtimeCancelled
		}

		err = tx.QueryRow(ctx,
			`SELECT amount FROM prices WHERE showtime_id = $1 AND seat_type_id = $2`,
			ticket.ShowtimeID,
			ticket.SeatTypeID).Scan(&ticket.Price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrPricingNotConfigured
			}

			return err
		}

		query := `
			UPDATE tickets
			SET status = 'cancelled', cancel_reason = 'expired', cancelled_at = $3
			WHERE showtime_id = $1 AND seat_id = $2 AND status = 'held' AND expires_at <= $3
		`

		if _, err := tx.Exec(ctx, query, ticket.ShowtimeID, ticket.SeatID, ticket.BookedAt); err != nil {
			return err
		}

		query = `
			INSERT INTO tickets (id, showtime_id, seat_id, seat_type_id, customer_id, price, status, booked_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err = tx.Exec(ctx,
			query,
			ticket.ID,
			ticket.ShowtimeID,
			ticket.SeatID,
			ticket.SeatTypeID,
			ticket.CustomerID,
			ticket.Price,
			ticket.Status,
			ticket.BookedAt,
			ticket.ExpiresAt)

		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrSeatUnavailable
			}

			if constraint, ok := foreignKeyViolation(err); ok && constraint == "tickets_seat_id_fkey" {
				return domain.ErrSeatNotFound
			}

			return err
		}

		return nil
	})
}

func (p *PostgresTicketRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	ticket, err := scanTicket(p.db.QueryRow(ctx, ticketSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}

		return nil, err
	}

	return ticket, nil
}

func (p *PostgresTicketRepository) GetByCustomer(ctx context.Context, customerID domain.CustomerID) ([]domain.Ticket, error) {
	rows, err := p.db.Query(ctx, ticketSelect+` WHERE t.customer_id = $1 ORDER BY t.booked_at DESC, t.id`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.Ticket{}

	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}

		tickets = append(tickets, *ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (p *PostgresTicketRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	fn func(*domain.Ticket) error) (*domain.Ticket, error) {

	var updated *domain.Ticket

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		ticket, err := scanTicket(tx.QueryRow(ctx, ticketSelect+` WHERE t.id = $1 FOR UPDATE OF t`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrTicketNotFound
			}

			return err
		}

		if err := fn(ticket); err != nil {
			return err
		}

		query := `
			UPDATE tickets
			SET status = $2, expires_at = $3, confirmed_at = $4, cancelled_at = $5, cancel_reason = NULLIF($6, '')
			WHERE id = $1
		`

		_, err = tx.Exec(ctx,
			query,
			ticket.ID,
			ticket.Status,
			ticket.ExpiresAt,
			ticket.ConfirmedAt,
			ticket.CancelledAt,
			string(ticket.CancelReason))
		if err != nil {
			return err
		}

		updated = ticket

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (p *PostgresTicketRepository) ActiveSeatIDs(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	now time.Time) ([]domain.SeatID, error) {

	query := `
		SELECT seat_id
		FROM tickets
		WHERE showtime_id = $1
			AND (status = 'booked' OR (status = 'held' AND expires_at > $2))
	`

	rows, err := p.db.Query(ctx, query, showtimeID, now)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[domain.SeatID])
}

// ExpireHolds cancels up to limit overdue holds. Rows locked by a concurrent
// Confirm or Cancel are skipped and picked up by a later sweep.
func (p *PostgresTicketRepository) ExpireHolds(ctx context.Context, now time.Time, limit int) (int, error) {
	query := `
		UPDATE tickets
		SET status = 'cancelled', cancel_reason = 'expired', cancelled_at = $1
		WHERE id IN (
			SELECT id
			FROM tickets
			WHERE status = 'held' AND expires_at <= $1
			ORDER BY expires_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
	`

	tag, err := p.db.Exec(ctx, query, now, limit)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}
