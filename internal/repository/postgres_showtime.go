package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

const showtimeColumns = `id, movie_id, showroom_id, start_time, end_time, base_price, status, cancelled_at, created_at`

func scanShowtime(row pgx.Row) (*domain.Showtime, error) {
	var showtime domain.Showtime

	err := row.Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.ShowroomID,
		&showtime.StartTime,
		&showtime.EndTime,
		&showtime.BasePrice,
		&showtime.Status,
		&showtime.CancelledAt,
		&showtime.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &showtime, nil
}

// Create schedules the showtime under the showroom lock. The overlap query reports
// the conflicting showtime and the exclusion constraint backs it up.
func (p *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime, prices []domain.Price) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		if _, err := lockShowroom(ctx, tx, showtime.ShowroomID); err != nil {
			return err
		}

		query := `
			SELECT id
			FROM showtimes
			WHERE showroom_id = $1
				AND status = 'scheduled'
				AND start_time < $3
				AND end_time > $2
			ORDER BY start_time
			LIMIT 1
		`

		var conflicting domain.ShowtimeID

		err := tx.QueryRow(ctx, query, showtime.ShowroomID, showtime.StartTime, showtime.EndTime).Scan(&conflicting)
		if err == nil {
			return &domain.OverlapError{ShowroomID: showtime.ShowroomID, ConflictingID: conflicting}
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		query = `
			INSERT INTO showtimes (movie_id, showroom_id, start_time, end_time, base_price, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`

		err = tx.QueryRow(ctx,
			query,
			showtime.MovieID,
			showtime.ShowroomID,
			showtime.StartTime,
			showtime.EndTime,
			showtime.BasePrice,
			showtime.Status).Scan(&showtime.ID, &showtime.CreatedAt)

		if err != nil {
			if isExclusionViolation(err) {
				return &domain.OverlapError{ShowroomID: showtime.ShowroomID}
			}

			if constraint, ok := foreignKeyViolation(err); ok && constraint == "showtimes_movie_id_fkey" {
				return domain.ErrMovieNotFound
			}

			return err
		}

		for i := range prices {
			prices[i].ShowtimeID = showtime.ID
		}

		return insertPrices(ctx, tx, prices)
	})
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id domain.ShowtimeID) (*domain.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = $1`

	showtime, err := scanShowtime(p.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShowtimeNotFound
		}

		return nil, err
	}

	return showtime, nil
}

func (p *PostgresShowtimeRepository) GetAll(ctx context.Context, filters domain.ShowtimeFilters) ([]domain.Showtime, error) {
	query := `SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE status = 'scheduled'
			AND ($1::bigint IS NULL OR movie_id = $1)
			AND ($2::timestamptz IS NULL OR start_time >= $2)
			AND ($3::timestamptz IS NULL OR start_time < $3)
		ORDER BY start_time, id`

	var movieID *int64
	if filters.MovieID != nil {
		id := int64(*filters.MovieID)
		movieID = &id
	}

	rows, err := p.db.Query(ctx, query, movieID, filters.From, filters.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showtimes := []domain.Showtime{}

	for rows.Next() {
		showtime, err := scanShowtime(rows)
		if err != nil {
			return nil, err
		}

		showtimes = append(showtimes, *showtime)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}

// Cancel flips the showtime to cancelled and cancels its live tickets in the same
// transaction. Holds that already ran out are recorded as expired instead.
func (p *PostgresShowtimeRepository) Cancel(ctx context.Context, id domain.ShowtimeID, now time.Time) (int, error) {
	cancelled := 0

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		status, err := lockShowtime(ctx, tx, id)
		if err != nil {
			return err
		}

		if status == domain.ShowtimeStatusCancelled {
			return nil
		}

		_, err = tx.Exec(ctx,
			`UPDATE showtimes SET status = 'cancelled', cancelled_at = $2 WHERE id = $1`, id, now)
		if err != nil {
			return err
		}

		query := `
			WITH updated AS (
				UPDATE tickets
				SET status = 'cancelled',
					cancelled_at = $2,
					cancel_reason = CASE
						WHEN status = 'held' AND expires_at <= $2 THEN 'expired'
						ELSE 'showtime_cancelled'
					END
				WHERE showtime_id = $1 AND status IN ('held', 'booked')
				RETURNING cancel_reason
			)
			SELECT count(*) FILTER (WHERE cancel_reason = 'showtime_cancelled') FROM updated
		`

		return tx.QueryRow(ctx, query, id, now).Scan(&cancelled)
	})
	if err != nil {
		return 0, err
	}

	return cancelled, nil
}

// lockShowtime takes a row lock on the showtime and returns its status.
func lockShowtime(ctx context.Context, tx pgx.Tx, id domain.ShowtimeID) (domain.ShowtimeStatus, error) {
	var status domain.ShowtimeStatus

	err := tx.QueryRow(ctx, `SELECT status FROM showtimes WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrShowtimeNotFound
		}

		return "", err
	}

	return status, nil
}
