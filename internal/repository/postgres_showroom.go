package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type PostgresShowroomRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowroomRepository(db *pgxpool.Pool) *PostgresShowroomRepository {
	return &PostgresShowroomRepository{
		db: db,
	}
}

func (p *PostgresShowroomRepository) Create(ctx context.Context, showroom *domain.Showroom) error {
	query := `INSERT INTO showrooms (name, capacity)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := p.db.QueryRow(ctx, query, showroom.Name, showroom.Capacity).Scan(&showroom.ID, &showroom.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}

		return err
	}

	return nil
}

func (p *PostgresShowroomRepository) GetById(ctx context.Context, id domain.ShowroomID) (*domain.Showroom, error) {
	query := `SELECT id, name, capacity, created_at FROM showrooms WHERE id = $1`

	var showroom domain.Showroom

	err := p.db.QueryRow(ctx, query, id).Scan(&showroom.ID, &showroom.Name, &showroom.Capacity, &showroom.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShowroomNotFound
		}

		return nil, err
	}

	return &showroom, nil
}

// lockShowroom takes a row lock on the showroom so that seat and showtime writes
// for one showroom run one at a time. It returns the declared capacity.
func lockShowroom(ctx context.Context, tx pgx.Tx, id domain.ShowroomID) (int, error) {
	var capacity int

	err := tx.QueryRow(ctx, `SELECT capacity FROM showrooms WHERE id = $1 FOR UPDATE`, id).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrShowroomNotFound
		}

		return 0, err
	}

	return capacity, nil
}
