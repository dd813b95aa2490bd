package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

var movieSortColumns = map[string]string{
	"id":           "id",
	"title":        "title",
	"release_date": "release_date",
	"rating":       "rating",
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	query := `INSERT INTO movies (title, synopsis, genre, language, rating, runtime_seconds, release_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version`

	return p.db.QueryRow(ctx,
		query,
		movie.Title,
		movie.Synopsis,
		movie.Genre,
		movie.Language,
		movie.Rating,
		int64(movie.Runtime/time.Second),
		movie.ReleaseDate).Scan(&movie.ID, &movie.CreatedAt, &movie.Version)
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context, filters domain.MovieFilters) ([]*domain.Movie, *domain.Metadata, error) {
	column, ok := movieSortColumns[filters.SortColumn()]
	if !ok {
		column = "id"
	}

	query := fmt.Sprintf(`SELECT count(*) OVER(), id, title, synopsis, genre, language, rating,
			runtime_seconds, release_date, created_at, version
		FROM movies
		WHERE ((to_tsvector('english', title) @@ plainto_tsquery('english', $1)
			OR to_tsvector('english', synopsis) @@ plainto_tsquery('english', $1))
			OR $1 = '')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`, column, filters.SortDirection())

	rows, err := p.db.Query(ctx, query, filters.Term, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	movies := []*domain.Movie{}

	for rows.Next() {
		var (
			movie   domain.Movie
			runtime int64
		)

		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Title,
			&movie.Synopsis,
			&movie.Genre,
			&movie.Language,
			&movie.Rating,
			&runtime,
			&movie.ReleaseDate,
			&movie.CreatedAt,
			&movie.Version,
		)
		if err != nil {
			return nil, nil, err
		}

		movie.Runtime = time.Duration(runtime) * time.Second
		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id domain.MovieID) (*domain.Movie, error) {
	query := `SELECT id, title, synopsis, genre, language, rating, runtime_seconds, release_date, created_at, version
		FROM movies
		WHERE id = $1`

	var (
		movie   domain.Movie
		runtime int64
	)

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Synopsis,
		&movie.Genre,
		&movie.Language,
		&movie.Rating,
		&runtime,
		&movie.ReleaseDate,
		&movie.CreatedAt,
		&movie.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}

		return nil, err
	}

	movie.Runtime = time.Duration(runtime) * time.Second

	return &movie, nil
}

func (p *PostgresMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	query := `UPDATE movies
		SET title = $1, synopsis = $2, genre = $3, language = $4, rating = $5,
			runtime_seconds = $6, release_date = $7, version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version, created_at`

	err := p.db.QueryRow(ctx,
		query,
		movie.Title,
		movie.Synopsis,
		movie.Genre,
		movie.Language,
		movie.Rating,
		int64(movie.Runtime/time.Second),
		movie.ReleaseDate,
		movie.ID,
		movie.Version).Scan(&movie.Version, &movie.CreatedAt)

	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		if _, err := p.GetById(ctx, movie.ID); err != nil {
			return err
		}

		return domain.ErrEditConflict
	}

	return nil
}

func (p *PostgresMovieRepository) Delete(ctx context.Context, id domain.MovieID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return domain.ErrMovieInUse
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrMovieNotFound
	}

	return nil
}
