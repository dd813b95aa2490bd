package domain

import (
	"context"
	"strings"
	"time"
)

type Movie struct {
	ID          MovieID
	Title       string
	Synopsis    string
	Genre       string
	Language    string
	Rating      int
	Runtime     time.Duration
	ReleaseDate time.Time
	CreatedAt   time.Time
	Version     int
}

const maxMovieRating = 10

func (m *Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return NewValidationError("title", "is required")
	}

	if m.Runtime <= 0 {
		return NewValidationError("runtime", "must be greater than zero")
	}

	if m.Rating < 0 || m.Rating > maxMovieRating {
		return NewValidationError("rating", "must be between 0 and 10")
	}

	if m.ReleaseDate.IsZero() {
		return NewValidationError("releaseDate", "is required")
	}

	return nil
}

type MovieFilters struct {
	Pagination
}

type MovieRepository interface {
	Create(ctx context.Context, movie *Movie) error
	GetAll(ctx context.Context, filters MovieFilters) ([]*Movie, *Metadata, error)
	GetById(ctx context.Context, id MovieID) (*Movie, error)
	// Update applies an administrative edit guarded by the movie's version.
	Update(ctx context.Context, movie *Movie) error
	// Delete fails with ErrMovieInUse while any showtime references the movie.
	Delete(ctx context.Context, id MovieID) error
}
