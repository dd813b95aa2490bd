package domain

import (
	"context"
	"time"
)

type ShowtimeStatus string

const (
	ShowtimeStatusScheduled ShowtimeStatus = "scheduled"
	ShowtimeStatusCancelled ShowtimeStatus = "cancelled"
)

type Showtime struct {
	ID          ShowtimeID
	MovieID     MovieID
	ShowroomID  ShowroomID
	StartTime   time.Time
	EndTime     time.Time
	BasePrice   int64
	Status      ShowtimeStatus
	CancelledAt *time.Time
	CreatedAt   time.Time
}

// NewShowtime schedules the movie in the showroom for [start, start+runtime).
func NewShowtime(movie *Movie, showroomID ShowroomID, start time.Time, basePrice int64) Showtime {
	return Showtime{
		MovieID:    movie.ID,
		ShowroomID: showroomID,
		StartTime:  start,
		EndTime:    start.Add(movie.Runtime),
		BasePrice:  basePrice,
		Status:     ShowtimeStatusScheduled,
	}
}

// Overlaps reports whether [start, end) intersects the showtime's interval.
// Touching intervals do not overlap.
func (s Showtime) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && start.Before(s.EndTime)
}

func (s Showtime) HasStarted(now time.Time) bool {
	return !now.Before(s.StartTime)
}

func (s Showtime) IsCancelled() bool {
	return s.Status == ShowtimeStatusCancelled
}

// CheckBookable returns the reason a seat cannot be sold for the showtime, if any.
func (s Showtime) CheckBookable(now time.Time) error {
	if s.IsCancelled() {
		return ErrShowtimeCancelled
	}

	if s.HasStarted(now) {
		return ErrShowtimeAlreadyStarted
	}

	return nil
}

type ShowtimeFilters struct {
	MovieID *MovieID
	From    *time.Time
	To      *time.Time
}

type ShowtimeRepository interface {
	// Create stores the showtime and its prices atomically. It fails with an
	// *OverlapError when a scheduled showtime in the same showroom intersects it.
	Create(ctx context.Context, showtime *Showtime, prices []Price) error
	GetById(ctx context.Context, id ShowtimeID) (*Showtime, error)
	// GetAll returns scheduled showtimes ordered by start time.
	GetAll(ctx context.Context, filters ShowtimeFilters) ([]Showtime, error)
	// Cancel marks the showtime cancelled and cancels its active tickets, returning
	// how many tickets were cancelled.
	Cancel(ctx context.Context, id ShowtimeID, now time.Time) (int, error)
}
