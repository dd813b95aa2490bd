// Package service implements the cinema's use cases on top of the domain
// repositories: catalog administration, showtime scheduling, pricing, seat
// availability and ticket booking.
package service

import (
	"log/slog"
	"time"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
	"go.opentelemetry.io/otel"
)

const instrumentationName = "github.com/metinatakli/cinema-ticketing/internal/service"

var tracer = otel.Tracer(instrumentationName)

// Repositories is the set of stores the services depend on.
type Repositories struct {
	Movies    domain.MovieRepository
	Showrooms domain.ShowroomRepository
	SeatTypes domain.SeatTypeRepository
	Seats     domain.SeatRepository
	Showtimes domain.ShowtimeRepository
	Prices    domain.PriceRepository
	Tickets   domain.TicketRepository
}

type Services struct {
	Catalog      *Catalog
	Scheduler    *Scheduler
	Pricing      *Pricing
	Availability *Availability
	Booking      *Booking
}

// New wires the services together. A nil now defaults to time.Now.
func New(repos Repositories, logger *slog.Logger, now func() time.Time, cfg BookingConfig) *Services {
	if now == nil {
		now = time.Now
	}

	catalog := &Catalog{
		movies:    repos.Movies,
		showrooms: repos.Showrooms,
		seatTypes: repos.SeatTypes,
		seats:     repos.Seats,
	}

	pricing := &Pricing{
		logger:    logger,
		showtimes: repos.Showtimes,
		seatTypes: repos.SeatTypes,
		prices:    repos.Prices,
	}

	scheduler := &Scheduler{
		logger:    logger,
		now:       now,
		catalog:   catalog,
		pricing:   pricing,
		showtimes: repos.Showtimes,
	}

	availability := &Availability{
		now:       now,
		catalog:   catalog,
		pricing:   pricing,
		showtimes: repos.Showtimes,
		tickets:   repos.Tickets,
	}

	booking := &Booking{
		logger:    logger,
		now:       now,
		config:    cfg.withDefaults(),
		metrics:   newBookingMetrics(),
		pricing:   pricing,
		showtimes: repos.Showtimes,
		seats:     repos.Seats,
		tickets:   repos.Tickets,
	}

	return &Services{
		Catalog:      catalog,
		Scheduler:    scheduler,
		Pricing:      pricing,
		Availability: availability,
		Booking:      booking,
	}
}
