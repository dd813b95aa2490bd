package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	appmiddleware "github.com/metinatakli/cinema-ticketing/internal/middleware"
	"github.com/riandyrn/otelchi"
)

const serviceName = "cinema-ticketing-api"

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)

	idempotent := app.idempotency()

	r.Get("/healthcheck", app.GetHealth)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", app.GetMovies)
		r.With(idempotent).Post("/", app.CreateMovie)

		r.Route("/{movieId}", func(r chi.Router) {
			r.Get("/", app.GetMovie)
			r.Put("/", app.UpdateMovie)
			r.Delete("/", app.DeleteMovie)
		})
	})

	r.With(idempotent).Post("/showrooms", app.CreateShowroom)
	r.Route("/showrooms/{showroomId}/seats", func(r chi.Router) {
		r.Get("/", app.GetSeatLayout)
		r.With(idempotent).Post("/", app.AddSeat)
	})

	r.Route("/seat-types", func(r chi.Router) {
		r.Get("/", app.GetSeatTypes)
		r.With(idempotent).Post("/", app.CreateSeatType)
	})

	r.Route("/showtimes", func(r chi.Router) {
		r.Get("/", app.GetShowtimes)
		r.With(idempotent).Post("/", app.ScheduleShowtime)

		r.Route("/{showtimeId}", func(r chi.Router) {
			r.Get("/", app.GetShowtime)
			r.Delete("/", app.CancelShowtime)
			r.Get("/seat-map", app.GetSeatMap)
			r.Put("/prices", app.SetBasePrice)
			r.Put("/prices/{seatTypeId}", app.OverridePrice)
			r.With(idempotent).Post("/tickets", app.CreateTicket)
		})
	})

	r.Route("/tickets/{ticketId}", func(r chi.Router) {
		r.Get("/", app.GetTicket)
		r.Delete("/", app.CancelTicket)
		r.With(idempotent).Post("/confirm", app.ConfirmTicket)
	})

	r.Get("/customers/{customerId}/tickets", app.GetCustomerTickets)

	return r
}

// idempotency returns the Idempotency-Key middleware, or a pass-through when no
// Redis client is configured.
func (app *Application) idempotency() func(http.Handler) http.Handler {
	if app.redis == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return appmiddleware.Idempotency(appmiddleware.IdempotencyConfig{
		Redis:  app.redis,
		Logger: app.logger,
		TTL:    app.config.Redis.IdempotencyTTL,
	})
}
