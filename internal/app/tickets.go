package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/cinema-ticketing/api"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

// CreateTicket books the seat, or holds it when the request carries holdSeconds.
func (app *Application) CreateTicket(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showtimeID, err := readIDParam[domain.ShowtimeID](r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateTicketRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	var (
		seatID   = domain.SeatID(input.SeatId)
		customer = domain.CustomerID(input.CustomerId)
		ticket   *domain.Ticket
	)

	if input.HoldSeconds != nil {
		ttl := time.Duration(*input.HoldSeconds) * time.Second
		ticket, err = app.services.Booking.Hold(r.Context(), showtimeID, seatID, customer, ttl)
	} else {
		ticket, err = app.services.Booking.Book(r.Context(), showtimeID, seatID, customer)
	}

	if err != nil {
		if errors.Is(err, domain.ErrSeatUnavailable) {
			logger.Info("seat already taken", "showtime_id", showtimeID, "seat_id", seatID)
		}
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiTicket(ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := readTicketIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ticket, err := app.services.Booking.GetTicket(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiTicket(ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ConfirmTicket(w http.ResponseWriter, r *http.Request) {
	id, err := readTicketIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ticket, err := app.services.Booking.Confirm(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiTicket(ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelTicket(w http.ResponseWriter, r *http.Request) {
	id, err := readTicketIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ticket, err := app.services.Booking.Cancel(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiTicket(ticket), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetCustomerTickets(w http.ResponseWriter, r *http.Request) {
	customer := domain.CustomerID(chi.URLParam(r, "customerId"))

	tickets, err := app.services.Booking.ListCustomerTickets(r.Context(), customer)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.TicketListResponse{
		Tickets: make([]api.TicketResponse, len(tickets)),
	}

	for i := range tickets {
		resp.Tickets[i] = toApiTicket(&tickets[i])
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiTicket(ticket *domain.Ticket) api.TicketResponse {
	return api.TicketResponse{
		Id:           ticket.ID,
		ShowtimeId:   int(ticket.ShowtimeID),
		SeatId:       int(ticket.SeatID),
		SeatTypeId:   int(ticket.SeatTypeID),
		Row:          ticket.SeatRow,
		Number:       ticket.SeatNumber,
		CustomerId:   string(ticket.CustomerID),
		Price:        ticket.Price,
		Status:       string(ticket.Status),
		BookedAt:     ticket.BookedAt,
		ExpiresAt:    ticket.ExpiresAt,
		ConfirmedAt:  ticket.ConfirmedAt,
		CancelledAt:  ticket.CancelledAt,
		CancelReason: string(ticket.CancelReason),
	}
}
