package app

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/metinatakli/cinema-ticketing/api"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
	"github.com/metinatakli/cinema-ticketing/internal/service"
)

func (app *Application) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	filters, availableOnly, err := readShowtimeFilters(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showtimes, err := app.services.Availability.ListShowtimes(r.Context(), filters, availableOnly)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.ShowtimeListResponse{
		Showtimes: make([]api.ShowtimeResponse, len(showtimes)),
	}

	for i, s := range showtimes {
		item := toApiShowtime(&s.Showtime)
		item.AvailableSeats = &s.AvailableSeats
		resp.Showtimes[i] = item
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func readShowtimeFilters(r *http.Request) (domain.ShowtimeFilters, bool, error) {
	var filters domain.ShowtimeFilters

	movieID, err := readIntQuery(r, "movieId")
	if err != nil {
		return filters, false, err
	}
	if movieID != nil {
		id := domain.MovieID(*movieID)
		filters.MovieID = &id
	}

	for key, dst := range map[string]**time.Time{"from": &filters.From, "to": &filters.To} {
		s := readStringQuery(r, key)
		if s == nil {
			continue
		}

		t, err := time.Parse(time.RFC3339, *s)
		if err != nil {
			return filters, false, fmt.Errorf("%s must be an RFC 3339 timestamp", key)
		}
		*dst = &t
	}

	var availableOnly bool
	if s := readStringQuery(r, "availableOnly"); s != nil {
		availableOnly, err = strconv.ParseBool(*s)
		if err != nil {
			return filters, false, fmt.Errorf("availableOnly must be a boolean value")
		}
	}

	return filters, availableOnly, nil
}

func (app *Application) ScheduleShowtime(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.ScheduleShowtimeRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	showtime, err := app.services.Scheduler.ScheduleShowtime(
		r.Context(),
		domain.MovieID(input.MovieId),
		domain.ShowroomID(input.ShowroomId),
		input.StartTime,
		*input.BasePrice)

	if err != nil {
		logger.Warn("showtime could not be scheduled", "movie_id", input.MovieId,
			"showroom_id", input.ShowroomId, "error", err)
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiShowtime(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowtime(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam[domain.ShowtimeID](r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showtime, prices, err := app.services.Pricing.Prices(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	seats, err := app.services.Availability.AvailableSeats(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := toApiShowtime(showtime)
	resp.Prices = toApiPrices(prices)
	available := len(seats)
	resp.AvailableSeats = &available

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelShowtime(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam[domain.ShowtimeID](r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showtime, err := app.services.Scheduler.CancelShowtime(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiShowtime(showtime), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam[domain.ShowtimeID](r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatMap, err := app.services.Availability.SeatMap(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiSeatMap(seatMap), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) SetBasePrice(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam[domain.ShowtimeID](r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.SetBasePriceRequest

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

	prices, err := app.services.Pricing.SetBasePrice(r.Context(), id, *input.BasePrice)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.PriceListResponse{
		ShowtimeId: int(id),
		BasePrice:  *input.BasePrice,
		Prices:     toApiPrices(prices),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) OverridePrice(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam[domain.ShowtimeID](r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatTypeID, err := readIDParam[domain.SeatTypeID](r, "seatTypeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.OverridePriceRequest

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

	price, err := app.services.Pricing.OverridePrice(r.Context(), id, seatTypeID, *input.Amount)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiPrice(*price), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiShowtime(showtime *domain.Showtime) api.ShowtimeResponse {
	return api.ShowtimeResponse{
		Id:          int(showtime.ID),
		MovieId:     int(showtime.MovieID),
		ShowroomId:  int(showtime.ShowroomID),
		StartTime:   showtime.StartTime,
		EndTime:     showtime.EndTime,
		BasePrice:   showtime.BasePrice,
		Status:      string(showtime.Status),
		CancelledAt: showtime.CancelledAt,
	}
}

func toApiPrices(prices []domain.Price) []api.PriceResponse {
	resp := make([]api.PriceResponse, len(prices))
	for i, p := range prices {
		resp[i] = toApiPrice(p)
	}

	return resp
}

func toApiPrice(price domain.Price) api.PriceResponse {
	return api.PriceResponse{
		SeatTypeId: int(price.SeatTypeID),
		Amount:     price.Amount,
		Override:   price.Override,
	}
}

func toApiSeatMap(seatMap *service.SeatMap) api.SeatMapResponse {
	resp := api.SeatMapResponse{
		ShowtimeId:     int(seatMap.Showtime.ID),
		ShowroomId:     int(seatMap.Showtime.ShowroomID),
		AvailableSeats: seatMap.Available,
		Rows:           make([]api.SeatMapRow, len(seatMap.Rows)),
	}

	for i, row := range seatMap.Rows {
		seats := make([]api.SeatMapSeat, len(row.Seats))

		for j, entry := range row.Seats {
			seats[j] = api.SeatMapSeat{
				Id:         int(entry.Seat.ID),
				Row:        entry.Seat.Row,
				Number:     entry.Seat.Number,
				SeatTypeId: int(entry.Seat.SeatTypeID),
				SeatType:   entry.SeatType,
				Price:      entry.Price,
				Available:  entry.Available,
			}
		}

		resp.Rows[i] = api.SeatMapRow{Row: row.Row, Seats: seats}
	}

	return resp
}
