package app

import (
	"net/http"

	"github.com/metinatakli/cinema-ticketing/api"
	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

func (app *Application) CreateShowroom(w http.ResponseWriter, r *http.Request) {
	var input api.CreateShowroomRequest

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

	showroom := &domain.Showroom{
		Name:     input.Name,
		Capacity: input.Capacity,
	}

	err = app.services.Catalog.CreateShowroom(r.Context(), showroom)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiShowroom(showroom), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSeatTypes(w http.ResponseWriter, r *http.Request) {
	seatTypes, err := app.services.Catalog.ListSeatTypes(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SeatTypeListResponse{
		SeatTypes: make([]api.SeatTypeResponse, len(seatTypes)),
	}

	for i := range seatTypes {
		resp.SeatTypes[i] = toApiSeatType(&seatTypes[i])
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateSeatType(w http.ResponseWriter, r *http.Request) {
	var input api.CreateSeatTypeRequest

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

	seatType := &domain.SeatType{
		Name:    input.Name,
		Premium: input.Premium,
	}

	err = app.services.Catalog.CreateSeatType(r.Context(), seatType)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiSeatType(seatType), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSeatLayout(w http.ResponseWriter, r *http.Request) {
	showroomID, err := readIDParam[domain.ShowroomID](r, "showroomId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showroom, rows, err := app.services.Catalog.SeatLayout(r.Context(), showroomID)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	resp := api.SeatLayoutResponse{
		Showroom: toApiShowroom(showroom),
		Rows:     make([]api.SeatRow, len(rows)),
	}

	for i, row := range rows {
		seats := make([]api.SeatResponse, len(row.Seats))
		for j := range row.Seats {
			seats[j] = toApiSeat(&row.Seats[j])
		}

		resp.Rows[i] = api.SeatRow{Row: row.Row, Seats: seats}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) AddSeat(w http.ResponseWriter, r *http.Request) {
	showroomID, err := readIDParam[domain.ShowroomID](r, "showroomId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.AddSeatRequest

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

	seat := &domain.Seat{
		ShowroomID: showroomID,
		SeatTypeID: domain.SeatTypeID(input.SeatTypeId),
		Row:        input.Row,
		Number:     input.Number,
	}

	err = app.services.Catalog.AddSeat(r.Context(), seat)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toApiSeat(seat), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiShowroom(showroom *domain.Showroom) api.ShowroomResponse {
	return api.ShowroomResponse{
		Id:        int(showroom.ID),
		Name:      showroom.Name,
		Capacity:  showroom.Capacity,
		CreatedAt: showroom.CreatedAt,
	}
}

func toApiSeatType(seatType *domain.SeatType) api.SeatTypeResponse {
	return api.SeatTypeResponse{
		Id:      int(seatType.ID),
		Name:    seatType.Name,
		Premium: seatType.Premium,
	}
}

func toApiSeat(seat *domain.Seat) api.SeatResponse {
	return api.SeatResponse{
		Id:         int(seat.ID),
		ShowroomId: int(seat.ShowroomID),
		SeatTypeId: int(seat.SeatTypeID),
		Row:        seat.Row,
		Number:     seat.Number,
	}
}
