// Package api holds the JSON request and response bodies of the HTTP interface.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Store       string `json:"store"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type GetMoviesParams struct {
	Page     *int    `validate:"omitempty,min=1,max=10000000"`
	PageSize *int    `validate:"omitempty,min=1,max=100"`
	Sort     *string `validate:"omitempty,oneof=id title release_date rating -id -title -release_date -rating"`
	Term     *string `validate:"omitempty,max=100"`
}

type MovieRequest struct {
	Title          string     `json:"title" validate:"required,max=255"`
	Synopsis       string     `json:"synopsis" validate:"max=4000"`
	Genre          string     `json:"genre" validate:"max=100"`
	Language       string     `json:"language" validate:"max=100"`
	Rating         int        `json:"rating" validate:"min=0,max=10"`
	RuntimeMinutes int        `json:"runtimeMinutes" validate:"required,min=1,max=1440"`
	ReleaseDate    types.Date `json:"releaseDate" validate:"required"`
}

type UpdateMovieRequest struct {
	MovieRequest
	Version int `json:"version" validate:"required,min=1"`
}

type MovieResponse struct {
	Id             int        `json:"id"`
	Title          string     `json:"title"`
	Synopsis       string     `json:"synopsis"`
	Genre          string     `json:"genre"`
	Language       string     `json:"language"`
	Rating         int        `json:"rating"`
	RuntimeMinutes int        `json:"runtimeMinutes"`
	ReleaseDate    types.Date `json:"releaseDate"`
	CreatedAt      time.Time  `json:"createdAt"`
	Version        int        `json:"version"`
}

type MovieListResponse struct {
	Movies   []MovieResponse `json:"movies"`
	Metadata *Metadata       `json:"metadata"`
}

type CreateShowroomRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=10000"`
}

type ShowroomResponse struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateSeatTypeRequest struct {
	Name    string          `json:"name" validate:"required,max=100"`
	Premium decimal.Decimal `json:"premium" validate:"premium"`
}

type SeatTypeResponse struct {
	Id      int             `json:"id"`
	Name    string          `json:"name"`
	Premium decimal.Decimal `json:"premium"`
}

type SeatTypeListResponse struct {
	SeatTypes []SeatTypeResponse `json:"seatTypes"`
}

type AddSeatRequest struct {
	SeatTypeId int `json:"seatTypeId" validate:"required,min=1"`
	Row        int `json:"row" validate:"required,min=1,max=1000"`
	Number     int `json:"number" validate:"required,min=1,max=1000"`
}

type SeatResponse struct {
	Id         int `json:"id"`
	ShowroomId int `json:"showroomId"`
	SeatTypeId int `json:"seatTypeId"`
	Row        int `json:"row"`
	Number     int `json:"number"`
}

type SeatRow struct {
	Row   int            `json:"row"`
	Seats []SeatResponse `json:"seats"`
}

type SeatLayoutResponse struct {
	Showroom ShowroomResponse `json:"showroom"`
	Rows     []SeatRow        `json:"rows"`
}

type ScheduleShowtimeRequest struct {
	MovieId    int       `json:"movieId" validate:"required,min=1"`
	ShowroomId int       `json:"showroomId" validate:"required,min=1"`
	StartTime  time.Time `json:"startTime" validate:"required"`
	BasePrice  *int64    `json:"basePrice" validate:"required,min=0"`
}

type PriceResponse struct {
	SeatTypeId int   `json:"seatTypeId"`
	Amount     int64 `json:"amount"`
	Override   bool  `json:"override"`
}

type ShowtimeResponse struct {
	Id             int             `json:"id"`
	MovieId        int             `json:"movieId"`
	ShowroomId     int             `json:"showroomId"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        time.Time       `json:"endTime"`
	BasePrice      int64           `json:"basePrice"`
	Status         string          `json:"status"`
	CancelledAt    *time.Time      `json:"cancelledAt,omitempty"`
	AvailableSeats *int            `json:"availableSeats,omitempty"`
	Prices         []PriceResponse `json:"prices,omitempty"`
}

type ShowtimeListResponse struct {
	Showtimes []ShowtimeResponse `json:"showtimes"`
}

type SetBasePriceRequest struct {
	BasePrice *int64 `json:"basePrice" validate:"required,min=0"`
}

type OverridePriceRequest struct {
	Amount *int64 `json:"amount" validate:"required,min=0"`
}

type PriceListResponse struct {
	ShowtimeId int             `json:"showtimeId"`
	BasePrice  int64           `json:"basePrice"`
	Prices     []PriceResponse `json:"prices"`
}

type SeatMapSeat struct {
	Id         int    `json:"id"`
	Row        int    `json:"row"`
	Number     int    `json:"number"`
	SeatTypeId int    `json:"seatTypeId"`
	SeatType   string `json:"seatType"`
	Price      int64  `json:"price"`
	Available  bool   `json:"available"`
}

type SeatMapRow struct {
	Row   int           `json:"row"`
	Seats []SeatMapSeat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeId     int          `json:"showtimeId"`
	ShowroomId     int          `json:"showroomId"`
	AvailableSeats int          `json:"availableSeats"`
	Rows           []SeatMapRow `json:"rows"`
}

type CreateTicketRequest struct {
	SeatId      int    `json:"seatId" validate:"required,min=1"`
	CustomerId  string `json:"customerId" validate:"required,max=255"`
	HoldSeconds *int   `json:"holdSeconds" validate:"omitempty,min=1,max=86400"`
}

type TicketResponse struct {
	Id           uuid.UUID  `json:"id"`
	ShowtimeId   int        `json:"showtimeId"`
	SeatId       int        `json:"seatId"`
	SeatTypeId   int        `json:"seatTypeId"`
	Row          int        `json:"row"`
	Number       int        `json:"number"`
	CustomerId   string     `json:"customerId"`
	Price        int64      `json:"price"`
	Status       string     `json:"status"`
	BookedAt     time.Time  `json:"bookedAt"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	CancelReason string     `json:"cancelReason,omitempty"`
}

type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
}
