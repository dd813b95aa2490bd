package service

import (
	"context"
	"fmt"
	"time"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

// Availability derives seat availability from ticket state on every call. Nothing
// is cached, so the view cannot drift from the tickets.
type Availability struct {
	now       func() time.Time
	catalog   *Catalog
	pricing   *Pricing
	showtimes domain.ShowtimeRepository
	tickets   domain.TicketRepository
}

type SeatMapEntry struct {
	Seat      domain.Seat
	SeatType  string
	Available bool
	Price     int64
}

type SeatMapRow struct {
	Row   int
	Seats []SeatMapEntry
}

type SeatMap struct {
	Showtime  domain.Showtime
	Available int
	Rows      []SeatMapRow
}

// ShowtimeAvailability pairs a showtime with its number of free seats.
type ShowtimeAvailability struct {
	Showtime       domain.Showtime
	AvailableSeats int
}

// AvailableSeats returns the seats of the showtime's showroom that carry no active ticket.
func (a *Availability) AvailableSeats(ctx context.Context, showtimeID domain.ShowtimeID) ([]domain.Seat, error) {
	showtime, err := a.showtimes.GetById(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	return a.availableSeats(ctx, showtime)
}

func (a *Availability) availableSeats(ctx context.Context, showtime *domain.Showtime) ([]domain.Seat, error) {
	_, rows, err := a.catalog.SeatLayout(ctx, showtime.ShowroomID)
	if err != nil {
		return nil, err
	}

	taken, err := a.takenSeats(ctx, showtime.ID)
	if err != nil {
		return nil, err
	}

	available := make([]domain.Seat, 0)
	for _, row := range rows {
		for _, seat := range row.Seats {
			if _, ok := taken[seat.ID]; !ok {
				available = append(available, seat)
			}
		}
	}

	return available, nil
}

func (a *Availability) takenSeats(ctx context.Context, showtimeID domain.ShowtimeID) (map[domain.SeatID]struct{}, error) {
	ids, err := a.tickets.ActiveSeatIDs(ctx, showtimeID, a.now())
	if err != nil {
		return nil, err
	}

	taken := make(map[domain.SeatID]struct{}, len(ids))
	for _, id := range ids {
		taken[id] = struct{}{}
	}

	return taken, nil
}

// IsSoldOut reports whether no seat of the showtime is left.
func (a *Availability) IsSoldOut(ctx context.Context, showtimeID domain.ShowtimeID) (bool, error) {
	seats, err := a.AvailableSeats(ctx, showtimeID)
	if err != nil {
		return false, err
	}

	return len(seats) == 0, nil
}

// SeatMap lists every seat of the showtime grouped by row with its type, price and
// whether it can still be sold.
func (a *Availability) SeatMap(ctx context.Context, showtimeID domain.ShowtimeID) (*SeatMap, error) {
	showtime, prices, err := a.pricing.Prices(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	_, rows, err := a.catalog.SeatLayout(ctx, showtime.ShowroomID)
	if err != nil {
		return nil, err
	}

	seatTypes, err := a.catalog.ListSeatTypes(ctx)
	if err != nil {
		return nil, err
	}

	taken, err := a.takenSeats(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	typeNames := make(map[domain.SeatTypeID]string, len(seatTypes))
	for _, st := range seatTypes {
		typeNames[st.ID] = st.Name
	}

	amounts := make(map[domain.SeatTypeID]int64, len(prices))
	for _, p := range prices {
		amounts[p.SeatTypeID] = p.Amount
	}

	seatMap := &SeatMap{Showtime: *showtime, Rows: make([]SeatMapRow, 0, len(rows))}

	for _, row := range rows {
		mapRow := SeatMapRow{Row: row.Row, Seats: make([]SeatMapEntry, 0, len(row.Seats))}

		for _, seat := range row.Seats {
			amount, ok := amounts[seat.SeatTypeID]
			if !ok {
				return nil, fmt.Errorf("showtime %d, seat type %d: %w",
					showtimeID, seat.SeatTypeID, domain.ErrPricingNotConfigured)
			}

			_, sold := taken[seat.ID]
			available := !sold
			if available {
				seatMap.Available++
			}

			mapRow.Seats = append(mapRow.Seats, SeatMapEntry{
				Seat:      seat,
				SeatType:  typeNames[seat.SeatTypeID],
				Available: available,
				Price:     amount,
			})
		}

		seatMap.Rows = append(seatMap.Rows, mapRow)
	}

	return seatMap, nil
}

// ListShowtimes returns scheduled showtimes with their free seat count. With
// availableOnly set, sold-out showtimes are left out.
func (a *Availability) ListShowtimes(
	ctx context.Context,
	filters domain.ShowtimeFilters,
	availableOnly bool) ([]ShowtimeAvailability, error) {

	showtimes, err := a.showtimes.GetAll(ctx, filters)
	if err != nil {
		return nil, err
	}

	result := make([]ShowtimeAvailability, 0, len(showtimes))

	for i := range showtimes {
		seats, err := a.availableSeats(ctx, &showtimes[i])
		if err != nil {
			return nil, err
		}

		if availableOnly && len(seats) == 0 {
			continue
		}

		result = append(result, ShowtimeAvailability{Showtime: showtimes[i], AvailableSeats: len(seats)})
	}

	return result, nil
}
