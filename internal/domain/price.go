package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Price is the amount, in the smallest currency unit, charged for a seat type at a showtime.
type Price struct {
	ShowtimeID ShowtimeID
	SeatTypeID SeatTypeID
	Amount     int64
	Override   bool
}

// ApplyPremium multiplies base by premium and rounds half up to a whole minor unit.
func ApplyPremium(base int64, premium decimal.Decimal) int64 {
	return decimal.NewFromInt(base).Mul(premium).Round(0).IntPart()
}

// PricesFor derives one price per seat type from the base price.
func PricesFor(showtimeID ShowtimeID, base int64, seatTypes []SeatType) []Price {
	prices := make([]Price, len(seatTypes))

	for i, seatType := range seatTypes {
		prices[i] = Price{
			ShowtimeID: showtimeID,
			SeatTypeID: seatType.ID,
			Amount:     ApplyPremium(base, seatType.Premium),
		}
	}

	return prices
}

type PriceRepository interface {
	// GetPrice fails with ErrPricingNotConfigured when no row exists.
	GetPrice(ctx context.Context, showtimeID ShowtimeID, seatTypeID SeatTypeID) (*Price, error)
	GetByShowtime(ctx context.Context, showtimeID ShowtimeID) ([]Price, error)
	// ReplaceAll stores a new base price and replaces every price of the showtime.
	// Like Override it fails with ErrShowtimeHasTickets once a ticket references the showtime.
	ReplaceAll(ctx context.Context, showtimeID ShowtimeID, basePrice int64, prices []Price) error
	Override(ctx context.Context, price Price) error
}
