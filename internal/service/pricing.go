package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

// Pricing resolves and maintains the per-seat-type prices of showtimes.
type Pricing struct {
	logger    *slog.Logger
	showtimes domain.ShowtimeRepository
	seatTypes domain.SeatTypeRepository
	prices    domain.PriceRepository
}

// PriceFor returns the price charged for a seat type at a showtime.
func (p *Pricing) PriceFor(ctx context.Context, showtimeID domain.ShowtimeID, seatTypeID domain.SeatTypeID) (int64, error) {
	price, err := p.prices.GetPrice(ctx, showtimeID, seatTypeID)
	if err != nil {
		if errors.Is(err, domain.ErrPricingNotConfigured) {
			p.logger.Error("missing price for seat type",
				"showtimeId", showtimeID, "seatTypeId", seatTypeID)
			return 0, fmt.Errorf("showtime %d, seat type %d: %w", showtimeID, seatTypeID, err)
		}
		return 0, err
	}

	return price.Amount, nil
}

// Prices returns the showtime together with all of its prices.
func (p *Pricing) Prices(ctx context.Context, showtimeID domain.ShowtimeID) (*domain.Showtime, []domain.Price, error) {
	showtime, err := p.showtimes.GetById(ctx, showtimeID)
	if err != nil {
		return nil, nil, err
	}

	prices, err := p.prices.GetByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, nil, err
	}

	return showtime, prices, nil
}

// Quote derives the prices of every known seat type from a base price.
func (p *Pricing) Quote(ctx context.Context, showtimeID domain.ShowtimeID, basePrice int64) ([]domain.Price, error) {
	if basePrice < 0 {
		return nil, domain.NewValidationError("basePrice", "must not be negative")
	}

	seatTypes, err := p.seatTypes.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return domain.PricesFor(showtimeID, basePrice, seatTypes), nil
}

// SetBasePrice recomputes every seat type price from basePrice, discarding overrides.
func (p *Pricing) SetBasePrice(ctx context.Context, showtimeID domain.ShowtimeID, basePrice int64) ([]domain.Price, error) {
	prices, err := p.Quote(ctx, showtimeID, basePrice)
	if err != nil {
		return nil, err
	}

	if err := p.prices.ReplaceAll(ctx, showtimeID, basePrice, prices); err != nil {
		return nil, err
	}

	p.logger.Info("base price updated", "showtimeId", showtimeID, "basePrice", basePrice)

	return prices, nil
}

// OverridePrice pins the price of one seat type. Other seat types keep their price.
func (p *Pricing) OverridePrice(
	ctx context.Context,
	showtimeID domain.ShowtimeID,
	seatTypeID domain.SeatTypeID,
	amount int64) (*domain.Price, error) {

	if amount < 0 {
		return nil, domain.NewValidationError("amount", "must not be negative")
	}

	if _, err := p.seatTypes.GetById(ctx, seatTypeID); err != nil {
		return nil, err
	}

	price := domain.Price{
		ShowtimeID: showtimeID,
		SeatTypeID: seatTypeID,
		Amount:     amount,
		Override:   true,
	}

	if err := p.prices.Override(ctx, price); err != nil {
		return nil, err
	}

	p.logger.Info("price overridden", "showtimeId", showtimeID, "seatTypeId", seatTypeID, "amount", amount)

	return &price, nil
}
