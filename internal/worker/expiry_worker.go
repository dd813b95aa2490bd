// Package worker runs background maintenance next to the HTTP server.
package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/metinatakli/cinema-ticketing/internal/domain"
)

type ExpiryWorkerConfig struct {
	// ScanInterval is the pause between two sweeps.
	ScanInterval time.Duration
	// BatchSize caps how many holds are expired per store call.
	BatchSize int
}

func DefaultExpiryWorkerConfig() ExpiryWorkerConfig {
	return ExpiryWorkerConfig{
		ScanInterval: 30 * time.Second,
		BatchSize:    500,
	}
}

// ExpiryWorker cancels held tickets whose hold ran out. Booking reclaims expired
// holds lazily, so the worker only keeps ticket history and seat maps tidy.
type ExpiryWorker struct {
	tickets domain.TicketRepository
	config  ExpiryWorkerConfig
	logger  *slog.Logger
	now     func() time.Time

	totalExpired atomic.Int64
}

func NewExpiryWorker(
	tickets domain.TicketRepository,
	config ExpiryWorkerConfig,
	logger *slog.Logger,
	now func() time.Time) *ExpiryWorker {

	defaults := DefaultExpiryWorkerConfig()
	if config.ScanInterval <= 0 {
		config.ScanInterval = defaults.ScanInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if now == nil {
		now = time.Now
	}

	return &ExpiryWorker{
		tickets: tickets,
		config:  config,
		logger:  logger,
		now:     now,
	}
}

// Run sweeps once immediately and then every ScanInterval until ctx is done.
func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.logger.Info("starting hold expiry worker",
		"interval", w.config.ScanInterval, "batchSize", w.config.BatchSize)

	ticker := time.NewTicker(w.config.ScanInterval)
	defer ticker.Stop()

	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("hold expiry worker stopped", "totalExpired", w.totalExpired.Load())
			return nil
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep expires every overdue hold in batches and returns how many it expired.
func (w *ExpiryWorker) Sweep(ctx context.Context) int {
	now := w.now()
	total := 0

	for ctx.Err() == nil {
		n, err := w.tickets.ExpireHolds(ctx, now, w.config.BatchSize)
		if err != nil {
			w.logger.Error("failed to expire holds", "error", err)
			break
		}

		total += n
		if n < w.config.BatchSize {
			break
		}
	}

	if total > 0 {
		w.totalExpired.Add(int64(total))
		w.logger.Info("expired holds", "count", total)
	}

	return total
}

func (w *ExpiryWorker) TotalExpired() int64 {
	return w.totalExpired.Load()
}
