package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"blackinpay/internal/domain/model"
	"blackinpay/internal/usecase"
)

// ExpiryWorker periodically reminds members whose paid access is about to run
// out. Member status itself is derived from paid_until at read time, so the
// sweep only has to produce the reminders.
type ExpiryWorker struct {
	interval time.Duration
	groupUC  usecase.GroupUseCase
	log      *zerolog.Logger
}

const expirySweepBatchSize = 500

func NewExpiryWorker(interval time.Duration, groupUC usecase.GroupUseCase, logger *zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	compLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{interval: interval, groupUC: groupUC, log: &compLog}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	// Run once on startup, then on every tick
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *ExpiryWorker) runCheck(ctx context.Context) {
	sent, err := w.groupUC.NotifyExpiring(ctx, model.ExpiringSoonWindow, expirySweepBatchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("expiry sweep failed")
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("expiry reminders queued")
	}
}
