package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"blackinpay/internal/usecase"
)

// PaymentReconciler periodically scans for stale pending PIX charges and tries
// to settle them against the provider. This covers the cases where the
// provider webhook was lost or the process crashed mid-confirm.
type PaymentReconciler struct {
	uc         usecase.PaymentUseCase
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a pending payment must be to re-poll
	log        *zerolog.Logger
}

const reconcileBatchSize = 200

func NewPaymentReconciler(uc usecase.PaymentUseCase, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 5 * time.Minute
	}
	compLog := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{uc: uc, interval: interval, staleAfter: staleAfter, log: &compLog}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting payment reconciler")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping payment reconciler")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.uc.ReconcilePending(ctx, w.staleAfter, reconcileBatchSize)
			if err != nil {
				w.log.Error().Err(err).Msg("reconcile pass failed")
			}
			if n > 0 {
				w.log.Info().Int("count", n).Msg("pending payments settled or expired")
			}
		}
	}
}
