package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blackinpay/internal/infra/logging"
	"blackinpay/internal/infra/redis"
)

// webhookRateLimit caps updates per bot per window; past it deliveries are
// acknowledged and dropped.
const (
	webhookRateLimit  = 30
	webhookRateWindow = time.Second
)

// respondWebhookOK is the only answer Telegram ever gets. Non-200 responses
// make Telegram re-deliver the same update in a tight loop, so malformed
// payloads and handler failures are acknowledged too and only logged.
func respondWebhookOK(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	s.dispatchUpdate(w, r, chi.URLParam(r, "botID"))
}

// handleTelegramWebhookByToken serves bots registered before id-based webhook
// URLs existed.
func (s *Server) handleTelegramWebhookByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	bot, err := s.bots.FindByToken(r.Context(), token)
	if err != nil {
		s.log.Warn().Err(err).Str("token", logging.Redact(token, false)).Msg("webhook token lookup failed")
		respondWebhookOK(w)
		return
	}
	s.dispatchUpdate(w, r, bot.ID)
}

func (s *Server) dispatchUpdate(w http.ResponseWriter, r *http.Request, botID string) {
	defer respondWebhookOK(w)

	if botID == "" {
		return
	}
	ctx := logging.WithBotID(r.Context(), botID)
	log := logging.With(ctx, s.log)
	if allowed, err := s.limiter.Allow(ctx, redis.WebhookKey(botID), webhookRateLimit, webhookRateWindow); err == nil && !allowed {
		log.Warn().Msg("webhook rate limited")
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Warn().Err(err).Msg("malformed telegram update")
		return
	}
	if update.Message != nil && update.Message.From != nil {
		ctx = logging.WithTgID(ctx, update.Message.From.ID)
		log = logging.With(ctx, s.log)
	}

	if err := s.dispatcher.HandleUpdate(ctx, botID, update); err != nil {
		log.Error().Err(err).Msg("update dispatch failed")
	}
}

// providerWebhookPayload is what PushinPay pushes on charge status changes.
type providerWebhookPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	PaidAt string `json:"paid_at"`
}

func (s *Server) handlePaymentProviderWebhook(w http.ResponseWriter, r *http.Request) {
	var payload providerWebhookPayload
	if err := decodeBody(r, &payload); err != nil || payload.ID == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if payload.Status != "paid" && payload.Status != "approved" {
		respondData(w, http.StatusOK, nil)
		return
	}

	paidAt := time.Now()
	if t, err := time.Parse(time.RFC3339, payload.PaidAt); err == nil {
		paidAt = t
	}

	if err := s.paymentUC.ConfirmByProviderTx(r.Context(), payload.ID, paidAt); err != nil {
		s.log.Error().Str("provider_tx_id", payload.ID).Err(err).Msg("payment webhook confirm failed")
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
