package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"blackinpay/internal/infra/redis"
)

type paymentCreateRequest struct {
	BotID           string `json:"bot_id"`
	PlanID          string `json:"plan_id"`
	PayerTelegramID int64  `json:"payer_telegram_id"`
	PayerName       string `json:"payer_name"`
}

func (s *Server) handlePaymentCreate(w http.ResponseWriter, r *http.Request) {
	var req paymentCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BotID == "" || req.PlanID == "" {
		respondError(w, http.StatusBadRequest, "bot_id and plan_id are required")
		return
	}

	payment, err := s.paymentUC.Create(r.Context(), req.BotID, req.PlanID, req.PayerTelegramID, req.PayerName)
	if err != nil {
		s.log.Error().Str("bot_id", req.BotID).Str("plan_id", req.PlanID).Err(err).Msg("payment create failed")
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusCreated, paymentView(payment))
}

func (s *Server) handlePaymentGet(w http.ResponseWriter, r *http.Request) {
	payment, err := s.paymentUC.Get(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, paymentView(payment))
}

// paymentPollLimit throttles the payer-facing status poll per Telegram user.
const (
	paymentPollLimit  = 10
	paymentPollWindow = time.Minute
)

func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	payment, err := s.paymentUC.Get(r.Context(), chi.URLParam(r, "paymentID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if payment.PayerTelegramID != 0 {
		key := redis.PaymentPollKey(payment.PayerTelegramID)
		if allowed, err := s.limiter.Allow(r.Context(), key, paymentPollLimit, paymentPollWindow); err == nil && !allowed {
			respondError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
	}

	payment, err = s.paymentUC.PollStatus(r.Context(), payment.ID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"status":  payment.Status,
		"paid_at": payment.PaidAt,
	})
}
