package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blackinpay/internal/domain/model"
)

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	b, err := s.withdrawalUC.Balance(r.Context(), ownerID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int64{
		"paid_revenue_cents":     b.PaidRevenueCents,
		"platform_fee_cents":     b.PlatformFeeCents,
		"withdrawn_cents":        b.WithdrawnCents,
		"available_cents":        b.AvailableCents,
		"provider_balance_cents": b.ProviderBalanceCents,
	})
}

type splitRequest struct {
	FeePercent int `json:"fee_percent"`
}

func (s *Server) handleUpdateSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.ownerUC.UpdateFeePercent(r.Context(), ownerID(r), req.FeePercent); err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}

type withdrawalRequest struct {
	AmountCents int64  `json:"amount_cents"`
	PixKey      string `json:"pix_key"`
	PixKeyKind  string `json:"pix_key_kind"`
}

func (s *Server) handleWithdrawalCreate(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	wd, err := s.withdrawalUC.Request(r.Context(), ownerID(r), req.AmountCents, req.PixKey, model.PixKeyKind(req.PixKeyKind))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusCreated, withdrawalView(wd))
}

func (s *Server) handleWithdrawalList(w http.ResponseWriter, r *http.Request) {
	ws, err := s.withdrawalUC.List(r.Context(), ownerID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, withdrawalViews(ws))
}

func (s *Server) handleWithdrawalGet(w http.ResponseWriter, r *http.Request) {
	wd, err := s.withdrawalUC.Get(r.Context(), ownerID(r), chi.URLParam(r, "withdrawalID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, withdrawalView(wd))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.Dashboard(r.Context(), ownerID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"sales_count":    stats.SalesCount,
		"revenue_cents":  stats.RevenueCents,
		"active_members": stats.ActiveMembers,
		"plan_count":     stats.PlanCount,
		"recent_sales":   saleViews(stats.RecentSales),
	})
}
