package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blackinpay/internal/usecase"
)

type planRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	DaysAccess  int    `json:"days_access"`
	IsActive    *bool  `json:"is_active"`
}

func (p planRequest) input() usecase.PlanInput {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return usecase.PlanInput{
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		DaysAccess:  p.DaysAccess,
		IsActive:    active,
	}
}

func (s *Server) handlePlanCreate(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	plan, err := s.planUC.Create(r.Context(), ownerID(r), chi.URLParam(r, "botID"), req.input())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusCreated, planView(plan))
}

func (s *Server) handlePlanList(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.ListByBot(r.Context(), ownerID(r), chi.URLParam(r, "botID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, planViews(plans))
}

func (s *Server) handlePlanUpdate(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	plan, err := s.planUC.Update(r.Context(), ownerID(r), chi.URLParam(r, "planID"), req.input())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, planView(plan))
}

func (s *Server) handlePlanDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.planUC.Delete(r.Context(), ownerID(r), chi.URLParam(r, "planID")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}
