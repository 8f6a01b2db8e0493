package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blackinpay/internal/domain/model"
	"blackinpay/internal/usecase"
)

type botCreateRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleBotCreate(w http.ResponseWriter, r *http.Request) {
	var req botCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	bot, err := s.botUC.Register(r.Context(), ownerID(r), req.Token)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusCreated, botView(bot))
}

func (s *Server) handleBotList(w http.ResponseWriter, r *http.Request) {
	bots, err := s.botUC.List(r.Context(), ownerID(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, botViews(bots))
}

func (s *Server) handleBotGet(w http.ResponseWriter, r *http.Request) {
	bot, err := s.botUC.Get(r.Context(), ownerID(r), chi.URLParam(r, "botID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, botView(bot))
}

type botUpdateRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	WelcomeMessage   string `json:"welcome_message"`
	WelcomeMediaURL  string `json:"welcome_media_url"`
	WelcomeMediaKind string `json:"welcome_media_kind"`
}

func (s *Server) handleBotUpdate(w http.ResponseWriter, r *http.Request) {
	var req botUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind := model.MediaKind(req.WelcomeMediaKind)
	if req.WelcomeMediaKind == "" {
		kind = model.MediaKindNone
	}
	bot, err := s.botUC.UpdateSettings(r.Context(), ownerID(r), chi.URLParam(r, "botID"), usecase.BotSettings{
		Name:             req.Name,
		Description:      req.Description,
		WelcomeMessage:   req.WelcomeMessage,
		WelcomeMediaURL:  req.WelcomeMediaURL,
		WelcomeMediaKind: kind,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, botView(bot))
}

type botStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleBotPatchStatus(w http.ResponseWriter, r *http.Request) {
	var req botStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.botUC.UpdateStatus(r.Context(), ownerID(r), chi.URLParam(r, "botID"), model.BotStatus(req.Status)); err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}

func (s *Server) handleBotDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.botUC.Delete(r.Context(), ownerID(r), chi.URLParam(r, "botID")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}

func (s *Server) handleBotSetWebhook(w http.ResponseWriter, r *http.Request) {
	url, err := s.botUC.SetWebhook(r.Context(), ownerID(r), chi.URLParam(r, "botID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"webhook_url": url})
}

func (s *Server) handleBotDeleteWebhook(w http.ResponseWriter, r *http.Request) {
	if err := s.botUC.DeleteWebhook(r.Context(), ownerID(r), chi.URLParam(r, "botID")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}

func (s *Server) handleBotWebhookInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.botUC.WebhookInfo(r.Context(), ownerID(r), chi.URLParam(r, "botID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"url":                    info.URL,
		"pending_update_count":   info.PendingUpdateCount,
		"last_error_message":     info.LastErrorMessage,
		"has_custom_certificate": info.HasCustomCertificate,
	})
}

func (s *Server) handleActivationCodeCreate(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")
	// Ownership check happens through the bot use case before generating.
	if _, err := s.botUC.Get(r.Context(), ownerID(r), botID); err != nil {
		respondDomainError(w, err)
		return
	}
	code, err := s.activationUC.Generate(r.Context(), botID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]interface{}{
		"code":       code.Code,
		"expires_at": code.ExpiresAt,
	})
}
