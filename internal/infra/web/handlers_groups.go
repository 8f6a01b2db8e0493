package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGroupList(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groupUC.ListGroups(r.Context(), ownerID(r), chi.URLParam(r, "botID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, groupViews(groups))
}

func (s *Server) handleGroupSync(w http.ResponseWriter, r *http.Request) {
	if err := s.groupUC.SyncGroups(r.Context(), ownerID(r), chi.URLParam(r, "botID")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}

func (s *Server) handleGroupMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.groupUC.ListMembers(r.Context(), ownerID(r), chi.URLParam(r, "groupID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, memberViews(members))
}
