package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jkalnina/docshelf/internal/server/models"
)

type subjectResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Icon      string    `json:"icon"`
	SortOrder int64     `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func toSubjectResponse(s *models.Subject) subjectResponse {
	return subjectResponse{
		ID:        s.ID,
		Title:     s.Title,
		Icon:      s.Icon,
		SortOrder: s.SortOrder,
		CreatedAt: s.CreatedAt,
	}
}

type createSubjectRequest struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	result, err := s.subjects.List(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]subjectResponse, 0, len(result))
	for _, subject := range result {
		out = append(out, toSubjectResponse(subject))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req createSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subject, err := s.subjects.Create(r.Context(), ownerID(r), req.Title, req.Icon)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSubjectResponse(subject))
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.subjects.Delete(r.Context(), ownerID(r), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteAllSubjects(w http.ResponseWriter, r *http.Request) {
	if err := s.subjects.DeleteAll(r.Context(), ownerID(r)); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleSeedSubjects(w http.ResponseWriter, r *http.Request) {
	if err := s.subjects.SeedDefaults(r.Context(), ownerID(r)); err != nil {
		respondServiceError(w, err)
		return
	}

	result, err := s.subjects.List(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	out := make([]subjectResponse, 0, len(result))
	for _, subject := range result {
		out = append(out, toSubjectResponse(subject))
	}
	respondJSON(w, http.StatusOK, out)
}
