package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jkalnina/docshelf/internal/server/models"
)

type profileResponse struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Section string `json:"section"`
	School  string `json:"school"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	return profileResponse{
		OwnerID: p.OwnerID,
		Name:    p.Name,
		Section: p.Section,
		School:  p.School,
	}
}

type updateProfileRequest struct {
	Name    string `json:"name"`
	Section string `json:"section"`
	School  string `json:"school"`
}

type avatarResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.profiles.Ensure(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := s.profiles.Update(r.Context(), ownerID(r), req.Name, req.Section, req.School)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file part")
		return
	}

	if err := s.profiles.UploadAvatar(r.Context(), ownerID(r), data, header.Header.Get("Content-Type")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAvatarURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.profiles.AvatarURL(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, avatarResponse{URL: url})
}
