package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jkalnina/docshelf/internal/server/models"
	"github.com/jkalnina/docshelf/internal/server/services"
)

// maxUploadBytes caps one multipart upload. Content beyond the cap fails the
// read; nothing is stored.
const maxUploadBytes = 64 << 20

type fileResponse struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

func toFileResponse(f *models.File) fileResponse {
	return fileResponse{
		ID:        f.ID,
		SubjectID: f.SubjectID,
		Category:  string(f.Category),
		Title:     f.Title,
		MimeType:  f.MimeType,
		SizeBytes: f.SizeBytes,
		CreatedAt: f.CreatedAt,
	}
}

type previewResponse struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	MimeType string `json:"mime_type"`
}

type renameFileRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	subjectID := mux.Vars(r)["id"]
	category := models.Category(r.URL.Query().Get("category"))

	result, err := s.files.List(r.Context(), ownerID(r), subjectID, category)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]fileResponse, 0, len(result))
	for _, f := range result {
		out = append(out, toFileResponse(f))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	subjectID := mux.Vars(r)["id"]
	category := models.Category(r.URL.Query().Get("category"))

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

	file, err := s.files.Upload(r.Context(), ownerID(r), subjectID, category, services.Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toFileResponse(file))
}

func (s *Server) handleRenameFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req renameFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.files.Rename(r.Context(), ownerID(r), id, req.Title); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := s.files.Delete(r.Context(), ownerID(r), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handlePreviewFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	preview, err := s.files.Preview(r.Context(), ownerID(r), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, previewResponse{
		URL:      preview.URL,
		Title:    preview.Title,
		MimeType: preview.MimeType,
	})
}
