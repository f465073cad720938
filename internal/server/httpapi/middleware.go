package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/jkalnina/docshelf/internal/server/auth"
)

type ctxKey string

const ownerIDKey ctxKey = "ownerID"

// ownerTokenMiddleware extracts the owner id from the Authorization bearer
// token and stores it in the request context. Every route behind it requires
// a valid token; the middleware never touches the stores.
func (s *Server) ownerTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			respondError(w, http.StatusUnauthorized, "missing token")
			return
		}

		ownerID, err := auth.GetOwnerIDFromToken(token, s.jwtSecret)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerID returns the owner identifier placed by ownerTokenMiddleware.
func ownerID(r *http.Request) string {
	id, _ := r.Context().Value(ownerIDKey).(string)
	return id
}
