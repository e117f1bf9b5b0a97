package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// Claims are the identity-provider token claims we care about.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type contextKey string

const userIDKey contextKey = "userID"

// UserID extracts the authenticated user from the request context.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func (s *Server) parseToken(authHeader string) (*Claims, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(authHeader[7:], claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, false
	}
	return claims, true
}

// authenticate rejects requests without a valid identity-provider token and
// stores the user id in the request context.
func (s *Server) authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, ok := s.parseToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next(w, r.WithContext(ctx), ps)
	}
}

// optionalAuth attaches the user id when a valid token is present and
// proceeds either way. The availability calendar renders for signed-out
// visitors too; their own bookings just aren't highlighted.
func (s *Server) optionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, ok := s.parseToken(r.Header.Get("Authorization")); ok {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, claims.UserID))
		}
		next(w, r, ps)
	}
}

// requireAPIKey guards admin endpoints with a static key header.
func (s *Server) requireAPIKey(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if s.adminAPIKey == "" || r.Header.Get("x-api-key") != s.adminAPIKey {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next(w, r, ps)
	}
}
