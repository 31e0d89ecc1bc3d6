// internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gurkanbulca/projecttracker/pkg/auth"
	"github.com/gurkanbulca/projecttracker/pkg/logger"
)

// SessionCookie is the cookie consulted when no Authorization header is sent.
const SessionCookie = "session"

// Authenticator rejects requests without a valid session token
type Authenticator struct {
	tokenManager *auth.TokenManager
	loginURL     string
}

// NewAuthenticator creates a new authenticator. Browser clients without a
// session are redirected to loginURL.
func NewAuthenticator(tokenManager *auth.TokenManager, loginURL string) *Authenticator {
	return &Authenticator{
		tokenManager: tokenManager,
		loginURL:     loginURL,
	}
}

// Middleware wraps next so that it only runs for authenticated requests
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.authenticate(r)
		if err != nil {
			logger.FromContext(r.Context()).Debug("unauthenticated request", "path", r.URL.Path, "error", err)
			a.reject(w, r)
			return
		}

		ctx := ContextWithUser(r.Context(), claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate extracts and validates the token from the header or cookie
func (a *Authenticator) authenticate(r *http.Request) (*auth.SessionClaims, error) {
	var token string

	if header := r.Header.Get("Authorization"); header != "" {
		t, err := auth.ExtractTokenFromHeader(header)
		if err != nil {
			return nil, err
		}
		token = t
	} else if c, err := r.Cookie(SessionCookie); err == nil {
		token = c.Value
	}

	if token == "" {
		return nil, auth.ErrInvalidToken
	}

	return a.tokenManager.ValidateToken(token)
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request) {
	if WantsJSON(r) || a.loginURL == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Unauthenticated."})
		return
	}
	http.Redirect(w, r, a.loginURL, http.StatusFound)
}

// ContextWithUser stores the acting user id
func ContextWithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// GetUserIDFromContext extracts the acting user id from context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(int64)
	return userID, ok
}
