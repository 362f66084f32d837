package api

import (
	"context"
	"net/http"
	"time"

	"github.com/paddocklab/racing-admin/shared/api"
	"github.com/paddocklab/racing-admin/shared/session"
)

// requestContext bounds a handler's downstream calls.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

// RequireSession rejects requests whose session cookie does not resolve to a
// live session.
func (h *AdminAPIHandlers) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := h.sessionToken(r)
		if token == "" {
			api.WriteUnauthorized(w, "Authentication required")
			return
		}

		ctx, cancel := requestContext(r)
		defer cancel()

		if _, err := h.Sessions.Retrieve(ctx, token); err != nil {
			api.WriteUnauthorized(w, "Authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sessionToken pulls the token from the session cookie, falling back to the
// Authorization bearer header for non-browser clients.
func (h *AdminAPIHandlers) sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

func (h *AdminAPIHandlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.CookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AdminAPIHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
