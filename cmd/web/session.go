package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/crucial707/stockroom/internal/models"
)

const cookieName = "stockroom_token"

type sessionKey struct{}

// session is the signed-in user as the API currently sees them. Role comes
// from GET /api/auth/me on every request.
type session struct {
	Token string
	User  models.PublicUser
}

func (s *session) IsAdmin() bool { return s.User.Role == models.RoleAdmin }

func sessionFrom(ctx context.Context) *session {
	s, _ := ctx.Value(sessionKey{}).(*session)
	return s
}

// requireSession loads the caller from the API and sends them to /login when
// the cookie is missing or the token is no longer accepted.
func (a *web) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(cookieName)
		if err != nil || c.Value == "" {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		var me models.PublicUser
		if err := a.api.do(r.Context(), http.MethodGet, "/api/auth/me", c.Value, nil, &me); err != nil {
			if errors.Is(err, errUnauthorized) {
				a.expired(w, r)
				return
			}
			slog.Error("load session", "error", err)
			http.Error(w, "API unavailable", http.StatusBadGateway)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, &session{Token: c.Value, User: me})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// expired clears the cookie and returns to login, remembering where the user was.
func (a *web) expired(w http.ResponseWriter, r *http.Request) {
	clearCookie(w)
	next := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		next = "/dashboard"
	}
	http.Redirect(w, r, "/login?next="+url.QueryEscape(next), http.StatusFound)
}

func setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1})
}
