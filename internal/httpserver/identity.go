package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/robalobadob/herding/internal/auth"
	"github.com/robalobadob/herding/internal/store"
)

const anonCookieName = "herding_anon"

// authUser is placed into request context by withOptionalAuth.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ctxUserKey struct{}

func currentUser(r *http.Request) *authUser {
	u, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return u
}

// withOptionalAuth decorates requests with the user when a valid token is
// present. It never rejects; guests keep playing anonymously.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.bearerOrCookie(r); tok != "" {
			if claims, err := s.tokens.Parse(tok); err == nil {
				ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: claims.ID, Username: claims.Username})
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without a user whose account still exists.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		me := currentUser(r)
		if me == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if _, err := s.accounts.FindByID(r.Context(), me.ID); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerOrCookie extracts a token from the Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ensureAnonID returns the anonymous cookie id, issuing one if missing.
// A freshly issued id is also attached to r, so later calls while handling
// the same request agree on it and only one cookie is set.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := auth.NewID()
	s.setCookie(w, anonCookieName, id, time.Now().Add(180*24*time.Hour))
	r.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	return id
}

// playerID is the identity results are keyed by: the account if logged in,
// the anonymous cookie otherwise.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

// owns reports whether the requester created the session.
func (s *Server) owns(r *http.Request, sess *store.Session) bool {
	if me := currentUser(r); me != nil && sess.UserID != "" && me.ID == sess.UserID {
		return true
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value != "" && c.Value == sess.OwnerID
}

func (s *Server) setCookie(w http.ResponseWriter, name, value string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production() {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production(),
		SameSite: sameSite,
		Expires:  exp,
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production(),
		MaxAge:   -1,
	})
}
