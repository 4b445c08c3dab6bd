package auth

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/diewo77/go-energy/internal/httpx"
)

// Middleware resolves the session token (header or cookie) and, if valid,
// attaches the user id to the request context. It never rejects a request
// on its own; RequireAuth does that.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, fromCookie := TokenFromRequest(r)
		if uid, ok := s.Lookup(r.Context(), token); ok {
			ctx := WithUserID(r.Context(), uid)
			if fromCookie {
				ctx = withCookieAuth(ctx)
			}
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests that carry no authenticated identity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			httpx.Detail(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewCSRFToken mints an anti-forgery token.
func NewCSRFToken() string {
	return uuid.NewString()
}

// SetCSRFCookie exposes the token to the client. Not HttpOnly: the client
// must read it back into the X-CSRF-Token header (double-submit scheme).
func SetCSRFCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

// CSRFMiddleware enforces the double-submit check on state-changing requests
// whose identity came from the session cookie. Header-authenticated requests
// are exempt: an attacker cannot set the Authorization header cross-site.
func CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if authenticatedViaCookie(r.Context()) {
				c, err := r.Cookie(CSRFCookieName)
				if err != nil || c.Value == "" || r.Header.Get(CSRFHeaderName) != c.Value {
					httpx.Detail(w, http.StatusForbidden, "CSRF token missing or invalid.")
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
