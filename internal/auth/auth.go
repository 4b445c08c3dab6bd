// Package auth implements server-side session authentication: an opaque
// random token handed to the client (cookie or Authorization header) that
// resolves to a session row holding the user id. The row, not the token, is
// the authorization anchor.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"
)

type ctxKey string

const (
	SessionCookieName = "session"
	CSRFCookieName    = "csrftoken"
	CSRFHeaderName    = "X-CSRF-Token"

	userIDCtxKey     = ctxKey("userID")
	cookieAuthCtxKey = ctxKey("cookieAuth")
)

// NewToken returns a fresh opaque session token: 32 random bytes,
// URL-safe base64.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// WithUserID stores the authenticated user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts the authenticated user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	return id, ok
}

func withCookieAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, cookieAuthCtxKey, true)
}

// authenticatedViaCookie reports whether the request identity came from the
// session cookie rather than the Authorization header. Only cookie-borne
// sessions are subject to CSRF checks.
func authenticatedViaCookie(ctx context.Context) bool {
	v, _ := ctx.Value(cookieAuthCtxKey).(bool)
	return v
}

// TokenFromRequest extracts the session token, preferring the Authorization
// header over the cookie.
func TokenFromRequest(r *http.Request) (token string, fromCookie bool) {
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):], false
	}
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// SetSessionCookie attaches the session token to the response.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

// ClearSessionCookie deletes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
}
