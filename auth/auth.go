package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Every stored record is scoped to an owner identity. A session is the
// owner id signed with an HMAC and carried either in a cookie or in an
// "Authorization: Bearer" header for command-line clients.

type ctxKey string

const (
	sessionCookieName = "session"
	ownerIDCtxKey     = ctxKey("ownerID")
	devSecret         = "devsessionsecret"
	sessionTTL        = 14 * 24 * time.Hour
)

// OwnerVerifier is an optional callback that rejects sessions of revoked owners.
type OwnerVerifier func(ctx context.Context, ownerID string) bool

var (
	verifier OwnerVerifier
	secret   = devSecret
)

// SetOwnerVerifier configures the global verifier used by RequireAuth.
func SetOwnerVerifier(v OwnerVerifier) { verifier = v }

// SetSecret replaces the signing key. Empty values keep the dev default.
func SetSecret(s string) {
	if s != "" {
		secret = s
	}
}

// Secret returns the signing key in use.
func Secret() string { return secret }

// IsDevSecret reports whether the built-in development key is still active.
func IsDevSecret() bool { return secret == devSecret }

// Sign returns the session token for ownerID.
func Sign(ownerID string) string {
	return ownerID + "." + signature(ownerID)
}

func signature(ownerID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ownerID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks a token and returns the owner id it carries.
func Verify(token string) (string, bool) {
	i := strings.LastIndex(token, ".")
	if i <= 0 || i == len(token)-1 {
		return "", false
	}
	ownerID, sig := token[:i], token[i+1:]
	if !hmac.Equal([]byte(sig), []byte(signature(ownerID))) {
		return "", false
	}
	return ownerID, true
}

// CreateSession sets a signed cookie with the owner id and returns the token.
func CreateSession(w http.ResponseWriter, ownerID string) string {
	token := Sign(ownerID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
	return token
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the bearer token or the cookie and returns the owner id.
func ParseSession(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return Verify(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
	}
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return Verify(c.Value)
}

// WithOwnerID stores the owner id in context.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDCtxKey, ownerID)
}

// OwnerIDFromContext extracts the owner id.
func OwnerIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerIDCtxKey).(string)
	return id, ok && id != ""
}

// Middleware attaches the owner id to the request context if present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := ParseSession(r); ok {
			r = r.WithContext(WithOwnerID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth answers 401 JSON when no valid session is attached.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := OwnerIDFromContext(r.Context())
		if ok && verifier != nil && !verifier(r.Context(), id) {
			ClearSession(w)
			ok = false
		}
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"unauthorized"}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}
