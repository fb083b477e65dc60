package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/tilehub/tilehub-go/internal/crypto"
)

type contextKey string

const identityKey contextKey = "identity"

// Cause codes returned alongside 401 responses so clients can
// distinguish a missing token from an expired or broken one.
const (
	CodeTokenMissing   = "TOKEN_MISSING"
	CodeTokenExpired   = "TOKEN_EXPIRED"
	CodeTokenMalformed = "TOKEN_MALFORMED"
)

// Identity is the authenticated principal attached to the request context.
type Identity struct {
	UserID int64
	Email  string
}

// JWTAuth returns middleware that validates a Bearer token from the Authorization header.
// Requests without a valid token are rejected with 401 and a cause code.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, code := authenticate(r, secret)
			if code != "" {
				writeAuthError(w, code)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTAuth behaves like JWTAuth when an Authorization header is present,
// but lets the request through with no identity when it is absent.
func OptionalJWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			ident, code := authenticate(r, secret)
			if code != "" {
				writeAuthError(w, code)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate extracts and verifies the bearer token. It returns the
// identity on success or a cause code on failure.
func authenticate(r *http.Request, secret string) (Identity, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Identity{}, CodeTokenMissing
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return Identity{}, CodeTokenMissing
	}

	claims, err := crypto.ValidateToken(token, secret)
	if err != nil {
		if errors.Is(err, crypto.ErrTokenExpired) {
			return Identity{}, CodeTokenExpired
		}
		return Identity{}, CodeTokenMalformed
	}

	return Identity{UserID: claims.UserID, Email: claims.Email}, ""
}

// IdentityFromContext extracts the authenticated identity from the request context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey).(Identity)
	return ident, ok
}

func writeAuthError(w http.ResponseWriter, code string) {
	messages := map[string]string{
		CodeTokenMissing:   "missing bearer token",
		CodeTokenExpired:   "token expired",
		CodeTokenMalformed: "invalid token",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": messages[code], "code": code})
}
