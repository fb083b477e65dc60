package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tilehub/tilehub-go/internal/crypto"
)

const testSecret = "test-secret"

// echoIdentity records whether an identity was attached to the request.
func echoIdentity(t *testing.T) (http.Handler, *Identity, *bool) {
	t.Helper()
	ident := &Identity{}
	called := new(bool)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if got, ok := IdentityFromContext(r.Context()); ok {
			*ident = got
		}
		w.WriteHeader(http.StatusOK)
	})
	return h, ident, called
}

func doRequest(t *testing.T, mw func(http.Handler) http.Handler, authHeader string) (*httptest.ResponseRecorder, *Identity, *bool) {
	t.Helper()
	next, ident, called := echoIdentity(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req)
	return rec, ident, called
}

func causeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body["code"]
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _, called := doRequest(t, JWTAuth(testSecret), "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if code := causeCode(t, rec); code != CodeTokenMissing {
		t.Errorf("cause code = %q, want %q", code, CodeTokenMissing)
	}
	if *called {
		t.Error("next handler should not be called")
	}
}

func TestJWTAuthBadScheme(t *testing.T) {
	rec, _, called := doRequest(t, JWTAuth(testSecret), "Basic dXNlcjpwYXNz")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if code := causeCode(t, rec); code != CodeTokenMissing {
		t.Errorf("cause code = %q, want %q", code, CodeTokenMissing)
	}
	if *called {
		t.Error("next handler should not be called")
	}
}

func TestJWTAuthMalformedToken(t *testing.T) {
	rec, _, _ := doRequest(t, JWTAuth(testSecret), "Bearer not-a-token")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if code := causeCode(t, rec); code != CodeTokenMalformed {
		t.Errorf("cause code = %q, want %q", code, CodeTokenMalformed)
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	token, err := crypto.GenerateToken(7, "tester@example.com", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	rec, _, _ := doRequest(t, JWTAuth(testSecret), "Bearer "+token)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if code := causeCode(t, rec); code != CodeTokenExpired {
		t.Errorf("cause code = %q, want %q", code, CodeTokenExpired)
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	token, err := crypto.GenerateToken(7, "tester@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	rec, ident, called := doRequest(t, JWTAuth(testSecret), "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !*called {
		t.Fatal("next handler was not called")
	}
	if ident.UserID != 7 {
		t.Errorf("identity user id = %d, want 7", ident.UserID)
	}
	if ident.Email != "tester@example.com" {
		t.Errorf("identity email = %q, want %q", ident.Email, "tester@example.com")
	}
}

func TestOptionalJWTAuthNoHeader(t *testing.T) {
	rec, ident, called := doRequest(t, OptionalJWTAuth(testSecret), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !*called {
		t.Fatal("next handler was not called")
	}
	if ident.UserID != 0 || ident.Email != "" {
		t.Errorf("identity = %+v, want zero value", *ident)
	}
}

func TestOptionalJWTAuthWithToken(t *testing.T) {
	token, err := crypto.GenerateToken(9, "opt@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	rec, ident, _ := doRequest(t, OptionalJWTAuth(testSecret), "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ident.UserID != 9 {
		t.Errorf("identity user id = %d, want 9", ident.UserID)
	}
}

func TestOptionalJWTAuthBadToken(t *testing.T) {
	rec, _, called := doRequest(t, OptionalJWTAuth(testSecret), "Bearer broken")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if *called {
		t.Error("next handler should not be called for a broken token")
	}
}
