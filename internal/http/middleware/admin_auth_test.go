package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func serveAdmin(t *testing.T, secret, authorization string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin/providers", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	called := false
	AdminJWT(secret, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := AdminClaimsFromContext(r.Context())
		if !ok {
			t.Fatalf("expected admin claims in context")
		}
		if claims.Subject != "operator" {
			t.Fatalf("unexpected subject %q", claims.Subject)
		}
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	return rec, called
}

func TestAdminJWTMissingSecret(t *testing.T) {
	rec, called := serveAdmin(t, "", "Bearer "+signedAdminToken(t, "secret", time.Minute))
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without reaching handler, got %d", rec.Code)
	}
}

func TestAdminJWTMissingHeader(t *testing.T) {
	rec, called := serveAdmin(t, "secret", "")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without reaching handler, got %d", rec.Code)
	}
}

func TestAdminJWTInvalidToken(t *testing.T) {
	rec, called := serveAdmin(t, "secret", "Bearer "+signedAdminToken(t, "wrong", time.Minute))
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without reaching handler, got %d", rec.Code)
	}
}

func TestAdminJWTExpiredToken(t *testing.T) {
	rec, called := serveAdmin(t, "secret", "Bearer "+signedAdminToken(t, "secret", -time.Minute))
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestAdminJWTRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "operator",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	rec, called := serveAdmin(t, "secret", "Bearer "+signed)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for HS512 token, got %d", rec.Code)
	}
}

func TestAdminJWTValidToken(t *testing.T) {
	rec, called := serveAdmin(t, "secret", "Bearer "+signedAdminToken(t, "secret", 5*time.Minute))
	if !called {
		t.Fatalf("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func signedAdminToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "operator",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
