package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"userID":   uuid.New().String(),
		"username": "alice",
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func doRequest(m *AuthMiddleware, wrap func(http.Handler) http.Handler, cookie string) (*httptest.ResponseRecorder, *UserClaims) {
	var seen *UserClaims
	handler := wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/", nil)
	if cookie != "" {
		r.AddCookie(&http.Cookie{Name: "token", Value: cookie})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec, seen
}

func TestRequireAuth_ValidToken(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	token := signToken(t, testSecret, validClaims("customer"))

	rec, claims := doRequest(m, m.RequireAuth, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if claims == nil || claims.Username != "alice" || claims.Role != "customer" {
		t.Errorf("claims not propagated: %+v", claims)
	}
}

func TestRequireAuth_MissingOrBadToken(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	cases := map[string]string{
		"no cookie":    "",
		"garbage":      "not-a-jwt",
		"wrong secret": signToken(t, "other-secret", validClaims("customer")),
		"expired": signToken(t, testSecret, jwt.MapClaims{
			"userID":   uuid.New().String(),
			"username": "alice",
			"role":     "customer",
			"exp":      time.Now().Add(-time.Hour).Unix(),
		}),
	}

	for name, token := range cases {
		rec, _ := doRequest(m, m.RequireAuth, token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	rec, _ := doRequest(m, m.RequireAdmin, signToken(t, testSecret, validClaims("admin")))
	if rec.Code != http.StatusOK {
		t.Errorf("admin token: expected 200, got %d", rec.Code)
	}

	rec, _ = doRequest(m, m.RequireAdmin, signToken(t, testSecret, validClaims("vendor")))
	if rec.Code != http.StatusForbidden {
		t.Errorf("vendor token: expected 403, got %d", rec.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	rec, claims := doRequest(m, m.OptionalAuth, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous: expected 200, got %d", rec.Code)
	}
	if claims != nil {
		t.Errorf("anonymous request should carry no claims, got %+v", claims)
	}

	rec, claims = doRequest(m, m.OptionalAuth, signToken(t, testSecret, validClaims("farmer")))
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated: expected 200, got %d", rec.Code)
	}
	if claims == nil || claims.Role != "farmer" {
		t.Errorf("valid token should attach claims, got %+v", claims)
	}
}
