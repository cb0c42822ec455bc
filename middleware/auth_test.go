package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/divluffy/lightforgaza/config"
	"github.com/divluffy/lightforgaza/models"
	"github.com/divluffy/lightforgaza/utils"
)

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWT{Secret: "test-secret"}}
}

func runAuth(t *testing.T, authz string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if uid, ok := utils.GetUserID(r); !ok || uid == "" {
			t.Error("expected user id in context")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "http://example.local/v1/users/me", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	AuthMiddleware(testConfig())(next).ServeHTTP(rec, req)
	return rec, called
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	rec, called := runAuth(t, "")
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without handler call, got %d called=%v", rec.Code, called)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rec, called := runAuth(t, "Bearer garbage")
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401, got %d called=%v", rec.Code, called)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	token, err := utils.GenerateAccessToken(testConfig().JWT, "u1", models.RoleUser, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	rec, called := runAuth(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 for expired token, got %d called=%v", rec.Code, called)
	}
}

func TestAuthMiddleware_AdminTokenBlocked(t *testing.T) {
	token, err := utils.GenerateAccessToken(testConfig().JWT, "a1", models.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	rec, called := runAuth(t, "Bearer "+token)
	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("expected 403 for admin token, got %d called=%v", rec.Code, called)
	}
}

func TestAuthMiddleware_ValidUserToken(t *testing.T) {
	token, err := utils.GenerateAccessToken(testConfig().JWT, "u1", models.RoleUser, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	rec, called := runAuth(t, "Bearer "+token)
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected handler to run, got %d called=%v", rec.Code, called)
	}
}
