package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/auth"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "flowermarket-test",
			ExpirationMinutes: 30,
		},
	}
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{Config: testConfig()})
}

func TestHealthLiveIsPublic(t *testing.T) {
	t.Parallel()
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCartRequiresAuthentication(t *testing.T) {
	t.Parallel()
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/Cart/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminRoutesRejectClients(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	router := NewRouter(Deps{Config: cfg})

	token, err := auth.MintAccessToken(cfg.JWT, time.Now(), auth.AccessTokenPayload{
		UserID: "user-1",
		Role:   enums.RoleClient,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestMarketOrderRoutesRequireAuth(t *testing.T) {
	t.Parallel()
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/market/orders/42", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on protected route, got %d", rec.Code)
	}
}
