package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/adeyemimuse/sproutvest-backend/pkg/auth"
	"github.com/adeyemimuse/sproutvest-backend/pkg/config"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "sproutvest-test",
			ExpirationMinutes: 15,
		},
		Webhooks: config.WebhooksConfig{
			StripeSigningSecret:   "whsec_test",
			FlutterwaveSecretHash: "flw_test",
			CorrelationSecret:     "corr_test",
			MaxBodyBytes:          1 << 20,
			DedupeTTL:             time.Hour,
		},
	}
}

func mintToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterHealthLive(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig()})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := rec.Header().Get("X-SproutVest-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/investments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestRouterAdminRoutesRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := NewRouter(Deps{Config: cfg})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/audit", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleInvestor))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for investor on admin route, got %d", rec.Code)
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	router := NewRouter(Deps{Config: testConfig()})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics endpoint, got %d", rec.Code)
	}
}
