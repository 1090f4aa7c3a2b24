package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/internal/attribution"
	"github.com/angelmondragon/funnelsight-backend/internal/spend"
	"github.com/angelmondragon/funnelsight-backend/pkg/config"
	"github.com/angelmondragon/funnelsight-backend/pkg/db/models"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
	"github.com/angelmondragon/funnelsight-backend/pkg/redis"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubSource struct{}

func (stubSource) SpendRecords(context.Context, analytics.Window) ([]models.SpendRecord, error) {
	return nil, nil
}
func (stubSource) Leads(context.Context, analytics.Filters) ([]models.Lead, error) {
	return nil, nil
}
func (stubSource) Deals(context.Context, analytics.Filters) ([]models.Deal, error) {
	return nil, nil
}

func (stubSource) UpsertSpendRecord(context.Context, models.SpendRecord) error {
	return nil
}

type memoryKV struct {
	entries map[string]string
}

func (m *memoryKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if payload, ok := value.([]byte); ok {
		m.entries[key] = string(payload)
	}
	return nil
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	raw, ok := m.entries[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return raw, nil
}

func (m *memoryKV) AttributionKey(trackingID string) string {
	return "fs:attribution:" + trackingID
}

func testRouter(t *testing.T, dbErr error) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Attribution.CookieName = "fs_tid"
	cfg.Analytics.DefaultObservationDays = 90
	logg := logger.New(logger.Options{ServiceName: "test"})

	store, err := attribution.NewStore(&memoryKV{entries: map[string]string{}}, logg, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	service, err := analytics.NewService(stubSource{}, nil, 0, logg, nil)
	if err != nil {
		t.Fatal(err)
	}
	importer, err := spend.NewImporter(stubSource{}, logg)
	if err != nil {
		t.Fatal(err)
	}

	return NewRouter(cfg, logg, stubPinger{err: dbErr}, stubPinger{}, prometheus.NewRegistry(), store, service, importer)
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(t, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got := resp.Header().Get("X-FunnelSight-Env"); got != "test" {
		t.Fatalf("env header = %q", got)
	}
}

func TestRouterHealthReadyReportsDependencyFailure(t *testing.T) {
	router := testRouter(t, errors.New("connection refused"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when database is down, got %d", resp.Code)
	}
}

func TestRouterServesAnalyticsEndpoints(t *testing.T) {
	router := testRouter(t, nil)

	for _, path := range []string{
		"/api/v1/analytics/attribution",
		"/api/v1/analytics/kpis",
		"/api/v1/analytics/funnel",
		"/api/v1/analytics/trends",
		"/api/v1/analytics/cohorts",
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s returned %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestRouterTrackingAnswersPreflight(t *testing.T) {
	router := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/track/visit", nil)
	req.Header.Set("Origin", "https://customer.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("preflight status = %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Fatal("expected allow-origin header on preflight")
	}
}

func TestRouterTrackVisit(t *testing.T) {
	router := testRouter(t, nil)

	body := `{"page_url":"https://example.com/?utm_source=google"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/track/visit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("track visit status = %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	router := testRouter(t, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.Code)
	}
}
