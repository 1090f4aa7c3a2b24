package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/pkg/db/models"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

type stubSource struct {
	spend []models.SpendRecord
	leads []models.Lead
	deals []models.Deal

	lastWindow  analytics.Window
	lastFilters analytics.Filters
	err         error
}

func (s *stubSource) SpendRecords(_ context.Context, window analytics.Window) ([]models.SpendRecord, error) {
	s.lastWindow = window
	return s.spend, s.err
}

func (s *stubSource) Leads(_ context.Context, filters analytics.Filters) ([]models.Lead, error) {
	s.lastFilters = filters
	return s.leads, s.err
}

func (s *stubSource) Deals(_ context.Context, filters analytics.Filters) ([]models.Deal, error) {
	s.lastFilters = filters
	return s.deals, s.err
}

func (s *stubSource) period() time.Duration {
	return s.lastWindow.To.Sub(s.lastWindow.From)
}

func newTestService(t *testing.T, source *stubSource) *analytics.Service {
	t.Helper()
	service, err := analytics.NewService(source, nil, 0, testLogger(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return service
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func freezeNow(t *testing.T, now time.Time) {
	t.Helper()
	timeNowUTC = func() time.Time { return now }
	t.Cleanup(func() {
		timeNowUTC = func() time.Time { return time.Now().UTC() }
	})
}
