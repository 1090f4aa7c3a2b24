package crm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/pkg/db/models"
	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	"github.com/angelmondragon/funnelsight-backend/pkg/types"
)

func setupCRMTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	leads := `
CREATE TABLE IF NOT EXISTS leads (
  id TEXT PRIMARY KEY,
  owner_id TEXT,
  status TEXT NOT NULL DEFAULT 'new',
  tracking_id TEXT,
  attribution TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	deals := `
CREATE TABLE IF NOT EXISTS deals (
  id TEXT PRIMARY KEY,
  lead_id TEXT NOT NULL,
  owner_id TEXT,
  stage TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'open',
  value_cents INTEGER NOT NULL DEFAULT 0,
  closed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	spendRecords := `
CREATE TABLE IF NOT EXISTS spend_records (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  campaign TEXT NOT NULL,
  ad_id TEXT,
  date DATETIME NOT NULL,
  amount_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	spendUnique := `
CREATE UNIQUE INDEX IF NOT EXISTS uniq_spend_records_day
  ON spend_records (source, campaign, coalesce(ad_id, ''), date);`
	require.NoError(t, db.Exec(leads).Error)
	require.NoError(t, db.Exec(deals).Error)
	require.NoError(t, db.Exec(spendRecords).Error)
	require.NoError(t, db.Exec(spendUnique).Error)
	return db
}

func createLead(t *testing.T, db *gorm.DB, ownerID *uuid.UUID, created time.Time, snap *types.AttributionSnapshot) *models.Lead {
	t.Helper()

	lead := &models.Lead{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Status:      enums.LeadStatusNew,
		Attribution: snap,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

func createDeal(t *testing.T, db *gorm.DB, leadID uuid.UUID, stage enums.DealStage, status enums.DealStatus, created time.Time) *models.Deal {
	t.Helper()

	deal := &models.Deal{
		ID:         uuid.New(),
		LeadID:     leadID,
		Stage:      stage,
		Status:     status,
		ValueCents: 10000,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

func createSpend(t *testing.T, db *gorm.DB, source string, date time.Time, cents int64) {
	t.Helper()

	record := &models.SpendRecord{
		ID:          uuid.New(),
		Source:      source,
		Campaign:    "campaign",
		Date:        date,
		AmountCents: cents,
		CreatedAt:   date,
	}
	require.NoError(t, db.Create(record).Error)
}

func TestRepositorySpendRecordsWindow(t *testing.T) {
	db := setupCRMTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	createSpend(t, db, "google", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 1000)
	createSpend(t, db, "google", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 2000)
	createSpend(t, db, "google", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 4000)

	records, err := repo.SpendRecords(ctx, analytics.Window{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1000), records[0].AmountCents)
	assert.Equal(t, int64(2000), records[1].AmountCents)
}

func TestRepositoryLeadsOwnerFilter(t *testing.T) {
	db := setupCRMTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	owner := uuid.New()
	other := uuid.New()
	createLead(t, db, &owner, now, nil)
	createLead(t, db, &other, now, nil)
	createLead(t, db, nil, now, nil)

	all, err := repo.Leads(ctx, analytics.Filters{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.Leads(ctx, analytics.Filters{OwnerID: &owner})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, owner, *mine[0].OwnerID)
}

func TestRepositoryLeadsRoundTripAttribution(t *testing.T) {
	db := setupCRMTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	snap := &types.AttributionSnapshot{
		TrackingID:  "tid-7",
		UTM:         types.UTMFields{Source: "google", Campaign: "brand"},
		PlatformIDs: map[string]string{"google": "g-1"},
	}
	lead := createLead(t, db, nil, time.Now().UTC(), snap)

	found, err := repo.FindLead(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Attribution)
	assert.Equal(t, "google", found.Attribution.UTM.Source)
	assert.Equal(t, "g-1", found.Attribution.PlatformIDs["google"])
}

func TestRepositoryDealsStageFilter(t *testing.T) {
	db := setupCRMTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	lead := createLead(t, db, nil, now, nil)
	createDeal(t, db, lead.ID, enums.DealStageProposal, enums.DealStatusOpen, now)
	createDeal(t, db, lead.ID, enums.DealStageNegotiation, enums.DealStatusOpen, now)

	deals, err := repo.Deals(ctx, analytics.Filters{Stage: enums.DealStageProposal})
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, enums.DealStageProposal, deals[0].Stage)
}

func TestRepositoryAttachAttribution(t *testing.T) {
	db := setupCRMTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	lead := createLead(t, db, nil, time.Now().UTC(), nil)
	snap := &types.AttributionSnapshot{
		TrackingID: "tid-9",
		UTM:        types.UTMFields{Source: "facebook"},
	}

	require.NoError(t, repo.AttachAttribution(ctx, lead.ID, snap))

	found, err := repo.FindLead(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Attribution)
	assert.Equal(t, "facebook", found.Attribution.UTM.Source)
	require.NotNil(t, found.TrackingID)
	assert.Equal(t, "tid-9", *found.TrackingID)
}

func TestRepositoryCloseDeal(t *testing.T) {
	db := setupCRMTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	lead := createLead(t, db, nil, now, nil)
	deal := createDeal(t, db, lead.ID, enums.DealStageNegotiation, enums.DealStatusOpen, now)

	closedAt := now.Add(time.Hour).Truncate(time.Second)
	require.NoError(t, repo.CloseDeal(ctx, deal.ID, enums.DealStatusWon, enums.DealStageClosedWon, closedAt))

	var found models.Deal
	require.NoError(t, db.Where("id = ?", deal.ID).First(&found).Error)
	assert.Equal(t, enums.DealStatusWon, found.Status)
	assert.Equal(t, enums.DealStageClosedWon, found.Stage)
	require.NotNil(t, found.ClosedAt)
	assert.WithinDuration(t, closedAt, *found.ClosedAt, time.Second)
}

func TestRepositoryUpsertSpendRecordReplacesAmount(t *testing.T) {
	db := setupCRMTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	adID := "ad-1"
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	first := models.SpendRecord{
		ID:          uuid.New(),
		Source:      "google",
		Campaign:    "brand",
		AdID:        &adID,
		Date:        day,
		AmountCents: 1000,
	}
	require.NoError(t, repo.UpsertSpendRecord(ctx, first))

	corrected := first
	corrected.ID = uuid.New()
	corrected.AmountCents = 2500
	require.NoError(t, repo.UpsertSpendRecord(ctx, corrected))

	records, err := repo.SpendRecords(ctx, analytics.Window{
		From: day.Add(-time.Hour),
		To:   day.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(2500), records[0].AmountCents)
}
