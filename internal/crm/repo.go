package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/internal/repo"
	"github.com/angelmondragon/funnelsight-backend/pkg/db/models"
	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	"github.com/angelmondragon/funnelsight-backend/pkg/types"
)

// Repository is the CRM read boundary the analytics service consumes, plus
// the two writes the event consumer needs. Aggregation itself never writes.
type Repository interface {
	SpendRecords(ctx context.Context, window analytics.Window) ([]models.SpendRecord, error)
	Leads(ctx context.Context, filters analytics.Filters) ([]models.Lead, error)
	Deals(ctx context.Context, filters analytics.Filters) ([]models.Deal, error)

	FindLead(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	AttachAttribution(ctx context.Context, leadID uuid.UUID, snap *types.AttributionSnapshot) error
	CloseDeal(ctx context.Context, dealID uuid.UUID, status enums.DealStatus, stage enums.DealStage, closedAt time.Time) error
	UpsertSpendRecord(ctx context.Context, record models.SpendRecord) error
}

type repository struct {
	repo.Base
}

// NewRepository builds a CRM repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) SpendRecords(ctx context.Context, window analytics.Window) ([]models.SpendRecord, error) {
	var records []models.SpendRecord
	err := r.DB(ctx).
		Where("date >= ? AND date <= ?", window.From, window.To).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Leads(ctx context.Context, filters analytics.Filters) ([]models.Lead, error) {
	q := r.DB(ctx)
	if filters.OwnerID != nil {
		q = q.Where("owner_id = ?", *filters.OwnerID)
	}

	var leads []models.Lead
	if err := q.Order("created_at ASC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *repository) Deals(ctx context.Context, filters analytics.Filters) ([]models.Deal, error) {
	q := r.DB(ctx)
	if filters.OwnerID != nil {
		q = q.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.Stage != "" {
		q = q.Where("stage = ?", filters.Stage)
	}

	var deals []models.Deal
	if err := q.Order("created_at ASC").Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

func (r *repository) FindLead(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.DB(ctx).Where("id = ?", id).First(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *repository) AttachAttribution(ctx context.Context, leadID uuid.UUID, snap *types.AttributionSnapshot) error {
	updates := map[string]any{"attribution": snap}
	if snap != nil && snap.TrackingID != "" {
		updates["tracking_id"] = snap.TrackingID
	}
	return r.DB(ctx).
		Model(&models.Lead{}).
		Where("id = ?", leadID).
		Updates(updates).Error
}

func (r *repository) CloseDeal(ctx context.Context, dealID uuid.UUID, status enums.DealStatus, stage enums.DealStage, closedAt time.Time) error {
	return r.DB(ctx).
		Model(&models.Deal{}).
		Where("id = ?", dealID).
		Updates(map[string]any{
			"status":    status,
			"stage":     stage,
			"closed_at": closedAt,
		}).Error
}

// UpsertSpendRecord inserts one day of spend, replacing the amount when the
// same source, campaign, ad and date was already imported.
func (r *repository) UpsertSpendRecord(ctx context.Context, record models.SpendRecord) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "source"},
				{Name: "campaign"},
				{Name: "coalesce(ad_id, '')", Raw: true},
				{Name: "date"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"amount_cents"}),
		}).
		Create(&record).Error
}
