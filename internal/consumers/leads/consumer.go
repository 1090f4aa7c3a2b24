package leads

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
	"github.com/angelmondragon/funnelsight-backend/pkg/types"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 200 * time.Millisecond
)

type attributionAttacher interface {
	AttachAttribution(ctx context.Context, leadID uuid.UUID, snap *types.AttributionSnapshot) error
	CloseDeal(ctx context.Context, dealID uuid.UUID, status enums.DealStatus, stage enums.DealStage, closedAt time.Time) error
}

type snapshotProvider interface {
	ForLeadCreation(ctx context.Context, trackingID string) (*types.AttributionSnapshot, error)
}

// Consumer applies CRM events to stored leads and deals. On lead creation it
// attaches the visitor's current attribution snapshot; on deal updates it
// stamps the close time when a deal reaches a terminal status.
type Consumer struct {
	repo           attributionAttacher
	snapshots      snapshotProvider
	logg           *logger.Logger
	maxAttempts    int
	initialBackoff time.Duration
}

// NewConsumer builds a CRM event consumer.
func NewConsumer(repo attributionAttacher, snapshots snapshotProvider, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("crm repository required")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:           repo,
		snapshots:      snapshots,
		logg:           logg,
		maxAttempts:    defaultMaxAttempts,
		initialBackoff: defaultInitialBackoff,
	}, nil
}

// Process handles one envelope. Unknown event types are acknowledged and
// skipped so new producers never wedge the subscription.
func (c *Consumer) Process(ctx context.Context, envelope Envelope) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": envelope.EventType,
	})

	switch envelope.EventType {
	case EventLeadCreated:
		return c.handleLeadCreated(logCtx, envelope)
	case EventDealUpdated:
		return c.handleDealUpdated(logCtx, envelope)
	default:
		c.logg.Info(logCtx, "event not handled by leads consumer")
		return nil
	}
}

func (c *Consumer) handleLeadCreated(ctx context.Context, envelope Envelope) error {
	var payload LeadCreatedPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return fmt.Errorf("decode lead_created payload: %w", err)
	}
	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("parse lead id: %w", err)
	}
	if payload.TrackingID == "" {
		c.logg.Info(ctx, "lead created without tracking id, staying organic")
		return nil
	}

	snap, err := c.snapshots.ForLeadCreation(ctx, payload.TrackingID)
	if err != nil {
		return fmt.Errorf("loading snapshot for lead: %w", err)
	}
	if snap == nil {
		c.logg.Info(ctx, "no snapshot stored for tracking id, staying organic")
		return nil
	}

	if err := c.withRetry(ctx, func() error {
		return c.repo.AttachAttribution(ctx, leadID, snap)
	}); err != nil {
		c.logg.Error(ctx, "failed to attach attribution", err)
		return err
	}

	c.logg.Info(c.logg.WithTrackingID(ctx, payload.TrackingID), "attribution attached to lead")
	return nil
}

func (c *Consumer) handleDealUpdated(ctx context.Context, envelope Envelope) error {
	var payload DealUpdatedPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return fmt.Errorf("decode deal_updated payload: %w", err)
	}
	dealID, err := uuid.Parse(payload.DealID)
	if err != nil {
		return fmt.Errorf("parse deal id: %w", err)
	}

	status := enums.DealStatus(payload.Status)
	if status != enums.DealStatusWon && status != enums.DealStatusLost {
		c.logg.Info(ctx, "deal update is not terminal, nothing to stamp")
		return nil
	}
	stage, err := enums.ParseDealStage(payload.Stage)
	if err != nil {
		return fmt.Errorf("deal_updated: %w", err)
	}

	closedAt := envelope.OccurredAt.UTC()
	if closedAt.IsZero() {
		closedAt = time.Now().UTC()
	}

	if err := c.withRetry(ctx, func() error {
		return c.repo.CloseDeal(ctx, dealID, status, stage, closedAt)
	}); err != nil {
		c.logg.Error(ctx, "failed to close deal", err)
		return err
	}

	c.logg.Info(ctx, "deal close stamped")
	return nil
}

// withRetry runs fn with bounded doubling backoff. Context cancellation cuts
// the wait short.
func (c *Consumer) withRetry(ctx context.Context, fn func() error) error {
	backoff := c.initialBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt >= c.maxAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
