package attribution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
	"github.com/angelmondragon/funnelsight-backend/pkg/redis"
	"github.com/angelmondragon/funnelsight-backend/pkg/types"
)

type snapshotKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	AttributionKey(trackingID string) string
}

// Store holds each visitor's current attribution snapshot, keyed by tracking
// id, with the first-touch merge policy applied on every new capture.
type Store struct {
	kv   snapshotKV
	logg *logger.Logger
	ttl  time.Duration
}

// NewStore builds a snapshot store backed by the shared Redis client.
func NewStore(kv snapshotKV, logg *logger.Logger, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	return &Store{kv: kv, logg: logg, ttl: ttl}, nil
}

// Track captures the attribution signal of a page visit and merges it into
// the visitor's stored snapshot. The merged snapshot is returned so the
// tracking endpoint can echo it back.
func (s *Store) Track(ctx context.Context, trackingID, pageURL string) (types.AttributionSnapshot, error) {
	incoming := Capture(ctx, s.logg, trackingID, pageURL)

	existing, err := s.load(ctx, trackingID)
	if err != nil {
		return types.AttributionSnapshot{}, err
	}

	merged := Merge(existing, incoming)
	if err := s.save(ctx, trackingID, merged); err != nil {
		return types.AttributionSnapshot{}, err
	}
	return merged, nil
}

// ForLeadCreation returns the visitor's current snapshot without mutating
// it, or nil when the visitor has no stored attribution (organic lead).
func (s *Store) ForLeadCreation(ctx context.Context, trackingID string) (*types.AttributionSnapshot, error) {
	return s.load(ctx, trackingID)
}

func (s *Store) load(ctx context.Context, trackingID string) (*types.AttributionSnapshot, error) {
	raw, err := s.kv.Get(ctx, s.kv.AttributionKey(trackingID))
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading attribution snapshot: %w", err)
	}

	var snap types.AttributionSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decoding attribution snapshot: %w", err)
	}
	return &snap, nil
}

func (s *Store) save(ctx context.Context, trackingID string, snap types.AttributionSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding attribution snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.AttributionKey(trackingID), payload, s.ttl); err != nil {
		return fmt.Errorf("storing attribution snapshot: %w", err)
	}
	return nil
}
