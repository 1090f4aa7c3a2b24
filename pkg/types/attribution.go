package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// UTMFields carries the recognized UTM query parameters. Empty string means
// the parameter was absent on capture.
type UTMFields struct {
	Source   string `json:"source,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Term     string `json:"term,omitempty"`
	Content  string `json:"content,omitempty"`
}

// AttributionSnapshot is the immutable attribution signal captured from a
// visitor. PlatformIDs maps an ad platform name to its click identifier
// (e.g. "google" -> gclid value). A snapshot is never mutated in place; the
// store's merge policy produces a new value.
type AttributionSnapshot struct {
	TrackingID  string            `json:"tracking_id"`
	UTM         UTMFields         `json:"utm"`
	PlatformIDs map[string]string `json:"platform_ids,omitempty"`
	CapturedAt  time.Time         `json:"captured_at"`
}

// IsEmpty reports whether the snapshot carries no attribution signal at all.
func (s AttributionSnapshot) IsEmpty() bool {
	return s.UTM == UTMFields{} && len(s.PlatformIDs) == 0
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing the platform id map.
func (s AttributionSnapshot) Clone() AttributionSnapshot {
	out := s
	if s.PlatformIDs != nil {
		out.PlatformIDs = make(map[string]string, len(s.PlatformIDs))
		for k, v := range s.PlatformIDs {
			out.PlatformIDs[k] = v
		}
	}
	return out
}

// Value marshals the snapshot into a JSONB column.
func (s AttributionSnapshot) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("attribution snapshot: %w", err)
	}
	return string(b), nil
}

// Scan decodes a JSONB column back into the snapshot.
func (s *AttributionSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = AttributionSnapshot{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("attribution snapshot: unsupported scan type %T", value)
	}

	if len(raw) == 0 {
		*s = AttributionSnapshot{}
		return nil
	}
	return json.Unmarshal(raw, s)
}
