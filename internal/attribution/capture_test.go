package attribution

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/funnelsight-backend/pkg/types"
)

func TestCaptureParsesUTMAndClickIDs(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	restore := timeNowUTC
	timeNowUTC = func() time.Time { return fixed }
	defer func() { timeNowUTC = restore }()

	snap := Capture(context.Background(), nil, "tid-1",
		"https://example.com/landing?utm_source=Google&utm_medium=cpc&utm_campaign=spring&gclid=abc123&fbclid=def456")

	if snap.TrackingID != "tid-1" {
		t.Fatalf("tracking id = %q", snap.TrackingID)
	}
	if !snap.CapturedAt.Equal(fixed) {
		t.Fatalf("captured at = %v", snap.CapturedAt)
	}
	if snap.UTM.Source != "Google" || snap.UTM.Medium != "cpc" || snap.UTM.Campaign != "spring" {
		t.Fatalf("utm = %+v", snap.UTM)
	}
	if snap.PlatformIDs["google"] != "abc123" || snap.PlatformIDs["facebook"] != "def456" {
		t.Fatalf("platform ids = %v", snap.PlatformIDs)
	}
}

func TestCaptureMalformedURLYieldsEmptySnapshot(t *testing.T) {
	snap := Capture(context.Background(), nil, "tid-2", "http://%zz invalid")
	if !snap.IsEmpty() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
	if snap.TrackingID != "tid-2" {
		t.Fatalf("tracking id should survive parse failure, got %q", snap.TrackingID)
	}
}

func TestCaptureAbsentParamsAreEmptyNotError(t *testing.T) {
	snap := Capture(context.Background(), nil, "tid-3", "https://example.com/pricing")
	if !snap.IsEmpty() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
	if snap.PlatformIDs != nil {
		t.Fatalf("expected nil platform ids, got %v", snap.PlatformIDs)
	}
}

func TestMergeFirstTouchKeepsOriginalSource(t *testing.T) {
	existing := &types.AttributionSnapshot{
		TrackingID: "tid-4",
		UTM:        types.UTMFields{Source: "fb"},
	}
	incoming := types.AttributionSnapshot{
		TrackingID:  "tid-4",
		UTM:         types.UTMFields{Source: "google", Campaign: "retarget"},
		PlatformIDs: map[string]string{"tiktok": "x"},
	}

	merged := Merge(existing, incoming)

	if merged.UTM.Source != "fb" {
		t.Fatalf("first-touch source lost: %q", merged.UTM.Source)
	}
	if merged.UTM.Campaign != "" {
		t.Fatalf("later campaign must not overwrite, got %q", merged.UTM.Campaign)
	}
	if merged.PlatformIDs["tiktok"] != "x" {
		t.Fatalf("late platform id not added: %v", merged.PlatformIDs)
	}
}

func TestMergeDoesNotOverwriteExistingPlatformID(t *testing.T) {
	existing := &types.AttributionSnapshot{
		UTM:         types.UTMFields{Source: "google"},
		PlatformIDs: map[string]string{"google": "first"},
	}
	incoming := types.AttributionSnapshot{
		PlatformIDs: map[string]string{"google": "second", "facebook": "fb1"},
	}

	merged := Merge(existing, incoming)

	if merged.PlatformIDs["google"] != "first" {
		t.Fatalf("existing click id overwritten: %v", merged.PlatformIDs)
	}
	if merged.PlatformIDs["facebook"] != "fb1" {
		t.Fatalf("new platform id missing: %v", merged.PlatformIDs)
	}
}

func TestMergeAdoptsIncomingWhenNoPriorSource(t *testing.T) {
	existing := &types.AttributionSnapshot{
		TrackingID:  "tid-5",
		PlatformIDs: map[string]string{"linkedin": "li1"},
	}
	incoming := types.AttributionSnapshot{
		UTM: types.UTMFields{Source: "newsletter", Medium: "email"},
	}

	merged := Merge(existing, incoming)

	if merged.UTM.Source != "newsletter" || merged.UTM.Medium != "email" {
		t.Fatalf("incoming utm not adopted: %+v", merged.UTM)
	}
	if merged.PlatformIDs["linkedin"] != "li1" {
		t.Fatalf("prior platform ids dropped: %v", merged.PlatformIDs)
	}
	if merged.TrackingID != "tid-5" {
		t.Fatalf("tracking id dropped: %q", merged.TrackingID)
	}
}

func TestMergeNilExistingReturnsIncomingCopy(t *testing.T) {
	incoming := types.AttributionSnapshot{
		PlatformIDs: map[string]string{"google": "g1"},
	}
	merged := Merge(nil, incoming)
	merged.PlatformIDs["google"] = "mutated"
	if incoming.PlatformIDs["google"] != "g1" {
		t.Fatal("merge must not share the platform id map with its input")
	}
}
