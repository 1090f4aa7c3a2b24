package attribution

import (
	"testing"

	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	"github.com/angelmondragon/funnelsight-backend/pkg/types"
)

func TestNormalizeKeyCanonicalizes(t *testing.T) {
	cases := map[string]string{
		"Google":    "google",
		"  FB  ":    "fb",
		"":          UnattributedKey,
		"   ":       UnattributedKey,
		"tiktok_v2": "tiktok_v2",
	}
	for raw, want := range cases {
		if got := NormalizeKey(raw); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestSnapshotKeySourceDimension(t *testing.T) {
	snap := &types.AttributionSnapshot{UTM: types.UTMFields{Source: " Google "}}
	if got := SnapshotKey(snap, enums.DimensionSource); got != "google" {
		t.Fatalf("got %q", got)
	}
	if got := SnapshotKey(nil, enums.DimensionSource); got != UnattributedKey {
		t.Fatalf("nil snapshot: got %q", got)
	}
	if got := SnapshotKey(&types.AttributionSnapshot{}, enums.DimensionSource); got != UnattributedKey {
		t.Fatalf("empty source: got %q", got)
	}
}

func TestSnapshotKeyAdDimensionUsesPlatformPriority(t *testing.T) {
	snap := &types.AttributionSnapshot{
		PlatformIDs: map[string]string{
			"facebook": "FB-Click",
			"google":   "G-Click",
		},
	}
	// google outranks facebook in the click param priority order.
	if got := SnapshotKey(snap, enums.DimensionAd); got != "g-click" {
		t.Fatalf("got %q", got)
	}

	delete(snap.PlatformIDs, "google")
	if got := SnapshotKey(snap, enums.DimensionAd); got != "fb-click" {
		t.Fatalf("got %q", got)
	}
}

func TestSnapshotKeyAdDimensionUnattributed(t *testing.T) {
	snap := &types.AttributionSnapshot{UTM: types.UTMFields{Source: "google"}}
	if got := SnapshotKey(snap, enums.DimensionAd); got != UnattributedKey {
		t.Fatalf("got %q", got)
	}
}

func TestSpendKey(t *testing.T) {
	adID := " Ad-42 "
	if got := SpendKey("Google", &adID, enums.DimensionAd); got != "ad-42" {
		t.Fatalf("got %q", got)
	}
	if got := SpendKey("Google", nil, enums.DimensionAd); got != UnattributedKey {
		t.Fatalf("campaign-level spend should be unattributed on ad dimension, got %q", got)
	}
	if got := SpendKey("Google", nil, enums.DimensionSource); got != "google" {
		t.Fatalf("got %q", got)
	}
}
