package attribution

import (
	"strings"

	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	"github.com/angelmondragon/funnelsight-backend/pkg/types"
)

// UnattributedKey is the grouping key for records with no attribution signal
// on the requested dimension.
const UnattributedKey = "unattributed"

// NormalizeKey canonicalizes a raw grouping value. Two records that differ
// only by case or surrounding whitespace must land in the same bucket.
func NormalizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return UnattributedKey
	}
	return key
}

// SnapshotKey resolves the grouping key of an attribution snapshot on the
// given dimension. A nil snapshot (organic lead) is unattributed on both.
func SnapshotKey(snap *types.AttributionSnapshot, dim enums.Dimension) string {
	if snap == nil {
		return UnattributedKey
	}
	switch dim {
	case enums.DimensionSource:
		return NormalizeKey(snap.UTM.Source)
	case enums.DimensionAd:
		for _, cp := range clickParams {
			if id, ok := snap.PlatformIDs[cp.platform]; ok && strings.TrimSpace(id) != "" {
				return NormalizeKey(id)
			}
		}
		return UnattributedKey
	default:
		return UnattributedKey
	}
}

// SpendKey resolves the grouping key of a spend record on the given
// dimension. Spend always has a source; ad-level ids are optional, so
// campaign-level spend buckets under "unattributed" on the ad dimension.
func SpendKey(source string, adID *string, dim enums.Dimension) string {
	switch dim {
	case enums.DimensionSource:
		return NormalizeKey(source)
	case enums.DimensionAd:
		if adID == nil {
			return UnattributedKey
		}
		return NormalizeKey(*adID)
	default:
		return UnattributedKey
	}
}
