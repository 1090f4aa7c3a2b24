package attribution

import (
	"context"
	"net/url"
	"time"

	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
	"github.com/angelmondragon/funnelsight-backend/pkg/types"
)

// test override
var timeNowUTC = func() time.Time { return time.Now().UTC() }

// clickParam ties an ad platform's click-id query parameter to the platform
// name used as the map key in AttributionSnapshot.PlatformIDs. Order matters:
// it is the priority order for resolving the ad-dimension grouping key.
type clickParam struct {
	param    string
	platform string
}

var clickParams = []clickParam{
	{param: "gclid", platform: "google"},
	{param: "fbclid", platform: "facebook"},
	{param: "ttclid", platform: "tiktok"},
	{param: "msclkid", platform: "microsoft"},
	{param: "li_fat_id", platform: "linkedin"},
}

// Capture parses the recognized UTM parameters and platform click ids from a
// landing page URL into a snapshot. It never fails: a URL that cannot be
// parsed yields an empty snapshot and a warning.
func Capture(ctx context.Context, logg *logger.Logger, trackingID, pageURL string) types.AttributionSnapshot {
	snap := types.AttributionSnapshot{
		TrackingID: trackingID,
		CapturedAt: timeNowUTC(),
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "page_url", pageURL), "unparseable page url, capturing empty snapshot")
		}
		return snap
	}

	query := parsed.Query()
	snap.UTM = types.UTMFields{
		Source:   query.Get("utm_source"),
		Medium:   query.Get("utm_medium"),
		Campaign: query.Get("utm_campaign"),
		Term:     query.Get("utm_term"),
		Content:  query.Get("utm_content"),
	}

	for _, cp := range clickParams {
		if v := query.Get(cp.param); v != "" {
			if snap.PlatformIDs == nil {
				snap.PlatformIDs = map[string]string{}
			}
			snap.PlatformIDs[cp.platform] = v
		}
	}

	return snap
}

// Merge applies the first-touch policy. When the existing snapshot already
// carries a utm source, its UTM fields win; the only thing a later visit can
// contribute is a platform click id for a platform not seen before. With no
// prior source the incoming snapshot replaces the existing one wholesale,
// keeping previously captured platform ids.
func Merge(existing *types.AttributionSnapshot, incoming types.AttributionSnapshot) types.AttributionSnapshot {
	if existing == nil {
		return incoming.Clone()
	}

	if existing.UTM.Source != "" {
		merged := existing.Clone()
		for platform, id := range incoming.PlatformIDs {
			if _, seen := merged.PlatformIDs[platform]; !seen {
				if merged.PlatformIDs == nil {
					merged.PlatformIDs = map[string]string{}
				}
				merged.PlatformIDs[platform] = id
			}
		}
		return merged
	}

	merged := incoming.Clone()
	if merged.TrackingID == "" {
		merged.TrackingID = existing.TrackingID
	}
	for platform, id := range existing.PlatformIDs {
		if _, seen := merged.PlatformIDs[platform]; !seen {
			if merged.PlatformIDs == nil {
				merged.PlatformIDs = map[string]string{}
			}
			merged.PlatformIDs[platform] = id
		}
	}
	return merged
}
