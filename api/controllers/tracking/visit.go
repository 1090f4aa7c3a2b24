package tracking

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/funnelsight-backend/api/responses"
	"github.com/angelmondragon/funnelsight-backend/api/validators"
	"github.com/angelmondragon/funnelsight-backend/internal/attribution"
	"github.com/angelmondragon/funnelsight-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/funnelsight-backend/pkg/errors"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

const trackingIDHeader = "X-Tracking-Id"

type trackVisitRequest struct {
	PageURL  string `json:"page_url"`
	Referrer string `json:"referrer"`
}

// TrackVisit records a page visit. The tracking id comes from the visitor
// cookie or header when present; first-time visitors get a fresh one, echoed
// back in both the response body and the cookie.
func TrackVisit(cfg *config.Config, store *attribution.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body trackVisitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		body.PageURL = strings.TrimSpace(body.PageURL)
		if body.PageURL == "" {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "page_url is required"))
			return
		}

		trackingID, fresh := resolveTrackingID(r, cfg.Attribution.CookieName)
		ctx = logg.WithTrackingID(ctx, trackingID)

		snapshot, err := store.Track(ctx, trackingID, body.PageURL)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if fresh {
			http.SetCookie(w, &http.Cookie{
				Name:     cfg.Attribution.CookieName,
				Value:    trackingID,
				Path:     "/",
				MaxAge:   int(cfg.Attribution.SnapshotTTL.Seconds()),
				SameSite: http.SameSiteLaxMode,
			})
		}

		responses.WriteSuccess(w, map[string]any{
			"tracking_id": trackingID,
			"attribution": snapshot,
		})
	}
}

// resolveTrackingID prefers the visitor cookie, then the header, then mints
// a new id.
func resolveTrackingID(r *http.Request, cookieName string) (string, bool) {
	if cookie, err := r.Cookie(cookieName); err == nil {
		if id := strings.TrimSpace(cookie.Value); id != "" {
			return id, false
		}
	}
	if id := strings.TrimSpace(r.Header.Get(trackingIDHeader)); id != "" {
		return id, false
	}
	return uuid.NewString(), true
}
