package tracking

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/funnelsight-backend/api/responses"
	"github.com/angelmondragon/funnelsight-backend/internal/attribution"
	pkgerrors "github.com/angelmondragon/funnelsight-backend/pkg/errors"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

// VisitorAttribution returns the stored snapshot for one tracking id. CRM
// integrations call this at lead-creation time.
func VisitorAttribution(store *attribution.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		trackingID := strings.TrimSpace(chi.URLParam(r, "trackingID"))
		if trackingID == "" {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "tracking id is required"))
			return
		}
		ctx = logg.WithTrackingID(ctx, trackingID)

		snapshot, err := store.ForLeadCreation(ctx, trackingID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if snapshot == nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, "no attribution stored for tracking id"))
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}
