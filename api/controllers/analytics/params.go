package analytics

import (
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/funnelsight-backend/api/validators"
	"github.com/angelmondragon/funnelsight-backend/internal/analytics"
	"github.com/angelmondragon/funnelsight-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/funnelsight-backend/pkg/errors"
)

var timeNowUTC = func() time.Time {
	return time.Now().UTC()
}

// resolveAnalyticsRange builds the report window from explicit from/to
// parameters or a relative preset. Explicit bounds accept bare dates or
// RFC3339 timestamps; presets anchor on the current instant.
func resolveAnalyticsRange(r *http.Request, now time.Time) (analytics.Window, error) {
	query := r.URL.Query()
	rawFrom := strings.TrimSpace(query.Get("from"))
	rawTo := strings.TrimSpace(query.Get("to"))

	if rawFrom != "" || rawTo != "" {
		if rawFrom == "" || rawTo == "" {
			return analytics.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
		}
		start, _, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			return analytics.Window{}, err
		}
		end, _, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			return analytics.Window{}, err
		}
		if end.Before(start) {
			return analytics.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "end must be after start")
		}
		return analytics.Window{From: start, To: end}, nil
	}

	duration, ok := presetDuration(strings.TrimSpace(query.Get("preset")))
	if !ok {
		return analytics.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid preset")
	}
	return analytics.Window{From: now.Add(-duration), To: now}, nil
}

func presetDuration(value string) (time.Duration, bool) {
	if value == "" {
		value = "30d"
	}
	switch strings.ToLower(value) {
	case "7d":
		return 7 * 24 * time.Hour, true
	case "30d":
		return 30 * 24 * time.Hour, true
	case "90d":
		return 90 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// resolveFilters reads the optional shared record filters.
func resolveFilters(r *http.Request) (analytics.Filters, error) {
	var filters analytics.Filters
	filters.Source = strings.TrimSpace(r.URL.Query().Get("source"))

	ownerID, err := validators.ParseQueryUUID(r, "owner_id")
	if err != nil {
		return analytics.Filters{}, err
	}
	filters.OwnerID = ownerID

	if rawStage := strings.TrimSpace(r.URL.Query().Get("stage")); rawStage != "" {
		stage, err := enums.ParseDealStage(rawStage)
		if err != nil {
			return analytics.Filters{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid stage").WithDetails(map[string]any{"field": "stage"})
		}
		filters.Stage = stage
	}
	return filters, nil
}
