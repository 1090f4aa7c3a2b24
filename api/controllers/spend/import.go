package spend

import (
	"net/http"

	"github.com/angelmondragon/funnelsight-backend/api/responses"
	spendimport "github.com/angelmondragon/funnelsight-backend/internal/spend"
	pkgerrors "github.com/angelmondragon/funnelsight-backend/pkg/errors"
	"github.com/angelmondragon/funnelsight-backend/pkg/logger"
)

const maxImportBytes = 10 << 20

// Import ingests a CSV spend export from the request body. Row failures do
// not fail the request; the summary reports them so the upload can be fixed
// and retried.
func Import(importer *spendimport.Importer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body := http.MaxBytesReader(w, r.Body, maxImportBytes)
		summary, err := importer.ImportCSV(ctx, body)
		if err != nil && summary.Imported == 0 && summary.Failed == 0 {
			// nothing was readable, so the file itself is malformed
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid spend csv"))
			return
		}
		if err != nil {
			logg.Warn(ctx, "spend import completed with row failures")
		}

		responses.WriteSuccess(w, summary)
	}
}
