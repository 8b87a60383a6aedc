package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/chairtime/chairtime-backend/api/responses"
	reportsvc "github.com/chairtime/chairtime-backend/internal/reports"
	pkgerrors "github.com/chairtime/chairtime-backend/pkg/errors"
	"github.com/chairtime/chairtime-backend/pkg/logger"
)

// DailyReport sums the snapshot ledger for one franchise and business date.
func DailyReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		franchiseID, err := uuid.Parse(r.URL.Query().Get("franchise_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "franchise_id query parameter must be a uuid"))
			return
		}

		businessDate, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "date query parameter must be YYYY-MM-DD"))
			return
		}

		summary, err := svc.Daily(r.Context(), franchiseID, businessDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
