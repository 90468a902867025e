package controllers

import (
	"net/http"
	"strings"

	"github.com/adeyemimuse/sproutvest-backend/api/responses"
	"github.com/adeyemimuse/sproutvest-backend/api/validators"
	"github.com/adeyemimuse/sproutvest-backend/internal/audit"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/logger"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

// AdminListAuditEntries returns the reconciliation audit trail, optionally
// filtered by processor or outcome.
func AdminListAuditEntries(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "audit service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), audit.ListParams{
			Processor: strings.TrimSpace(r.URL.Query().Get("processor")),
			Outcome:   strings.TrimSpace(r.URL.Query().Get("outcome")),
			Limit:     limit,
			Cursor:    strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
