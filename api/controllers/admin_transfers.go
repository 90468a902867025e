package controllers

import (
	"net/http"
	"strings"

	"github.com/adeyemimuse/sproutvest-backend/api/responses"
	"github.com/adeyemimuse/sproutvest-backend/api/validators"
	"github.com/adeyemimuse/sproutvest-backend/internal/transfers"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/logger"
	"github.com/adeyemimuse/sproutvest-backend/pkg/pagination"
)

// AdminListTransfers returns recorded payouts, newest first.
func AdminListTransfers(svc transfers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transfers service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), transfers.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
