package controllers

import (
	"net/http"

	"github.com/adeyemimuse/sproutvest-backend/api/responses"
	"github.com/adeyemimuse/sproutvest-backend/internal/funding"
	pkgerrors "github.com/adeyemimuse/sproutvest-backend/pkg/errors"
	"github.com/adeyemimuse/sproutvest-backend/pkg/logger"
)

// AdminOpportunityFunding returns an opportunity with its live funding
// aggregates for the operator dashboard.
func AdminOpportunityFunding(svc funding.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "funding service unavailable"))
			return
		}

		opportunityID, err := pathUUID(r, "opportunityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		opportunity, err := svc.Get(r.Context(), opportunityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, opportunity)
	}
}
