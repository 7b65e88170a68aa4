package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/earnings"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

func earningFilters(r *http.Request) (earnings.Filters, pagination.Params, error) {
	var filters earnings.Filters
	params, err := validators.Pagination(r)
	if err != nil {
		return filters, params, err
	}
	if filters.Status, err = queryEnum(r, "status", enums.ParseEarningStatus); err != nil {
		return filters, params, err
	}
	if filters.StartDate, err = validators.QueryDate(r, "start_date", false); err != nil {
		return filters, params, err
	}
	if filters.EndDate, err = validators.QueryDate(r, "end_date", true); err != nil {
		return filters, params, err
	}
	return filters, params, nil
}

// ListEarnings serves the vendor or delivery partner earning history.
func ListEarnings(svc earnings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "earnings")
			return
		}
		filters, params, err := earningFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		who := caller(r)
		var data any
		switch who.Role {
		case enums.RoleDelivery:
			data, err = svc.PartnerEarnings(r.Context(), who.ID, filters, params)
		case enums.RoleVendor:
			data, err = svc.VendorEarnings(r.Context(), who.ID, filters, params)
		default:
			err = pkgerrors.New(pkgerrors.CodeForbidden, "no earnings for this role")
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, data)
	}
}

func EarningsSummary(svc earnings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "earnings")
			return
		}
		period := validators.QueryString(r, "period", 16)
		switch period {
		case "", earnings.PeriodToday, earnings.PeriodWeek, earnings.PeriodMonth:
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.Validation(map[string]string{
				"period": "must be one of: today, week, month",
			}))
			return
		}
		summary, err := svc.PartnerSummary(r.Context(), caller(r).ID, period)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
