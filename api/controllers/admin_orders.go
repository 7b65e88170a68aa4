package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

func AdminListOrders(svc orders.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders")
			return
		}
		params, err := validators.Pagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := orders.AdminFilters{Search: validators.QueryString(r, "search", maxSearchLen)}
		if filters.Status, err = queryEnum(r, "status", enums.ParseOrderStatus); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.PaymentStatus, err = queryEnum(r, "payment_status", enums.ParsePaymentStatus); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.StartDate, err = validators.QueryDate(r, "start_date", false); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.EndDate, err = validators.QueryDate(r, "end_date", true); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminOrderDetail(svc orders.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders")
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// AdminUpdateOrderStatus applies an admin override through the order
// lifecycle.
func AdminUpdateOrderStatus(svc orders.AdminService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "orders")
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input orders.AdminStatusInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.UpdateStatus(r.Context(), caller(r).ID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Order status updated successfully", detail)
	}
}
