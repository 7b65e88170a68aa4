package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// Dashboard renders the dashboard of the calling role.
func Dashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "dashboard")
			return
		}
		who := caller(r)
		var (
			data any
			err  error
		)
		switch who.Role {
		case enums.RoleAdmin:
			data, err = svc.Admin(r.Context())
		case enums.RoleVendor:
			data, err = svc.Vendor(r.Context(), who.ID)
		case enums.RoleDelivery:
			data, err = svc.Delivery(r.Context(), who.ID)
		default:
			err = pkgerrors.New(pkgerrors.CodeForbidden, "no dashboard for this role")
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, data)
	}
}
