package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/customers"
	"github.com/angelmondragon/marketplace-backend/internal/partners"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

type vendorStatusRequest struct {
	Status enums.VendorStatus `json:"status" validate:"required,oneof=active suspended pending"`
}

type customerStatusRequest struct {
	Status enums.CustomerStatus `json:"status" validate:"required,oneof=active inactive blocked"`
}

type partnerStatusRequest struct {
	Status enums.PartnerStatus `json:"status" validate:"required,oneof=approved suspended pending rejected"`
}

func AdminListVendors(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vendors")
			return
		}
		params, err := validators.Pagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := queryEnum(r, "status", enums.ParseVendorStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := vendors.ListFilters{Status: status, Search: validators.QueryString(r, "search", maxSearchLen)}
		page, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminCreateVendor(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vendors")
			return
		}
		var input vendors.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vendor, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Vendor created successfully", vendor)
	}
}

func AdminUpdateVendor(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vendors")
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input vendors.UpdateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vendor, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Vendor updated successfully", vendor)
	}
}

func AdminUpdateVendorStatus(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "vendors")
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req vendorStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vendor, err := svc.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Vendor status updated successfully", vendor)
	}
}

func AdminListCustomers(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers")
			return
		}
		params, err := validators.Pagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := queryEnum(r, "status", enums.ParseCustomerStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := customers.ListFilters{Status: status, Search: validators.QueryString(r, "search", maxSearchLen)}
		page, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminUpdateCustomerStatus(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers")
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req customerStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Customer status updated successfully", customer)
	}
}

func AdminListPartners(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "partners")
			return
		}
		params, err := validators.Pagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := queryEnum(r, "status", enums.ParsePartnerStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicle, err := queryEnum(r, "vehicle_type", enums.ParseVehicleType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := partners.ListFilters{
			Status:      status,
			VehicleType: vehicle,
			Search:      validators.QueryString(r, "search", maxSearchLen),
		}
		page, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func AdminCreatePartner(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "partners")
			return
		}
		var input partners.CreateInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		partner, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Delivery partner created successfully", partner)
	}
}

// AdminVerifyPartner approves or rejects a partner and records the decision.
func AdminVerifyPartner(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "partners")
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var input partners.VerifyInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		partner, err := svc.Verify(r.Context(), caller(r).ID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Delivery partner "+string(input.Status)+" successfully", partner)
	}
}

func AdminUpdatePartnerStatus(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "partners")
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req partnerStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		partner, err := svc.UpdateStatus(r.Context(), id, req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Delivery partner status updated successfully", partner)
	}
}
