package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/customers"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

func CustomerProfile(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers")
			return
		}
		profile, err := svc.Profile(r.Context(), caller(r).ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func CustomerUpdateProfile(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "customers")
			return
		}
		var input customers.UpdateProfileInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.UpdateProfile(r.Context(), caller(r).ID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Profile updated successfully", customer)
	}
}

func CatalogHome(svc products.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		home, err := svc.Home(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, home)
	}
}

// CategoryTree lists active root categories with their active children.
func CategoryTree(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "categories")
			return
		}
		tree, err := svc.Tree(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tree)
	}
}

type categoryProducts struct {
	Category *categories.CategoryDTO `json:"category"`
	pagination.Page[products.Card]
}

func CategoryProducts(svc products.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.Pagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := catalogFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, page, err := svc.ByCategory(r.Context(), id, filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categoryProducts{Category: category, Page: page})
	}
}

func catalogFilters(r *http.Request) (products.CatalogFilters, error) {
	filters := products.CatalogFilters{
		SortBy:    validators.QueryString(r, "sort_by", 16),
		SortOrder: validators.QueryString(r, "sort_order", 4),
	}
	details := map[string]string{}
	switch filters.SortBy {
	case "", products.SortPrice, products.SortName, products.SortCreatedAt, products.SortPopularity:
	default:
		details["sort_by"] = "must be one of: price, name, created_at, popularity"
	}
	switch filters.SortOrder {
	case "", "asc", "desc":
	default:
		details["sort_order"] = "must be one of: asc, desc"
	}
	for key, dest := range map[string]**decimal.Decimal{"min_price": &filters.MinPrice, "max_price": &filters.MaxPrice} {
		raw := validators.QueryString(r, key, 32)
		if raw == "" {
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			details[key] = "must be a non-negative number"
			continue
		}
		*dest = &value
	}
	if len(details) > 0 {
		return filters, pkgerrors.Validation(details)
	}
	return filters, nil
}

func SearchProducts(svc products.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		result, err := svc.Search(r.Context(), caller(r).ID, validators.QueryString(r, "query", maxSearchLen))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ProductDetail(svc products.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "catalog")
			return
		}
		id, err := validators.URLParamUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Detail(r.Context(), caller(r).ID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
