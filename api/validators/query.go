package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Validation(map[string]string{key: "must be numeric"})
	}
	if value < min || value > max {
		return 0, pkgerrors.Validation(map[string]string{key: "must be between " + strconv.Itoa(min) + " and " + strconv.Itoa(max)})
	}
	return value, nil
}

// Pagination reads page and per_page.
func Pagination(r *http.Request) (pagination.Params, error) {
	page, err := ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	perPage, err := ParseQueryInt(r, "per_page", pagination.DefaultPerPage, 1, pagination.MaxPerPage)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, PerPage: perPage}, nil
}

// QueryBool returns nil when key is absent.
func QueryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, pkgerrors.Validation(map[string]string{key: "must be true or false"})
	}
	return &value, nil
}

// QueryUUID returns nil when key is absent.
func QueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Validation(map[string]string{key: "must be a valid id"})
	}
	return &id, nil
}

// QueryDate parses a YYYY-MM-DD value as midnight UTC. When endOfDay is set
// the last instant of that day is returned instead.
func QueryDate(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, pkgerrors.Validation(map[string]string{key: "must be a date (YYYY-MM-DD)"})
	}
	if endOfDay {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, nil
}

// QueryString trims the value and caps it at maxLen characters.
func QueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

// URLParamUUID parses a chi path parameter.
func URLParamUUID(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, key)))
	if err != nil {
		return uuid.Nil, pkgerrors.Validation(map[string]string{key: "must be a valid id"})
	}
	return id, nil
}
