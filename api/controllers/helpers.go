package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const maxSearchLen = 255

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}

// queryEnum parses an optional enum query value with parse. The empty string
// yields nil.
func queryEnum[T ~string](r *http.Request, key string, parse func(string) (T, error)) (*T, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := parse(raw)
	if err != nil {
		return nil, pkgerrors.Validation(map[string]string{key: "is invalid"})
	}
	return &value, nil
}

// caller returns the identity the auth middleware resolved for this request.
func caller(r *http.Request) middleware.Identity {
	return middleware.IdentityFromContext(r.Context())
}
