package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const (
	idempotencyHeader     = "Idempotency-Key"
	defaultIdempotencyTTL = 24 * time.Hour
	maxIdempotencyKeyLen  = 255
	// inFlightTTL bounds how long a crashed request can hold its key.
	inFlightTTL           = 2 * time.Minute
)

// IdempotencyStore is the slice of the Redis client the middleware needs.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

type idempotencyRule struct {
	method  string
	pattern string
	ttl     time.Duration
}

// Requests that move money or claim shared rows: checkout, cancellation and
// task accept.
var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, pattern: "/customer/orders", ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, pattern: "/customer/orders/{id}/cancel", ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, pattern: "/delivery/tasks/{id}/accept", ttl: defaultIdempotencyTTL},
}

type idempotencyRecord struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
	InFlight    bool              `json:"in_flight,omitempty"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// the guarded routes. Reusing a key with a different body is a 409. Only
// non-5xx responses are stored so a failed attempt may be retried. The key is
// reserved before the handler runs, so a concurrent duplicate gets a 409
// instead of a second execution.
func Idempotency(store IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := routeTTL(r.Method, routePattern(r))
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if idempotencyKey == "" || len(idempotencyKey) > maxIdempotencyKeyLen {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Validation(map[string]string{
					idempotencyHeader: "header is required (at most 255 characters)",
				}))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.IdempotencyKey(buildScope(r), idempotencyKey)

			if replayed := replayStored(w, r, store, logg, key, requestHash); replayed {
				return
			}

			marker, _ := json.Marshal(idempotencyRecord{RequestHash: requestHash, InFlight: true})
			reserved, reserveErr := store.SetNX(r.Context(), key, string(marker), inFlightTTL)
			if reserveErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, reserveErr, "reserve idempotency key"))
				return
			}
			if !reserved {
				// Lost the race to another request with the same key.
				if !replayStored(w, r, store, logg, key, requestHash) {
					writeInFlight(w, r, logg)
				}
				return
			}

			persistCtx := context.WithoutCancel(r.Context())
			completed := false
			defer func() {
				if !completed {
					if delErr := store.Del(persistCtx, key); delErr != nil {
						logError(persistCtx, logg, "idempotency.release_failed", delErr)
					}
				}
			}()

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := defaultStatus(rec.status)
			if status >= http.StatusInternalServerError {
				return
			}
			record := idempotencyRecord{
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
				RequestHash: requestHash,
			}
			if ct := rec.Header().Get("Content-Type"); ct != "" {
				record.Headers = map[string]string{"Content-Type": ct}
			}

			payload, marshalErr := json.Marshal(record)
			if marshalErr != nil {
				logError(persistCtx, logg, "idempotency.marshal_failed", marshalErr)
				return
			}
			if setErr := store.Set(persistCtx, key, string(payload), ttl); setErr != nil {
				logError(persistCtx, logg, "idempotency.persist_failed", setErr)
				return
			}
			completed = true
		})
	}
}

// replayStored answers from an existing record. It reports whether a response
// was written.
func replayStored(w http.ResponseWriter, r *http.Request, store IdempotencyStore, logg *logger.Logger, key, requestHash string) bool {
	stored, err := store.Get(r.Context(), key)
	if err != nil && !errors.Is(err, redis.Nil) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
		return true
	}
	if stored == "" {
		return false
	}
	record, err := decodeRecord(stored)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return true
	}
	if record.RequestHash != requestHash {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "Idempotency-Key reused with a different request body"))
		return true
	}
	if record.InFlight {
		writeInFlight(w, r, logg)
		return true
	}
	w.Header().Set("Idempotent-Replayed", "true")
	writeStoredResponse(w, record)
	return true
}

func writeInFlight(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "A request with this Idempotency-Key is still being processed"))
}

// buildScope ties a key to the caller so two identities never collide.
func buildScope(r *http.Request) string {
	parts := []string{
		string(RoleFromContext(r.Context())),
		IdentityIDFromContext(r.Context()).String(),
		r.Method,
		r.URL.Path,
	}
	return strings.Join(parts, "|")
}

func decodeRecord(payload string) (*idempotencyRecord, error) {
	var record idempotencyRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func writeStoredResponse(w http.ResponseWriter, record *idempotencyRecord) {
	if ct, ok := record.Headers["Content-Type"]; ok && ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(defaultStatus(record.Status))
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(bytes.TrimSpace(payload))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func defaultStatus(value int) int {
	if value == 0 {
		return http.StatusOK
	}
	return value
}

func routePattern(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func routeTTL(method, pattern string) (time.Duration, bool) {
	pattern = strings.TrimSuffix(pattern, "/")
	for _, rule := range idempotencyRules {
		if rule.method == method && rule.pattern == pattern {
			return rule.ttl, true
		}
	}
	return 0, false
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
