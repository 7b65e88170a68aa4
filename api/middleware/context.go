package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

type contextKey string

const (
	ctxIdentityID contextKey = "identity_id"
	ctxRole       contextKey = "actor_role"
	ctxSessionID  contextKey = "session_id"
)

// IdentityIDFromContext returns the authenticated admin, vendor, customer or
// partner id, or uuid.Nil outside an authenticated route.
func IdentityIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxIdentityID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return v
	}
	return ""
}

// SessionIDFromContext returns the jti of the presented bearer token.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithIdentity seeds ctx the way Auth does. Controllers use it in tests.
func WithIdentity(ctx context.Context, role enums.Role, id uuid.UUID, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxIdentityID, id)
	ctx = context.WithValue(ctx, ctxRole, role)
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

// Identity is the authenticated caller of a request.
type Identity struct {
	Role      enums.Role
	ID        uuid.UUID
	SessionID string
}

func IdentityFromContext(ctx context.Context) Identity {
	return Identity{
		Role:      RoleFromContext(ctx),
		ID:        IdentityIDFromContext(ctx),
		SessionID: SessionIDFromContext(ctx),
	}
}
