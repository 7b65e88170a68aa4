package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	redisclient "github.com/angelmondragon/marketplace-backend/pkg/redis"
)

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Swap(ctx context.Context, key string, value any, ttl time.Duration) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

type keyer interface {
	SessionKey(jti string) string
	IdentitySessionKey(role, identityID string) string
}

// Checker is the read-only surface used by the auth middleware.
type Checker interface {
	HasSession(ctx context.Context, jti string) (bool, error)
}

// Manager keeps one active session per identity. Each session is a key per
// jti; a pointer key per identity names the current jti so a new login can
// drop the previous one.
type Manager struct {
	store store
	keyer keyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newManager(client, client, cfg.TTL())
}

func newManager(s store, k keyer, ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: s, keyer: k, ttl: ttl}, nil
}

// TTL is how long an issued session stays valid.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a session for the identity, revokes whichever session it had
// before and returns the new jti.
func (m *Manager) Issue(ctx context.Context, role enums.Role, identityID uuid.UUID) (string, error) {
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role %q", role)
	}
	if identityID == uuid.Nil {
		return "", fmt.Errorf("identity id is required")
	}

	jti := NewAccessID()
	if err := m.store.Set(ctx, m.keyer.SessionKey(jti), identityValue(role, identityID), m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	prev, err := m.store.Swap(ctx, m.keyer.IdentitySessionKey(string(role), identityID.String()), jti, m.ttl)
	if err != nil {
		return "", fmt.Errorf("swap identity session: %w", err)
	}
	if prev != "" && prev != jti {
		if err := m.store.Del(ctx, m.keyer.SessionKey(prev)); err != nil {
			return "", fmt.Errorf("revoke previous session: %w", err)
		}
	}
	return jti, nil
}

// HasSession reports whether jti is still an active session.
func (m *Manager) HasSession(ctx context.Context, jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, fmt.Errorf("access id is required")
	}
	return m.store.Exists(ctx, m.keyer.SessionKey(jti))
}

// Revoke ends the session identified by jti.
func (m *Manager) Revoke(ctx context.Context, jti string) error {
	if strings.TrimSpace(jti) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(jti))
}

// RevokeIdentity ends the current session of an identity, if any. Used when
// an admin suspends or blocks an account.
func (m *Manager) RevokeIdentity(ctx context.Context, role enums.Role, identityID uuid.UUID) error {
	pointer := m.keyer.IdentitySessionKey(string(role), identityID.String())
	jti, err := m.store.Get(ctx, pointer)
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return nil
		}
		return err
	}
	return m.store.Del(ctx, m.keyer.SessionKey(jti), pointer)
}

// NewAccessID produces the identifier used as JWT jti and session key.
func NewAccessID() string {
	return uuid.NewString()
}

func identityValue(role enums.Role, id uuid.UUID) string {
	return string(role) + ":" + id.String()
}
