package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	redisclient "github.com/angelmondragon/marketplace-backend/pkg/redis"
)

type memoryStore struct {
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (s *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.data[key] = fmt.Sprint(value)
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", redisclient.Nil
	}
	return v, nil
}

func (s *memoryStore) Swap(_ context.Context, key string, value any, _ time.Duration) (string, error) {
	prev := s.data[key]
	s.data[key] = fmt.Sprint(value)
	return prev, nil
}

func (s *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.data[key]
	return ok, nil
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func newTestManager(t *testing.T) (*Manager, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	mgr, err := newManager(store, &redisclient.Client{}, time.Hour)
	require.NoError(t, err)
	return mgr, store
}

func TestIssueRevokesPreviousSession(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t)
	identity := uuid.New()

	first, err := mgr.Issue(ctx, enums.RoleCustomer, identity)
	require.NoError(t, err)
	ok, err := mgr.HasSession(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)

	second, err := mgr.Issue(ctx, enums.RoleCustomer, identity)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	ok, err = mgr.HasSession(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok, "previous session must be revoked")

	ok, err = mgr.HasSession(ctx, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionsAreScopedPerRole(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t)
	identity := uuid.New()

	vendorJTI, err := mgr.Issue(ctx, enums.RoleVendor, identity)
	require.NoError(t, err)
	_, err = mgr.Issue(ctx, enums.RoleCustomer, identity)
	require.NoError(t, err)

	ok, err := mgr.HasSession(ctx, vendorJTI)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	jti, err := mgr.Issue(ctx, enums.RoleAdmin, uuid.New())
	require.NoError(t, err)
	require.NoError(t, mgr.Revoke(ctx, jti))

	ok, err := mgr.HasSession(ctx, jti)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Error(t, mgr.Revoke(ctx, " "))
}

func TestRevokeIdentity(t *testing.T) {
	ctx := context.Background()
	mgr, store := newTestManager(t)
	identity := uuid.New()

	require.NoError(t, mgr.RevokeIdentity(ctx, enums.RoleDelivery, identity), "no session is not an error")

	jti, err := mgr.Issue(ctx, enums.RoleDelivery, identity)
	require.NoError(t, err)
	require.NoError(t, mgr.RevokeIdentity(ctx, enums.RoleDelivery, identity))

	ok, err := mgr.HasSession(ctx, jti)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, store.data)
}

func TestIssueValidatesInput(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, err := mgr.Issue(context.Background(), "root", uuid.New())
	assert.Error(t, err)
	_, err = mgr.Issue(context.Background(), enums.RoleAdmin, uuid.Nil)
	assert.Error(t, err)

	_, err = newManager(newMemoryStore(), &redisclient.Client{}, 0)
	assert.Error(t, err)
}
