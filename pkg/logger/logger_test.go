package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestErrorCarriesContextFieldsAndStack(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Level: zerolog.DebugLevel, Format: "json", Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-123")
	ctx = log.WithActorRole(ctx, "vendor")
	log.Error(ctx, "checkout failed", errors.New("boom"))

	entry := decodeLine(t, buf)
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "vendor", entry["actor_role"])
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, "boom", entry["error"])
	assert.NotEmpty(t, entry["stack"])
}

func TestWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Format: "json", Output: buf})
	log.Warn(context.Background(), "plain")
	assert.NotContains(t, decodeLine(t, buf), "stack")

	buf.Reset()
	log = New(Options{ServiceName: "api", Format: "json", Output: buf, WarnStack: true})
	log.Warn(context.Background(), "with stack")
	assert.Contains(t, decodeLine(t, buf), "stack")
}

func TestWithFieldsDoesNotLeakIntoParentContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Format: "json", Output: buf})

	parent := context.Background()
	_ = log.WithFields(parent, map[string]any{"order_id": "o-1"})
	log.Info(parent, "parent")

	assert.NotContains(t, decodeLine(t, buf), "order_id")
}

func TestParseLevelDefaults(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
}
