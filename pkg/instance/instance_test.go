package instance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetID(t *testing.T) {
	t.Setenv("MARKETPLACE_WORKER_ID", "cron-1")
	assert.Equal(t, "cron-1", GetID())

	t.Setenv("MARKETPLACE_WORKER_ID", "")
	assert.True(t, strings.Contains(GetID(), "-"))
}
