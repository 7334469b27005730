package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"callqueue/internal/models"
)

// Without a Redis client the cache must disable itself instead of
// failing: reads miss, writes and invalidations do nothing.
func TestDisabledCacheIsInert(t *testing.T) {
	ctx := context.Background()
	rows := []models.QueueCount{{QueueName: "Sales", Count: 2}}

	for name, c := range map[string]*Summary{
		"nil summary": nil,
		"nil client":  NewSummary(nil, time.Second, zerolog.Nop()),
	} {
		got, ok := c.Get(ctx)
		assert.False(t, ok, name)
		assert.Nil(t, got, name)

		c.Set(ctx, rows)
		c.Invalidate(ctx)

		_, ok = c.Get(ctx)
		assert.False(t, ok, name)
	}
}

func TestNewSummaryDefaultsTTL(t *testing.T) {
	c := NewSummary(nil, 0, zerolog.Nop())
	assert.Equal(t, 5*time.Second, c.ttl)
}
