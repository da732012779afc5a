package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisabledCacheIsAMiss(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	assert.False(t, c.Enabled())
	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
	c.InvalidateTenant(ctx, "user-1")
}

func TestConnectWithoutAddrDisables(t *testing.T) {
	c, err := Connect(context.Background(), "", "", 0)
	assert.NoError(t, err)
	assert.False(t, c.Enabled())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "stats:u1:dashboard:2026-01-01_2026-02-01", DashboardKey("u1", "2026-01-01_2026-02-01"))
	assert.Equal(t, "stats:u1:monthly:2026", MonthlyKey("u1", 2026))
}
