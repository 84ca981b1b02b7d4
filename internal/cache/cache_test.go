package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheWithoutRedisIsNoop(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]*Cache{"nil cache": nil, "nil client": New(nil, time.Minute)} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}))
			var dest map[string]int
			found, err := c.Get(ctx, "k", &dest)
			require.NoError(t, err)
			assert.False(t, found)
			assert.NoError(t, c.Delete(ctx, "k"))
		})
	}
}
