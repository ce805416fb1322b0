package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLCache(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		c := NewTTLCache[string](1000 * time.Second)
		c.set("task:1", "details")

		result := c.getOrClaim("task:1")
		require.False(t, result.claimed, "Expected entry to exist")
		require.True(t, result.valid)
		require.Equal(t, "details", result.data)
	})

	t.Run("getOrClaim claims when missing", func(t *testing.T) {
		t.Parallel()

		c := NewTTLCache[string](1000 * time.Second)

		result := c.getOrClaim("task:1")
		require.True(t, result.claimed, "Expected entry to not exist and get claimed")

		result = c.getOrClaim("task:1")
		require.False(t, result.claimed, "Expected entry to exist and not get claimed")
		require.False(t, result.valid, "Expected entry to be invalid")
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		c := NewTTLCache[string](1000 * time.Second)
		c.set("task:1", "details")
		c.delete("task:1")
		// Deleting a missing entry is fine
		c.delete("task:2")

		require.True(t, c.getOrClaim("task:1").claimed, "Expected to not find a value")
	})

	t.Run("purge", func(t *testing.T) {
		t.Parallel()

		c := NewTTLCache[string](1000 * time.Second)
		c.set("task:1", "details")
		c.set("task:2", "details")
		c.Purge()

		require.True(t, c.getOrClaim("task:1").claimed)
		require.True(t, c.getOrClaim("task:2").claimed)
	})

	t.Run("entries expire", func(t *testing.T) {
		t.Parallel()

		c := NewTTLCache[string](10 * time.Millisecond)
		c.set("task:1", "details")

		require.Eventually(t, func() bool {
			return c.getOrClaim("task:1").claimed
		}, time.Second, 5*time.Millisecond)
	})
}
