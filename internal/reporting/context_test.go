package reporting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetaFromContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()

		meta := MetaFromContext(t.Context())
		require.Empty(t, meta.tags)
		require.Empty(t, meta.extras)
		require.Empty(t, meta.userID)
	})

	t.Run("meta accumulates without leaking into parents", func(t *testing.T) {
		t.Parallel()

		parent := AddTagsToContext(t.Context(), map[string]string{"port": "project"})
		child := AddExtrasToContext(parent, map[string]string{"listID": "901"})
		child = AddTagsToContext(child, map[string]string{"source": "api"})
		child = SetUserIDInContext(child, "admin")

		parentMeta := MetaFromContext(parent)
		require.Equal(t, map[string]string{"port": "project"}, parentMeta.tags)
		require.Empty(t, parentMeta.extras)
		require.Empty(t, parentMeta.userID)

		childMeta := MetaFromContext(child)
		require.Equal(t, map[string]string{"port": "project", "source": "api"}, childMeta.tags)
		require.Equal(t, map[string]string{"listID": "901"}, childMeta.extras)
		require.Equal(t, "admin", childMeta.userID)
	})

	t.Run("returned maps are copies", func(t *testing.T) {
		t.Parallel()

		ctx := AddTagsToContext(t.Context(), map[string]string{"port": "project"})
		meta := MetaFromContext(ctx)
		meta.tags["port"] = "mutated"

		require.Equal(t, "project", MetaFromContext(ctx).tags["port"])
	})
}
