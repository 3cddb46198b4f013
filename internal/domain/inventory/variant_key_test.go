package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
)

func TestResolveVariantKey(t *testing.T) {
	t.Run("label mode with label uses label match and label suffix", func(t *testing.T) {
		key, err := ResolveVariantKey("var-small", "Small - Blue", true)
		require.NoError(t, err)

		assert.Equal(t, catalog.MatchByLabel, key.Match.Field)
		assert.Equal(t, "Small - Blue", key.Match.Value)
		assert.Equal(t, ":label:Small - Blue", key.CacheSuffix)
	})

	t.Run("label mode without label falls back to variant id", func(t *testing.T) {
		key, err := ResolveVariantKey("var-medium", "", true)
		require.NoError(t, err)

		assert.Equal(t, catalog.MatchByVariantID, key.Match.Field)
		assert.Equal(t, "var-medium", key.Match.Value)
		assert.Equal(t, ":var-medium", key.CacheSuffix)
	})

	t.Run("label mode fallback is identical to legacy mode", func(t *testing.T) {
		fallback, err := ResolveVariantKey("var-medium", "", true)
		require.NoError(t, err)
		legacy, err := ResolveVariantKey("var-medium", "", false)
		require.NoError(t, err)

		assert.Equal(t, legacy, fallback)
	})

	t.Run("legacy mode ignores a supplied label entirely", func(t *testing.T) {
		key, err := ResolveVariantKey("var-small", "Medium - Blue", false)
		require.NoError(t, err)

		assert.Equal(t, catalog.MatchByVariantID, key.Match.Field)
		assert.Equal(t, "var-small", key.Match.Value)
		assert.Equal(t, ":var-small", key.CacheSuffix)
		assert.NotContains(t, key.CacheSuffix, "label")
	})

	t.Run("fails when no usable key can be resolved", func(t *testing.T) {
		_, err := ResolveVariantKey("", "", true)
		assert.ErrorIs(t, err, shared.ErrAddressing)

		_, err = ResolveVariantKey("", "Small - Blue", false)
		assert.ErrorIs(t, err, shared.ErrAddressing)
	})
}

func TestVariantKey_CacheKey(t *testing.T) {
	productID := uuid.New()

	t.Run("label addressing", func(t *testing.T) {
		key, err := ResolveVariantKey("", "Small - Blue", true)
		require.NoError(t, err)
		assert.Equal(t, "inventory:product:"+productID.String()+":label:Small - Blue", key.CacheKey(productID))
	})

	t.Run("variant id addressing", func(t *testing.T) {
		key, err := ResolveVariantKey("var-small", "", false)
		require.NoError(t, err)
		assert.Equal(t, "inventory:product:"+productID.String()+":var-small", key.CacheKey(productID))
	})
}

func TestCacheKeysForVariant(t *testing.T) {
	productID := uuid.New()
	prefix := "inventory:product:" + productID.String()

	t.Run("returns both key shapes when both addresses exist", func(t *testing.T) {
		keys := CacheKeysForVariant(productID, "var-small", "Small - Blue")
		assert.ElementsMatch(t, []string{prefix + ":var-small", prefix + ":label:Small - Blue"}, keys)
	})

	t.Run("omits label shape when label is empty", func(t *testing.T) {
		keys := CacheKeysForVariant(productID, "var-small", "")
		assert.Equal(t, []string{prefix + ":var-small"}, keys)
	})

	t.Run("omits variant id shape when id is empty", func(t *testing.T) {
		keys := CacheKeysForVariant(productID, "", "Small - Blue")
		assert.Equal(t, []string{prefix + ":label:Small - Blue"}, keys)
	})
}
