package inventory

import (
	"github.com/google/uuid"

	"github.com/shopadmin/backend/internal/domain/catalog"
	"github.com/shopadmin/backend/internal/domain/shared"
)

// FlagGate resolves which variant addressing scheme is active. It is read at
// the start of every inventory operation so a flag flip takes effect on the
// next request without a restart.
type FlagGate interface {
	IsLabelModeEnabled() bool
}

// VariantKey is the resolved address of a variant for one operation: the
// single match predicate to query with and the cache key suffix that encodes
// the addressing scheme used.
type VariantKey struct {
	Match       catalog.VariantMatch
	CacheSuffix string
}

// ResolveVariantKey decides how a variant is addressed for the current call.
//
// With label mode on, a supplied label wins and keys the cache under
// ":label:<label>"; without a label the call falls back to the opaque
// variant id, behaving exactly like label mode off. With label mode off the
// label is ignored entirely: it must not appear in the match predicate nor
// in the cache key, so the two schemes can never collide mid-migration.
func ResolveVariantKey(variantID, label string, labelMode bool) (VariantKey, error) {
	if labelMode && label != "" {
		return VariantKey{
			Match:       catalog.VariantMatch{Field: catalog.MatchByLabel, Value: label},
			CacheSuffix: ":label:" + label,
		}, nil
	}
	if variantID == "" {
		return VariantKey{}, shared.ErrAddressing
	}
	return VariantKey{
		Match:       catalog.VariantMatch{Field: catalog.MatchByVariantID, Value: variantID},
		CacheSuffix: ":" + variantID,
	}, nil
}

// CacheKey builds the cache entry key for a product under this addressing.
// The grammar "inventory:product:<id>" plus the suffix is a compatibility
// contract with external cache inspection tooling; no other shape is valid.
func (k VariantKey) CacheKey(productID uuid.UUID) string {
	return "inventory:product:" + productID.String() + k.CacheSuffix
}

// CacheKeysForVariant returns every cache key shape a variant can be stored
// under. Mutations invalidate all of them, because the writer cannot know
// which addressing scheme the next reader will use.
func CacheKeysForVariant(productID uuid.UUID, variantID, label string) []string {
	prefix := "inventory:product:" + productID.String()
	keys := make([]string, 0, 2)
	if variantID != "" {
		keys = append(keys, prefix+":"+variantID)
	}
	if label != "" {
		keys = append(keys, prefix+":label:"+label)
	}
	return keys
}
